package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/pipeline"
)

// Runner executes one ETL run for a target date.
type Runner interface {
	Run(ctx context.Context, target time.Time) (pipeline.Result, error)
}

// Scheduler triggers the daily run on a cron schedule.
type Scheduler struct {
	runner     Runner
	spec       string
	runOnStart bool
	now        func() time.Time
	logger     *slog.Logger

	mu sync.Mutex // held for the duration of a run
}

// NewScheduler creates a scheduler firing runner on the standard cron spec.
// With runOnStart set, one run happens immediately when Run is called.
func NewScheduler(runner Runner, spec string, runOnStart bool, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		spec:       spec,
		runOnStart: runOnStart,
		now:        time.Now,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled, firing a run on every schedule tick.
// It waits for an in-flight run to finish before returning nil.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.Recover(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling %q: %w", s.spec, err)
	}

	s.logger.Info("starting scheduler", "schedule", s.spec, "run_on_start", s.runOnStart)
	c.Start()

	if s.runOnStart {
		s.runOnce(ctx)
	}

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

// runOnce runs the pipeline for yesterday's date. Overlapping triggers are
// skipped.
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.mu.TryLock() {
		s.logger.Warn("previous run still in progress, skipping")
		return
	}
	defer s.mu.Unlock()

	target := filter.TargetDate(s.now())
	start := time.Now()
	res, err := s.runner.Run(ctx, target)
	if err != nil {
		s.logger.Error("run failed",
			"target", target.Format(time.DateOnly),
			"error", err,
		)
		return
	}
	s.logger.Info("run complete",
		"target", res.Snapshot.Date,
		"records", len(res.Records),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
