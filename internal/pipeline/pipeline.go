package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/remotepulse/remotepulse/internal/currency"
	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/model"
	"github.com/remotepulse/remotepulse/internal/stats"
)

// Source is one named job board and the fetcher that reads it.
type Source struct {
	Name    string
	Fetcher model.JobFetcher
}

// Batch is what one source yielded in a run. A failed source has Err set
// and no jobs.
type Batch struct {
	Source string
	Jobs   []model.Job
	Err    error
}

// Tables names the two append-only destinations of a run.
type Tables struct {
	Listings   string
	Statistics string
}

// Result summarizes a finished run.
type Result struct {
	Target   time.Time
	Batches  []Batch
	Kept     int
	Records  []model.CanonicalRecord
	Snapshot model.StatisticsSnapshot
}

// Collect fetches every source concurrently and waits for all of them.
// A source that fails is logged and contributes an empty batch; it never
// cancels the others. Batches come back in source order.
func Collect(ctx context.Context, sources []Source, target time.Time, logger *slog.Logger) []Batch {
	batches := make([]Batch, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			jobs, err := src.Fetcher.FetchJobs(ctx, target)
			if err != nil {
				logger.Warn("source failed, continuing without it",
					"source", src.Name,
					"error", err,
				)
				batches[i] = Batch{Source: src.Name, Err: err}
				return nil
			}
			logger.Debug("source fetched", "source", src.Name, "fetched", len(jobs))
			batches[i] = Batch{Source: src.Name, Jobs: jobs}
			return nil
		})
	}
	_ = g.Wait()

	return batches
}

// Merge concatenates batches in order.
func Merge(batches []Batch) []model.Job {
	var n int
	for _, b := range batches {
		n += len(b.Jobs)
	}
	merged := make([]model.Job, 0, n)
	for _, b := range batches {
		merged = append(merged, b.Jobs...)
	}
	return merged
}

// Canonicalize parses each job's date and converts its salary to euros.
// Values that cannot be represented become nil; no job is dropped.
func Canonicalize(jobs []model.Job, n *currency.Normalizer) []model.CanonicalRecord {
	records := make([]model.CanonicalRecord, 0, len(jobs))
	for _, j := range jobs {
		r := model.CanonicalRecord{
			Title:       j.Title,
			CompanyName: j.CompanyName,
			URL:         j.URL,
			JobType:     j.JobType,
			Location:    j.Location,
			SalaryRange: n.ConvertPtr(j.SalaryRange),
		}
		if day, ok := filter.ParseDate(j.Date); ok {
			r.Date = &day
		}
		records = append(records, r)
	}
	return records
}

// Persist appends the listings and then the snapshot row.
func Persist(ctx context.Context, sink model.Sink, tables Tables, records []model.CanonicalRecord, snap model.StatisticsSnapshot) error {
	if err := sink.Append(ctx, tables.Listings, model.ListingsTable(records)); err != nil {
		return fmt.Errorf("appending to %s: %w", tables.Listings, err)
	}
	if err := sink.Append(ctx, tables.Statistics, model.StatisticsTable(snap)); err != nil {
		return fmt.Errorf("appending to %s: %w", tables.Statistics, err)
	}
	return nil
}

// Options wires a Pipeline. Notifier may be nil.
type Options struct {
	Sources    []Source
	Normalizer *currency.Normalizer
	Category   model.RecordFilter
	Remote     model.RecordFilter
	Sink       model.Sink
	Tables     Tables
	Notifier   model.Notifier
	Logger     *slog.Logger
}

// Pipeline runs the daily ETL:
// collect → date filter → canonicalize → aggregate → persist → notify.
type Pipeline struct {
	sources    []Source
	normalizer *currency.Normalizer
	category   model.RecordFilter
	remote     model.RecordFilter
	sink       model.Sink
	tables     Tables
	notifier   model.Notifier
	logger     *slog.Logger
}

// New creates a pipeline from opts.
func New(opts Options) *Pipeline {
	return &Pipeline{
		sources:    opts.Sources,
		normalizer: opts.Normalizer,
		category:   opts.Category,
		remote:     opts.Remote,
		sink:       opts.Sink,
		tables:     opts.Tables,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
	}
}

// Sources returns the configured sources.
func (p *Pipeline) Sources() []Source { return p.sources }

// Build runs every stage up to and including aggregation, without side effects
// beyond fetching.
func (p *Pipeline) Build(ctx context.Context, target time.Time) Result {
	batches := Collect(ctx, p.sources, target, p.logger)
	merged := Merge(batches)
	kept := filter.ByDate(merged, target)
	records := Canonicalize(kept, p.normalizer)

	label := target.Format(time.DateOnly)
	snap := stats.Aggregate(label, records, p.category, p.remote)

	return Result{
		Target:   target,
		Batches:  batches,
		Kept:     len(kept),
		Records:  records,
		Snapshot: snap,
	}
}

// Run executes one full run for target: build, persist, then notify.
func (p *Pipeline) Run(ctx context.Context, target time.Time) (Result, error) {
	res := p.Build(ctx, target)

	attrs := []any{"target", res.Snapshot.Date}
	for _, b := range res.Batches {
		attrs = append(attrs, b.Source, len(b.Jobs))
	}
	attrs = append(attrs,
		"kept", res.Kept,
		"category", res.Snapshot.CategoryJobCount,
		"remote", res.Snapshot.CategoryRemoteCount,
	)
	p.logger.Info("run built", attrs...)

	if err := Persist(ctx, p.sink, p.tables, res.Records, res.Snapshot); err != nil {
		return res, fmt.Errorf("run %s: persisting: %w", res.Snapshot.Date, err)
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, res.Snapshot); err != nil {
			return res, fmt.Errorf("run %s: notifying: %w", res.Snapshot.Date, err)
		}
	}

	return res, nil
}
