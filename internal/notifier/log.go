package notifier

import (
	"context"
	"log/slog"

	"github.com/remotepulse/remotepulse/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes each run's snapshot to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs snapshots via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the snapshot. Salary figures are omitted when absent.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, s model.StatisticsSnapshot) error {
	args := []any{
		"date", s.Date,
		"category_jobs", s.CategoryJobCount,
		"category_remote", s.CategoryRemoteCount,
	}
	for _, f := range []struct {
		key string
		v   *float64
	}{
		{"min_salary", s.MinimumSalary},
		{"max_salary", s.MaximumSalary},
		{"avg_salary", s.AverageSalary},
		{"std_dev", s.StandardDeviation},
	} {
		if f.v != nil {
			args = append(args, f.key, *f.v)
		}
	}
	n.logger.Info("daily snapshot", args...)
	return nil
}
