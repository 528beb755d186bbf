package model

import (
	"context"
	"time"
)

// Job is the canonical posting every source adapter produces. All seven
// fields are always present; a field the source does not carry is "".
type Job struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	URL         string `json:"url"`
	JobType     string `json:"job_type"`     // free text, not an enum
	Location    string `json:"location"`     // free text
	SalaryRange string `json:"salary_range"` // raw text, pre-conversion
	Date        string `json:"date"`         // source-native, pre-parse
}

// CanonicalRecord is a Job after date parsing and currency conversion.
type CanonicalRecord struct {
	Title       string
	CompanyName string
	URL         string
	JobType     string
	Location    string
	SalaryRange *string    // "<min>€ - <max>€" in euros, nil if unrepresentable
	Date        *time.Time // calendar date at UTC midnight, nil if unparseable
}

// StatisticsSnapshot is the single aggregate row produced per run.
// Salary fields are nil when no record in the category carries a salary.
type StatisticsSnapshot struct {
	Date                string
	CategoryJobCount    int
	CategoryRemoteCount int
	MinimumSalary       *float64
	MaximumSalary       *float64
	AverageSalary       *float64
	StandardDeviation   *float64
}

// JobFetcher retrieves one source's postings for the given target date.
// Sources without a server-side date filter ignore target.
type JobFetcher interface {
	FetchJobs(ctx context.Context, target time.Time) ([]Job, error)
}

// Sink appends tabular rows to a named table. There is no update or upsert.
type Sink interface {
	Append(ctx context.Context, table string, data Table) error
	Close() error
}

// Notifier delivers a finished run's snapshot somewhere a human will see it.
type Notifier interface {
	Notify(ctx context.Context, snap StatisticsSnapshot) error
}

// RecordFilter decides whether a canonical record belongs to a subset.
type RecordFilter interface {
	Match(r CanonicalRecord) bool
}
