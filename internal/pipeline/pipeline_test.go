package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/remotepulse/remotepulse/internal/currency"
	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/model"
)

// --- Fakes ---

type StaticFetcher struct {
	Jobs []model.Job
	Err  error
}

func (f *StaticFetcher) FetchJobs(_ context.Context, _ time.Time) ([]model.Job, error) {
	return f.Jobs, f.Err
}

// BlockingFetcher waits for release before returning, to prove sources overlap.
type BlockingFetcher struct {
	started chan<- struct{}
	release <-chan struct{}
	jobs    []model.Job
}

func (f *BlockingFetcher) FetchJobs(ctx context.Context, _ time.Time) ([]model.Job, error) {
	f.started <- struct{}{}
	select {
	case <-f.release:
		return f.jobs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type RecordingSink struct {
	mu     sync.Mutex
	Tables map[string][]model.Table
	Err    error
}

func (s *RecordingSink) Append(_ context.Context, table string, data model.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Tables == nil {
		s.Tables = make(map[string][]model.Table)
	}
	s.Tables[table] = append(s.Tables[table], data)
	return nil
}

func (s *RecordingSink) Close() error { return nil }

type RecordingNotifier struct {
	Snapshots []model.StatisticsSnapshot
}

func (n *RecordingNotifier) Notify(_ context.Context, snap model.StatisticsSnapshot) error {
	n.Snapshots = append(n.Snapshots, snap)
	return nil
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var target = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

func posting(title, location, salary, date string) model.Job {
	return model.Job{
		Title:       title,
		CompanyName: "acme",
		URL:         "https://example.com/" + title,
		JobType:     "full_time",
		Location:    location,
		SalaryRange: salary,
		Date:        date,
	}
}

func newPipeline(sources []Source, sink model.Sink, notifier model.Notifier) *Pipeline {
	return New(Options{
		Sources:    sources,
		Normalizer: currency.NewNormalizer(0.85, 1.15),
		Category:   filter.NewTitleContains("data engineering"),
		Remote:     filter.NewRemoteLocation(),
		Sink:       sink,
		Tables:     Tables{Listings: "job_listings", Statistics: "job_statistics"},
		Notifier:   notifier,
		Logger:     discardLogger(),
	})
}

// --- Tests ---

func TestRun_FailedSourceDegradesToEmpty(t *testing.T) {
	sources := []Source{
		{Name: "remotive", Fetcher: &StaticFetcher{Jobs: []model.Job{
			posting("Senior data engineering", "Remote / EU", "$1000 - $2000", "2026-10-17T08:00:00"),
			posting("Old data engineering", "Remote", "", "2026-10-16T08:00:00"),
		}}},
		{Name: "remoteok", Fetcher: &StaticFetcher{Err: errors.New("dial tcp: connection refused")}},
		{Name: "findwork", Fetcher: &StaticFetcher{Jobs: []model.Job{
			posting("Lead data engineering", "Berlin", "", "2026-10-17T23:10:00Z"),
			posting("Designer", "Remote", "£50000", "2026-10-17"),
		}}},
	}
	sink := &RecordingSink{}
	notifier := &RecordingNotifier{}

	res, err := newPipeline(sources, sink, notifier).Run(context.Background(), target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Batches[1].Err == nil || len(res.Batches[1].Jobs) != 0 {
		t.Errorf("remoteok batch = %+v, want error and no jobs", res.Batches[1])
	}
	if got := len(res.Records); got != 3 {
		t.Fatalf("records = %d, want 3", got)
	}
	if res.Snapshot.CategoryJobCount != 2 || res.Snapshot.CategoryRemoteCount != 1 {
		t.Errorf("snapshot counts = %d/%d, want 2/1",
			res.Snapshot.CategoryJobCount, res.Snapshot.CategoryRemoteCount)
	}
	if res.Snapshot.AverageSalary == nil || *res.Snapshot.AverageSalary != 1275 {
		t.Errorf("average salary = %v, want 1275", res.Snapshot.AverageSalary)
	}

	if got := sink.Tables["job_listings"][0].Len(); got != 3 {
		t.Errorf("listings rows = %d, want 3", got)
	}
	if got := sink.Tables["job_statistics"][0].Len(); got != 1 {
		t.Errorf("statistics rows = %d, want 1", got)
	}
	if len(notifier.Snapshots) != 1 || notifier.Snapshots[0].Date != "2026-10-17" {
		t.Errorf("notified = %+v", notifier.Snapshots)
	}
}

func TestRun_AllSourcesFail(t *testing.T) {
	sources := []Source{
		{Name: "a", Fetcher: &StaticFetcher{Err: errors.New("boom")}},
		{Name: "b", Fetcher: &StaticFetcher{Err: errors.New("boom")}},
	}
	sink := &RecordingSink{}

	res, err := newPipeline(sources, sink, nil).Run(context.Background(), target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Snapshot.CategoryJobCount != 0 || res.Snapshot.MinimumSalary != nil {
		t.Errorf("snapshot = %+v, want zero counts and nil salaries", res.Snapshot)
	}
	if got := sink.Tables["job_statistics"][0].Len(); got != 1 {
		t.Errorf("statistics rows = %d, want 1", got)
	}
}

func TestRun_PersistErrorSkipsNotify(t *testing.T) {
	sink := &RecordingSink{Err: errors.New("disk full")}
	notifier := &RecordingNotifier{}

	_, err := newPipeline(nil, sink, notifier).Run(context.Background(), target)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(notifier.Snapshots) != 0 {
		t.Error("notifier should not be called when persistence fails")
	}
}

func TestCollect_SourcesRunConcurrently(t *testing.T) {
	started := make(chan struct{}, 3)
	release := make(chan struct{})
	var sources []Source
	for _, name := range []string{"a", "b", "c"} {
		sources = append(sources, Source{Name: name, Fetcher: &BlockingFetcher{
			started: started,
			release: release,
			jobs:    []model.Job{{Title: name}},
		}})
	}

	done := make(chan []Batch)
	go func() { done <- Collect(context.Background(), sources, target, discardLogger()) }()

	for range 3 {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("sources did not start concurrently")
		}
	}
	close(release)

	batches := <-done
	merged := Merge(batches)
	if len(merged) != 3 {
		t.Fatalf("merged = %d, want 3", len(merged))
	}
	for i, want := range []string{"a", "b", "c"} {
		if merged[i].Title != want {
			t.Errorf("merged[%d] = %q, want %q", i, merged[i].Title, want)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	n := currency.NewNormalizer(0.85, 1.15)
	jobs := []model.Job{
		posting("a", "", "$100,000 - $120,000", "2026-10-17T10:00:00+02:00"),
		posting("b", "", "Competitive", "not a date"),
	}

	records := Canonicalize(jobs, n)

	if records[0].SalaryRange == nil || *records[0].SalaryRange != "85000.00€ - 102000.00€" {
		t.Errorf("salary = %v", records[0].SalaryRange)
	}
	if records[0].Date == nil || !records[0].Date.Equal(target) {
		t.Errorf("date = %v, want %v", records[0].Date, target)
	}
	if records[1].SalaryRange != nil || records[1].Date != nil {
		t.Errorf("record b = %+v, want nil salary and date", records[1])
	}
	if jobs[0].SalaryRange != "$100,000 - $120,000" {
		t.Error("input jobs must not be modified")
	}
}
