package adapter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseRemoteOK_SkipsLegalNotice(t *testing.T) {
	payload := `[
		{"last_updated": 1760700000, "legal": "API Terms of Service"},
		{
			"slug": "remote-data-engineer-acme-1",
			"id": "1",
			"epoch": 1760690000,
			"date": "2026-10-17T08:00:00+00:00",
			"company": "Acme",
			"position": "Data Engineer",
			"tags": ["data"],
			"location": "Remote / EU",
			"salary_min": 60000,
			"salary_max": 80000,
			"url": "https://remoteOK.com/remote-jobs/1"
		},
		{
			"date": "2026-10-17T11:30:00+00:00",
			"company": "Beta",
			"position": "Designer",
			"location": "Worldwide",
			"salary_min": 0,
			"salary_max": 90000,
			"url": "https://remoteOK.com/remote-jobs/2"
		},
		{
			"date": "2026-10-16T11:30:00+00:00",
			"company": "Gamma",
			"position": "SRE",
			"salary_min": "",
			"url": "https://remoteOK.com/remote-jobs/3"
		}
	]`

	jobs, err := ParseRemoteOK([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs (legal notice dropped), got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Data Engineer" || j.CompanyName != "Acme" {
		t.Errorf("unexpected title/company: %+v", j)
	}
	if j.JobType != "Remote" {
		t.Errorf("expected synthesized job type Remote, got %q", j.JobType)
	}
	if j.SalaryRange != "60000 - 80000" {
		t.Errorf("expected salary range 60000 - 80000, got %q", j.SalaryRange)
	}
	if j.Location != "Remote / EU" || j.Date != "2026-10-17T08:00:00+00:00" {
		t.Errorf("unexpected location/date: %+v", j)
	}

	// zero lower bound counts as absent
	if jobs[1].SalaryRange != "" {
		t.Errorf("expected empty salary for zero bound, got %q", jobs[1].SalaryRange)
	}
	// missing upper bound
	if jobs[2].SalaryRange != "" {
		t.Errorf("expected empty salary for missing bound, got %q", jobs[2].SalaryRange)
	}
	if jobs[2].Location != "" {
		t.Errorf("expected empty location, got %q", jobs[2].Location)
	}
}

func TestParseRemoteOK_EdgeShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
		wantErr bool
	}{
		{name: "empty array", payload: `[]`, want: 0},
		{name: "only legal notice", payload: `[{"legal": "x"}]`, want: 0},
		{name: "non-object items skipped", payload: `[{"legal": "x"}, 42, {"position": "Dev"}]`, want: 1},
		{name: "object instead of array", payload: `{"jobs": []}`, wantErr: true},
		{name: "malformed json", payload: `[{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := ParseRemoteOK([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(jobs) != tt.want {
				t.Fatalf("expected %d jobs, got %d", tt.want, len(jobs))
			}
		})
	}
}

func TestRemoteOKFetchJobs_NetworkError(t *testing.T) {
	g := &stubGetter{err: errors.New("connection reset")}
	a := NewRemoteOKAdapter("https://remoteok.com/api", g)

	if _, err := a.FetchJobs(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if g.last.URL != "https://remoteok.com/api" {
		t.Errorf("requested URL = %q", g.last.URL)
	}
}
