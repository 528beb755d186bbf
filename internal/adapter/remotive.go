package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/model"
)

// remotiveJob is a single item of the Remotive remote-jobs feed.
type remotiveJob struct {
	Title                     flexString `json:"title"`
	CompanyName               flexString `json:"company_name"`
	URL                       flexString `json:"url"`
	JobType                   flexString `json:"job_type"`
	CandidateRequiredLocation flexString `json:"candidate_required_location"`
	PublicationDate           flexString `json:"publication_date"`
	Salary                    flexString `json:"salary"`
}

// remotivePayload is the top-level Remotive response.
type remotivePayload struct {
	Jobs []remotiveJob `json:"jobs"`
}

// ParseRemotive maps a Remotive payload into canonical jobs.
func ParseRemotive(payload []byte) ([]model.Job, error) {
	var p remotivePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode remotive payload: %w", err)
	}

	jobs := make([]model.Job, 0, len(p.Jobs))
	for _, rj := range p.Jobs {
		jobs = append(jobs, model.Job{
			Title:       string(rj.Title),
			CompanyName: string(rj.CompanyName),
			URL:         string(rj.URL),
			JobType:     string(rj.JobType),
			Location:    string(rj.CandidateRequiredLocation),
			SalaryRange: string(rj.Salary),
			Date:        string(rj.PublicationDate),
		})
	}
	return jobs, nil
}

// RemotiveAdapter fetches the Remotive public feed.
type RemotiveAdapter struct {
	url    string
	client Getter
}

// NewRemotiveAdapter creates an adapter reading from url.
func NewRemotiveAdapter(url string, client Getter) *RemotiveAdapter {
	return &RemotiveAdapter{url: url, client: client}
}

// FetchJobs retrieves the feed. Remotive has no date filter, so target is unused.
func (a *RemotiveAdapter) FetchJobs(ctx context.Context, _ time.Time) ([]model.Job, error) {
	body, err := a.client.Get(ctx, fetch.Request{URL: a.url})
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}
	jobs, err := ParseRemotive(body)
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}
	return jobs, nil
}
