package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/model"
)

// findworkJob is one result of the Findwork jobs API. The API carries no
// salary, so salary_range is always left empty.
type findworkJob struct {
	Role           flexString `json:"role"`
	CompanyName    flexString `json:"company_name"`
	URL            flexString `json:"url"`
	EmploymentType flexString `json:"employment_type"`
	Location       flexString `json:"location"`
	DatePosted     flexString `json:"date_posted"`
}

// findworkPayload is the top-level, paginated Findwork response.
type findworkPayload struct {
	Count   int           `json:"count"`
	Results []findworkJob `json:"results"`
}

// ParseFindwork maps a Findwork payload into canonical jobs.
func ParseFindwork(payload []byte) ([]model.Job, error) {
	var p findworkPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode findwork payload: %w", err)
	}

	jobs := make([]model.Job, 0, len(p.Results))
	for _, fj := range p.Results {
		jobs = append(jobs, model.Job{
			Title:       string(fj.Role),
			CompanyName: string(fj.CompanyName),
			URL:         string(fj.URL),
			JobType:     string(fj.EmploymentType),
			Location:    string(fj.Location),
			Date:        string(fj.DatePosted),
		})
	}
	return jobs, nil
}

// FindworkAdapter fetches the Findwork API, which requires a token and
// supports a server-side posting-date filter.
type FindworkAdapter struct {
	url    string
	apiKey string
	client Getter
}

// NewFindworkAdapter creates an adapter authenticating with apiKey.
func NewFindworkAdapter(url, apiKey string, client Getter) *FindworkAdapter {
	return &FindworkAdapter{url: url, apiKey: apiKey, client: client}
}

// FetchJobs asks Findwork for postings dated target.
func (a *FindworkAdapter) FetchJobs(ctx context.Context, target time.Time) ([]model.Job, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("findwork fetch: api key is empty")
	}

	body, err := a.client.Get(ctx, fetch.Request{
		URL:    a.url,
		Header: map[string]string{"Authorization": "Token " + a.apiKey},
		Params: url.Values{"date_posted": {target.Format(time.DateOnly)}},
	})
	if err != nil {
		return nil, fmt.Errorf("findwork fetch: %w", err)
	}
	jobs, err := ParseFindwork(body)
	if err != nil {
		return nil, fmt.Errorf("findwork fetch: %w", err)
	}
	return jobs, nil
}
