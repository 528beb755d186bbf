package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/remotepulse/remotepulse/internal/fetch"
	"github.com/remotepulse/remotepulse/internal/model"
)

// remoteOKJobType is the job type assigned to every RemoteOK posting.
const remoteOKJobType = "Remote"

// remoteOKItem is one posting in the RemoteOK feed. The feed's first array
// element is a legal notice, not a posting.
type remoteOKItem struct {
	Position  flexString `json:"position"`
	Company   flexString `json:"company"`
	URL       flexString `json:"url"`
	Location  flexString `json:"location"`
	Date      flexString `json:"date"`
	SalaryMin flexString `json:"salary_min"`
	SalaryMax flexString `json:"salary_max"`
}

// ParseRemoteOK maps a RemoteOK payload into canonical jobs. The payload must
// be a JSON array; its first element is discarded. Elements that are not
// objects are skipped.
func ParseRemoteOK(payload []byte) ([]model.Job, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode remoteok payload: %w", err)
	}
	if len(items) <= 1 {
		return []model.Job{}, nil
	}

	jobs := make([]model.Job, 0, len(items)-1)
	for _, raw := range items[1:] {
		var it remoteOKItem
		if err := json.Unmarshal(raw, &it); err != nil {
			continue
		}

		salary := ""
		if truthy(it.SalaryMin) && truthy(it.SalaryMax) {
			salary = fmt.Sprintf("%s - %s", it.SalaryMin, it.SalaryMax)
		}

		jobs = append(jobs, model.Job{
			Title:       string(it.Position),
			CompanyName: string(it.Company),
			URL:         string(it.URL),
			JobType:     remoteOKJobType,
			Location:    string(it.Location),
			SalaryRange: salary,
			Date:        string(it.Date),
		})
	}
	return jobs, nil
}

// RemoteOKAdapter fetches the RemoteOK public API.
type RemoteOKAdapter struct {
	url    string
	client Getter
}

// NewRemoteOKAdapter creates an adapter reading from url.
func NewRemoteOKAdapter(url string, client Getter) *RemoteOKAdapter {
	return &RemoteOKAdapter{url: url, client: client}
}

// FetchJobs retrieves the feed. RemoteOK has no date filter, so target is unused.
func (a *RemoteOKAdapter) FetchJobs(ctx context.Context, _ time.Time) ([]model.Job, error) {
	body, err := a.client.Get(ctx, fetch.Request{URL: a.url})
	if err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}
	jobs, err := ParseRemoteOK(body)
	if err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}
	return jobs, nil
}
