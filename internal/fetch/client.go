// Package fetch is the thin HTTP GET layer shared by all job-board sources.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/remotepulse/remotepulse/internal/model"
)

// DefaultUserAgent is sent when a Request carries no User-Agent header.
// Some boards reject requests without one.
const DefaultUserAgent = "remotepulse/1.0 (+https://github.com/remotepulse/remotepulse)"

// maxBodyBytes caps a single response body.
const maxBodyBytes = 32 << 20

// Request describes one GET call.
type Request struct {
	URL    string
	Header map[string]string
	Params url.Values
}

// Response is delivered on the channel returned by GetAsync.
type Response struct {
	Body []byte
	Err  error
}

// Client issues GET requests and returns raw payload bytes.
type Client struct {
	http *http.Client
	now  func() time.Time
}

// NewClient wraps httpClient. Timeouts are the caller's responsibility.
func NewClient(httpClient *http.Client) *Client {
	return &Client{http: httpClient, now: time.Now}
}

// Get performs the request and returns the body of a 2xx response. Any other
// status is reported as *model.HTTPError.
func (c *Client) Get(ctx context.Context, r Request) ([]byte, error) {
	target, err := buildURL(r.URL, r.Params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", r.URL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", r.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", r.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			URL:        r.URL,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return body, nil
}

// GetAsync runs Get in its own goroutine. The returned channel receives
// exactly one Response and is then closed.
func (c *Client) GetAsync(ctx context.Context, r Request) <-chan Response {
	ch := make(chan Response, 1)
	go func() {
		defer close(ch)
		body, err := c.Get(ctx, r)
		ch <- Response{Body: body, Err: err}
	}()
	return ch
}

// Probe issues all requests concurrently and reports each one's error
// (nil on success), keyed like the input.
func (c *Client) Probe(ctx context.Context, reqs map[string]Request) map[string]error {
	pending := make(map[string]<-chan Response, len(reqs))
	for name, r := range reqs {
		pending[name] = c.GetAsync(ctx, r)
	}

	results := make(map[string]error, len(reqs))
	for name, ch := range pending {
		resp := <-ch
		results[name] = resp.Err
	}
	return results
}

func buildURL(raw string, params url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
