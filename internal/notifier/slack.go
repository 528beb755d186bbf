package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/remotepulse/remotepulse/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier posts each run's snapshot to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	category   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts snapshots to Slack via webhook.
// category is the tracked title phrase, shown in the message header.
func NewSlackNotifier(webhookURL, category string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		category:   category,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the snapshot as one Block Kit message. A 429 is retried once
// after the advertised Retry-After.
func (s *SlackNotifier) Notify(ctx context.Context, snap model.StatisticsSnapshot) error {
	body, err := json.Marshal(buildPayload(s.category, snap))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(ctx, body)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", int(retryAfter.Seconds()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}

		status, _, err = s.post(ctx, body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack snapshot sent", "date", snap.Date, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack snapshot sent", "date", snap.Date)
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a sample snapshot to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	avg, low, high, sd := 61250.0, 42500.0, 85000.0, 17677.67
	return n.Notify(ctx, model.StatisticsSnapshot{
		Date:                "test",
		CategoryJobCount:    2,
		CategoryRemoteCount: 1,
		MinimumSalary:       &low,
		MaximumSalary:       &high,
		AverageSalary:       &avg,
		StandardDeviation:   &sd,
	})
}

func euros(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f€", *v)
}

func buildPayload(category string, s model.StatisticsSnapshot) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("📊 Remote %s jobs: %s", category, s.Date)},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Postings:*\n%d", s.CategoryJobCount)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Remote:*\n%d", s.CategoryRemoteCount)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Min salary:*\n" + euros(s.MinimumSalary)},
				{Type: "mrkdwn", Text: "*Max salary:*\n" + euros(s.MaximumSalary)},
				{Type: "mrkdwn", Text: "*Average:*\n" + euros(s.AverageSalary)},
				{Type: "mrkdwn", Text: "*Std dev:*\n" + euros(s.StandardDeviation)},
			},
		},
	}

	if s.AverageSalary == nil {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: "No posting in this category carried a salary."}},
		})
	}

	blocks = append(blocks, slackBlock{Type: "divider"})
	return slackPayload{Blocks: blocks}
}
