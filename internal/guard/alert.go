package guard

import (
	"context"
	"log/slog"

	"github.com/imroc/req/v3"
)

// Alerter delivers the one-shot circuit-breaker trip notification to a
// configured webhook. An empty URL makes every Fire a silent no-op;
// delivery failure is logged, non-fatal, and not retried.
type Alerter struct {
	client *req.Client
	url    string
	logger *slog.Logger
}

// NewAlerter creates an Alerter posting to url. url may be empty.
func NewAlerter(client *req.Client, url string, logger *slog.Logger) *Alerter {
	return &Alerter{client: client, url: url, logger: logger}
}

// Fire posts a human-readable message to the webhook.
func (a *Alerter) Fire(ctx context.Context, message string) {
	if a == nil || a.url == "" {
		return
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBodyJsonMarshal(map[string]string{"text": message}).
		Post(a.url)
	if err != nil {
		a.logger.Warn("alert webhook delivery failed", "error", err)
		return
	}
	if !resp.IsSuccessState() {
		a.logger.Warn("alert webhook rejected", "status", resp.StatusCode)
	}
}
