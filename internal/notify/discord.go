// Package notify sends run summaries to Discord webhooks, one message per
// tier. Nil-safe: an unconfigured notifier is a no-op, never an error.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Discord posts simple content messages to a webhook URL.
type Discord struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

// NewDiscord creates a notifier for a webhook. Returns nil when the URL is
// empty (notifications disabled).
func NewDiscord(webhookURL string, logger *slog.Logger) *Discord {
	if webhookURL == "" {
		return nil
	}
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// RunReady announces a published tier list.
func (d *Discord) RunReady(ctx context.Context, tier, fileName, tabName string, rowCount int, url string) error {
	if d == nil {
		return nil
	}

	content := fmt.Sprintf(
		"**Telesales list ready – %s (%s)**\n📄 **File:** %s\n🗂️ **Tab:** %s\n📊 **Rows:** %d\n%s",
		tabName, tier, fileName, tabName, rowCount, url,
	)

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	d.logger.Info("Discord notification sent", "tier", tier, "rows", rowCount)
	return nil
}
