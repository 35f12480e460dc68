package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solana-wallet-sentry/internal/domain"
)

// DiscordNotifier delivers alerts to a Discord channel via webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a Discord webhook notifier. A nil client falls
// back to a default with a sane timeout.
func NewDiscordNotifier(webhookURL string, client *http.Client) *DiscordNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &DiscordNotifier{webhookURL: webhookURL, client: client}
}

func (n *DiscordNotifier) Name() string { return "discord" }

type discordPayload struct {
	Content string `json:"content"`
}

// Notify posts the alert as a plain-text webhook message.
func (n *DiscordNotifier) Notify(ctx context.Context, alert *domain.Alert) error {
	body, err := json.Marshal(discordPayload{Content: BuildPlainMessage(alert)})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Notifier = (*DiscordNotifier)(nil)
