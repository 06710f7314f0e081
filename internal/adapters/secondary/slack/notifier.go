package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// WebhookNotifier is a secondary adapter that posts risk warnings to a
// Slack incoming webhook. It implements the ports.RiskNotifier interface.
type WebhookNotifier struct {
	webhookURL string
	channel    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.RiskNotifier = (*WebhookNotifier)(nil)

// Config holds the settings for the Slack notifier.
type Config struct {
	WebhookURL string
	Channel    string
	Timeout    time.Duration
}

// NewWebhookNotifier creates a new Slack webhook notifier.
func NewWebhookNotifier(cfg Config, logger *slog.Logger) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &WebhookNotifier{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "slack_notifier"),
	}
}

// message is the Slack incoming webhook payload.
type message struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// NotifyRisk posts a risk warning to the configured channel. Delivery is
// best-effort; failures are logged, never propagated.
func (n *WebhookNotifier) NotifyRisk(ctx context.Context, params ports.RiskNotification) {
	if n.webhookURL == "" {
		n.logger.Warn("slack webhook not configured, dropping risk notification",
			"user_id", params.UserID,
			"level", params.Level,
		)
		return
	}

	payload := message{
		Channel: n.channel,
		Text:    formatRiskMessage(params),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("failed to marshal slack message", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to build slack request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("failed to post slack notification",
			"user_id", params.UserID,
			"error", err,
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Error("slack webhook rejected notification",
			"user_id", params.UserID,
			"status", resp.StatusCode,
		)
		return
	}

	n.logger.Info("risk notification sent",
		"user_id", params.UserID,
		"team_id", params.TeamID,
		"level", params.Level,
		"score", params.Score,
	)
}

// formatRiskMessage renders the warning text posted to the channel.
func formatRiskMessage(params ports.RiskNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":warning: *%s workload risk* for `%s` on team `%s` (score %d)",
		params.Level, params.UserID, params.TeamID, params.Score)
	if params.TicketKey != "" {
		fmt.Fprintf(&b, " triggered by `%s`", params.TicketKey)
	}
	return b.String()
}
