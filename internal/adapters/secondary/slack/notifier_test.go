package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWebhookNotifier_NotifyRisk(t *testing.T) {
	received := make(chan message, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var msg message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(Config{
		WebhookURL: server.URL,
		Channel:    "#workload-alerts",
		Timeout:    2 * time.Second,
	}, testLogger())

	notifier.NotifyRisk(context.Background(), ports.RiskNotification{
		UserID:    "alice",
		TeamID:    "team-a",
		TicketKey: "PROJ-42",
		Level:     domain.RiskCritical,
		Score:     11,
	})

	select {
	case msg := <-received:
		assert.Equal(t, "#workload-alerts", msg.Channel)
		assert.Contains(t, msg.Text, "CRITICAL")
		assert.Contains(t, msg.Text, "alice")
		assert.Contains(t, msg.Text, "PROJ-42")
		assert.Contains(t, msg.Text, "score 11")
	case <-time.After(time.Second):
		t.Fatal("webhook was never called")
	}
}

func TestWebhookNotifier_MissingURLDoesNotPanic(t *testing.T) {
	notifier := NewWebhookNotifier(Config{}, testLogger())

	notifier.NotifyRisk(context.Background(), ports.RiskNotification{
		UserID: "alice",
		TeamID: "team-a",
		Level:  domain.RiskHigh,
	})
}

func TestWebhookNotifier_ServerFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(Config{WebhookURL: server.URL}, testLogger())

	notifier.NotifyRisk(context.Background(), ports.RiskNotification{
		UserID: "bob",
		TeamID: "team-a",
		Level:  domain.RiskHigh,
	})
}

func TestFormatRiskMessage_WithoutTicketKey(t *testing.T) {
	text := formatRiskMessage(ports.RiskNotification{
		UserID: "carol",
		TeamID: "team-b",
		Level:  domain.RiskModerate,
		Score:  4,
	})

	assert.Contains(t, text, "MODERATE")
	assert.NotContains(t, text, "triggered by")
}
