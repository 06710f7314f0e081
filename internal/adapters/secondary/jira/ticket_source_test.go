package jira

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSource(t *testing.T, handler http.HandlerFunc) *TicketSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTicketSource(Config{
		BaseURL:  server.URL,
		Email:    "bot@example.com",
		APIToken: "token",
		Timeout:  2 * time.Second,
	}, testLogger())
}

func TestTicketSource_GetMemberWorkload(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("jql"), `assignee = "alice"`)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "bot@example.com", user)
		assert.Equal(t, "token", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 3,
			"issues": [
				{
					"key": "PROJ-1",
					"fields": {
						"priority": {"name": "Highest"},
						"duedate": "2020-01-01",
						"timeoriginalestimate": 14400,
						"customfield_10016": 5
					}
				},
				{
					"key": "PROJ-2",
					"fields": {
						"priority": {"name": "Medium"},
						"timeoriginalestimate": 7200,
						"customfield_10016": 3
					}
				},
				{
					"key": "PROJ-3",
					"fields": {
						"priority": {"name": "Low"}
					}
				}
			]
		}`))
	})

	workload, err := source.GetMemberWorkload(context.Background(), "alice", "team-a")
	require.NoError(t, err)

	assert.Equal(t, 3, workload.ActiveTickets)
	assert.Equal(t, 8, workload.TotalStoryPoints)
	assert.InDelta(t, 6.0, workload.EstimatedHours, 0.001)
	assert.Equal(t, 1, workload.HighPriorityTickets)
	assert.Equal(t, 1, workload.OverdueTickets)
}

func TestTicketSource_UnknownMemberYieldsZeroWorkload(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 0, "issues": []}`))
	})

	workload, err := source.GetMemberWorkload(context.Background(), "stranger", "team-a")
	require.NoError(t, err)
	assert.Zero(t, workload.ActiveTickets)
	assert.Zero(t, workload.TotalStoryPoints)
	assert.Zero(t, workload.EstimatedHours)
}

func TestTicketSource_AuthFailure(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := source.GetMemberWorkload(context.Background(), "alice", "team-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestTicketSource_ServerError(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := source.GetMemberWorkload(context.Background(), "alice", "team-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestIsHighPriorityNames(t *testing.T) {
	for _, name := range []string{"Highest", "high", "CRITICAL", "Blocker", "urgent"} {
		assert.True(t, isHighPriority(name), name)
	}
	for _, name := range []string{"Medium", "Low", "Lowest", ""} {
		assert.False(t, isHighPriority(name), name)
	}
}
