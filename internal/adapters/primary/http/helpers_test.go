package http

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewpulse/workload-backend/internal/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-handler-tests", time.Hour)
}

func bearerToken(t *testing.T, tm *auth.TokenManager) string {
	t.Helper()
	token, err := tm.GenerateToken("dashboard", "team-a")
	require.NoError(t, err)
	return "Bearer " + token
}
