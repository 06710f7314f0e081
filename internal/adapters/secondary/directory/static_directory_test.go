package directory

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRosterFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directory.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestStaticDirectory_LoadAndList(t *testing.T) {
	path := writeRosterFile(t, `{
		"team-a": [
			{
				"userId": "alice",
				"displayName": "Alice",
				"skillAreas": ["backend", "sql"],
				"preferredTicketTypes": ["bug"],
				"recentVelocity": 10,
				"qualityScore": 0.9,
				"maxConcurrentTickets": 6,
				"weeklyCapacityHours": 40
			},
			{"userId": "bob"}
		]
	}`)

	dir, err := NewStaticDirectory(path, testLogger())
	require.NoError(t, err)

	members, err := dir.ListTeamMembers(context.Background(), "team-a")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].UserID)
	assert.Equal(t, []string{"backend", "sql"}, members[0].SkillAreas)

	// Display name falls back to the user ID
	assert.Equal(t, "bob", members[1].DisplayName)
}

func TestStaticDirectory_GetMemberProfile(t *testing.T) {
	path := writeRosterFile(t, `{
		"team-a": [{"userId": "alice", "recentVelocity": 12, "maxConcurrentTickets": 4}]
	}`)

	dir, err := NewStaticDirectory(path, testLogger())
	require.NoError(t, err)

	profile, err := dir.GetMemberProfile(context.Background(), "alice", "team-a")
	require.NoError(t, err)
	assert.InDelta(t, 12.0, profile.RecentVelocity, 0.001)
	assert.Equal(t, 4, profile.MaxConcurrentTickets)
}

func TestStaticDirectory_UnknownMember(t *testing.T) {
	path := writeRosterFile(t, `{"team-a": [{"userId": "alice"}]}`)

	dir, err := NewStaticDirectory(path, testLogger())
	require.NoError(t, err)

	_, err = dir.GetMemberProfile(context.Background(), "stranger", "team-a")
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)
}

func TestStaticDirectory_UnknownTeam(t *testing.T) {
	path := writeRosterFile(t, `{"team-a": []}`)

	dir, err := NewStaticDirectory(path, testLogger())
	require.NoError(t, err)

	_, err = dir.ListTeamMembers(context.Background(), "team-z")
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)

	_, err = dir.GetMemberProfile(context.Background(), "alice", "team-z")
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
}

func TestStaticDirectory_MalformedFile(t *testing.T) {
	path := writeRosterFile(t, `not-json`)

	_, err := NewStaticDirectory(path, testLogger())
	assert.Error(t, err)
}

func TestStaticDirectory_MissingFile(t *testing.T) {
	_, err := NewStaticDirectory(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	assert.Error(t, err)
}
