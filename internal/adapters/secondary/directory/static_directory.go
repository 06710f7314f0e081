package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// StaticDirectory is a secondary adapter that serves team rosters from a
// JSON file loaded at startup. It implements the ports.TeamDirectory
// interface. Production deployments point this at an HR-system export;
// the file is never written back.
type StaticDirectory struct {
	mu     sync.RWMutex
	teams  map[string][]domain.MemberProfile
	logger *slog.Logger
}

var _ ports.TeamDirectory = (*StaticDirectory)(nil)

// memberRecord is the on-disk shape of a roster entry.
type memberRecord struct {
	UserID                string   `json:"userId"`
	DisplayName           string   `json:"displayName"`
	SkillAreas            []string `json:"skillAreas"`
	PreferredTicketTypes  []string `json:"preferredTicketTypes"`
	RecentVelocity        float64  `json:"recentVelocity"`
	AverageCompletionTime float64  `json:"averageCompletionTime"`
	QualityScore          float64  `json:"qualityScore"`
	MaxConcurrentTickets  int      `json:"maxConcurrentTickets"`
	WeeklyCapacityHours   float64  `json:"weeklyCapacityHours"`
}

// directoryFile is the top-level on-disk document: team ID to roster.
type directoryFile map[string][]memberRecord

// NewStaticDirectory loads the roster file and builds the directory.
func NewStaticDirectory(path string, logger *slog.Logger) (*StaticDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory file: %w", err)
	}

	var file directoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse directory file: %w", err)
	}

	teams := make(map[string][]domain.MemberProfile, len(file))
	for teamID, records := range file {
		members := make([]domain.MemberProfile, 0, len(records))
		for _, rec := range records {
			members = append(members, rec.toDomain())
		}
		teams[teamID] = members
	}

	logger.Info("team directory loaded",
		"path", path,
		"team_count", len(teams),
	)

	return &StaticDirectory{
		teams:  teams,
		logger: logger.With("component", "static_directory"),
	}, nil
}

// NewStaticDirectoryFromMap builds a directory from an in-memory roster.
// Used by tests and single-team development setups.
func NewStaticDirectoryFromMap(teams map[string][]domain.MemberProfile, logger *slog.Logger) *StaticDirectory {
	return &StaticDirectory{
		teams:  teams,
		logger: logger.With("component", "static_directory"),
	}
}

func (r memberRecord) toDomain() domain.MemberProfile {
	profile := domain.MemberProfile{
		UserID:                r.UserID,
		DisplayName:           r.DisplayName,
		SkillAreas:            r.SkillAreas,
		PreferredTicketTypes:  r.PreferredTicketTypes,
		RecentVelocity:        r.RecentVelocity,
		AverageCompletionTime: r.AverageCompletionTime,
		QualityScore:          r.QualityScore,
		MaxConcurrentTickets:  r.MaxConcurrentTickets,
		WeeklyCapacityHours:   r.WeeklyCapacityHours,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = profile.UserID
	}
	return profile
}

// ListTeamMembers returns the roster for a team.
func (d *StaticDirectory) ListTeamMembers(ctx context.Context, teamID string) ([]domain.MemberProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, ok := d.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTeamNotFound, teamID)
	}

	// Copy so callers cannot mutate the roster.
	out := make([]domain.MemberProfile, len(members))
	copy(out, members)
	return out, nil
}

// GetMemberProfile returns one member's directory attributes.
func (d *StaticDirectory) GetMemberProfile(ctx context.Context, userID, teamID string) (*domain.MemberProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, ok := d.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTeamNotFound, teamID)
	}

	for _, member := range members {
		if member.UserID == userID {
			profile := member
			return &profile, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", apperrors.ErrMemberNotFound, userID)
}
