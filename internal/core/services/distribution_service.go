package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// DistributionService aggregates the whole team's capacity profiles into
// distribution statistics and pushes alerts to live dashboard clients.
type DistributionService struct {
	capacity    ports.CapacityService
	directory   ports.TeamDirectory
	broadcaster ports.AlertBroadcaster
	logger      *slog.Logger
	now         func() time.Time
}

var _ ports.DistributionService = (*DistributionService)(nil)

// NewDistributionService creates a new distribution service. The broadcaster
// may be nil when no live dashboard is wired.
func NewDistributionService(
	capacity ports.CapacityService,
	directory ports.TeamDirectory,
	broadcaster ports.AlertBroadcaster,
	logger *slog.Logger,
) *DistributionService {
	return &DistributionService{
		capacity:    capacity,
		directory:   directory,
		broadcaster: broadcaster,
		logger:      logger.With("service", "distribution"),
		now:         time.Now,
	}
}

// WithClock overrides the service's time source. Used by tests.
func (s *DistributionService) WithClock(now func() time.Time) *DistributionService {
	s.now = now
	return s
}

// GetTeamDistribution computes team-level workload statistics. A team with no
// members yields a zero-valued distribution, not an error.
func (s *DistributionService) GetTeamDistribution(ctx context.Context, teamID string) (*domain.TeamDistribution, error) {
	if teamID == "" {
		return nil, apperrors.ErrTeamIDRequired
	}

	members, err := s.directory.ListTeamMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: team directory: %v", apperrors.ErrWorkloadDataUnavailable, err)
	}

	profiles := make([]domain.CapacityProfile, 0, len(members))
	for _, member := range members {
		profile, err := s.capacity.GetCapacityProfile(ctx, member.UserID, teamID)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping member with unavailable workload",
				"user_id", member.UserID,
				"team_id", teamID,
				"error", err,
			)
			continue
		}
		profiles = append(profiles, *profile)
	}

	dist := domain.NewTeamDistribution(teamID, profiles, s.now())

	if len(dist.Alerts) > 0 && s.broadcaster != nil {
		event := domain.DistributionAlertEvent{
			TeamID:             dist.TeamID,
			Alerts:             dist.Alerts,
			UtilizationAverage: dist.UtilizationAverage,
			OverloadedMembers:  dist.OverloadedMembers,
			GeneratedAt:        dist.GeneratedAt,
		}
		if err := s.broadcaster.Broadcast(event); err != nil {
			s.logger.WarnContext(ctx, "failed to broadcast distribution alerts",
				"team_id", teamID,
				"error", err,
			)
		}
	}

	return &dist, nil
}
