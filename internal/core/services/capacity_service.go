package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
	"github.com/crewpulse/workload-backend/internal/infrastructure/cache"
	"github.com/crewpulse/workload-backend/internal/infrastructure/metrics"
)

// CapacityService resolves capacity profiles from the ticket source and team
// directory, memoizes them in the profile cache, and records workload events.
type CapacityService struct {
	tickets   ports.TicketSource
	directory ports.TeamDirectory
	events    ports.WorkloadEventStore
	cache     *cache.ProfileCache
	metrics   *metrics.EngineMetrics
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.CapacityService = (*CapacityService)(nil)

// NewCapacityService creates a new capacity service. The cache is injected
// explicitly; there is no ambient global state.
func NewCapacityService(
	tickets ports.TicketSource,
	directory ports.TeamDirectory,
	events ports.WorkloadEventStore,
	profileCache *cache.ProfileCache,
	engineMetrics *metrics.EngineMetrics,
	logger *slog.Logger,
) *CapacityService {
	return &CapacityService{
		tickets:   tickets,
		directory: directory,
		events:    events,
		cache:     profileCache,
		metrics:   engineMetrics,
		logger:    logger.With("service", "capacity"),
		now:       time.Now,
	}
}

// WithClock overrides the service's time source. Used by tests.
func (s *CapacityService) WithClock(now func() time.Time) *CapacityService {
	s.now = now
	return s
}

// GetCapacityProfile returns the member's capacity profile, from cache when
// fresh, otherwise recomputed from the collaborators. A member unknown to the
// directory gets a synthesized default profile; a collaborator failure
// surfaces as ErrWorkloadDataUnavailable.
func (s *CapacityService) GetCapacityProfile(ctx context.Context, userID, teamID string) (*domain.CapacityProfile, error) {
	if userID == "" {
		return nil, apperrors.ErrUserIDRequired
	}
	if teamID == "" {
		return nil, apperrors.ErrTeamIDRequired
	}

	if cached, ok := s.cache.Get(userID, teamID); ok {
		s.metrics.ProfileCacheHits.Inc()
		return &cached, nil
	}
	s.metrics.ProfileCacheMisses.Inc()

	member, err := s.resolveMember(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	load, err := s.tickets.GetMemberWorkload(ctx, userID, teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: ticket source: %v", apperrors.ErrWorkloadDataUnavailable, err)
	}

	profile := domain.NewCapacityProfile(teamID, member, *load, s.now())
	s.cache.Put(userID, teamID, profile)

	s.logger.DebugContext(ctx, "capacity profile computed",
		"user_id", userID,
		"team_id", teamID,
		"utilization", profile.CapacityUtilization,
		"status", profile.WorkloadStatus,
	)
	return &profile, nil
}

// UpdateMemberWorkload invalidates the member's cached profile and appends a
// workload-delta record to the persistence collaborator.
func (s *CapacityService) UpdateMemberWorkload(ctx context.Context, params ports.UpdateWorkloadParams) error {
	event, err := domain.NewWorkloadEvent(domain.WorkloadEventParams{
		UserID:         params.UserID,
		TeamID:         params.TeamID,
		TicketKey:      params.TicketKey,
		Action:         params.Action,
		StoryPoints:    params.StoryPoints,
		EstimatedHours: params.EstimatedHours,
	}, s.now())
	if err != nil {
		return err
	}

	// The cached profile is stale the moment the workload changes, whether or
	// not the event makes it to the store.
	s.cache.Invalidate(params.UserID, params.TeamID)

	if err := s.events.AppendWorkloadEvent(ctx, event); err != nil {
		return fmt.Errorf("%w: event store: %v", apperrors.ErrWorkloadDataUnavailable, err)
	}

	s.metrics.WorkloadEventsTotal.WithLabelValues(string(params.Action)).Inc()
	s.logger.InfoContext(ctx, "workload event recorded",
		"user_id", params.UserID,
		"team_id", params.TeamID,
		"ticket_key", params.TicketKey,
		"action", params.Action,
	)
	return nil
}

// ListWorkloadEvents returns the member's most recent workload events.
func (s *CapacityService) ListWorkloadEvents(ctx context.Context, userID, teamID string, limit int) ([]*domain.WorkloadEvent, error) {
	events, err := s.events.ListWorkloadEvents(ctx, userID, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: event store: %v", apperrors.ErrWorkloadDataUnavailable, err)
	}
	return events, nil
}

// resolveMember looks the member up in the directory, falling back to the
// synthesized default profile for members the directory has never seen.
func (s *CapacityService) resolveMember(ctx context.Context, userID, teamID string) (domain.MemberProfile, error) {
	member, err := s.directory.GetMemberProfile(ctx, userID, teamID)
	if errors.Is(err, apperrors.ErrMemberNotFound) {
		s.logger.DebugContext(ctx, "member unknown to directory, using default profile",
			"user_id", userID,
			"team_id", teamID,
		)
		return domain.DefaultMemberProfile(userID), nil
	}
	if err != nil {
		return domain.MemberProfile{}, fmt.Errorf("%w: team directory: %v", apperrors.ErrWorkloadDataUnavailable, err)
	}
	return *member, nil
}
