package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/ports"
	"github.com/crewpulse/workload-backend/internal/infrastructure/metrics"
)

// ImpactService evaluates candidate assignments against the assignee's
// current capacity and, when the verdict is anything but approve, ranks the
// rest of the team as substitutes.
type ImpactService struct {
	capacity  ports.CapacityService
	directory ports.TeamDirectory
	metrics   *metrics.EngineMetrics
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.ImpactService = (*ImpactService)(nil)

// NewImpactService creates a new impact service.
func NewImpactService(
	capacity ports.CapacityService,
	directory ports.TeamDirectory,
	engineMetrics *metrics.EngineMetrics,
	logger *slog.Logger,
) *ImpactService {
	return &ImpactService{
		capacity:  capacity,
		directory: directory,
		metrics:   engineMetrics,
		logger:    logger.With("service", "impact"),
		now:       time.Now,
	}
}

// WithClock overrides the service's time source. Used by tests.
func (s *ImpactService) WithClock(now func() time.Time) *ImpactService {
	s.now = now
	return s
}

// AnalyzeAssignment runs the full impact pipeline: projection, severity,
// warnings, skill match, recommendation, alternatives and team impact. The
// assignee's stored profile is never mutated; callers apply the
// recommendation and persist separately.
func (s *ImpactService) AnalyzeAssignment(ctx context.Context, req domain.AssignmentRequest) (*domain.AssignmentImpactAnalysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := s.now()
	profile, err := s.capacity.GetCapacityProfile(ctx, req.AssigneeID, req.TeamID)
	if err != nil {
		return nil, err
	}

	projectedUtilization := domain.ProjectUtilization(*profile, req.EstimatedHours)
	projectedStatus := domain.StatusForUtilization(projectedUtilization)
	severity := domain.SeverityFor(projectedStatus, projectedUtilization)
	skillMatch := domain.SkillMatchScore(*profile, req.Metadata)
	recommendation := domain.Recommend(projectedStatus, severity, skillMatch)

	analysis := &domain.AssignmentImpactAnalysis{
		Profile:                 *profile,
		ProjectedUtilization:    projectedUtilization,
		ProjectedStatus:         projectedStatus,
		ProjectedCompletionDate: domain.ProjectCompletionDate(*profile, req.StoryPoints, req.EstimatedHours, start),
		ImpactSeverity:          severity,
		CapacityWarnings:        domain.BuildCapacityWarnings(*profile, projectedUtilization, projectedStatus),
		SkillMatchScore:         skillMatch,
		Recommendation:          recommendation,
		AnalyzedAt:              start,
	}

	team := s.teamProfiles(ctx, req.TeamID)
	if recommendation.NeedsAlternatives() {
		analysis.AlternativeAssignees = domain.RankAlternatives(team, req.AssigneeID, req.Metadata, req.EstimatedHours)
	}
	analysis.TeamImpact = domain.AssessTeamImpact(team, req.AssigneeID, req.StoryPoints)

	s.metrics.AnalysesTotal.WithLabelValues(string(recommendation)).Inc()
	s.metrics.AnalysisDuration.Observe(s.now().Sub(start).Seconds())

	s.logger.InfoContext(ctx, "assignment analyzed",
		"ticket_key", req.TicketKey,
		"assignee_id", req.AssigneeID,
		"team_id", req.TeamID,
		"projected_utilization", projectedUtilization,
		"severity", severity,
		"recommendation", recommendation,
		"alternatives", len(analysis.AlternativeAssignees),
	)
	return analysis, nil
}

// teamProfiles resolves capacity profiles for the whole team. Members whose
// data cannot be resolved are skipped rather than failing the analysis; the
// team statistics degrade instead of the request erroring out.
func (s *ImpactService) teamProfiles(ctx context.Context, teamID string) []domain.CapacityProfile {
	members, err := s.directory.ListTeamMembers(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "team roster unavailable, skipping team context",
			"team_id", teamID,
			"error", err,
		)
		return nil
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
	return profiles
}
