package ports

import (
	"context"

	"github.com/crewpulse/workload-backend/internal/core/domain"
)

// UpdateWorkloadParams defines the input for recording a workload change.
type UpdateWorkloadParams struct {
	UserID         string
	TeamID         string
	TicketKey      string
	Action         domain.WorkloadAction
	StoryPoints    int
	EstimatedHours float64
}

// CapacityService resolves and maintains per-member capacity profiles.
type CapacityService interface {
	// GetCapacityProfile returns the cached profile for the member, or
	// recomputes it from the ticket source and directory. Unknown members get
	// a synthesized default profile.
	GetCapacityProfile(ctx context.Context, userID, teamID string) (*domain.CapacityProfile, error)

	// UpdateMemberWorkload invalidates the member's cached profile and
	// forwards a workload-delta record to persistence.
	UpdateMemberWorkload(ctx context.Context, params UpdateWorkloadParams) error

	// ListWorkloadEvents returns the member's most recent workload events.
	ListWorkloadEvents(ctx context.Context, userID, teamID string, limit int) ([]*domain.WorkloadEvent, error)
}

// ImpactService evaluates candidate assignments.
type ImpactService interface {
	// AnalyzeAssignment projects an assignment's effect on the assignee,
	// classifies its severity, issues a recommendation and ranks alternative
	// assignees when the verdict is anything but approve. The member's stored
	// profile is never mutated.
	AnalyzeAssignment(ctx context.Context, req domain.AssignmentRequest) (*domain.AssignmentImpactAnalysis, error)
}

// DistributionService aggregates team-level workload statistics.
type DistributionService interface {
	GetTeamDistribution(ctx context.Context, teamID string) (*domain.TeamDistribution, error)
}

// TicketEventParams describes a ticket event arriving on the webhook path.
type TicketEventParams struct {
	UserID    string
	TeamID    string
	TicketKey string
	Priority  string
}

// RiskAssessmentService runs the ticket-signal early-warning path, used when
// no full capacity profile exists yet.
type RiskAssessmentService interface {
	AssessTicketEvent(ctx context.Context, params TicketEventParams) (*domain.RiskAssessment, error)
	Shutdown()
}
