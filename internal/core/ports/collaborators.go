package ports

import (
	"context"

	"github.com/crewpulse/workload-backend/internal/core/domain"
)

// TicketSource supplies raw per-member workload snapshots. The engine never
// fetches ticket data on its own; production wires a Jira-backed client,
// tests wire fakes. An unknown member yields a zero workload, not an error.
type TicketSource interface {
	GetMemberWorkload(ctx context.Context, userID, teamID string) (*domain.MemberWorkload, error)
}

// TeamDirectory supplies team rosters and per-member attributes (skills,
// preferences, velocity, limits). GetMemberProfile returns
// apperrors.ErrMemberNotFound for an unknown member so callers can
// synthesize a default profile.
type TeamDirectory interface {
	ListTeamMembers(ctx context.Context, teamID string) ([]domain.MemberProfile, error)
	GetMemberProfile(ctx context.Context, userID, teamID string) (*domain.MemberProfile, error)
}

// WorkloadEventStore is the persistence collaborator: an append-only log of
// workload-changing events.
type WorkloadEventStore interface {
	AppendWorkloadEvent(ctx context.Context, event *domain.WorkloadEvent) error
	ListWorkloadEvents(ctx context.Context, userID, teamID string, limit int) ([]*domain.WorkloadEvent, error)
}

// RiskNotification is the input for dispatching an early-warning message.
type RiskNotification struct {
	UserID    string
	TeamID    string
	TicketKey string
	Level     domain.RiskLevel
	Score     int
}

// RiskNotifier dispatches early-warning notifications. Implementations own
// their formatting and delivery; the engine only hands over the assessment.
type RiskNotifier interface {
	NotifyRisk(ctx context.Context, params RiskNotification)
}

// AlertBroadcaster pushes distribution alerts to live dashboard clients.
type AlertBroadcaster interface {
	Broadcast(event domain.DistributionAlertEvent) error
}
