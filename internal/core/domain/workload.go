package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
)

// MemberWorkload is the raw load snapshot supplied by the ticket source.
type MemberWorkload struct {
	ActiveTickets       int
	TotalStoryPoints    int
	EstimatedHours      float64
	HighPriorityTickets int
	OverdueTickets      int
}

// WorkloadAction names the workload-changing events the engine accepts.
type WorkloadAction string

const (
	ActionAssigned  WorkloadAction = "assigned"
	ActionCompleted WorkloadAction = "completed"
	ActionRemoved   WorkloadAction = "removed"
)

// IsValid reports whether the action is one of the three known kinds.
func (a WorkloadAction) IsValid() bool {
	switch a {
	case ActionAssigned, ActionCompleted, ActionRemoved:
		return true
	}
	return false
}

// WorkloadEvent is the append-only record forwarded to persistence whenever a
// member's workload changes.
type WorkloadEvent struct {
	ID             uuid.UUID
	UserID         string
	TeamID         string
	TicketKey      string
	Action         WorkloadAction
	StoryPoints    int
	EstimatedHours float64
	OccurredAt     time.Time
}

// WorkloadEventParams holds the input for recording a workload event.
type WorkloadEventParams struct {
	UserID         string
	TeamID         string
	TicketKey      string
	Action         WorkloadAction
	StoryPoints    int
	EstimatedHours float64
}

// NewWorkloadEvent validates the parameters and builds a workload event.
func NewWorkloadEvent(params WorkloadEventParams, now time.Time) (*WorkloadEvent, error) {
	errs := apperrors.NewValidationErrors()
	if params.UserID == "" {
		errs.Add("userId", "User ID is required")
	}
	if params.TeamID == "" {
		errs.Add("teamId", "Team ID is required")
	}
	if params.TicketKey == "" {
		errs.Add("ticketKey", "Ticket key is required")
	}
	if !params.Action.IsValid() {
		errs.Add("action", "Action must be one of assigned, completed, removed")
	}
	if params.StoryPoints < 0 {
		errs.Add("storyPoints", "Story points cannot be negative")
	}
	if params.EstimatedHours < 0 {
		errs.Add("estimatedHours", "Estimated hours cannot be negative")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	return &WorkloadEvent{
		ID:             uuid.New(),
		UserID:         params.UserID,
		TeamID:         params.TeamID,
		TicketKey:      params.TicketKey,
		Action:         params.Action,
		StoryPoints:    params.StoryPoints,
		EstimatedHours: params.EstimatedHours,
		OccurredAt:     now,
	}, nil
}
