package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

const (
	queryAppendWorkloadEvent = `
		INSERT INTO workload_events
			(id, user_id, team_id, ticket_key, action, story_points, estimated_hours, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	queryListWorkloadEvents = `
		SELECT id, user_id, team_id, ticket_key, action, story_points, estimated_hours, occurred_at
		FROM workload_events
		WHERE user_id = $1 AND team_id = $2
		ORDER BY occurred_at DESC, id DESC
		LIMIT $3`
)

// WorkloadEventRepository persists workload events to PostgreSQL.
type WorkloadEventRepository struct {
	pool *pgxpool.Pool
}

var _ ports.WorkloadEventStore = (*WorkloadEventRepository)(nil)

// NewWorkloadEventRepository creates a new workload event repository.
func NewWorkloadEventRepository(pool *pgxpool.Pool) *WorkloadEventRepository {
	return &WorkloadEventRepository{pool: pool}
}

// AppendWorkloadEvent inserts a new event into the append-only log.
func (r *WorkloadEventRepository) AppendWorkloadEvent(ctx context.Context, event *domain.WorkloadEvent) error {
	tag, err := r.pool.Exec(ctx, queryAppendWorkloadEvent,
		event.ID,
		event.UserID,
		event.TeamID,
		event.TicketKey,
		string(event.Action),
		event.StoryPoints,
		event.EstimatedHours,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append workload event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to append workload event: no rows affected")
	}
	return nil
}

// ListWorkloadEvents returns the most recent events for a member, newest first.
func (r *WorkloadEventRepository) ListWorkloadEvents(ctx context.Context, userID, teamID string, limit int) ([]*domain.WorkloadEvent, error) {
	rows, err := r.pool.Query(ctx, queryListWorkloadEvents, userID, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list workload events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.WorkloadEvent, 0)
	for rows.Next() {
		var (
			event  domain.WorkloadEvent
			action string
		)
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.TeamID,
			&event.TicketKey,
			&action,
			&event.StoryPoints,
			&event.EstimatedHours,
			&event.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workload event: %w", err)
		}
		event.Action = domain.WorkloadAction(action)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

// Ping verifies database connectivity for health checks.
func (r *WorkloadEventRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
