package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
	"github.com/crewpulse/workload-backend/internal/infrastructure/metrics"
)

// RiskService runs the early-warning path for ticket events: it classifies
// raw ticket signals with the ticket-signal model and dispatches
// notifications for high and critical outcomes. It deliberately does not
// consult capacity profiles; that is the impact analyzer's model.
type RiskService struct {
	tickets  ports.TicketSource
	model    domain.RiskModel
	notifier ports.RiskNotifier
	metrics  *metrics.EngineMetrics
	logger   *slog.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

var _ ports.RiskAssessmentService = (*RiskService)(nil)

// NewRiskService creates a new risk service around the given model.
func NewRiskService(
	tickets ports.TicketSource,
	model domain.RiskModel,
	notifier ports.RiskNotifier,
	engineMetrics *metrics.EngineMetrics,
	logger *slog.Logger,
) *RiskService {
	return &RiskService{
		tickets:  tickets,
		model:    model,
		notifier: notifier,
		metrics:  engineMetrics,
		logger:   logger.With("service", "risk"),
		now:      time.Now,
	}
}

// AssessTicketEvent classifies the member's current ticket signals. Unknown
// members carry zero signals and classify LOW; a ticket source failure
// surfaces as ErrWorkloadDataUnavailable.
func (s *RiskService) AssessTicketEvent(ctx context.Context, params ports.TicketEventParams) (*domain.RiskAssessment, error) {
	if params.UserID == "" {
		return nil, apperrors.ErrUserIDRequired
	}
	if params.TeamID == "" {
		return nil, apperrors.ErrTeamIDRequired
	}

	load, err := s.tickets.GetMemberWorkload(ctx, params.UserID, params.TeamID)
	if err != nil {
		return nil, fmt.Errorf("%w: ticket source: %v", apperrors.ErrWorkloadDataUnavailable, err)
	}

	signals := domain.RiskSignals{
		TicketCount:       load.ActiveTickets,
		StoryPoints:       load.TotalStoryPoints,
		HighPriorityCount: load.HighPriorityTickets,
		OverdueCount:      load.OverdueTickets,
		CapacityUtilization: domain.Utilization(
			load.ActiveTickets, domain.DefaultMaxConcurrentTickets,
			load.EstimatedHours, domain.DefaultWeeklyCapacityHours,
		),
	}
	if isHighPriority(params.Priority) {
		signals.HighPriorityCount++
	}

	assessment := &domain.RiskAssessment{
		UserID:    params.UserID,
		TeamID:    params.TeamID,
		TicketKey: params.TicketKey,
		Model:     s.model.Name(),
		Signals:   signals,
		Level:     s.model.Classify(signals),
	}
	if scorer, ok := s.model.(domain.TicketSignalModel); ok {
		assessment.Score = scorer.Score(signals)
	}

	s.metrics.RiskAssessments.WithLabelValues(assessment.Model, string(assessment.Level)).Inc()
	s.logger.InfoContext(ctx, "ticket event assessed",
		"ticket_key", params.TicketKey,
		"user_id", params.UserID,
		"team_id", params.TeamID,
		"level", assessment.Level,
		"score", assessment.Score,
	)

	if assessment.Level.RequiresNotification() {
		s.notifyAsync(*assessment)
	}
	return assessment, nil
}

// Shutdown waits for in-flight notifications to drain.
func (s *RiskService) Shutdown() {
	s.wg.Wait()
}

// notifyAsync dispatches the notification in the background so webhook
// responses are not held up by the messaging collaborator.
func (s *RiskService) notifyAsync(assessment domain.RiskAssessment) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The webhook request context may already be done.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.notifier.NotifyRisk(ctx, ports.RiskNotification{
			UserID:    assessment.UserID,
			TeamID:    assessment.TeamID,
			TicketKey: assessment.TicketKey,
			Level:     assessment.Level,
			Score:     assessment.Score,
		})
	}()
}

func isHighPriority(priority string) bool {
	switch strings.ToLower(priority) {
	case "highest", "high", "critical", "blocker", "urgent":
		return true
	}
	return false
}
