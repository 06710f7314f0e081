package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// JiraWebhookPayload is the subset of a Jira issue webhook the engine reads.
// Custom fields carry the team mapping; everything else is ignored.
type JiraWebhookPayload struct {
	WebhookEvent string `json:"webhookEvent"`
	Issue        struct {
		Key    string `json:"key"`
		Fields struct {
			Assignee *struct {
				AccountID string `json:"accountId"`
			} `json:"assignee"`
			Priority *struct {
				Name string `json:"name"`
			} `json:"priority"`
			Team string `json:"team"`
		} `json:"fields"`
	} `json:"issue"`
}

// WebhookHandler receives ticket events from the ticket system and runs the
// risk early-warning path on them.
type WebhookHandler struct {
	riskService  ports.RiskAssessmentService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(
	riskService ports.RiskAssessmentService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		riskService:  riskService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "webhook"),
	}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/jira", h.HandleJiraWebhook)
}

// HandleJiraWebhook handles POST /webhooks/jira. Events without an assignee
// carry no workload signal and are acknowledged without assessment.
func (h *WebhookHandler) HandleJiraWebhook(w http.ResponseWriter, r *http.Request) {
	var payload JiraWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid webhook payload"))
		return
	}

	if payload.Issue.Fields.Assignee == nil {
		h.logger.Debug("webhook event without assignee, skipping",
			"event", payload.WebhookEvent,
			"ticket_key", payload.Issue.Key,
		)
		WriteAccepted(w, SuccessResponse{Message: "Event acknowledged"})
		return
	}

	params := ports.TicketEventParams{
		UserID:    payload.Issue.Fields.Assignee.AccountID,
		TeamID:    payload.Issue.Fields.Team,
		TicketKey: payload.Issue.Key,
	}
	if payload.Issue.Fields.Priority != nil {
		params.Priority = payload.Issue.Fields.Priority.Name
	}

	assessment, err := h.riskService.AssessTicketEvent(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, mapRiskAssessment(assessment))
}
