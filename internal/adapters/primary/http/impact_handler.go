package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// AnalyzeAssignmentRequest is the JSON body for an assignment analysis.
type AnalyzeAssignmentRequest struct {
	AssigneeID     string   `json:"assigneeId"`
	TeamID         string   `json:"teamId"`
	TicketKey      string   `json:"ticketKey"`
	StoryPoints    int      `json:"storyPoints"`
	EstimatedHours float64  `json:"estimatedHours"`
	RequiredSkills []string `json:"requiredSkills,omitempty"`
	TicketType     string   `json:"ticketType,omitempty"`
	Components     []string `json:"components,omitempty"`
	Priority       string   `json:"priority,omitempty"`
}

// ImpactHandler handles HTTP requests for assignment impact analysis.
type ImpactHandler struct {
	impactService ports.ImpactService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewImpactHandler creates a new ImpactHandler.
func NewImpactHandler(
	impactService ports.ImpactService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ImpactHandler {
	return &ImpactHandler{
		impactService: impactService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "impact"),
	}
}

// RegisterRoutes registers the /assignments routes.
func (h *ImpactHandler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.HandleAnalyzeAssignment)
}

// HandleAnalyzeAssignment handles POST /assignments/analyze.
func (h *ImpactHandler) HandleAnalyzeAssignment(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	analysis, err := h.impactService.AnalyzeAssignment(r.Context(), domain.AssignmentRequest{
		AssigneeID:     req.AssigneeID,
		TeamID:         req.TeamID,
		TicketKey:      req.TicketKey,
		StoryPoints:    req.StoryPoints,
		EstimatedHours: req.EstimatedHours,
		Metadata: domain.TicketMetadata{
			RequiredSkills: req.RequiredSkills,
			TicketType:     req.TicketType,
			Components:     req.Components,
			Priority:       req.Priority,
		},
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, mapImpactAnalysis(analysis))
}
