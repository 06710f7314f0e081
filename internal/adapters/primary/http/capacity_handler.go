package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// defaultEventLimit bounds the workload event listing when the caller does
// not ask for a specific page size.
const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// UpdateWorkloadRequest is the JSON body for recording a workload change.
type UpdateWorkloadRequest struct {
	TicketKey      string  `json:"ticketKey"`
	Action         string  `json:"action"`
	StoryPoints    int     `json:"storyPoints"`
	EstimatedHours float64 `json:"estimatedHours"`
}

// CapacityHandler handles HTTP requests for member capacity profiles and
// workload events.
type CapacityHandler struct {
	capacityService ports.CapacityService
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewCapacityHandler creates a new CapacityHandler.
func NewCapacityHandler(
	capacityService ports.CapacityService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CapacityHandler {
	return &CapacityHandler{
		capacityService: capacityService,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "capacity"),
	}
}

// RegisterRoutes registers the per-member capacity routes under a team.
func (h *CapacityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/members/{userID}/capacity", h.HandleGetCapacity)
	r.Post("/members/{userID}/workload", h.HandleUpdateWorkload)
	r.Get("/members/{userID}/workload/events", h.HandleListWorkloadEvents)
}

// HandleGetCapacity handles GET /teams/{teamID}/members/{userID}/capacity.
func (h *CapacityHandler) HandleGetCapacity(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	userID := chi.URLParam(r, "userID")

	profile, err := h.capacityService.GetCapacityProfile(r.Context(), userID, teamID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, mapCapacityProfile(*profile))
}

// HandleUpdateWorkload handles POST /teams/{teamID}/members/{userID}/workload.
func (h *CapacityHandler) HandleUpdateWorkload(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	userID := chi.URLParam(r, "userID")

	var req UpdateWorkloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	err := h.capacityService.UpdateMemberWorkload(r.Context(), ports.UpdateWorkloadParams{
		UserID:         userID,
		TeamID:         teamID,
		TicketKey:      req.TicketKey,
		Action:         domain.WorkloadAction(req.Action),
		StoryPoints:    req.StoryPoints,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteAccepted(w, SuccessResponse{Message: "Workload event recorded"})
}

// HandleListWorkloadEvents handles GET /teams/{teamID}/members/{userID}/workload/events.
func (h *CapacityHandler) HandleListWorkloadEvents(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	userID := chi.URLParam(r, "userID")

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxEventLimit)
	}

	events, err := h.capacityService.ListWorkloadEvents(r.Context(), userID, teamID, limit)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, mapWorkloadEvents(events))
}
