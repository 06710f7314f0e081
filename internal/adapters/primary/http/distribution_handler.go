package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// DistributionHandler handles HTTP requests for team workload distribution.
type DistributionHandler struct {
	distributionService ports.DistributionService
	errorHandler        *ErrorHandler
	logger              *slog.Logger
}

// NewDistributionHandler creates a new DistributionHandler.
func NewDistributionHandler(
	distributionService ports.DistributionService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DistributionHandler {
	return &DistributionHandler{
		distributionService: distributionService,
		errorHandler:        errorHandler,
		logger:              logger.With("handler", "distribution"),
	}
}

// RegisterRoutes registers the team distribution route.
func (h *DistributionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/distribution", h.HandleGetDistribution)
}

// HandleGetDistribution handles GET /teams/{teamID}/distribution.
func (h *DistributionHandler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	dist, err := h.distributionService.GetTeamDistribution(r.Context(), teamID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, mapTeamDistribution(dist))
}
