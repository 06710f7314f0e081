package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/crewpulse/workload-backend/internal/adapters/primary/http/middleware"
	"github.com/crewpulse/workload-backend/internal/auth"
	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/mocks"
)

func newDistributionRouter(distributionService *mocks.MockDistributionService) (*chi.Mux, *auth.TokenManager) {
	tm := newTestTokenManager()
	logger := testLogger()
	handler := NewDistributionHandler(distributionService, NewErrorHandler(logger), logger)

	router := chi.NewRouter()
	router.Use(mw.RequestID)
	router.Group(func(r chi.Router) {
		r.Use(mw.JWTMiddleware(tm))
		r.Route("/teams/{teamID}", handler.RegisterRoutes)
	})
	return router, tm
}

func TestDistributionHandler_GetDistribution(t *testing.T) {
	distributionService := mocks.NewMockDistributionService()
	router, tm := newDistributionRouter(distributionService)

	dist := &domain.TeamDistribution{
		TeamID:             "team-a",
		TotalActiveTickets: 11,
		TotalStoryPoints:   34,
		UtilizationAverage: 0.95,
		OverloadedMembers:  []string{"swamped"},
		RebalancingSuggestions: []domain.RebalancingSuggestion{
			{FromUserID: "swamped", ToUserID: "idle", TicketCount: 2},
		},
		Alerts:      []string{"1 of 3 team members are overloaded"},
		GeneratedAt: time.Now(),
	}
	distributionService.On("GetTeamDistribution", mock.Anything, "team-a").Return(dist, nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/teams/team-a/distribution", nil)
	req.Header.Set("Authorization", bearerToken(t, tm))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response struct {
		Data TeamDistributionDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "team-a", response.Data.TeamID)
	assert.Equal(t, 11, response.Data.TotalActiveTickets)
	assert.Equal(t, []string{"swamped"}, response.Data.OverloadedMembers)
	require.Len(t, response.Data.RebalancingSuggestions, 1)
	assert.Equal(t, "idle", response.Data.RebalancingSuggestions[0].ToUserID)
	assert.NotEmpty(t, response.Data.Alerts)
}

func TestDistributionHandler_GetDistribution_UnknownTeam(t *testing.T) {
	distributionService := mocks.NewMockDistributionService()
	router, tm := newDistributionRouter(distributionService)

	distributionService.On("GetTeamDistribution", mock.Anything, "team-z").
		Return(nil, apperrors.ErrTeamNotFound)

	req := httptest.NewRequest(stdhttp.MethodGet, "/teams/team-z/distribution", nil)
	req.Header.Set("Authorization", bearerToken(t, tm))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusNotFound, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "TEAM_NOT_FOUND", response.Code)
}
