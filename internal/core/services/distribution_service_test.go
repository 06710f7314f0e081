package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/mocks"
	"github.com/crewpulse/workload-backend/internal/core/services"
)

type distributionFixture struct {
	capacity    *mocks.MockCapacityService
	directory   *mocks.MockTeamDirectory
	broadcaster *mocks.MockAlertBroadcaster
	service     *services.DistributionService
}

func newDistributionFixture(t *testing.T) *distributionFixture {
	t.Helper()
	f := &distributionFixture{
		capacity:    mocks.NewMockCapacityService(),
		directory:   mocks.NewMockTeamDirectory(),
		broadcaster: mocks.NewMockAlertBroadcaster(),
	}
	f.service = services.NewDistributionService(f.capacity, f.directory, f.broadcaster, testLogger())
	return f
}

func TestDistributionService_GetTeamDistribution(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates team profiles", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-a").Return([]domain.MemberProfile{
			{UserID: "swamped"}, {UserID: "swamped-2"}, {UserID: "idle"},
			{UserID: "steady-1"}, {UserID: "steady-2"},
		}, nil)
		f.capacity.On("GetCapacityProfile", ctx, "swamped", "team-a").
			Return(memberProfile("swamped", 8, 5, 0, 40), nil)
		f.capacity.On("GetCapacityProfile", ctx, "swamped-2", "team-a").
			Return(memberProfile("swamped-2", 6, 5, 0, 40), nil)
		f.capacity.On("GetCapacityProfile", ctx, "idle", "team-a").
			Return(memberProfile("idle", 1, 5, 0, 40), nil)
		f.capacity.On("GetCapacityProfile", ctx, "steady-1", "team-a").
			Return(memberProfile("steady-1", 3, 5, 0, 40), nil)
		f.capacity.On("GetCapacityProfile", ctx, "steady-2", "team-a").
			Return(memberProfile("steady-2", 3, 5, 0, 40), nil)
		f.broadcaster.On("Broadcast", mock.AnythingOfType("domain.DistributionAlertEvent")).Return(nil)

		dist, err := f.service.GetTeamDistribution(ctx, "team-a")

		require.NoError(t, err)
		assert.Len(t, dist.Members, 5)
		assert.ElementsMatch(t, []string{"swamped", "swamped-2"}, dist.OverloadedMembers)
		assert.Equal(t, []string{"idle"}, dist.UnderutilizedMembers)
		assert.NotEmpty(t, dist.RebalancingSuggestions)
		assert.NotEmpty(t, dist.Alerts)
	})

	t.Run("broadcasts when the distribution carries alerts", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-a").
			Return([]domain.MemberProfile{{UserID: "swamped"}}, nil)
		f.capacity.On("GetCapacityProfile", ctx, "swamped", "team-a").
			Return(memberProfile("swamped", 8, 5, 0, 40), nil)

		f.broadcaster.On("Broadcast", mock.AnythingOfType("domain.DistributionAlertEvent")).
			Run(func(args mock.Arguments) {
				event := args.Get(0).(domain.DistributionAlertEvent)
				assert.Equal(t, "team-a", event.TeamID)
				assert.NotEmpty(t, event.Alerts)
				assert.Equal(t, []string{"swamped"}, event.OverloadedMembers)
			}).
			Return(nil)

		_, err := f.service.GetTeamDistribution(ctx, "team-a")

		require.NoError(t, err)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("stays quiet for a healthy team", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-a").
			Return([]domain.MemberProfile{{UserID: "steady"}}, nil)
		f.capacity.On("GetCapacityProfile", ctx, "steady", "team-a").
			Return(memberProfile("steady", 3, 5, 0, 40), nil)

		dist, err := f.service.GetTeamDistribution(ctx, "team-a")

		require.NoError(t, err)
		assert.Empty(t, dist.Alerts)
		f.broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything)
	})

	t.Run("broadcast failures do not fail the request", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-a").
			Return([]domain.MemberProfile{{UserID: "swamped"}}, nil)
		f.capacity.On("GetCapacityProfile", ctx, "swamped", "team-a").
			Return(memberProfile("swamped", 8, 5, 0, 40), nil)
		f.broadcaster.On("Broadcast", mock.Anything).Return(errors.New("hub closed"))

		dist, err := f.service.GetTeamDistribution(ctx, "team-a")

		require.NoError(t, err)
		assert.NotEmpty(t, dist.Alerts)
	})

	t.Run("empty team yields a zero-valued distribution", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-b").Return([]domain.MemberProfile{}, nil)

		dist, err := f.service.GetTeamDistribution(ctx, "team-b")

		require.NoError(t, err)
		assert.Equal(t, "team-b", dist.TeamID)
		assert.Zero(t, dist.UtilizationAverage)
		assert.Empty(t, dist.Members)
	})

	t.Run("skips members with unavailable workloads", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-a").Return([]domain.MemberProfile{
			{UserID: "ok"}, {UserID: "broken"},
		}, nil)
		f.capacity.On("GetCapacityProfile", ctx, "ok", "team-a").
			Return(memberProfile("ok", 2, 5, 0, 40), nil)
		f.capacity.On("GetCapacityProfile", ctx, "broken", "team-a").
			Return(nil, apperrors.ErrWorkloadDataUnavailable)

		dist, err := f.service.GetTeamDistribution(ctx, "team-a")

		require.NoError(t, err)
		assert.Len(t, dist.Members, 1)
	})

	t.Run("roster failure surfaces as unavailable", func(t *testing.T) {
		f := newDistributionFixture(t)
		f.directory.On("ListTeamMembers", ctx, "team-a").
			Return(nil, errors.New("directory down"))

		_, err := f.service.GetTeamDistribution(ctx, "team-a")

		assert.ErrorIs(t, err, apperrors.ErrWorkloadDataUnavailable)
	})

	t.Run("rejects a blank team ID", func(t *testing.T) {
		f := newDistributionFixture(t)

		_, err := f.service.GetTeamDistribution(ctx, "")

		assert.ErrorIs(t, err, apperrors.ErrTeamIDRequired)
	})
}
