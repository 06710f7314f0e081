package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
	"github.com/crewpulse/workload-backend/internal/core/mocks"
	"github.com/crewpulse/workload-backend/internal/core/services"
	"github.com/crewpulse/workload-backend/internal/infrastructure/metrics"
)

type impactFixture struct {
	capacity  *mocks.MockCapacityService
	directory *mocks.MockTeamDirectory
	service   *services.ImpactService
}

func newImpactFixture(t *testing.T) *impactFixture {
	t.Helper()
	f := &impactFixture{
		capacity:  mocks.NewMockCapacityService(),
		directory: mocks.NewMockTeamDirectory(),
	}
	f.service = services.NewImpactService(f.capacity, f.directory, metrics.NewNop(), testLogger())
	return f
}

func memberProfile(userID string, active, maxConcurrent int, hours, weeklyHours float64) *domain.CapacityProfile {
	member := domain.MemberProfile{
		UserID:               userID,
		DisplayName:          userID,
		MaxConcurrentTickets: maxConcurrent,
		WeeklyCapacityHours:  weeklyHours,
		RecentVelocity:       domain.DefaultRecentVelocity,
		QualityScore:         domain.DefaultQualityScore,
	}
	load := domain.MemberWorkload{ActiveTickets: active, EstimatedHours: hours}
	p := domain.NewCapacityProfile("team-a", member, load, time.Now())
	return &p
}

func TestImpactService_AnalyzeAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a critically overloaded assignee", func(t *testing.T) {
		f := newImpactFixture(t)
		assignee := memberProfile("alice", 4, 5, 80, 40)
		alternate := memberProfile("bob", 1, 5, 8, 40)
		alternate.SkillAreas = []string{"go"}

		f.capacity.On("GetCapacityProfile", ctx, "alice", "team-a").Return(assignee, nil)
		f.capacity.On("GetCapacityProfile", ctx, "bob", "team-a").Return(alternate, nil)
		f.directory.On("ListTeamMembers", ctx, "team-a").Return([]domain.MemberProfile{
			{UserID: "alice"}, {UserID: "bob"},
		}, nil)

		analysis, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{
			AssigneeID:     "alice",
			TeamID:         "team-a",
			TicketKey:      "PROJ-9",
			StoryPoints:    5,
			EstimatedHours: 10,
			Metadata:       domain.TicketMetadata{RequiredSkills: []string{"go"}},
		})

		require.NoError(t, err)
		assert.InDelta(t, 2.25, analysis.ProjectedUtilization, 1e-9)
		assert.Equal(t, domain.StatusCritical, analysis.ProjectedStatus)
		assert.Equal(t, domain.SeverityCritical, analysis.ImpactSeverity)
		assert.Equal(t, domain.RecommendationReject, analysis.Recommendation)
		assert.NotEmpty(t, analysis.CapacityWarnings)

		require.Len(t, analysis.AlternativeAssignees, 1)
		assert.Equal(t, "bob", analysis.AlternativeAssignees[0].UserID)
		assert.Equal(t, 2, analysis.TeamImpact.TeamSize)
	})

	t.Run("approves a light assignment to a fresh member", func(t *testing.T) {
		f := newImpactFixture(t)
		fresh := memberProfile("newbie", 0, 5, 0, 40)

		f.capacity.On("GetCapacityProfile", ctx, "newbie", "team-a").Return(fresh, nil)
		f.directory.On("ListTeamMembers", ctx, "team-a").
			Return([]domain.MemberProfile{{UserID: "newbie"}}, nil)

		analysis, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{
			AssigneeID:     "newbie",
			TeamID:         "team-a",
			TicketKey:      "PROJ-10",
			StoryPoints:    3,
			EstimatedHours: 12,
		})

		require.NoError(t, err)
		assert.InDelta(t, 0.2, analysis.ProjectedUtilization, 1e-9)
		assert.Equal(t, domain.SeverityLow, analysis.ImpactSeverity)
		assert.InDelta(t, domain.DefaultSkillMatchScore, analysis.SkillMatchScore, 1e-9)
		assert.Equal(t, domain.RecommendationApprove, analysis.Recommendation)
		assert.Empty(t, analysis.AlternativeAssignees, "approvals skip the alternative ranking")
		assert.Empty(t, analysis.CapacityWarnings)
	})

	t.Run("alternatives exclude the assignee and respect the cap", func(t *testing.T) {
		f := newImpactFixture(t)
		assignee := memberProfile("busy", 5, 5, 40, 40)
		f.capacity.On("GetCapacityProfile", ctx, "busy", "team-a").Return(assignee, nil)

		roster := []domain.MemberProfile{{UserID: "busy"}}
		for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"} {
			roster = append(roster, domain.MemberProfile{UserID: id})
			f.capacity.On("GetCapacityProfile", ctx, id, "team-a").
				Return(memberProfile(id, 1, 5, 8, 40), nil)
		}
		f.directory.On("ListTeamMembers", ctx, "team-a").Return(roster, nil)

		analysis, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{
			AssigneeID: "busy", TeamID: "team-a", TicketKey: "PROJ-11", EstimatedHours: 4,
		})

		require.NoError(t, err)
		assert.NotEqual(t, domain.RecommendationApprove, analysis.Recommendation)
		assert.Len(t, analysis.AlternativeAssignees, domain.MaxAlternativeAssignees)
		for _, alt := range analysis.AlternativeAssignees {
			assert.NotEqual(t, "busy", alt.UserID)
		}
	})

	t.Run("degrades gracefully when the roster is unavailable", func(t *testing.T) {
		f := newImpactFixture(t)
		assignee := memberProfile("alice", 5, 5, 40, 40)
		f.capacity.On("GetCapacityProfile", ctx, "alice", "team-a").Return(assignee, nil)
		f.directory.On("ListTeamMembers", ctx, "team-a").
			Return(nil, errors.New("directory down"))

		analysis, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{
			AssigneeID: "alice", TeamID: "team-a", TicketKey: "PROJ-12",
		})

		require.NoError(t, err)
		assert.Empty(t, analysis.AlternativeAssignees)
		assert.Zero(t, analysis.TeamImpact.TeamSize)
	})

	t.Run("skips members with unavailable workloads", func(t *testing.T) {
		f := newImpactFixture(t)
		assignee := memberProfile("alice", 5, 5, 40, 40)
		f.capacity.On("GetCapacityProfile", ctx, "alice", "team-a").Return(assignee, nil)
		f.capacity.On("GetCapacityProfile", ctx, "broken", "team-a").
			Return(nil, apperrors.ErrWorkloadDataUnavailable)
		f.capacity.On("GetCapacityProfile", ctx, "bob", "team-a").
			Return(memberProfile("bob", 1, 5, 8, 40), nil)
		f.directory.On("ListTeamMembers", ctx, "team-a").Return([]domain.MemberProfile{
			{UserID: "alice"}, {UserID: "broken"}, {UserID: "bob"},
		}, nil)

		analysis, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{
			AssigneeID: "alice", TeamID: "team-a", TicketKey: "PROJ-13",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, analysis.TeamImpact.TeamSize)
	})

	t.Run("propagates assignee resolution failures", func(t *testing.T) {
		f := newImpactFixture(t)
		f.capacity.On("GetCapacityProfile", ctx, "alice", "team-a").
			Return(nil, apperrors.ErrWorkloadDataUnavailable)

		_, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{
			AssigneeID: "alice", TeamID: "team-a", TicketKey: "PROJ-14",
		})

		assert.ErrorIs(t, err, apperrors.ErrWorkloadDataUnavailable)
	})

	t.Run("rejects malformed requests", func(t *testing.T) {
		f := newImpactFixture(t)

		_, err := f.service.AnalyzeAssignment(ctx, domain.AssignmentRequest{TeamID: "team-a"})

		var verrs *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
		f.capacity.AssertNotCalled(t, "GetCapacityProfile")
	})
}
