package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/workload-backend/internal/core/domain"
)

func TestNewTeamDistribution_EmptyTeam(t *testing.T) {
	now := time.Now()
	dist := domain.NewTeamDistribution("team-a", nil, now)

	assert.Equal(t, "team-a", dist.TeamID)
	assert.Zero(t, dist.TotalActiveTickets)
	assert.Zero(t, dist.UtilizationAverage)
	assert.Zero(t, dist.UtilizationStdDev)
	assert.Zero(t, dist.WorkloadVariance)
	assert.Empty(t, dist.OverloadedMembers)
	assert.Empty(t, dist.RebalancingSuggestions)
	assert.Empty(t, dist.Alerts)
	assert.Equal(t, now, dist.GeneratedAt)
}

func TestNewTeamDistribution_Statistics(t *testing.T) {
	members := []domain.CapacityProfile{
		profileWithLoad("alice", 2, 5, 20, 40),
		profileWithLoad("bob", 4, 5, 40, 40),
	}
	members[0].TotalStoryPoints = 5
	members[1].TotalStoryPoints = 9

	dist := domain.NewTeamDistribution("team-a", members, time.Now())

	assert.Equal(t, 6, dist.TotalActiveTickets)
	assert.Equal(t, 14, dist.TotalStoryPoints)
	assert.InDelta(t, 60.0, dist.TotalEstimatedHours, 1e-9)
	// Utilizations 0.5 and 1.0.
	assert.InDelta(t, 0.75, dist.UtilizationAverage, 1e-9)
	assert.InDelta(t, 0.25, dist.UtilizationStdDev, 1e-9)
	// Ticket counts 2 and 4, mean 3, population variance 1.
	assert.InDelta(t, 1.0, dist.WorkloadVariance, 1e-9)
}

func TestNewTeamDistribution_ClassifiesMembers(t *testing.T) {
	members := []domain.CapacityProfile{
		profileWithLoad("idle", 1, 5, 0, 40),     // 0.2, underutilized
		profileWithLoad("steady", 3, 5, 0, 40),   // 0.6, optimal
		profileWithLoad("swamped", 6, 5, 0, 40),  // 1.2, critical
		profileWithLoad("loaded", 5, 5, 40, 40),  // 1.0, overloaded
	}

	dist := domain.NewTeamDistribution("team-a", members, time.Now())

	assert.ElementsMatch(t, []string{"swamped", "loaded"}, dist.OverloadedMembers)
	assert.Equal(t, []string{"idle"}, dist.UnderutilizedMembers)
}

func TestSuggestRebalancing(t *testing.T) {
	t.Run("pairs overloaded with underutilized", func(t *testing.T) {
		members := []domain.CapacityProfile{
			profileWithLoad("swamped", 8, 5, 0, 40),
			profileWithLoad("idle", 1, 5, 0, 40),
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		require.Len(t, dist.RebalancingSuggestions, 1)
		s := dist.RebalancingSuggestions[0]
		assert.Equal(t, "swamped", s.FromUserID)
		assert.Equal(t, "idle", s.ToUserID)
		// Excess 3, available 4, per-move cap 2.
		assert.Equal(t, 2, s.TicketCount)
	})

	t.Run("transfer bounded by receiver headroom", func(t *testing.T) {
		members := []domain.CapacityProfile{
			profileWithLoad("swamped", 8, 5, 0, 40),
			profileWithLoad("nearly", 1, 2, 0, 40), // 0.5, not underutilized
			profileWithLoad("tight", 0, 1, 0, 40),  // headroom 1
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		require.Len(t, dist.RebalancingSuggestions, 1)
		assert.Equal(t, "tight", dist.RebalancingSuggestions[0].ToUserID)
		assert.Equal(t, 1, dist.RebalancingSuggestions[0].TicketCount)
	})

	t.Run("at most five suggestions", func(t *testing.T) {
		members := []domain.CapacityProfile{
			profileWithLoad("over-1", 8, 5, 0, 40),
			profileWithLoad("over-2", 8, 5, 0, 40),
			profileWithLoad("idle-1", 0, 5, 0, 40),
			profileWithLoad("idle-2", 0, 5, 0, 40),
			profileWithLoad("idle-3", 0, 5, 0, 40),
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		assert.Len(t, dist.RebalancingSuggestions, 5)
	})

	t.Run("no suggestions without both sides", func(t *testing.T) {
		members := []domain.CapacityProfile{
			profileWithLoad("over-1", 8, 5, 0, 40),
			profileWithLoad("steady", 3, 5, 0, 40),
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		assert.Empty(t, dist.RebalancingSuggestions)
	})
}

func TestDistributionAlerts(t *testing.T) {
	t.Run("overloaded share and uneven spread", func(t *testing.T) {
		// Two of five overloaded, one underutilized: enough swing for both
		// the std-dev and overloaded-share alerts.
		members := []domain.CapacityProfile{
			profileWithLoad("over-1", 6, 5, 0, 40),
			profileWithLoad("over-2", 5, 5, 0, 40),
			profileWithLoad("idle", 1, 5, 0, 40),
			profileWithLoad("steady-1", 3, 5, 0, 40),
			profileWithLoad("steady-2", 3, 5, 0, 40),
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		require.NotEmpty(t, dist.Alerts)
		assert.Contains(t, dist.Alerts, "workload is unevenly distributed across the team")
		assert.Contains(t, dist.Alerts, "2 of 5 team members are overloaded")
		require.NotEmpty(t, dist.RebalancingSuggestions)
	})

	t.Run("high average utilization", func(t *testing.T) {
		members := []domain.CapacityProfile{
			profileWithLoad("a", 5, 5, 0, 40),
			profileWithLoad("b", 5, 5, 0, 40),
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		assert.Contains(t, dist.Alerts, "team utilization average is 100%, above the 90% limit")
	})

	t.Run("healthy team raises nothing", func(t *testing.T) {
		members := []domain.CapacityProfile{
			profileWithLoad("a", 3, 5, 0, 40),
			profileWithLoad("b", 2, 5, 0, 40),
		}

		dist := domain.NewTeamDistribution("team-a", members, time.Now())

		assert.Empty(t, dist.Alerts)
	})
}
