package domain

import (
	"fmt"
	"math"
	"time"
)

// RebalancingSuggestion proposes moving tickets from an overloaded member to
// an underutilized one.
type RebalancingSuggestion struct {
	FromUserID  string
	ToUserID    string
	TicketCount int
}

// Distribution alert thresholds.
const (
	distributionAvgAlert        = 0.9
	distributionStdDevAlert     = 0.3
	distributionOverloadedAlert = 0.3

	// maxTransferPerSuggestion keeps individual rebalancing moves small.
	maxTransferPerSuggestion = 2

	// maxRebalancingSuggestions bounds the suggestion list.
	maxRebalancingSuggestions = 5
)

// TeamDistribution aggregates every member's capacity profile into team-level
// statistics, alerts and rebalancing suggestions.
type TeamDistribution struct {
	TeamID  string
	Members []CapacityProfile

	TotalActiveTickets  int
	TotalStoryPoints    int
	TotalEstimatedHours float64

	// Population statistics over the members' capacity utilization.
	UtilizationAverage float64
	UtilizationStdDev  float64

	// WorkloadVariance is the population variance of active ticket counts.
	WorkloadVariance float64

	OverloadedMembers    []string
	UnderutilizedMembers []string

	RebalancingSuggestions []RebalancingSuggestion
	Alerts                 []string

	GeneratedAt time.Time
}

// NewTeamDistribution computes the full distribution for a team. An empty
// member list yields a zero-valued distribution, not an error.
func NewTeamDistribution(teamID string, members []CapacityProfile, now time.Time) TeamDistribution {
	dist := TeamDistribution{
		TeamID:      teamID,
		Members:     members,
		GeneratedAt: now,
	}
	if len(members) == 0 {
		return dist
	}

	var utilizationSum float64
	for _, m := range members {
		dist.TotalActiveTickets += m.ActiveTickets
		dist.TotalStoryPoints += m.TotalStoryPoints
		dist.TotalEstimatedHours += m.EstimatedHours
		utilizationSum += m.CapacityUtilization

		switch {
		case m.WorkloadStatus.IsOverloaded():
			dist.OverloadedMembers = append(dist.OverloadedMembers, m.UserID)
		case m.WorkloadStatus == StatusUnderutilized:
			dist.UnderutilizedMembers = append(dist.UnderutilizedMembers, m.UserID)
		}
	}

	n := float64(len(members))
	dist.UtilizationAverage = utilizationSum / n

	var utilizationSq, ticketSq float64
	ticketMean := float64(dist.TotalActiveTickets) / n
	for _, m := range members {
		du := m.CapacityUtilization - dist.UtilizationAverage
		utilizationSq += du * du
		dt := float64(m.ActiveTickets) - ticketMean
		ticketSq += dt * dt
	}
	dist.UtilizationStdDev = math.Sqrt(utilizationSq / n)
	dist.WorkloadVariance = ticketSq / n

	dist.RebalancingSuggestions = suggestRebalancing(members)
	dist.Alerts = distributionAlerts(dist)
	return dist
}

// suggestRebalancing pairs each overloaded member with each underutilized
// member and proposes moving min(excess, available, 2) tickets, emitting a
// suggestion only when both sides have room to trade.
func suggestRebalancing(members []CapacityProfile) []RebalancingSuggestion {
	var suggestions []RebalancingSuggestion
	for _, from := range members {
		if !from.WorkloadStatus.IsOverloaded() {
			continue
		}
		excess := from.ActiveTickets - from.MaxConcurrentTickets
		if excess <= 0 {
			continue
		}
		for _, to := range members {
			if to.WorkloadStatus != StatusUnderutilized {
				continue
			}
			available := to.MaxConcurrentTickets - to.ActiveTickets
			if available <= 0 {
				continue
			}
			transfer := min(excess, available, maxTransferPerSuggestion)
			suggestions = append(suggestions, RebalancingSuggestion{
				FromUserID:  from.UserID,
				ToUserID:    to.UserID,
				TicketCount: transfer,
			})
			if len(suggestions) == maxRebalancingSuggestions {
				return suggestions
			}
		}
	}
	return suggestions
}

func distributionAlerts(dist TeamDistribution) []string {
	var alerts []string
	if dist.UtilizationAverage > distributionAvgAlert {
		alerts = append(alerts, fmt.Sprintf(
			"team utilization average is %.0f%%, above the 90%% limit", dist.UtilizationAverage*100))
	}
	if dist.UtilizationStdDev > distributionStdDevAlert {
		alerts = append(alerts, "workload is unevenly distributed across the team")
	}
	if float64(len(dist.OverloadedMembers)) > distributionOverloadedAlert*float64(len(dist.Members)) {
		alerts = append(alerts, fmt.Sprintf(
			"%d of %d team members are overloaded", len(dist.OverloadedMembers), len(dist.Members)))
	}
	return alerts
}

// DistributionAlertEvent is broadcast to live dashboard clients whenever a
// computed distribution carries alerts.
type DistributionAlertEvent struct {
	TeamID             string    `json:"teamId"`
	Alerts             []string  `json:"alerts"`
	UtilizationAverage float64   `json:"utilizationAverage"`
	OverloadedMembers  []string  `json:"overloadedMembers"`
	GeneratedAt        time.Time `json:"generatedAt"`
}
