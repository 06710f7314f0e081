package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	apperrors "github.com/crewpulse/workload-backend/internal/core/errors"
)

// AssignmentRequest describes a candidate ticket assignment to evaluate.
type AssignmentRequest struct {
	AssigneeID     string
	TeamID         string
	TicketKey      string
	StoryPoints    int
	EstimatedHours float64
	Metadata       TicketMetadata
}

// Validate checks the request for structural problems.
func (r AssignmentRequest) Validate() error {
	errs := apperrors.NewValidationErrors()
	if r.AssigneeID == "" {
		errs.Add("assigneeId", "Assignee ID is required")
	}
	if r.TeamID == "" {
		errs.Add("teamId", "Team ID is required")
	}
	if r.TicketKey == "" {
		errs.Add("ticketKey", "Ticket key is required")
	}
	if r.StoryPoints < 0 {
		errs.Add("storyPoints", "Story points cannot be negative")
	}
	if r.EstimatedHours < 0 {
		errs.Add("estimatedHours", "Estimated hours cannot be negative")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ImpactSeverity is the qualitative tier describing how disruptive a
// candidate assignment is.
type ImpactSeverity string

const (
	SeverityLow      ImpactSeverity = "low"
	SeverityMedium   ImpactSeverity = "medium"
	SeverityHigh     ImpactSeverity = "high"
	SeverityCritical ImpactSeverity = "critical"
)

// Recommendation is the engine's verdict on a candidate assignment.
type Recommendation string

const (
	RecommendationApprove  Recommendation = "approve"
	RecommendationCaution  Recommendation = "caution"
	RecommendationReassign Recommendation = "reassign"
	RecommendationReject   Recommendation = "reject"
)

// NeedsAlternatives reports whether the verdict calls for ranking substitute
// assignees.
func (r Recommendation) NeedsAlternatives() bool {
	return r != RecommendationApprove
}

// AlternativeAssignee is one ranked substitute for a candidate assignment.
type AlternativeAssignee struct {
	UserID           string
	SuitabilityScore float64
}

// TeamImpact summarizes how a candidate assignment lands relative to the
// rest of the team.
type TeamImpact struct {
	Level                 string
	TeamSize              int
	TeamAveragePoints     float64
	ProjectedMemberPoints int
	OverloadedRatio       float64
}

// AssignmentImpactAnalysis is the immutable result of evaluating one
// candidate assignment. It is computed fresh per request and never persisted
// by the engine.
type AssignmentImpactAnalysis struct {
	Profile                 CapacityProfile
	ProjectedUtilization    float64
	ProjectedStatus         WorkloadStatus
	ProjectedCompletionDate time.Time
	ImpactSeverity          ImpactSeverity
	CapacityWarnings        []string
	SkillMatchScore         float64
	Recommendation          Recommendation
	AlternativeAssignees    []AlternativeAssignee
	TeamImpact              TeamImpact
	AnalyzedAt              time.Time
}

// projectionBaseHours floors the relative-size denominator so a tiny current
// backlog doesn't make every new ticket look enormous.
const projectionBaseHours = 40.0

// ProjectUtilization estimates the member's utilization after taking on one
// more ticket of the given size. The ticket-count projection adds one ticket;
// the hour projection scales the current utilization by the new ticket's size
// relative to the existing backlog. The larger of the two wins.
func ProjectUtilization(p CapacityProfile, estimatedHours float64) float64 {
	var ticketRatio float64
	if p.MaxConcurrentTickets > 0 {
		ticketRatio = float64(p.ActiveTickets+1) / float64(p.MaxConcurrentTickets)
	}

	hourIncrease := estimatedHours / math.Max(p.EstimatedHours, projectionBaseHours)
	hourUtilization := p.CapacityUtilization * (1 + hourIncrease)

	return math.Max(ticketRatio, hourUtilization)
}

// ProjectCompletionDate estimates when the member clears their backlog plus
// the new ticket: story points over velocity when velocity is known, hours
// over weekly capacity otherwise.
func ProjectCompletionDate(p CapacityProfile, storyPoints int, estimatedHours float64, now time.Time) time.Time {
	var weeks float64
	if p.RecentVelocity > 0 {
		weeks = float64(p.TotalStoryPoints+storyPoints) / p.RecentVelocity
	} else if p.WeeklyCapacityHours > 0 {
		weeks = (p.EstimatedHours + estimatedHours) / p.WeeklyCapacityHours
	}
	return now.Add(weeksToDuration(weeks))
}

// SeverityFor grades a projected workload.
func SeverityFor(projectedStatus WorkloadStatus, projectedUtilization float64) ImpactSeverity {
	switch {
	case projectedStatus == StatusCritical:
		return SeverityCritical
	case projectedStatus == StatusOverloaded:
		return SeverityHigh
	case projectedUtilization > approachingLimitFloor:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// BuildCapacityWarnings returns human-readable warnings for the thresholds
// the projection crosses, in order of decreasing urgency.
func BuildCapacityWarnings(p CapacityProfile, projectedUtilization float64, projectedStatus WorkloadStatus) []string {
	var warnings []string
	switch projectedStatus {
	case StatusCritical:
		warnings = append(warnings, fmt.Sprintf(
			"critical overload: projected utilization would reach %.0f%%", projectedUtilization*100))
	case StatusOverloaded:
		warnings = append(warnings, fmt.Sprintf(
			"overloaded beyond capacity: projected utilization would reach %.0f%%", projectedUtilization*100))
	default:
		if projectedUtilization >= approachingLimitFloor {
			warnings = append(warnings, fmt.Sprintf(
				"near capacity limit: projected utilization would reach %.0f%%", projectedUtilization*100))
		}
	}
	if p.MaxConcurrentTickets > 0 && p.ActiveTickets >= p.MaxConcurrentTickets {
		warnings = append(warnings, fmt.Sprintf(
			"already at maximum concurrent tickets (%d)", p.MaxConcurrentTickets))
	}
	return warnings
}

// Recommendation decision thresholds.
const (
	skillMatchApproveFloor = 0.8
	skillMatchCautionFloor = 0.5
)

// Recommend applies the assignment decision table top to bottom; the first
// matching rule wins.
func Recommend(projectedStatus WorkloadStatus, severity ImpactSeverity, skillMatch float64) Recommendation {
	switch {
	case projectedStatus == StatusCritical:
		return RecommendationReject
	case projectedStatus == StatusOverloaded:
		return RecommendationReassign
	case severity == SeverityHigh && skillMatch < skillMatchCautionFloor:
		return RecommendationCaution
	case skillMatch >= skillMatchApproveFloor && (severity == SeverityLow || severity == SeverityMedium):
		return RecommendationApprove
	case severity == SeverityLow:
		return RecommendationApprove
	default:
		return RecommendationCaution
	}
}

// Suitability scoring weights and bounds for ranking substitute assignees.
const (
	suitabilityCapacityWeight = 0.4
	suitabilitySkillWeight    = 0.4
	suitabilityVelocityWeight = 0.2

	// velocityCeiling is the sprint velocity at which the velocity factor
	// saturates.
	velocityCeiling = 10.0

	// SuitabilityThreshold filters out candidates barely better than nothing.
	SuitabilityThreshold = 0.3

	// MaxAlternativeAssignees bounds the ranked list.
	MaxAlternativeAssignees = 5
)

// SuitabilityScore blends a candidate's spare capacity after the assignment,
// their skill fit and their recent velocity into a single 0-1 ranking score.
func SuitabilityScore(candidate CapacityProfile, meta TicketMetadata, estimatedHours float64) float64 {
	capacityFactor := math.Max(0, 1.0-ProjectUtilization(candidate, estimatedHours))
	skillFactor := SkillMatchScore(candidate, meta)
	velocityFactor := math.Min(1.0, candidate.RecentVelocity/velocityCeiling)

	return suitabilityCapacityWeight*capacityFactor +
		suitabilitySkillWeight*skillFactor +
		suitabilityVelocityWeight*velocityFactor
}

// RankAlternatives scores every candidate except the proposed assignee and
// returns at most MaxAlternativeAssignees of them, best first. Ties break by
// ascending user ID so the ranking is deterministic.
func RankAlternatives(candidates []CapacityProfile, excludeUserID string, meta TicketMetadata, estimatedHours float64) []AlternativeAssignee {
	ranked := make([]AlternativeAssignee, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.UserID == excludeUserID {
			continue
		}
		score := SuitabilityScore(candidate, meta, estimatedHours)
		if score > SuitabilityThreshold {
			ranked = append(ranked, AlternativeAssignee{UserID: candidate.UserID, SuitabilityScore: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SuitabilityScore != ranked[j].SuitabilityScore {
			return ranked[i].SuitabilityScore > ranked[j].SuitabilityScore
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if len(ranked) > MaxAlternativeAssignees {
		ranked = ranked[:MaxAlternativeAssignees]
	}
	return ranked
}

// Team impact thresholds: a post-assignment backlog more than 50% away from
// the team average, or 30% of the team already overloaded, is a high impact.
const (
	teamImpactDeviationRatio  = 0.5
	teamImpactOverloadedRatio = 0.3
)

// AssessTeamImpact compares the assignee's post-assignment story points with
// the team average and checks how much of the team is already overloaded.
func AssessTeamImpact(members []CapacityProfile, assigneeID string, newStoryPoints int) TeamImpact {
	impact := TeamImpact{Level: "low", TeamSize: len(members)}
	if len(members) == 0 {
		return impact
	}

	totalPoints := 0
	overloaded := 0
	for _, m := range members {
		totalPoints += m.TotalStoryPoints
		if m.WorkloadStatus.IsOverloaded() {
			overloaded++
		}
		if m.UserID == assigneeID {
			impact.ProjectedMemberPoints = m.TotalStoryPoints + newStoryPoints
		}
	}

	impact.TeamAveragePoints = float64(totalPoints) / float64(len(members))
	impact.OverloadedRatio = float64(overloaded) / float64(len(members))

	deviates := impact.TeamAveragePoints > 0 &&
		math.Abs(float64(impact.ProjectedMemberPoints)-impact.TeamAveragePoints) > teamImpactDeviationRatio*impact.TeamAveragePoints
	if deviates || impact.OverloadedRatio >= teamImpactOverloadedRatio {
		impact.Level = "high"
	}
	return impact
}
