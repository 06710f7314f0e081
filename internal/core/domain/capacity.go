package domain

import (
	"time"
)

// WorkloadStatus classifies a member's capacity utilization into one of five
// ordered bands.
type WorkloadStatus string

const (
	StatusUnderutilized WorkloadStatus = "UNDERUTILIZED"
	StatusOptimal       WorkloadStatus = "OPTIMAL"
	StatusHigh          WorkloadStatus = "HIGH"
	StatusOverloaded    WorkloadStatus = "OVERLOADED"
	StatusCritical      WorkloadStatus = "CRITICAL"
)

/// Utilization band thresholds. Boundary values belong to the higher band:
// a utilization of exactly 1.0 is OVERLOADED, not HIGH.
const (
	utilizationOptimal    = 0.4
	utilizationHigh       = 0.8
	utilizationOverloaded = 1.0
	utilizationCritical   = 1.2

	// approachingLimitFloor is where the APPROACHING_LIMIT alert starts firing.
	approachingLimitFloor = 0.9
)

// IsValid reports whether the status is one of the five known bands.
func (s WorkloadStatus) IsValid() bool {
	switch s {
	case StatusUnderutilized, StatusOptimal, StatusHigh, StatusOverloaded, StatusCritical:
		return true
	}
	return false
}

// IsOverloaded reports whether the status sits in one of the two top bands.
func (s WorkloadStatus) IsOverloaded() bool {
	return s == StatusOverloaded || s == StatusCritical
}

// CapacityAlert flags a concerning condition on a member's profile.
type CapacityAlert string

const (
	AlertApproachingLimit CapacityAlert = "APPROACHING_LIMIT"
	AlertOverCapacity     CapacityAlert = "OVER_CAPACITY"
	AlertSkillMismatch    CapacityAlert = "SKILL_MISMATCH"
	AlertVelocityDrop     CapacityAlert = "VELOCITY_DROP"
	AlertDeadlineRisk     CapacityAlert = "DEADLINE_RISK"
)

// Defaults synthesized for members with no recorded history, so downstream
// code never has to special-case an unknown member.
const (
	DefaultMaxConcurrentTickets = 5
	DefaultWeeklyCapacityHours  = 40.0
	DefaultRecentVelocity       = 8.0
	DefaultQualityScore         = 0.8
)

// MemberProfile carries the per-member attributes supplied by the team
// directory: identity, skills, preferences and performance history.
type MemberProfile struct {
	UserID                string
	DisplayName           string
	SkillAreas            []string
	PreferredTicketTypes  []string
	RecentVelocity        float64
	AverageCompletionTime float64
	QualityScore          float64
	MaxConcurrentTickets  int
	WeeklyCapacityHours   float64
}

// DefaultMemberProfile returns the synthesized profile for a member the
// directory has never seen.
func DefaultMemberProfile(userID string) MemberProfile {
	return MemberProfile{
		UserID:               userID,
		DisplayName:          userID,
		RecentVelocity:       DefaultRecentVelocity,
		QualityScore:         DefaultQualityScore,
		MaxConcurrentTickets: DefaultMaxConcurrentTickets,
		WeeklyCapacityHours:  DefaultWeeklyCapacityHours,
	}
}

// CapacityProfile is the engine's view of one member's workload within one
// team. Utilization, status and alerts are always derived together from the
// same load snapshot; they are never set independently.
type CapacityProfile struct {
	UserID      string
	TeamID      string
	DisplayName string

	ActiveTickets    int
	TotalStoryPoints int
	EstimatedHours   float64

	MaxConcurrentTickets int
	WeeklyCapacityHours  float64

	// CapacityUtilization is dimensionless and unbounded above 1.0.
	CapacityUtilization float64
	WorkloadStatus      WorkloadStatus
	Alerts              []CapacityAlert

	RecentVelocity        float64
	AverageCompletionTime float64
	QualityScore          float64

	SkillAreas           []string
	PreferredTicketTypes []string

	EstimatedCompletionDate *time.Time
	ProjectedCapacityDate   *time.Time

	LastUpdated time.Time
}

// Utilization computes the capacity utilization ratio for the given load and
// limits: the greater of the ticket-count ratio and the hour ratio. A zero
// limit contributes a ratio of zero instead of dividing by it.
func Utilization(activeTickets, maxConcurrent int, estimatedHours, weeklyHours float64) float64 {
	var ticketRatio, hourRatio float64
	if maxConcurrent > 0 {
		ticketRatio = float64(activeTickets) / float64(maxConcurrent)
	}
	if weeklyHours > 0 {
		hourRatio = estimatedHours / weeklyHours
	}
	if ticketRatio > hourRatio {
		return ticketRatio
	}
	return hourRatio
}

// StatusForUtilization maps a utilization ratio onto the five-band ladder.
func StatusForUtilization(utilization float64) WorkloadStatus {
	switch {
	case utilization >= utilizationCritical:
		return StatusCritical
	case utilization >= utilizationOverloaded:
		return StatusOverloaded
	case utilization >= utilizationHigh:
		return StatusHigh
	case utilization >= utilizationOptimal:
		return StatusOptimal
	default:
		return StatusUnderutilized
	}
}

// NewCapacityProfile assembles a capacity profile from directory attributes
// and a raw workload snapshot, deriving utilization, status, alerts and
// completion predictions in one step.
func NewCapacityProfile(teamID string, member MemberProfile, load MemberWorkload, now time.Time) CapacityProfile {
	p := CapacityProfile{
		UserID:                member.UserID,
		TeamID:                teamID,
		DisplayName:           member.DisplayName,
		ActiveTickets:         load.ActiveTickets,
		TotalStoryPoints:      load.TotalStoryPoints,
		EstimatedHours:        load.EstimatedHours,
		MaxConcurrentTickets:  member.MaxConcurrentTickets,
		WeeklyCapacityHours:   member.WeeklyCapacityHours,
		RecentVelocity:        member.RecentVelocity,
		AverageCompletionTime: member.AverageCompletionTime,
		QualityScore:          member.QualityScore,
		SkillAreas:            member.SkillAreas,
		PreferredTicketTypes:  member.PreferredTicketTypes,
		LastUpdated:           now,
	}
	p.refreshDerived(now)
	return p
}

// refreshDerived recomputes utilization, status, alerts and predictions from
// the current load snapshot. This is the single place derived fields change.
func (p *CapacityProfile) refreshDerived(now time.Time) {
	p.CapacityUtilization = Utilization(p.ActiveTickets, p.MaxConcurrentTickets, p.EstimatedHours, p.WeeklyCapacityHours)
	p.WorkloadStatus = StatusForUtilization(p.CapacityUtilization)
	p.Alerts = deriveAlerts(p.CapacityUtilization, p.ActiveTickets, p.MaxConcurrentTickets)

	p.EstimatedCompletionDate = nil
	p.ProjectedCapacityDate = nil
	if weeks, ok := completionWeeks(p.TotalStoryPoints, p.RecentVelocity, p.EstimatedHours, p.WeeklyCapacityHours); ok {
		done := now.Add(weeksToDuration(weeks))
		p.EstimatedCompletionDate = &done
		if p.WorkloadStatus.IsOverloaded() {
			// A member over capacity frees up when the current backlog drains.
			p.ProjectedCapacityDate = &done
		}
	}
}

func deriveAlerts(utilization float64, activeTickets, maxConcurrent int) []CapacityAlert {
	var alerts []CapacityAlert
	if utilization >= utilizationOverloaded || (maxConcurrent > 0 && activeTickets >= maxConcurrent) {
		alerts = append(alerts, AlertOverCapacity)
	} else if utilization >= approachingLimitFloor {
		alerts = append(alerts, AlertApproachingLimit)
	}
	return alerts
}

// completionWeeks estimates how many weeks the current backlog takes to
// clear: story points over velocity, or hours over weekly capacity when the
// member has no recorded velocity.
func completionWeeks(storyPoints int, velocity, estimatedHours, weeklyHours float64) (float64, bool) {
	if velocity > 0 && storyPoints > 0 {
		return float64(storyPoints) / velocity, true
	}
	if weeklyHours > 0 && estimatedHours > 0 {
		return estimatedHours / weeklyHours, true
	}
	return 0, false
}

func weeksToDuration(weeks float64) time.Duration {
	return time.Duration(weeks * float64(7*24) * float64(time.Hour))
}

// HasSkill reports whether the member lists the given skill area,
// case-insensitively.
func (p *CapacityProfile) HasSkill(skill string) bool {
	return containsFold(p.SkillAreas, skill)
}

// PrefersTicketType reports whether the member lists the given ticket type as
// preferred, case-insensitively.
func (p *CapacityProfile) PrefersTicketType(ticketType string) bool {
	return containsFold(p.PreferredTicketTypes, ticketType)
}
