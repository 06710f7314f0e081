package http

import (
	"time"

	"github.com/crewpulse/workload-backend/internal/core/domain"
)

// CapacityProfileDTO is the JSON shape of a member's capacity profile.
type CapacityProfileDTO struct {
	UserID      string `json:"userId"`
	TeamID      string `json:"teamId"`
	DisplayName string `json:"displayName"`

	ActiveTickets    int     `json:"activeTickets"`
	TotalStoryPoints int     `json:"totalStoryPoints"`
	EstimatedHours   float64 `json:"estimatedHours"`

	MaxConcurrentTickets int     `json:"maxConcurrentTickets"`
	WeeklyCapacityHours  float64 `json:"weeklyCapacityHours"`

	CapacityUtilization float64  `json:"capacityUtilization"`
	WorkloadStatus      string   `json:"workloadStatus"`
	Alerts              []string `json:"alerts,omitempty"`

	RecentVelocity        float64 `json:"recentVelocity"`
	AverageCompletionTime float64 `json:"averageCompletionTime,omitempty"`
	QualityScore          float64 `json:"qualityScore"`

	SkillAreas           []string `json:"skillAreas,omitempty"`
	PreferredTicketTypes []string `json:"preferredTicketTypes,omitempty"`

	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
	ProjectedCapacityDate   *time.Time `json:"projectedCapacityDate,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`
}

func mapCapacityProfile(p domain.CapacityProfile) CapacityProfileDTO {
	alerts := make([]string, 0, len(p.Alerts))
	for _, alert := range p.Alerts {
		alerts = append(alerts, string(alert))
	}

	return CapacityProfileDTO{
		UserID:                  p.UserID,
		TeamID:                  p.TeamID,
		DisplayName:             p.DisplayName,
		ActiveTickets:           p.ActiveTickets,
		TotalStoryPoints:        p.TotalStoryPoints,
		EstimatedHours:          p.EstimatedHours,
		MaxConcurrentTickets:    p.MaxConcurrentTickets,
		WeeklyCapacityHours:     p.WeeklyCapacityHours,
		CapacityUtilization:     p.CapacityUtilization,
		WorkloadStatus:          string(p.WorkloadStatus),
		Alerts:                  alerts,
		RecentVelocity:          p.RecentVelocity,
		AverageCompletionTime:   p.AverageCompletionTime,
		QualityScore:            p.QualityScore,
		SkillAreas:              p.SkillAreas,
		PreferredTicketTypes:    p.PreferredTicketTypes,
		EstimatedCompletionDate: p.EstimatedCompletionDate,
		ProjectedCapacityDate:   p.ProjectedCapacityDate,
		LastUpdated:             p.LastUpdated,
	}
}

// WorkloadEventDTO is the JSON shape of one recorded workload event.
type WorkloadEventDTO struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	TeamID         string    `json:"teamId"`
	TicketKey      string    `json:"ticketKey"`
	Action         string    `json:"action"`
	StoryPoints    int       `json:"storyPoints"`
	EstimatedHours float64   `json:"estimatedHours"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func mapWorkloadEvents(events []*domain.WorkloadEvent) []WorkloadEventDTO {
	dtos := make([]WorkloadEventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, WorkloadEventDTO{
			ID:             event.ID.String(),
			UserID:         event.UserID,
			TeamID:         event.TeamID,
			TicketKey:      event.TicketKey,
			Action:         string(event.Action),
			StoryPoints:    event.StoryPoints,
			EstimatedHours: event.EstimatedHours,
			OccurredAt:     event.OccurredAt,
		})
	}
	return dtos
}

// AlternativeAssigneeDTO is one ranked substitute assignee.
type AlternativeAssigneeDTO struct {
	UserID           string  `json:"userId"`
	SuitabilityScore float64 `json:"suitabilityScore"`
}

// TeamImpactDTO summarizes an assignment's effect relative to the team.
type TeamImpactDTO struct {
	Level                 string  `json:"level"`
	TeamSize              int     `json:"teamSize"`
	TeamAveragePoints     float64 `json:"teamAveragePoints"`
	ProjectedMemberPoints int     `json:"projectedMemberPoints"`
	OverloadedRatio       float64 `json:"overloadedRatio"`
}

// AssignmentImpactDTO is the JSON shape of an assignment impact analysis.
type AssignmentImpactDTO struct {
	Profile                 CapacityProfileDTO       `json:"profile"`
	ProjectedUtilization    float64                  `json:"projectedUtilization"`
	ProjectedStatus         string                   `json:"projectedStatus"`
	ProjectedCompletionDate time.Time                `json:"projectedCompletionDate"`
	ImpactSeverity          string                   `json:"impactSeverity"`
	CapacityWarnings        []string                 `json:"capacityWarnings,omitempty"`
	SkillMatchScore         float64                  `json:"skillMatchScore"`
	Recommendation          string                   `json:"recommendation"`
	AlternativeAssignees    []AlternativeAssigneeDTO `json:"alternativeAssignees,omitempty"`
	TeamImpact              TeamImpactDTO            `json:"teamImpact"`
	AnalyzedAt              time.Time                `json:"analyzedAt"`
}

func mapImpactAnalysis(a *domain.AssignmentImpactAnalysis) AssignmentImpactDTO {
	alternatives := make([]AlternativeAssigneeDTO, 0, len(a.AlternativeAssignees))
	for _, alt := range a.AlternativeAssignees {
		alternatives = append(alternatives, AlternativeAssigneeDTO{
			UserID:           alt.UserID,
			SuitabilityScore: alt.SuitabilityScore,
		})
	}

	return AssignmentImpactDTO{
		Profile:                 mapCapacityProfile(a.Profile),
		ProjectedUtilization:    a.ProjectedUtilization,
		ProjectedStatus:         string(a.ProjectedStatus),
		ProjectedCompletionDate: a.ProjectedCompletionDate,
		ImpactSeverity:          string(a.ImpactSeverity),
		CapacityWarnings:        a.CapacityWarnings,
		SkillMatchScore:         a.SkillMatchScore,
		Recommendation:          string(a.Recommendation),
		AlternativeAssignees:    alternatives,
		TeamImpact: TeamImpactDTO{
			Level:                 a.TeamImpact.Level,
			TeamSize:              a.TeamImpact.TeamSize,
			TeamAveragePoints:     a.TeamImpact.TeamAveragePoints,
			ProjectedMemberPoints: a.TeamImpact.ProjectedMemberPoints,
			OverloadedRatio:       a.TeamImpact.OverloadedRatio,
		},
		AnalyzedAt: a.AnalyzedAt,
	}
}

// RebalancingSuggestionDTO proposes moving tickets between members.
type RebalancingSuggestionDTO struct {
	FromUserID  string `json:"fromUserId"`
	ToUserID    string `json:"toUserId"`
	TicketCount int    `json:"ticketCount"`
}

// TeamDistributionDTO is the JSON shape of team-level workload statistics.
type TeamDistributionDTO struct {
	TeamID  string               `json:"teamId"`
	Members []CapacityProfileDTO `json:"members"`

	TotalActiveTickets  int     `json:"totalActiveTickets"`
	TotalStoryPoints    int     `json:"totalStoryPoints"`
	TotalEstimatedHours float64 `json:"totalEstimatedHours"`

	UtilizationAverage float64 `json:"utilizationAverage"`
	UtilizationStdDev  float64 `json:"utilizationStdDev"`
	WorkloadVariance   float64 `json:"workloadVariance"`

	OverloadedMembers    []string `json:"overloadedMembers,omitempty"`
	UnderutilizedMembers []string `json:"underutilizedMembers,omitempty"`

	RebalancingSuggestions []RebalancingSuggestionDTO `json:"rebalancingSuggestions,omitempty"`
	Alerts                 []string                   `json:"alerts,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

func mapTeamDistribution(d *domain.TeamDistribution) TeamDistributionDTO {
	members := make([]CapacityProfileDTO, 0, len(d.Members))
	for _, member := range d.Members {
		members = append(members, mapCapacityProfile(member))
	}

	suggestions := make([]RebalancingSuggestionDTO, 0, len(d.RebalancingSuggestions))
	for _, s := range d.RebalancingSuggestions {
		suggestions = append(suggestions, RebalancingSuggestionDTO{
			FromUserID:  s.FromUserID,
			ToUserID:    s.ToUserID,
			TicketCount: s.TicketCount,
		})
	}

	return TeamDistributionDTO{
		TeamID:                 d.TeamID,
		Members:                members,
		TotalActiveTickets:     d.TotalActiveTickets,
		TotalStoryPoints:       d.TotalStoryPoints,
		TotalEstimatedHours:    d.TotalEstimatedHours,
		UtilizationAverage:     d.UtilizationAverage,
		UtilizationStdDev:      d.UtilizationStdDev,
		WorkloadVariance:       d.WorkloadVariance,
		OverloadedMembers:      d.OverloadedMembers,
		UnderutilizedMembers:   d.UnderutilizedMembers,
		RebalancingSuggestions: suggestions,
		Alerts:                 d.Alerts,
		GeneratedAt:            d.GeneratedAt,
	}
}

// RiskAssessmentDTO is the JSON shape of a webhook risk assessment.
type RiskAssessmentDTO struct {
	UserID    string `json:"userId"`
	TeamID    string `json:"teamId"`
	TicketKey string `json:"ticketKey"`
	Model     string `json:"model"`
	Score     int    `json:"score"`
	Level     string `json:"level"`
}

func mapRiskAssessment(a *domain.RiskAssessment) RiskAssessmentDTO {
	return RiskAssessmentDTO{
		UserID:    a.UserID,
		TeamID:    a.TeamID,
		TicketKey: a.TicketKey,
		Model:     a.Model,
		Score:     a.Score,
		Level:     string(a.Level),
	}
}
