package domain

import "strings"

// TicketMetadata carries a ticket's declared requirements as supplied by the
// ticket source. All fields are optional.
type TicketMetadata struct {
	RequiredSkills []string
	TicketType     string
	Components     []string
	Priority       string
}

// IsEmpty reports whether the metadata carries no signal worth scoring.
func (m TicketMetadata) IsEmpty() bool {
	return len(m.RequiredSkills) == 0 && m.TicketType == "" && len(m.Components) == 0
}

// DefaultSkillMatchScore is returned when the ticket declares nothing to
// match against; a neutral-positive score so empty metadata never blocks an
// assignment on its own.
const DefaultSkillMatchScore = 0.7

// skillTypeBonus rewards an assignment whose ticket type the member prefers.
const skillTypeBonus = 0.3

// SkillMatchScore measures 0-1 compatibility between a ticket's requirements
// and a member's skill profile. The base score is the fraction of required
// skills the member covers (0.5 when no skills are required), plus a bonus
// when the ticket type is one of the member's preferred types.
func SkillMatchScore(profile CapacityProfile, meta TicketMetadata) float64 {
	if meta.IsEmpty() {
		return DefaultSkillMatchScore
	}

	score := 0.5
	if len(meta.RequiredSkills) > 0 {
		matches := 0
		for _, skill := range meta.RequiredSkills {
			if profile.HasSkill(skill) {
				matches++
			}
		}
		score = float64(matches) / float64(len(meta.RequiredSkills))
	}

	if meta.TicketType != "" && profile.PrefersTicketType(meta.TicketType) {
		score += skillTypeBonus
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
