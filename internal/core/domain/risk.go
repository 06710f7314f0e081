package domain

// RiskLevel is the outcome of a risk classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskSignals are the ticket-level facts available before a full capacity
// profile exists, e.g. right after a webhook fires.
type RiskSignals struct {
	TicketCount         int
	StoryPoints         int
	HighPriorityCount   int
	OverdueCount        int
	CapacityUtilization float64
}

// RiskModel classifies risk signals. The repository deliberately carries two
// models with different scales that disagree at the margins: the
// utilization-band model that backs assignment analysis, and the additive
// ticket-signal score used on the webhook early-warning path. They must not
// be unified.
type RiskModel interface {
	Name() string
	Classify(signals RiskSignals) RiskLevel
}

// CapacityRiskModel maps the utilization band ladder onto risk levels. It
// reads only the utilization signal.
type CapacityRiskModel struct{}

func (CapacityRiskModel) Name() string { return "capacity_band" }

func (CapacityRiskModel) Classify(signals RiskSignals) RiskLevel {
	switch StatusForUtilization(signals.CapacityUtilization) {
	case StatusCritical:
		return RiskCritical
	case StatusOverloaded:
		return RiskHigh
	case StatusHigh:
		return RiskModerate
	default:
		return RiskLow
	}
}

// TicketSignalModel accumulates an integer score from independent additive
// threshold ladders over the raw ticket signals.
type TicketSignalModel struct{}

func (TicketSignalModel) Name() string { return "ticket_signal" }

// Signal score classification cut-offs.
const (
	signalScoreCritical = 8
	signalScoreHigh     = 5
	signalScoreModerate = 3
)

// Score sums the per-signal ladders. Each ladder contributes independently;
// only the highest matching rung of each ladder counts.
func (TicketSignalModel) Score(s RiskSignals) int {
	score := 0

	switch {
	case s.TicketCount > 12:
		score += 3
	case s.TicketCount > 8:
		score += 2
	case s.TicketCount > 6:
		score += 1
	}

	switch {
	case s.StoryPoints > 30:
		score += 3
	case s.StoryPoints > 20:
		score += 2
	case s.StoryPoints > 13:
		score += 1
	}

	switch {
	case s.HighPriorityCount > 3:
		score += 3
	case s.HighPriorityCount > 1:
		score += 2
	case s.HighPriorityCount > 0:
		score += 1
	}

	switch {
	case s.OverdueCount > 2:
		score += 4
	case s.OverdueCount > 0:
		score += 2
	}

	switch {
	case s.CapacityUtilization > 1.5:
		score += 4
	case s.CapacityUtilization > 1.2:
		score += 2
	case s.CapacityUtilization > 1.0:
		score += 1
	}

	return score
}

func (m TicketSignalModel) Classify(signals RiskSignals) RiskLevel {
	score := m.Score(signals)
	switch {
	case score >= signalScoreCritical:
		return RiskCritical
	case score >= signalScoreHigh:
		return RiskHigh
	case score >= signalScoreModerate:
		return RiskModerate
	default:
		return RiskLow
	}
}

// RequiresNotification reports whether the level warrants an early warning.
func (l RiskLevel) RequiresNotification() bool {
	return l == RiskHigh || l == RiskCritical
}

// RiskAssessment is the outcome of classifying one ticket event on the
// early-warning path.
type RiskAssessment struct {
	UserID    string
	TeamID    string
	TicketKey string
	Model     string
	Signals   RiskSignals
	Score     int
	Level     RiskLevel
}
