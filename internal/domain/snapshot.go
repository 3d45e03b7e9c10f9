package domain

import "time"

// Scores holds one value per dimension plus an overall value.
// Used for both alignment ([0,100]) and drift ([-100,100]).
type Scores struct {
	IncomeStability     float64 `json:"incomeStability"`
	CreativeOutput      float64 `json:"creativeOutput"`
	PhysicalVitality    float64 `json:"physicalVitality"`
	RelationshipDepth   float64 `json:"relationshipDepth"`
	MeaningContribution float64 `json:"meaningContribution"`
	Overall             float64 `json:"overall"`
}

func (s Scores) Get(d Dimension) float64 {
	switch d {
	case DimensionIncome:
		return s.IncomeStability
	case DimensionCreation:
		return s.CreativeOutput
	case DimensionHealth:
		return s.PhysicalVitality
	case DimensionRelationships:
		return s.RelationshipDepth
	case DimensionMeaning:
		return s.MeaningContribution
	}
	return s.Overall
}

func (s *Scores) Set(d Dimension, v float64) {
	switch d {
	case DimensionIncome:
		s.IncomeStability = v
	case DimensionCreation:
		s.CreativeOutput = v
	case DimensionHealth:
		s.PhysicalVitality = v
	case DimensionRelationships:
		s.RelationshipDepth = v
	case DimensionMeaning:
		s.MeaningContribution = v
	default:
		s.Overall = v
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type TensionFlag struct {
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Label    string   `json:"label"`
	Detail   string   `json:"detail"`
}

type RiskSignal struct {
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Label    string   `json:"label"`
	Detail   string   `json:"detail"`
}

type Momentum struct {
	Milestones float64 `json:"milestones"`
	Decisions  float64 `json:"decisions"`
	Habits     float64 `json:"habits"`
	Overall    float64 `json:"overall"`
}

type ActionItem struct {
	MilestoneID string `json:"milestoneId"`
	Title       string `json:"title"`
	Reason      string `json:"reason"`
	Priority    int    `json:"priority"`
}

type Explainability struct {
	Overall    []string              `json:"overall"`
	Dimensions map[Dimension][]string `json:"dimensions"`
}

// Snapshot is the full output of one alignment computation. Snapshots are
// immutable once recorded; history is append-only.
type Snapshot struct {
	ComputedAt           time.Time      `json:"computedAt"`
	Alignment            Scores         `json:"alignment"`
	Drift                Scores         `json:"drift"`
	TensionFlags         []TensionFlag  `json:"tensionFlags"`
	RiskSignals          []RiskSignal   `json:"riskSignals"`
	Momentum             Momentum       `json:"momentum"`
	ActionQueue          []ActionItem   `json:"actionQueue"`
	SuggestedPillars     []string       `json:"suggestedPillars"`
	SuggestedCommitments []string       `json:"suggestedCommitments"`
	SuggestedRisks       []string       `json:"suggestedRisks"`
	Explainability       Explainability `json:"explainability"`
}

// WeeklyInsights summarises one Monday-to-Monday week.
type WeeklyInsights struct {
	WeekStart           time.Time `json:"weekStart"`
	WeekEnd             time.Time `json:"weekEnd"`
	AlignmentDelta      float64   `json:"alignmentDelta"`
	DriftDelta          float64   `json:"driftDelta"`
	DecisionCount       int       `json:"decisionCount"`
	AlignedCount        int       `json:"alignedCount"`
	MilestonesMoved     int       `json:"milestonesMoved"`
	MilestonesCompleted int       `json:"milestonesCompleted"`
}
