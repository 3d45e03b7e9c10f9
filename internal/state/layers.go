package state

import (
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/vision"
)

const (
	LayerTime          = "time"
	LayerAttention     = "attention"
	LayerAlignment     = "alignment"
	LayerRelationship  = "relationship"
	LayerCreativePhase = "creative_phase"
	LayerNarrative     = "narrative"
	LayerSystem        = "system"
)

// LayerNames lists the layers in dependency order; system comes last.
func LayerNames() []string {
	return []string{
		LayerTime,
		LayerAttention,
		LayerAlignment,
		LayerRelationship,
		LayerCreativePhase,
		LayerNarrative,
		LayerSystem,
	}
}

// Unknown marks a categorical field a producer could not determine.
const Unknown = "unknown"

type TimeState struct {
	Now     time.Time `json:"now"`
	DayPart string    `json:"dayPart"`
	Weekday string    `json:"weekday"`
	// WeekProgress is the fraction of the Monday-start week elapsed, 0..1.
	WeekProgress float64 `json:"weekProgress"`
	NextDue      string  `json:"nextDue,omitempty"`
	// DaysToNextDue is -1 when no open milestone has a due date.
	DaysToNextDue int `json:"daysToNextDue"`
}

type AttentionState struct {
	// Focus is 0..1; higher means fewer competing open loops.
	Focus float64 `json:"focus"`
	// Load is 0..100.
	Load      float64 `json:"load"`
	OpenLoops int     `json:"openLoops"`
	Blocked   int     `json:"blocked"`
	Committed int     `json:"committed"`
	TopItem   string  `json:"topItem,omitempty"`
}

type RelationshipState struct {
	Depth           float64 `json:"depth"`
	Target          float64 `json:"target"`
	Drift           float64 `json:"drift"`
	OpenMilestones  int     `json:"openMilestones"`
	DaysSinceUpdate int     `json:"daysSinceUpdate"`
	Neglected       bool    `json:"neglected"`
}

type CreativePhaseState struct {
	Phase          string  `json:"phase"`
	Output         float64 `json:"output"`
	Intensity      float64 `json:"intensity"`
	ActiveProjects int     `json:"activeProjects"`
}

type NarrativeState struct {
	Headline   string               `json:"headline"`
	Band       domain.AlignmentBand `json:"band"`
	BandReason string               `json:"bandReason"`
	Tone       string               `json:"tone"`
	Lines      []string             `json:"lines"`
}

type SystemState struct {
	Time          TimeState            `json:"time"`
	Attention     AttentionState       `json:"attention"`
	Alignment     domain.Snapshot      `json:"alignment"`
	Relationship  RelationshipState    `json:"relationship"`
	CreativePhase CreativePhaseState   `json:"creativePhase"`
	Narrative     NarrativeState       `json:"narrative"`
	Health        float64              `json:"health"`
	Band          domain.AlignmentBand `json:"band"`
}

func DefaultTimeState(now time.Time) TimeState {
	return TimeState{
		Now:           now,
		DayPart:       Unknown,
		Weekday:       now.Weekday().String(),
		WeekProgress:  0.5,
		DaysToNextDue: -1,
	}
}

func DefaultAttentionState(time.Time) AttentionState {
	return AttentionState{Focus: 0.5, Load: 50}
}

func DefaultAlignmentState(now time.Time) domain.Snapshot {
	return vision.NeutralSnapshot(now)
}

func DefaultRelationshipState(time.Time) RelationshipState {
	return RelationshipState{Depth: 50, Target: domain.DefaultTarget, DaysSinceUpdate: -1}
}

func DefaultCreativePhaseState(time.Time) CreativePhaseState {
	return CreativePhaseState{Phase: Unknown, Output: 50, Intensity: 0.5}
}

func DefaultNarrativeState(time.Time) NarrativeState {
	band := domain.ComputeBand(50)
	return NarrativeState{
		Headline:   "Not enough data for a story yet",
		Band:       band,
		BandReason: domain.BandReason(50),
		Tone:       domain.BandTone[band],
		Lines:      []string{},
	}
}

func DefaultSystemState(now time.Time) SystemState {
	return SystemState{
		Time:          DefaultTimeState(now),
		Attention:     DefaultAttentionState(now),
		Alignment:     DefaultAlignmentState(now),
		Relationship:  DefaultRelationshipState(now),
		CreativePhase: DefaultCreativePhaseState(now),
		Narrative:     DefaultNarrativeState(now),
		Health:        50,
		Band:          domain.ComputeBand(50),
	}
}
