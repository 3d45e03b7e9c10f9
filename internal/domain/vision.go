package domain

import (
	"strings"
	"time"
)

// Dimension is one of the five life areas a vision is scored on.
type Dimension string

const (
	DimensionIncome        Dimension = "incomeStability"
	DimensionCreation      Dimension = "creativeOutput"
	DimensionHealth        Dimension = "physicalVitality"
	DimensionRelationships Dimension = "relationshipDepth"
	DimensionMeaning       Dimension = "meaningContribution"
)

// DefaultTarget is used for any dimension without an explicit target.
const DefaultTarget = 50.0

// Dimensions returns the five dimensions in their canonical order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionIncome,
		DimensionCreation,
		DimensionHealth,
		DimensionRelationships,
		DimensionMeaning,
	}
}

func ValidDimension(d string) bool {
	switch Dimension(d) {
	case DimensionIncome, DimensionCreation, DimensionHealth, DimensionRelationships, DimensionMeaning:
		return true
	}
	return false
}

type MilestoneType string

const (
	MilestoneTypeIncome        MilestoneType = "Income"
	MilestoneTypeCreation      MilestoneType = "Creation"
	MilestoneTypeHealth        MilestoneType = "Health"
	MilestoneTypeRelationships MilestoneType = "Relationships"
	MilestoneTypeMeaning       MilestoneType = "Meaning"
	MilestoneTypeCustom        MilestoneType = "Custom"
)

func ValidMilestoneType(t string) bool {
	switch MilestoneType(t) {
	case MilestoneTypeIncome, MilestoneTypeCreation, MilestoneTypeHealth,
		MilestoneTypeRelationships, MilestoneTypeMeaning, MilestoneTypeCustom:
		return true
	}
	return false
}

// Dimension maps a milestone type onto the dimension it feeds.
// Custom milestones only count towards overall completion.
func (t MilestoneType) Dimension() (Dimension, bool) {
	switch t {
	case MilestoneTypeIncome:
		return DimensionIncome, true
	case MilestoneTypeCreation:
		return DimensionCreation, true
	case MilestoneTypeHealth:
		return DimensionHealth, true
	case MilestoneTypeRelationships:
		return DimensionRelationships, true
	case MilestoneTypeMeaning:
		return DimensionMeaning, true
	}
	return "", false
}

// TypeForDimension is the inverse of MilestoneType.Dimension.
func TypeForDimension(d Dimension) MilestoneType {
	switch d {
	case DimensionIncome:
		return MilestoneTypeIncome
	case DimensionCreation:
		return MilestoneTypeCreation
	case DimensionHealth:
		return MilestoneTypeHealth
	case DimensionRelationships:
		return MilestoneTypeRelationships
	case DimensionMeaning:
		return MilestoneTypeMeaning
	}
	return MilestoneTypeCustom
}

type MilestoneStatus string

const (
	MilestoneStatusPlanned MilestoneStatus = "planned"
	MilestoneStatusActive  MilestoneStatus = "active"
	MilestoneStatusDone    MilestoneStatus = "done"
)

// DeriveStatus resolves a milestone status from its completion and an
// explicit flag. An explicit done always wins; full completion implies done.
func DeriveStatus(completion float64, explicit MilestoneStatus) MilestoneStatus {
	if explicit == MilestoneStatusDone || completion >= 100 {
		return MilestoneStatusDone
	}
	if explicit == MilestoneStatusActive || completion > 0 {
		return MilestoneStatusActive
	}
	return MilestoneStatusPlanned
}

type Milestone struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Date            string          `json:"date,omitempty"`
	Type            MilestoneType   `json:"type"`
	CompletionPct   float64         `json:"completionPct"`
	Status          MilestoneStatus `json:"status,omitempty"`
	NextAction      string          `json:"nextAction,omitempty"`
	Blocker         string          `json:"blocker,omitempty"`
	LinkedProjectID string          `json:"linkedProjectId,omitempty"`
	Archived        bool            `json:"archived,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Blocked reports whether the milestone carries a non-empty blocker.
func (m Milestone) Blocked() bool {
	return strings.TrimSpace(m.Blocker) != ""
}

type Theme struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

type VisionState struct {
	NorthStar         string                `json:"northStar"`
	Themes            []Theme               `json:"themes"`
	Milestones        []Milestone           `json:"milestones"`
	WeeklyCommitments []string              `json:"weeklyCommitments"`
	Targets           map[Dimension]float64 `json:"targets"`
}

// Target returns the target for d, falling back to DefaultTarget.
func (v VisionState) Target(d Dimension) float64 {
	if t, ok := v.Targets[d]; ok {
		return t
	}
	return DefaultTarget
}

// IsCommitment reports whether the milestone id is in this week's commitments.
func (v VisionState) IsCommitment(id string) bool {
	for _, c := range v.WeeklyCommitments {
		if c == id {
			return true
		}
	}
	return false
}

// MilestoneByID returns the milestone with the given id and its index.
func (v VisionState) MilestoneByID(id string) (Milestone, int, bool) {
	for i, m := range v.Milestones {
		if m.ID == id {
			return m, i, true
		}
	}
	return Milestone{}, -1, false
}

// ActiveMilestones returns the milestones that are not archived.
func (v VisionState) ActiveMilestones() []Milestone {
	out := make([]Milestone, 0, len(v.Milestones))
	for _, m := range v.Milestones {
		if !m.Archived {
			out = append(out, m)
		}
	}
	return out
}
