package domain

import "time"

type DecisionOutcome string

const (
	DecisionYes DecisionOutcome = "yes"
	DecisionNo  DecisionOutcome = "no"
)

func ValidDecisionOutcome(o string) bool {
	switch DecisionOutcome(o) {
	case DecisionYes, DecisionNo:
		return true
	}
	return false
}

// Decision is a single logged yes/no call, with the alignment and drift
// observed at the moment it was made.
type Decision struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Outcome   DecisionOutcome `json:"outcome"`
	Mode      string          `json:"mode,omitempty"`
	Energy    *float64        `json:"energy,omitempty"`
	Note      string          `json:"note,omitempty"`
	Alignment float64         `json:"alignment"`
	Drift     float64         `json:"drift"`
}
