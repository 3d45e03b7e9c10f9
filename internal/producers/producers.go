// Package producers holds the default derived-state producers registered on
// a state.Hub.
package producers

import (
	"context"
	"math"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/state"
	"github.com/Harshitk-cp/lifedash/internal/vision"
)

const (
	loadPerOpenLoop    = 10.0
	loadPerBlocked     = 8.0
	commitmentFocusCap = 3
	commitmentFocusMax = 0.2
)

// RegisterDefaults installs a producer for every layer.
func RegisterDefaults(h *state.Hub) {
	state.Register[state.TimeState](h, state.LayerTime, state.ProducerFunc[state.TimeState](Time))
	state.Register[state.AttentionState](h, state.LayerAttention, state.ProducerFunc[state.AttentionState](Attention))
	state.Register[domain.Snapshot](h, state.LayerAlignment, state.ProducerFunc[domain.Snapshot](Alignment))
	state.Register[state.RelationshipState](h, state.LayerRelationship, state.ProducerFunc[state.RelationshipState](Relationship))
	state.Register[state.CreativePhaseState](h, state.LayerCreativePhase, state.ProducerFunc[state.CreativePhaseState](CreativePhase))
	state.Register[state.NarrativeState](h, state.LayerNarrative, state.ProducerFunc[state.NarrativeState](Narrative))
	state.Register[state.SystemState](h, state.LayerSystem, state.ProducerFunc[state.SystemState](System))
}

// Alignment runs the vision alignment engine over the current records.
func Alignment(ctx context.Context, in state.Input) (domain.Snapshot, error) {
	return vision.Compute(in.Domain.Vision, vision.Options{
		Now:       in.Now,
		Store:     in.Domain,
		Snapshots: in.History,
		Decisions: in.Domain.Decisions,
	}), nil
}

func Time(ctx context.Context, in state.Input) (state.TimeState, error) {
	now := in.Now
	start, _ := vision.WeekBounds(now)

	ts := state.TimeState{
		Now:           now,
		DayPart:       dayPart(now.Hour()),
		Weekday:       now.Weekday().String(),
		WeekProgress:  clamp(now.Sub(start).Hours()/(7*24), 0, 1),
		DaysToNextDue: -1,
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, m := range in.Domain.Vision.ActiveMilestones() {
		if domain.DeriveStatus(m.CompletionPct, m.Status) == domain.MilestoneStatusDone {
			continue
		}
		due, ok := vision.ParseDue(m.Date, now.Location())
		if !ok || due.Before(today) {
			continue
		}
		days := int(math.Round(due.Sub(today).Hours() / 24))
		if ts.DaysToNextDue < 0 || days < ts.DaysToNextDue {
			ts.DaysToNextDue = days
			ts.NextDue = m.Title
		}
	}
	return ts, nil
}

func dayPart(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// Attention measures how scattered the open work is. Load grows with open
// and blocked milestones; weekly commitments buy back some focus.
func Attention(ctx context.Context, in state.Input) (state.AttentionState, error) {
	vs := in.Domain.Vision
	as := state.AttentionState{}

	for _, m := range vs.ActiveMilestones() {
		if domain.DeriveStatus(m.CompletionPct, m.Status) == domain.MilestoneStatusDone {
			continue
		}
		as.OpenLoops++
		if m.Blocked() {
			as.Blocked++
		}
		if vs.IsCommitment(m.ID) {
			as.Committed++
		}
	}

	as.Load = clamp(float64(as.OpenLoops)*loadPerOpenLoop+float64(as.Blocked)*loadPerBlocked, 0, 100)
	bonus := commitmentFocusMax * float64(min(as.Committed, commitmentFocusCap)) / commitmentFocusCap
	as.Focus = round2(clamp(1-as.Load/100+bonus, 0, 1))

	if queue := in.Siblings.AlignmentState(ctx, false).ActionQueue; len(queue) > 0 {
		as.TopItem = queue[0].Title
	}
	return as, nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
