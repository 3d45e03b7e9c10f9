package producers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/state"
)

const (
	neglectDays     = 14
	neglectGap      = 20.0
	seedingBelow    = 25.0
	shippingAtLeast = 75.0

	healthAlignmentWeight = 0.5
	healthMomentumWeight  = 0.3
	healthFocusWeight     = 0.2
)

func Relationship(ctx context.Context, in state.Input) (state.RelationshipState, error) {
	alignment := in.Siblings.AlignmentState(ctx, false)
	vs := in.Domain.Vision

	rs := state.RelationshipState{
		Depth:           alignment.Alignment.RelationshipDepth,
		Target:          vs.Target(domain.DimensionRelationships),
		Drift:           alignment.Drift.RelationshipDepth,
		DaysSinceUpdate: -1,
	}

	for _, m := range vs.ActiveMilestones() {
		if m.Type != domain.MilestoneTypeRelationships {
			continue
		}
		if domain.DeriveStatus(m.CompletionPct, m.Status) != domain.MilestoneStatusDone {
			rs.OpenMilestones++
		}
		updated := m.UpdatedAt
		if updated.IsZero() {
			updated = m.CreatedAt
		}
		if updated.IsZero() {
			continue
		}
		days := int(math.Max(0, in.Now.Sub(updated).Hours()/24))
		if rs.DaysSinceUpdate < 0 || days < rs.DaysSinceUpdate {
			rs.DaysSinceUpdate = days
		}
	}

	rs.Neglected = rs.DaysSinceUpdate >= neglectDays || rs.Depth < rs.Target-neglectGap
	return rs, nil
}

// CreativePhase places creation work on a seeding, building, shipping
// cycle; no creation milestones at all reads as resting.
func CreativePhase(ctx context.Context, in state.Input) (state.CreativePhaseState, error) {
	alignment := in.Siblings.AlignmentState(ctx, false)

	cs := state.CreativePhaseState{
		Output:    alignment.Alignment.CreativeOutput,
		Intensity: round2(clamp(alignment.Momentum.Milestones/100, 0, 1)),
	}

	var sum float64
	count := 0
	for _, m := range in.Domain.Vision.ActiveMilestones() {
		if m.Type != domain.MilestoneTypeCreation {
			continue
		}
		count++
		sum += m.CompletionPct
		if domain.DeriveStatus(m.CompletionPct, m.Status) != domain.MilestoneStatusDone {
			cs.ActiveProjects++
		}
	}

	switch {
	case count == 0:
		cs.Phase = "resting"
	case sum/float64(count) < seedingBelow:
		cs.Phase = "seeding"
	case sum/float64(count) < shippingAtLeast:
		cs.Phase = "building"
	default:
		cs.Phase = "shipping"
	}
	return cs, nil
}

func Narrative(ctx context.Context, in state.Input) (state.NarrativeState, error) {
	alignment := in.Siblings.AlignmentState(ctx, false)
	overall := alignment.Alignment.Overall
	band := domain.ComputeBand(overall)

	ns := state.NarrativeState{
		Headline: fmt.Sprintf("%s at %.0f (%+.0f since last snapshot)",
			capitalize(string(band)), overall, alignment.Drift.Overall),
		Band:       band,
		BandReason: domain.BandReason(overall),
		Tone:       domain.BandTone[band],
		Lines:      []string{},
	}

	if star := strings.TrimSpace(in.Domain.Vision.NorthStar); star != "" {
		ns.Lines = append(ns.Lines, "North star: "+star)
	}
	if len(alignment.ActionQueue) > 0 {
		top := alignment.ActionQueue[0]
		ns.Lines = append(ns.Lines, fmt.Sprintf("Next: %s (%s)", top.Title, top.Reason))
	}
	if len(alignment.RiskSignals) > 0 {
		risk := alignment.RiskSignals[0]
		ns.Lines = append(ns.Lines, fmt.Sprintf("Watch: %s", risk.Label))
	}
	if len(alignment.Explainability.Overall) > 0 {
		ns.Lines = append(ns.Lines, alignment.Explainability.Overall[0])
	}
	return ns, nil
}

// System composes every other layer through the memoized getters.
func System(ctx context.Context, in state.Input) (state.SystemState, error) {
	s := in.Siblings
	ss := state.SystemState{
		Time:          s.TimeState(ctx, false),
		Attention:     s.AttentionState(ctx, false),
		Alignment:     s.AlignmentState(ctx, false),
		Relationship:  s.RelationshipState(ctx, false),
		CreativePhase: s.CreativePhaseState(ctx, false),
		Narrative:     s.NarrativeState(ctx, false),
	}

	ss.Health = math.Round(clamp(
		healthAlignmentWeight*ss.Alignment.Alignment.Overall+
			healthMomentumWeight*ss.Alignment.Momentum.Overall+
			healthFocusWeight*ss.Attention.Focus*100,
		0, 100))
	ss.Band = domain.ComputeBand(ss.Alignment.Alignment.Overall)
	return ss, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
