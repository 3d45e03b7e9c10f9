// Package vision computes alignment snapshots from a vision record.
//
// Compute is a pure function: given the same vision state, history and
// injected clock it returns an identical snapshot. It never reads the wall
// clock and keeps no state between calls.
package vision

import (
	"math"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

// Alignment weights. These are tuned heuristics and are kept literal.
const (
	TargetWeight              = 0.4
	TypeCompletionWeight      = 0.35
	OverallCompletionWeight   = 0.15
	CommittedCompletionWeight = 0.1

	DriftBaseline = 50.0
)

// Action queue constants.
const (
	MaxActionQueue = 8
	DueSoonDays    = 7
	StaleDays      = 10

	overdueBase       = 70
	overduePerDay     = 4
	overdueCap        = 95
	dueSoonBase       = 32
	dueSoonPerDay     = 4
	dueSoonCap        = 60
	blockedBonus      = 34
	noNextActionBonus = 26
	commitmentBonus   = 18
	lowCompletionAt   = 30.0
	lowCompletionBase = 6
	lowCompletionRate = 0.45
	lowCompletionCap  = 20
	staleBonus        = 8
	maintainPriority  = 12
	minPriority       = 10
	maxPriority       = 100
)

// Momentum constants.
const (
	DecisionDecayDays       = 14.0
	DecisionWindowDays      = 56.0
	DecisionFallbackCount   = 12
	DefaultDecisionMomentum = 55.0
	DefaultHabitMomentum    = 55.0

	milestoneMomentumWeight = 0.45
	decisionMomentumWeight  = 0.3
	habitMomentumWeight     = 0.25
	maxCommitmentPenalty    = 30.0
)

// Tension constants.
const (
	MaxTensionFlags = 5

	burnoutDriftThreshold     = -10.0
	burnoutVitalityThreshold  = 45.0
	overextensionOpenCount    = 4
	overextensionCompletion   = 40.0
	runwayWarningMonths       = 4.0
	runwayCriticalMonths      = 2.0
	pipelineCoverageThreshold = 0.8
	urgentQueuePriority       = 80
)

const suggestionCount = 3

// Options carries everything Compute needs besides the vision record.
type Options struct {
	Now       time.Time
	Store     domain.ExternalReader
	Snapshots []domain.Snapshot
	Decisions []domain.Decision
}

// Compute builds a full alignment snapshot.
func Compute(vs domain.VisionState, opts Options) domain.Snapshot {
	now := opts.Now
	today := startOfDay(now)

	stats := collectStats(vs, now, today)
	alignment := computeAlignment(vs, stats)
	drift := computeDrift(alignment, latestSnapshot(opts.Snapshots))
	queue := buildActionQueue(stats)
	flags := detectTensions(stats, alignment, drift, queue, opts.Store)
	risks := riskSignals(flags)
	momentum := computeMomentum(stats, opts.Decisions, opts.Store, now)

	return domain.Snapshot{
		ComputedAt:           now,
		Alignment:            alignment,
		Drift:                drift,
		TensionFlags:         flags,
		RiskSignals:          risks,
		Momentum:             momentum,
		ActionQueue:          queue,
		SuggestedPillars:     suggestPillars(vs.Themes),
		SuggestedCommitments: suggestCommitments(stats, queue),
		SuggestedRisks:       suggestRisks(risks),
		Explainability:       explain(vs, stats, alignment, drift, queue),
	}
}

func computeAlignment(vs domain.VisionState, stats milestoneStats) domain.Scores {
	var scores domain.Scores
	sum := 0.0
	for _, d := range domain.Dimensions() {
		target := clamp(coerce(vs.Target(d), domain.DefaultTarget), 0, 100)
		v := target*TargetWeight +
			stats.typeMean[d]*TypeCompletionWeight +
			stats.overallMean*OverallCompletionWeight +
			stats.committedMean*CommittedCompletionWeight
		v = math.Round(clamp(v, 0, 100))
		scores.Set(d, v)
		sum += v
	}
	scores.Overall = math.Round(clamp(sum/float64(len(domain.Dimensions())), 0, 100))
	return scores
}

func computeDrift(current domain.Scores, prior *domain.Snapshot) domain.Scores {
	var drift domain.Scores
	for _, d := range domain.Dimensions() {
		base := DriftBaseline
		if prior != nil {
			base = coerce(prior.Alignment.Get(d), DriftBaseline)
		}
		drift.Set(d, clamp(current.Get(d)-base, -100, 100))
	}
	base := DriftBaseline
	if prior != nil {
		base = coerce(prior.Alignment.Overall, DriftBaseline)
	}
	drift.Overall = clamp(current.Overall-base, -100, 100)
	return drift
}

// latestSnapshot returns the most recent entry of an append-only history.
func latestSnapshot(history []domain.Snapshot) *domain.Snapshot {
	if len(history) == 0 {
		return nil
	}
	s := history[len(history)-1]
	return &s
}

// NeutralSnapshot is the shape-compatible stand-in used when no real
// computation is available. Unknown values sit at mid-scale.
func NeutralSnapshot(now time.Time) domain.Snapshot {
	neutral := domain.Scores{
		IncomeStability:     50,
		CreativeOutput:      50,
		PhysicalVitality:    50,
		RelationshipDepth:   50,
		MeaningContribution: 50,
		Overall:             50,
	}
	risks := riskSignals(nil)

	dims := make(map[domain.Dimension][]string, len(domain.Dimensions()))
	for _, d := range domain.Dimensions() {
		dims[d] = dimensionLines(d, domain.DefaultTarget, 50, 50, 0)
	}

	return domain.Snapshot{
		ComputedAt:           now,
		Alignment:            neutral,
		Drift:                domain.Scores{},
		TensionFlags:         []domain.TensionFlag{},
		RiskSignals:          risks,
		Momentum:             domain.Momentum{Milestones: 50, Decisions: 50, Habits: 50, Overall: 50},
		ActionQueue:          []domain.ActionItem{},
		SuggestedPillars:     pad(nil, fillerPillars, suggestionCount),
		SuggestedCommitments: pad(nil, fillerCommitments, suggestionCount),
		SuggestedRisks:       suggestRisks(risks),
		Explainability: domain.Explainability{
			Overall:    pad(nil, genericExplanations, minExplanations),
			Dimensions: dims,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// coerce replaces non-finite numbers with a fallback.
func coerce(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, tolerating DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
