package vision

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is a Wednesday.
var testNow = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func day(offset int) string {
	return startOfDay(testNow).AddDate(0, 0, offset).Format("2006-01-02")
}

func freshMilestone(id, title string, completion float64) domain.Milestone {
	return domain.Milestone{
		ID:            id,
		Title:         title,
		Type:          domain.MilestoneTypeCreation,
		CompletionPct: completion,
		NextAction:    "next step",
		CreatedAt:     testNow.Add(-48 * time.Hour),
		UpdatedAt:     testNow.Add(-time.Hour),
	}
}

func float(v float64) *float64 { return &v }

func TestCompute_Idempotent(t *testing.T) {
	vs := domain.VisionState{
		NorthStar: "Build a calm, creative life",
		Themes:    []domain.Theme{{Label: "Craft", Weight: 3}, {Label: "Health", Weight: 2}},
		Milestones: []domain.Milestone{
			freshMilestone("a", "Ship album", 40),
			{ID: "b", Title: "Run 10k", Type: domain.MilestoneTypeHealth, CompletionPct: 10, Date: day(-2), Blocker: "knee"},
		},
		WeeklyCommitments: []string{"a"},
		Targets:           map[domain.Dimension]float64{domain.DimensionCreation: 90},
	}
	opts := Options{
		Now:       testNow,
		Store:     domain.StaticExternal{HabitRate: 0.6, HasHabits: true},
		Decisions: []domain.Decision{{ID: "d1", Timestamp: testNow.Add(-24 * time.Hour), Outcome: domain.DecisionYes}},
	}

	first, err := json.Marshal(Compute(vs, opts))
	require.NoError(t, err)
	second, err := json.Marshal(Compute(vs, opts))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCompute_AlignmentAlwaysInRange(t *testing.T) {
	tests := []struct {
		name       string
		completion float64
		target     float64
	}{
		{"negative completion", -250, 50},
		{"huge completion", 1e6, 100},
		{"NaN completion", math.NaN(), 50},
		{"infinite completion", math.Inf(1), 50},
		{"target above range", 80, 400},
		{"target below range", 80, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := domain.VisionState{
				Milestones: []domain.Milestone{{ID: "x", Title: "x", Type: domain.MilestoneTypeIncome, CompletionPct: tt.completion}},
				Targets:    map[domain.Dimension]float64{domain.DimensionIncome: tt.target},
			}
			snap := Compute(vs, Options{Now: testNow})

			for _, d := range domain.Dimensions() {
				v := snap.Alignment.Get(d)
				assert.GreaterOrEqual(t, v, 0.0, "dimension %s", d)
				assert.LessOrEqual(t, v, 100.0, "dimension %s", d)
			}
			assert.GreaterOrEqual(t, snap.Alignment.Overall, 0.0)
			assert.LessOrEqual(t, snap.Alignment.Overall, 100.0)
			assert.GreaterOrEqual(t, snap.Momentum.Overall, 0.0)
			assert.LessOrEqual(t, snap.Momentum.Overall, 100.0)
		})
	}
}

func TestCompute_ActionQueueOrdering(t *testing.T) {
	a := freshMilestone("a", "Overdue report", 50)
	a.Date = day(-3)
	b := freshMilestone("b", "Contract review", 50)
	b.Blocker = "waiting on legal"
	c := freshMilestone("c", "Studio setup", 50)
	c.Date = day(10)

	snap := Compute(domain.VisionState{Milestones: []domain.Milestone{c, b, a}}, Options{Now: testNow})

	require.Len(t, snap.ActionQueue, 3)
	assert.Equal(t, "a", snap.ActionQueue[0].MilestoneID)
	assert.Equal(t, "b", snap.ActionQueue[1].MilestoneID)
	assert.Equal(t, "c", snap.ActionQueue[2].MilestoneID)

	assert.Equal(t, 82, snap.ActionQueue[0].Priority)
	assert.Equal(t, 34, snap.ActionQueue[1].Priority)
	assert.Equal(t, 12, snap.ActionQueue[2].Priority)
	assert.Equal(t, "Maintain momentum", snap.ActionQueue[2].Reason)
}

func TestCompute_ActionQueueTieBreaks(t *testing.T) {
	undated := freshMilestone("u", "Alpha", 50)
	undated.Blocker = "x"
	dated := freshMilestone("d", "Zulu", 50)
	dated.Blocker = "x"
	dated.Date = day(20)
	older := freshMilestone("o", "Beta", 50)
	older.Blocker = "x"
	older.UpdatedAt = testNow.Add(-72 * time.Hour)

	snap := Compute(domain.VisionState{Milestones: []domain.Milestone{undated, older, dated}}, Options{Now: testNow})

	require.Len(t, snap.ActionQueue, 3)
	// Same priority: dated first, then most recently updated.
	assert.Equal(t, "d", snap.ActionQueue[0].MilestoneID)
	assert.Equal(t, "u", snap.ActionQueue[1].MilestoneID)
	assert.Equal(t, "o", snap.ActionQueue[2].MilestoneID)
}

func TestCompute_ActionQueueCappedAndSkipsDone(t *testing.T) {
	var ms []domain.Milestone
	for i := 0; i < 12; i++ {
		ms = append(ms, freshMilestone(string(rune('a'+i)), "Milestone "+string(rune('A'+i)), 50))
	}
	ms = append(ms, domain.Milestone{ID: "done", Title: "Finished", CompletionPct: 100})

	snap := Compute(domain.VisionState{Milestones: ms}, Options{Now: testNow})

	assert.Len(t, snap.ActionQueue, MaxActionQueue)
	for _, item := range snap.ActionQueue {
		assert.NotEqual(t, "done", item.MilestoneID)
	}
}

func TestCompute_PriorityBonuses(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(m *domain.Milestone)
		commit       bool
		wantPriority int
		wantReason   string
	}{
		{"due today", func(m *domain.Milestone) { m.Date = day(0) }, false, 60, "Due today"},
		{"due in three days", func(m *domain.Milestone) { m.Date = day(3) }, false, 48, "Due in 3 days"},
		{"overdue cap", func(m *domain.Milestone) { m.Date = day(-30) }, false, 95, "Overdue by 30 days"},
		{"no next action", func(m *domain.Milestone) { m.NextAction = "" }, false, 26, "No next action defined"},
		{"commitment", func(m *domain.Milestone) {}, true, 18, "Weekly commitment"},
		{"low completion", func(m *domain.Milestone) { m.CompletionPct = 0 }, false, 20, "Low completion (0%)"},
		{"low completion small gap", func(m *domain.Milestone) { m.CompletionPct = 25 }, false, 10, "Low completion (25%)"},
		{"stale", func(m *domain.Milestone) { m.UpdatedAt = testNow.Add(-11 * 24 * time.Hour) }, false, 10, "No update in 11 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := freshMilestone("m", "Subject", 50)
			tt.mutate(&m)
			vs := domain.VisionState{Milestones: []domain.Milestone{m}}
			if tt.commit {
				vs.WeeklyCommitments = []string{"m"}
			}

			snap := Compute(vs, Options{Now: testNow})

			require.Len(t, snap.ActionQueue, 1)
			assert.Equal(t, tt.wantPriority, snap.ActionQueue[0].Priority)
			assert.Contains(t, snap.ActionQueue[0].Reason, tt.wantReason)
		})
	}
}

func TestCompute_DriftAgainstLatestSnapshot(t *testing.T) {
	vs := domain.VisionState{
		Milestones: []domain.Milestone{{ID: "x", Title: "x", Type: domain.MilestoneTypeCustom, CompletionPct: 25}},
		Targets: map[domain.Dimension]float64{
			domain.DimensionIncome:        100,
			domain.DimensionCreation:      100,
			domain.DimensionHealth:        100,
			domain.DimensionRelationships: 100,
			domain.DimensionMeaning:       100,
		},
	}
	history := []domain.Snapshot{
		{Alignment: domain.Scores{Overall: 10}},
		{Alignment: domain.Scores{Overall: 40}},
	}

	snap := Compute(vs, Options{Now: testNow, Snapshots: history})

	assert.Equal(t, 55.0, snap.Alignment.Overall)
	assert.Equal(t, 15.0, snap.Drift.Overall)
	assert.Equal(t, 40.0, history[1].Alignment.Overall, "prior snapshot must not be mutated")
}

func TestCompute_DriftBaselineWithoutHistory(t *testing.T) {
	snap := Compute(domain.VisionState{}, Options{Now: testNow})

	// No milestones: every dimension is round(50 * 0.4) = 20.
	assert.Equal(t, 20.0, snap.Alignment.Overall)
	assert.Equal(t, -30.0, snap.Drift.Overall)
	assert.Equal(t, -30.0, snap.Drift.IncomeStability)
}

func TestCompute_EndToEndLaunchSite(t *testing.T) {
	vs := domain.VisionState{
		Milestones: []domain.Milestone{{
			ID:            "launch",
			Title:         "Launch site",
			Type:          domain.MilestoneTypeIncome,
			CompletionPct: 10,
			Date:          day(-1),
			Blocker:       "",
		}},
		Targets: map[domain.Dimension]float64{domain.DimensionIncome: 80},
	}

	snap := Compute(vs, Options{Now: testNow})

	require.NotEmpty(t, snap.ActionQueue)
	assert.Contains(t, snap.ActionQueue[0].Reason, "Overdue by 1 day")
	assert.Equal(t, 38.0, snap.Alignment.IncomeStability)
}

func TestCompute_TensionFlags(t *testing.T) {
	blocked1 := freshMilestone("b1", "One", 50)
	blocked1.Blocker = "a"
	blocked2 := freshMilestone("b2", "Two", 50)
	blocked2.Blocker = "b"
	overdue := freshMilestone("o", "Late", 50)
	overdue.Date = day(-1)

	t.Run("blocked severity scales with count", func(t *testing.T) {
		snap := Compute(domain.VisionState{Milestones: []domain.Milestone{blocked1}}, Options{Now: testNow})
		require.NotEmpty(t, snap.TensionFlags)
		assert.Equal(t, TensionBlocked, snap.TensionFlags[0].Kind)
		assert.Equal(t, domain.SeverityMedium, snap.TensionFlags[0].Severity)

		snap = Compute(domain.VisionState{Milestones: []domain.Milestone{blocked1, blocked2}}, Options{Now: testNow})
		assert.Equal(t, domain.SeverityHigh, snap.TensionFlags[0].Severity)
	})

	t.Run("evaluation order", func(t *testing.T) {
		snap := Compute(domain.VisionState{Milestones: []domain.Milestone{overdue, blocked1}}, Options{Now: testNow})
		require.GreaterOrEqual(t, len(snap.TensionFlags), 2)
		assert.Equal(t, TensionBlocked, snap.TensionFlags[0].Kind)
		assert.Equal(t, TensionOverdue, snap.TensionFlags[1].Kind)
	})

	t.Run("burnout", func(t *testing.T) {
		history := []domain.Snapshot{{Alignment: domain.Scores{Overall: 80}}}
		snap := Compute(domain.VisionState{}, Options{Now: testNow, Snapshots: history})
		assert.True(t, hasFlag(snap.TensionFlags, TensionBurnout, domain.SeverityHigh))
	})

	t.Run("overextension", func(t *testing.T) {
		var ms []domain.Milestone
		for i := 0; i < 4; i++ {
			ms = append(ms, freshMilestone(string(rune('a'+i)), "Open "+string(rune('A'+i)), 35))
		}
		snap := Compute(domain.VisionState{Milestones: ms}, Options{Now: testNow})
		assert.True(t, hasFlag(snap.TensionFlags, TensionOverextension, domain.SeverityMedium))
	})

	t.Run("finance runway", func(t *testing.T) {
		store := domain.StaticExternal{Finance: &domain.FinanceSnapshot{RunwayMonths: float(1.5)}}
		snap := Compute(domain.VisionState{}, Options{Now: testNow, Store: store})
		assert.True(t, hasFlag(snap.TensionFlags, TensionFinance, domain.SeverityHigh))

		store = domain.StaticExternal{Finance: &domain.FinanceSnapshot{RunwayMonths: float(3)}}
		snap = Compute(domain.VisionState{}, Options{Now: testNow, Store: store})
		assert.True(t, hasFlag(snap.TensionFlags, TensionFinance, domain.SeverityMedium))
	})

	t.Run("finance pipeline", func(t *testing.T) {
		store := domain.StaticExternal{Finance: &domain.FinanceSnapshot{RunwayMonths: float(12), Pipeline: 500, ExpectedIncome: 1000}}
		snap := Compute(domain.VisionState{}, Options{Now: testNow, Store: store})
		assert.True(t, hasFlag(snap.TensionFlags, TensionFinance, domain.SeverityMedium))

		store = domain.StaticExternal{Finance: &domain.FinanceSnapshot{RunwayMonths: float(12), Pipeline: 900, ExpectedIncome: 1000}}
		snap = Compute(domain.VisionState{}, Options{Now: testNow, Store: store})
		assert.False(t, hasFlag(snap.TensionFlags, TensionFinance, domain.SeverityMedium))
	})

	t.Run("urgent queue", func(t *testing.T) {
		late := freshMilestone("late", "Very late", 50)
		late.Date = day(-5)
		snap := Compute(domain.VisionState{Milestones: []domain.Milestone{late}}, Options{Now: testNow})
		assert.True(t, hasFlag(snap.TensionFlags, TensionUrgentQueue, domain.SeverityHigh))
	})

	t.Run("capped at five", func(t *testing.T) {
		late := freshMilestone("late", "Very late", 10)
		late.Date = day(-5)
		late.Blocker = "x"
		ms := []domain.Milestone{late, blocked1, blocked2, freshMilestone("z", "Z", 10)}
		history := []domain.Snapshot{{Alignment: domain.Scores{Overall: 90}}}
		store := domain.StaticExternal{Finance: &domain.FinanceSnapshot{RunwayMonths: float(1)}}

		snap := Compute(domain.VisionState{Milestones: ms}, Options{Now: testNow, Snapshots: history, Store: store})

		assert.Len(t, snap.TensionFlags, MaxTensionFlags)
		assert.False(t, hasFlag(snap.TensionFlags, TensionUrgentQueue, domain.SeverityHigh))
	})
}

func hasFlag(flags []domain.TensionFlag, kind string, sev domain.Severity) bool {
	for _, f := range flags {
		if f.Kind == kind && f.Severity == sev {
			return true
		}
	}
	return false
}

func TestCompute_RiskSignals(t *testing.T) {
	snap := Compute(domain.VisionState{Milestones: []domain.Milestone{freshMilestone("a", "A", 50)}},
		Options{Now: testNow, Snapshots: []domain.Snapshot{{Alignment: domain.Scores{Overall: 30}}}})
	require.Len(t, snap.RiskSignals, 1)
	assert.Equal(t, RiskStable, snap.RiskSignals[0].Kind)
	assert.Equal(t, domain.SeverityLow, snap.RiskSignals[0].Severity)

	blocked := freshMilestone("b", "B", 50)
	blocked.Blocker = "x"
	late := freshMilestone("l", "L", 50)
	late.Date = day(-1)
	late2 := freshMilestone("l2", "L2", 50)
	late2.Date = day(-2)
	snap = Compute(domain.VisionState{Milestones: []domain.Milestone{blocked, late, late2}}, Options{Now: testNow})

	require.Len(t, snap.RiskSignals, 2)
	assert.Equal(t, TensionBlocked, snap.RiskSignals[0].Kind)
	assert.Equal(t, domain.SeverityMedium, snap.RiskSignals[0].Severity)
	assert.Equal(t, TensionOverdue, snap.RiskSignals[1].Kind)
	assert.Equal(t, "Deadline slippage", snap.RiskSignals[1].Label)
}

func TestRiskSignals_KeepEvaluationOrder(t *testing.T) {
	flags := []domain.TensionFlag{
		{Kind: TensionBlocked, Severity: domain.SeverityMedium, Label: "Blocked milestones", Detail: "1 milestone"},
		{Kind: TensionOverextension, Severity: domain.SeverityMedium, Label: "Overextension", Detail: "6 open"},
		{Kind: TensionFinance, Severity: domain.SeverityLow, Label: "Thin pipeline", Detail: "40%"},
		{Kind: TensionBurnout, Severity: domain.SeverityHigh, Label: "Burnout signal", Detail: "-12"},
		{Kind: TensionUrgentQueue, Severity: domain.SeverityHigh, Label: "Urgent queue", Detail: "95"},
	}

	risks := riskSignals(flags)

	require.Len(t, risks, 3)
	assert.Equal(t, TensionBlocked, risks[0].Kind)
	assert.Equal(t, TensionOverextension, risks[1].Kind)
	assert.Equal(t, TensionFinance, risks[2].Kind)
	assert.Equal(t, domain.SeverityLow, risks[2].Severity)
	assert.Equal(t, "Financial pressure", risks[2].Label)
	assert.Equal(t, "40%", risks[2].Detail)
}

func TestCompute_Momentum(t *testing.T) {
	t.Run("defaults without decisions or habits", func(t *testing.T) {
		snap := Compute(domain.VisionState{}, Options{Now: testNow})
		assert.Equal(t, DefaultDecisionMomentum, snap.Momentum.Decisions)
		assert.Equal(t, DefaultHabitMomentum, snap.Momentum.Habits)
		assert.Equal(t, 0.0, snap.Momentum.Milestones)
		// round(0.3*55 + 0.25*55) = 30
		assert.Equal(t, 30.0, snap.Momentum.Overall)
	})

	t.Run("recent yes decisions dominate", func(t *testing.T) {
		decisions := []domain.Decision{
			{Timestamp: testNow.Add(-time.Hour), Outcome: domain.DecisionYes},
			{Timestamp: testNow.Add(-40 * 24 * time.Hour), Outcome: domain.DecisionNo},
		}
		snap := Compute(domain.VisionState{}, Options{Now: testNow, Decisions: decisions})
		assert.Greater(t, snap.Momentum.Decisions, 90.0)
	})

	t.Run("falls back to last twelve when all decisions are old", func(t *testing.T) {
		var decisions []domain.Decision
		for i := 0; i < 20; i++ {
			outcome := domain.DecisionNo
			if i < 3 {
				outcome = domain.DecisionYes
			}
			decisions = append(decisions, domain.Decision{
				Timestamp: testNow.Add(-time.Duration(100+i) * 24 * time.Hour),
				Outcome:   outcome,
			})
		}
		snap := Compute(domain.VisionState{}, Options{Now: testNow, Decisions: decisions})
		assert.Equal(t, 25.0, snap.Momentum.Decisions)
	})

	t.Run("habit rate and commitment penalty", func(t *testing.T) {
		late := freshMilestone("late", "Late", 80)
		late.Date = day(-1)
		store := domain.StaticExternal{HabitRate: 0.8, HasHabits: true}

		snap := Compute(domain.VisionState{Milestones: []domain.Milestone{late}}, Options{Now: testNow, Store: store})

		assert.Equal(t, 80.0, snap.Momentum.Habits)
		assert.Equal(t, 80.0, snap.Momentum.Milestones)
		// base = 0.45*80 + 0.3*55 + 0.25*80 = 72.5; penalty = 0.6*1*30 = 18
		assert.Equal(t, 55.0, snap.Momentum.Overall)
	})

	t.Run("commitments drive milestone momentum", func(t *testing.T) {
		vs := domain.VisionState{
			Milestones:        []domain.Milestone{freshMilestone("a", "A", 90), freshMilestone("b", "B", 10)},
			WeeklyCommitments: []string{"a"},
		}
		snap := Compute(vs, Options{Now: testNow})
		assert.Equal(t, 90.0, snap.Momentum.Milestones)
	})
}

func TestCompute_Suggestions(t *testing.T) {
	low := freshMilestone("low", "Write book", 5)
	committed := freshMilestone("c", "Launch podcast", 60)
	dup := freshMilestone("dup", "launch PODCAST", 70)
	vs := domain.VisionState{
		Themes: []domain.Theme{
			{Label: "Family", Weight: 1},
			{Label: "Craft", Weight: 5},
			{Label: "", Weight: 9},
		},
		Milestones:        []domain.Milestone{low, committed, dup},
		WeeklyCommitments: []string{"c"},
	}

	snap := Compute(vs, Options{Now: testNow})

	require.Len(t, snap.SuggestedPillars, 3)
	assert.Equal(t, "Craft", snap.SuggestedPillars[0])
	assert.Equal(t, "Family", snap.SuggestedPillars[1])
	assert.Equal(t, fillerPillars[0], snap.SuggestedPillars[2])

	require.Len(t, snap.SuggestedCommitments, 3)
	assert.Equal(t, "Advance Launch podcast", snap.SuggestedCommitments[0])
	for _, s := range snap.SuggestedCommitments[1:] {
		assert.NotEqual(t, "advance launch podcast", strings.ToLower(s))
	}

	require.Len(t, snap.SuggestedRisks, 3)
	assert.True(t, strings.HasPrefix(snap.SuggestedRisks[0], "Stable trajectory"))
}

func TestCompute_Explainability(t *testing.T) {
	snap := Compute(domain.VisionState{}, Options{Now: testNow})
	assert.GreaterOrEqual(t, len(snap.Explainability.Overall), minExplanations)
	assert.LessOrEqual(t, len(snap.Explainability.Overall), maxExplanations)

	late := freshMilestone("late", "Late thing", 20)
	late.Date = day(-2)
	late.Blocker = "x"
	vs := domain.VisionState{Milestones: []domain.Milestone{late, freshMilestone("b", "B", 100)}, WeeklyCommitments: []string{"late"}}
	snap = Compute(vs, Options{Now: testNow})

	require.LessOrEqual(t, len(snap.Explainability.Overall), maxExplanations)
	assert.True(t, strings.HasPrefix(snap.Explainability.Overall[0], "Top priority: Late thing"))

	require.Len(t, snap.Explainability.Dimensions, 5)
	for _, d := range domain.Dimensions() {
		lines := snap.Explainability.Dimensions[d]
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "Target: "))
		assert.True(t, strings.HasPrefix(lines[2], "Current alignment: "))
	}
}

func TestCompute_IgnoresArchivedMilestones(t *testing.T) {
	archived := freshMilestone("arch", "Old plan", 0)
	archived.Archived = true
	archived.Date = day(-10)

	history := []domain.Snapshot{{Alignment: domain.Scores{Overall: 20}}}
	snap := Compute(domain.VisionState{Milestones: []domain.Milestone{archived}}, Options{Now: testNow, Snapshots: history})

	assert.Empty(t, snap.ActionQueue)
	assert.Empty(t, snap.TensionFlags)
}

func TestNeutralSnapshot_Shape(t *testing.T) {
	snap := NeutralSnapshot(testNow)

	assert.Equal(t, 50.0, snap.Alignment.Overall)
	assert.Equal(t, 50.0, snap.Momentum.Overall)
	assert.NotNil(t, snap.ActionQueue)
	assert.NotNil(t, snap.TensionFlags)
	assert.Len(t, snap.SuggestedPillars, 3)
	assert.Len(t, snap.SuggestedCommitments, 3)
	assert.Len(t, snap.SuggestedRisks, 3)
	assert.Len(t, snap.Explainability.Overall, 3)
	assert.Len(t, snap.Explainability.Dimensions, 5)
}
