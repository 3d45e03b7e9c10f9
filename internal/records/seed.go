package records

import (
	"context"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

// SeedDemo replaces every record with a small, plausible dataset anchored on
// the current clock.
func (a *Accessors) SeedDemo(ctx context.Context) error {
	if err := a.ResetAll(ctx); err != nil {
		return err
	}
	now := a.now()
	day := func(offset int) string {
		return domain.DateKey(now.AddDate(0, 0, offset))
	}
	ago := func(days int) func(domain.Milestone) domain.Milestone {
		return func(m domain.Milestone) domain.Milestone {
			m.CreatedAt = now.AddDate(0, 0, -days-7)
			m.UpdatedAt = now.AddDate(0, 0, -days)
			return m
		}
	}

	milestones := []domain.Milestone{
		ago(2)(domain.Milestone{ID: "ms-launch-site", Title: "Launch portfolio site", Date: day(5), Type: domain.MilestoneTypeCreation, CompletionPct: 60, NextAction: "Write the about page"}),
		ago(12)(domain.Milestone{ID: "ms-retainer", Title: "Sign second retainer client", Date: day(-3), Type: domain.MilestoneTypeIncome, CompletionPct: 30, Blocker: "Waiting on contract review"}),
		ago(1)(domain.Milestone{ID: "ms-10k", Title: "Run a 10k", Date: day(40), Type: domain.MilestoneTypeHealth, CompletionPct: 45, NextAction: "Tempo run Thursday"}),
		ago(20)(domain.Milestone{ID: "ms-call-parents", Title: "Weekly call with parents", Type: domain.MilestoneTypeRelationships, CompletionPct: 10}),
		ago(4)(domain.Milestone{ID: "ms-mentor", Title: "Mentor two junior devs", Date: day(60), Type: domain.MilestoneTypeMeaning, CompletionPct: 100}),
	}
	for i := range milestones {
		milestones[i].Status = domain.DeriveStatus(milestones[i].CompletionPct, "")
	}

	vs := domain.VisionState{
		NorthStar: "Build a calm, self-directed creative practice that pays the bills",
		Themes: []domain.Theme{
			{Label: "Ship small things often", Weight: 1},
			{Label: "Protect mornings", Weight: 0.8},
			{Label: "Show up for people", Weight: 0.6},
		},
		Milestones:        milestones,
		WeeklyCommitments: []string{"ms-launch-site", "ms-retainer"},
		Targets: map[domain.Dimension]float64{
			domain.DimensionIncome:        70,
			domain.DimensionCreation:      80,
			domain.DimensionHealth:        60,
			domain.DimensionRelationships: 55,
			domain.DimensionMeaning:       50,
		},
	}
	if _, err := a.SaveVisionState(ctx, vs); err != nil {
		return err
	}

	energy := 6.0
	decisions := []domain.Decision{
		{ID: "dec-1", Timestamp: now.AddDate(0, 0, -6), Outcome: domain.DecisionYes, Mode: "focus", Energy: &energy, Note: "Said yes to the site sprint", Alignment: 48, Drift: 2},
		{ID: "dec-2", Timestamp: now.AddDate(0, 0, -3), Outcome: domain.DecisionNo, Mode: "social", Note: "Skipped the meetup", Alignment: 50, Drift: 1},
		{ID: "dec-3", Timestamp: now.AddDate(0, 0, -1), Outcome: domain.DecisionYes, Mode: "focus", Note: "Blocked mornings for writing", Alignment: 52, Drift: 2},
	}
	if err := a.save(ctx, KeyDecisions, decisions); err != nil {
		return err
	}

	runway := 5.5
	if _, err := a.SaveFinanceSnapshot(ctx, domain.FinanceSnapshot{
		RunwayMonths:   &runway,
		Cash:           16500,
		MonthlyBurn:    3000,
		Pipeline:       4000,
		ExpectedIncome: 6000,
	}); err != nil {
		return err
	}

	habits := []domain.Habit{
		{ID: "habit-write", Name: "Write 500 words", Completions: map[string]bool{day(0): true, day(-1): true, day(-3): true, day(-4): true}, CreatedAt: now.AddDate(0, 0, -30)},
		{ID: "habit-move", Name: "Move for 30 minutes", Completions: map[string]bool{day(-1): true, day(-2): true}, CreatedAt: now.AddDate(0, 0, -30)},
	}
	return a.save(ctx, KeyHabits, habits)
}
