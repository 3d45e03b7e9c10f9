package records

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)

func newTestAccessors(limit int) (*Accessors, *store.MemoryStore) {
	kv := store.NewMemoryStore()
	return New(kv, Config{HistoryLimit: limit, Now: func() time.Time { return testNow }}), kv
}

func TestGetVisionState_EmptyStore(t *testing.T) {
	a, _ := newTestAccessors(0)

	vs, err := a.GetVisionState(context.Background())
	require.NoError(t, err)

	assert.Empty(t, vs.Milestones)
	assert.NotNil(t, vs.Milestones)
	for _, d := range domain.Dimensions() {
		assert.Equal(t, domain.DefaultTarget, vs.Targets[d])
	}
}

func TestDecodeVision_Lenient(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		verify func(t *testing.T, vs domain.VisionState)
	}{
		{
			name: "not json",
			raw:  `{{{`,
			verify: func(t *testing.T, vs domain.VisionState) {
				assert.Empty(t, vs.Milestones)
				assert.Len(t, vs.Targets, 5)
			},
		},
		{
			name: "numeric strings and out of range values",
			raw: `{"milestones":[{"id":"a","title":"A","completionPct":"140","type":"Creation"}],
			       "targets":{"creativeOutput":"70","incomeStability":-5,"physicalVitality":"lots"}}`,
			verify: func(t *testing.T, vs domain.VisionState) {
				require.Len(t, vs.Milestones, 1)
				assert.Equal(t, 100.0, vs.Milestones[0].CompletionPct)
				assert.Equal(t, domain.MilestoneStatusDone, vs.Milestones[0].Status)
				assert.Equal(t, 70.0, vs.Targets[domain.DimensionCreation])
				assert.Equal(t, 0.0, vs.Targets[domain.DimensionIncome])
				assert.Equal(t, domain.DefaultTarget, vs.Targets[domain.DimensionHealth])
			},
		},
		{
			name: "unknown type and missing id",
			raw:  `{"milestones":[{"id":"a","type":"Hobby"},{"title":"no id"},42]}`,
			verify: func(t *testing.T, vs domain.VisionState) {
				require.Len(t, vs.Milestones, 1)
				assert.Equal(t, domain.MilestoneTypeCustom, vs.Milestones[0].Type)
			},
		},
		{
			name: "duplicate milestone ids keep the first",
			raw:  `{"milestones":[{"id":"a","title":"First"},{"id":" a ","title":"Second"},{"id":"b","title":"Third"}]}`,
			verify: func(t *testing.T, vs domain.VisionState) {
				require.Len(t, vs.Milestones, 2)
				assert.Equal(t, "First", vs.Milestones[0].Title)
				assert.Equal(t, "b", vs.Milestones[1].ID)
			},
		},
		{
			name: "string themes and duplicate commitments",
			raw:  `{"themes":["Rest",{"label":"Ship","weight":"2"},{"weight":1}],"weeklyCommitments":["a","a","",3]}`,
			verify: func(t *testing.T, vs domain.VisionState) {
				assert.Equal(t, []domain.Theme{{Label: "Rest", Weight: 1}, {Label: "Ship", Weight: 2}}, vs.Themes)
				assert.Equal(t, []string{"a", "3"}, vs.WeeklyCommitments)
			},
		},
		{
			name: "unix millis timestamps",
			raw:  `{"milestones":[{"id":"a","updatedAt":1773221400000}]}`,
			verify: func(t *testing.T, vs domain.VisionState) {
				require.Len(t, vs.Milestones, 1)
				assert.True(t, vs.Milestones[0].UpdatedAt.Equal(time.UnixMilli(1773221400000)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, decodeVision([]byte(tt.raw)))
		})
	}
}

func TestMilestoneLifecycle(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	m, err := a.CreateMilestone(ctx, domain.Milestone{Title: "  Launch site ", Type: domain.MilestoneTypeCreation, CompletionPct: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Launch site", m.Title)
	assert.Equal(t, domain.MilestoneStatusActive, m.Status)
	assert.True(t, m.CreatedAt.Equal(testNow))

	committed, err := a.ToggleWeeklyCommitment(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, committed)

	pct := 100.0
	updated, err := a.UpdateMilestone(ctx, m.ID, MilestonePatch{CompletionPct: &pct})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusDone, updated.Status)

	pct = 40
	updated, err = a.UpdateMilestone(ctx, m.ID, MilestonePatch{CompletionPct: &pct})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusActive, updated.Status)

	archived, err := a.ArchiveMilestone(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	vs, err := a.GetVisionState(ctx)
	require.NoError(t, err)
	assert.Empty(t, vs.WeeklyCommitments)

	active, err := a.ListMilestones(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := a.ListMilestones(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = a.RestoreMilestone(ctx, m.ID)
	require.NoError(t, err)
	active, err = a.ListMilestones(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, a.DeleteMilestone(ctx, m.ID))
	_, err = a.GetMilestone(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMilestoneNotFound)
	assert.ErrorIs(t, a.DeleteMilestone(ctx, m.ID), ErrMilestoneNotFound)
}

func TestUpdateMilestone_KeepsExplicitDone(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	m, err := a.CreateMilestone(ctx, domain.Milestone{Title: "Call", CompletionPct: 20, Status: domain.MilestoneStatusDone})
	require.NoError(t, err)
	require.Equal(t, domain.MilestoneStatusDone, m.Status)

	title := "Call mum"
	updated, err := a.UpdateMilestone(ctx, m.ID, MilestonePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneStatusDone, updated.Status)
	assert.Equal(t, "Call mum", updated.Title)
}

func TestSetTarget(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	vs, err := a.SetTarget(ctx, domain.DimensionHealth, 130)
	require.NoError(t, err)
	assert.Equal(t, 100.0, vs.Targets[domain.DimensionHealth])

	_, err = a.SetTarget(ctx, "luck", 10)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestRecordSnapshot_AppendOnlyAndTrimmed(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(3)

	for i := 0; i < 5; i++ {
		_, err := a.RecordSnapshot(ctx, domain.Snapshot{
			ComputedAt: testNow.Add(time.Duration(i) * time.Hour),
			Alignment:  domain.Scores{Overall: float64(10 * i)},
		})
		require.NoError(t, err)
	}

	history, err := a.GetSnapshotHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 20.0, history[0].Alignment.Overall)
	assert.Equal(t, 40.0, history[2].Alignment.Overall)
}

func TestDecodeSnapshots_SkipsBadEntries(t *testing.T) {
	raw := `[{"computedAt":"2026-03-10T08:00:00Z","alignment":{"overall":40}},{"alignment":"oops"},7]`

	got := decodeSnapshots([]byte(raw))
	require.Len(t, got, 1)
	assert.Equal(t, 40.0, got[0].Alignment.Overall)
}

func TestDecisionLog(t *testing.T) {
	ctx := context.Background()
	a, kv := newTestAccessors(0)

	d, err := a.LogDecision(ctx, domain.Decision{Outcome: domain.DecisionYes, Alignment: 61, Drift: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.True(t, d.Timestamp.Equal(testNow))

	require.NoError(t, kv.Put(ctx, KeyDecisions, []byte(`[{"id":"x","outcome":"YES","energy":"7"},{"id":"y","outcome":"maybe"}]`)))
	log, err := a.GetDecisionLog(ctx)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, domain.DecisionYes, log[0].Outcome)
	require.NotNil(t, log[0].Energy)
	assert.Equal(t, 7.0, *log[0].Energy)

	require.NoError(t, a.ClearDecisionLog(ctx))
	log, err = a.GetDecisionLog(ctx)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestFinanceSnapshot(t *testing.T) {
	ctx := context.Background()
	a, kv := newTestAccessors(0)

	_, ok, err := a.GetFinanceSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, KeyFinance, []byte(`{"runwayMonths":"3.5","pipeline":"n/a","expectedIncome":4000}`)))
	f, ok, err := a.GetFinanceSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, f.RunwayMonths)
	assert.Equal(t, 3.5, *f.RunwayMonths)
	assert.Equal(t, 0.0, f.Pipeline)
	assert.Equal(t, 4000.0, f.ExpectedIncome)
}

func TestHabitCompletionRate(t *testing.T) {
	tests := []struct {
		name   string
		habits []domain.Habit
		want   float64
		wantOK bool
	}{
		{name: "no habits", habits: nil, want: 0, wantOK: false},
		{
			name: "window excludes old days",
			habits: []domain.Habit{
				{ID: "a", Completions: map[string]bool{"2026-03-11": true, "2026-03-05": true, "2026-03-04": true}},
			},
			want:   2.0 / 7.0,
			wantOK: true,
		},
		{
			name: "two habits",
			habits: []domain.Habit{
				{ID: "a", Completions: map[string]bool{"2026-03-11": true, "2026-03-10": true}},
				{ID: "b", Completions: map[string]bool{}},
			},
			want:   2.0 / 14.0,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HabitCompletionRate(tt.habits, testNow)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHabits(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	h, err := a.CreateHabit(ctx, "Stretch")
	require.NoError(t, err)

	h, err = a.ToggleHabit(ctx, h.ID, "")
	require.NoError(t, err)
	assert.True(t, h.Completions["2026-03-11"])

	rate, ok, err := a.GetHabitCompletionRate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.0/7.0, rate, 1e-9)

	h, err = a.ToggleHabit(ctx, h.ID, "2026-03-11")
	require.NoError(t, err)
	assert.False(t, h.Completions["2026-03-11"])

	_, err = a.ToggleHabit(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrHabitNotFound)

	require.NoError(t, a.DeleteHabit(ctx, h.ID))
	assert.ErrorIs(t, a.DeleteHabit(ctx, h.ID), ErrHabitNotFound)
}

func TestSeedDemoAndReset(t *testing.T) {
	ctx := context.Background()
	a, kv := newTestAccessors(0)

	require.NoError(t, a.SeedDemo(ctx))

	vs, err := a.GetVisionState(ctx)
	require.NoError(t, err)
	assert.Len(t, vs.Milestones, 5)
	assert.Len(t, vs.WeeklyCommitments, 2)

	habits, err := a.ListHabits(ctx)
	require.NoError(t, err)
	assert.Len(t, habits, 2)

	require.NoError(t, kv.Put(ctx, "legacy:notes", []byte(`"old"`)))

	require.NoError(t, a.ResetAll(ctx))
	for _, key := range []string{KeyVision, KeyDecisions, KeySnapshots, KeyFinance, KeyHabits, "legacy:notes"} {
		_, err := kv.Get(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound, fmt.Sprintf("key %s", key))
	}
	keys, err := kv.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSaveVisionState_MintsMissingMilestoneIDs(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	saved, err := a.SaveVisionState(ctx, domain.VisionState{
		Milestones: []domain.Milestone{
			{Title: "No id yet", CompletionPct: 20},
			{ID: "  kept  ", Title: "Has id"},
		},
	})
	require.NoError(t, err)
	require.Len(t, saved.Milestones, 2)
	assert.NotEmpty(t, saved.Milestones[0].ID)
	assert.Equal(t, testNow, saved.Milestones[0].CreatedAt)
	assert.Equal(t, testNow, saved.Milestones[0].UpdatedAt)
	assert.Equal(t, "kept", saved.Milestones[1].ID)

	vs, err := a.GetVisionState(ctx)
	require.NoError(t, err)
	require.Len(t, vs.Milestones, 2)
	assert.Equal(t, saved.Milestones[0].ID, vs.Milestones[0].ID)
	assert.Equal(t, "No id yet", vs.Milestones[0].Title)

	m, err := a.GetMilestone(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "Has id", m.Title)
}

func TestSaveVisionState_RejectsDuplicateMilestoneIDs(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	_, err := a.CreateMilestone(ctx, domain.Milestone{ID: "x", Title: "Existing"})
	require.NoError(t, err)

	_, err = a.SaveVisionState(ctx, domain.VisionState{
		Milestones: []domain.Milestone{{ID: "y", Title: "One"}, {ID: "y ", Title: "Two"}},
	})
	assert.ErrorIs(t, err, ErrMilestoneExists)

	vs, err := a.GetVisionState(ctx)
	require.NoError(t, err)
	require.Len(t, vs.Milestones, 1)
	assert.Equal(t, "x", vs.Milestones[0].ID)
}

func TestCreateMilestone_DuplicateID(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccessors(0)

	first, err := a.CreateMilestone(ctx, domain.Milestone{ID: "x", Title: "First"})
	require.NoError(t, err)
	assert.Equal(t, "x", first.ID)

	_, err = a.CreateMilestone(ctx, domain.Milestone{ID: " x", Title: "Second"})
	assert.ErrorIs(t, err, ErrMilestoneExists)

	require.NoError(t, a.DeleteMilestone(ctx, "x"))
	vs, err := a.GetVisionState(ctx)
	require.NoError(t, err)
	assert.Empty(t, vs.Milestones)

	minted, err := a.CreateMilestone(ctx, domain.Milestone{Title: "Fresh"})
	require.NoError(t, err)
	assert.NotEmpty(t, minted.ID)
}
