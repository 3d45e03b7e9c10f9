package producers

import (
	"context"
	"testing"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/records"
	"github.com/Harshitk-cp/lifedash/internal/state"
	"github.com/Harshitk-cp/lifedash/internal/store"
	"github.com/Harshitk-cp/lifedash/internal/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Wednesday.
var testNow = time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T, milestones []domain.Milestone, commitments []string) (*state.Hub, *records.Accessors) {
	t.Helper()
	rec := records.New(store.NewMemoryStore(), records.Config{Now: func() time.Time { return testNow }})
	_, err := rec.SaveVisionState(context.Background(), domain.VisionState{
		NorthStar:         "Make calm, useful things",
		Milestones:        milestones,
		WeeklyCommitments: commitments,
	})
	require.NoError(t, err)

	h := state.NewHub(rec, zap.NewNop())
	RegisterDefaults(h)
	h.Install()
	return h, rec
}

func milestone(id string, mt domain.MilestoneType, completion float64, date string) domain.Milestone {
	return domain.Milestone{
		ID:            id,
		Title:         "Milestone " + id,
		Type:          mt,
		CompletionPct: completion,
		Date:          date,
		NextAction:    "do it",
		CreatedAt:     testNow.AddDate(0, 0, -3),
		UpdatedAt:     testNow.AddDate(0, 0, -1),
	}
}

func TestAlignment_MatchesEngine(t *testing.T) {
	ctx := context.Background()
	h, rec := setup(t, []domain.Milestone{
		milestone("a", domain.MilestoneTypeCreation, 40, "2026-03-13"),
		milestone("b", domain.MilestoneTypeIncome, 10, "2026-03-01"),
	}, []string{"a"})

	got := h.AlignmentState(ctx, false)

	vs, err := rec.GetVisionState(ctx)
	require.NoError(t, err)
	want := vision.Compute(vs, vision.Options{Now: testNow, Store: state.Domain{Vision: vs}})
	assert.Equal(t, want, got)
}

func TestTime(t *testing.T) {
	ctx := context.Background()
	h, _ := setup(t, []domain.Milestone{
		milestone("late", domain.MilestoneTypeHealth, 10, "2026-03-02"),
		milestone("soon", domain.MilestoneTypeHealth, 10, "2026-03-16"),
		milestone("later", domain.MilestoneTypeHealth, 10, "2026-04-20"),
		milestone("done", domain.MilestoneTypeHealth, 100, "2026-03-12"),
	}, nil)

	ts := h.TimeState(ctx, false)

	assert.Equal(t, "morning", ts.DayPart)
	assert.Equal(t, "Wednesday", ts.Weekday)
	assert.InDelta(t, 57.5/168, ts.WeekProgress, 1e-9)
	assert.Equal(t, 5, ts.DaysToNextDue)
	assert.Equal(t, "Milestone soon", ts.NextDue)
}

func TestDayPart(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{4, "night"},
		{5, "morning"},
		{12, "afternoon"},
		{17, "evening"},
		{22, "night"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dayPart(tt.hour), "hour %d", tt.hour)
	}
}

func TestAttention(t *testing.T) {
	ctx := context.Background()
	blocked := milestone("b", domain.MilestoneTypeIncome, 20, "")
	blocked.Blocker = "waiting on legal"
	h, _ := setup(t, []domain.Milestone{
		milestone("a", domain.MilestoneTypeCreation, 40, ""),
		blocked,
		milestone("c", domain.MilestoneTypeHealth, 0, ""),
		milestone("d", domain.MilestoneTypeHealth, 100, ""),
	}, []string{"a"})

	as := h.AttentionState(ctx, false)

	assert.Equal(t, 3, as.OpenLoops)
	assert.Equal(t, 1, as.Blocked)
	assert.Equal(t, 1, as.Committed)
	assert.Equal(t, 38.0, as.Load)
	assert.Equal(t, 0.69, as.Focus)
	assert.NotEmpty(t, as.TopItem)
}

func TestCreativePhase(t *testing.T) {
	tests := []struct {
		name       string
		milestones []domain.Milestone
		want       string
		active     int
	}{
		{name: "no creation work", milestones: nil, want: "resting"},
		{
			name: "early",
			milestones: []domain.Milestone{
				milestone("a", domain.MilestoneTypeCreation, 10, ""),
				milestone("b", domain.MilestoneTypeCreation, 30, ""),
			},
			want:   "seeding",
			active: 2,
		},
		{
			name: "mid",
			milestones: []domain.Milestone{
				milestone("a", domain.MilestoneTypeCreation, 50, ""),
				milestone("b", domain.MilestoneTypeIncome, 0, ""),
			},
			want:   "building",
			active: 1,
		},
		{
			name: "late",
			milestones: []domain.Milestone{
				milestone("a", domain.MilestoneTypeCreation, 100, ""),
				milestone("b", domain.MilestoneTypeCreation, 60, ""),
			},
			want:   "shipping",
			active: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t, tt.milestones, nil)
			cs := h.CreativePhaseState(context.Background(), false)
			assert.Equal(t, tt.want, cs.Phase)
			assert.Equal(t, tt.active, cs.ActiveProjects)
		})
	}
}

func TestRelationship_Neglected(t *testing.T) {
	ctx := context.Background()
	stale := milestone("r", domain.MilestoneTypeRelationships, 20, "")
	stale.UpdatedAt = testNow.AddDate(0, 0, -20)
	h, _ := setup(t, []domain.Milestone{stale}, nil)

	rs := h.RelationshipState(ctx, false)

	assert.Equal(t, 1, rs.OpenMilestones)
	assert.Equal(t, 20, rs.DaysSinceUpdate)
	assert.True(t, rs.Neglected)
	assert.Equal(t, domain.DefaultTarget, rs.Target)
}

func TestNarrativeAndSystem(t *testing.T) {
	ctx := context.Background()
	h, _ := setup(t, []domain.Milestone{
		milestone("a", domain.MilestoneTypeCreation, 40, "2026-03-13"),
	}, []string{"a"})

	alignment := h.AlignmentState(ctx, false)
	ns := h.NarrativeState(ctx, false)
	band := domain.ComputeBand(alignment.Alignment.Overall)

	assert.Equal(t, band, ns.Band)
	assert.Equal(t, domain.BandTone[band], ns.Tone)
	require.NotEmpty(t, ns.Lines)
	assert.Equal(t, "North star: Make calm, useful things", ns.Lines[0])

	sys := h.SystemState(ctx, false)
	assert.Equal(t, alignment, sys.Alignment)
	assert.Equal(t, ns, sys.Narrative)
	assert.Equal(t, band, sys.Band)
	assert.GreaterOrEqual(t, sys.Health, 0.0)
	assert.LessOrEqual(t, sys.Health, 100.0)
}

func TestSystem_RecomputesAfterMutation(t *testing.T) {
	ctx := context.Background()
	h, _ := setup(t, nil, nil)

	before := h.SystemState(ctx, false)
	assert.Equal(t, 0, before.Attention.OpenLoops)

	_, err := h.CreateMilestone(ctx, domain.Milestone{Title: "New thing", Type: domain.MilestoneTypeMeaning})
	require.NoError(t, err)

	after := h.SystemState(ctx, false)
	assert.Equal(t, 1, after.Attention.OpenLoops)
}
