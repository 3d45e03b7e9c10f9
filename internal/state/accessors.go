package state

import (
	"context"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/records"
)

func (h *Hub) GetVisionState(ctx context.Context) (domain.VisionState, error) {
	return invoke(h, OpGetVisionState, func() (domain.VisionState, error) {
		return h.records.GetVisionState(ctx)
	})
}

func (h *Hub) ListMilestones(ctx context.Context, includeArchived bool) ([]domain.Milestone, error) {
	return invoke(h, OpListMilestones, func() ([]domain.Milestone, error) {
		return h.records.ListMilestones(ctx, includeArchived)
	})
}

func (h *Hub) GetMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	return invoke(h, OpGetMilestone, func() (domain.Milestone, error) {
		return h.records.GetMilestone(ctx, id)
	})
}

func (h *Hub) GetDecisionLog(ctx context.Context) ([]domain.Decision, error) {
	return invoke(h, OpGetDecisionLog, func() ([]domain.Decision, error) {
		return h.records.GetDecisionLog(ctx)
	})
}

func (h *Hub) GetSnapshotHistory(ctx context.Context) ([]domain.Snapshot, error) {
	return invoke(h, OpGetSnapshotHistory, func() ([]domain.Snapshot, error) {
		return h.records.GetSnapshotHistory(ctx)
	})
}

type financeResult struct {
	snapshot domain.FinanceSnapshot
	ok       bool
}

func (h *Hub) GetFinanceSnapshot(ctx context.Context) (domain.FinanceSnapshot, bool, error) {
	res, err := invoke(h, OpGetFinanceSnapshot, func() (financeResult, error) {
		f, ok, err := h.records.GetFinanceSnapshot(ctx)
		return financeResult{snapshot: f, ok: ok}, err
	})
	return res.snapshot, res.ok, err
}

type rateResult struct {
	rate float64
	ok   bool
}

func (h *Hub) GetHabitCompletionRate(ctx context.Context) (float64, bool, error) {
	res, err := invoke(h, OpGetHabitCompletionRate, func() (rateResult, error) {
		rate, ok, err := h.records.GetHabitCompletionRate(ctx)
		return rateResult{rate: rate, ok: ok}, err
	})
	return res.rate, res.ok, err
}

func (h *Hub) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	return invoke(h, OpListHabits, func() ([]domain.Habit, error) {
		return h.records.ListHabits(ctx)
	})
}

func (h *Hub) SaveVisionState(ctx context.Context, vs domain.VisionState) (domain.VisionState, error) {
	return invoke(h, OpSaveVisionState, func() (domain.VisionState, error) {
		return h.records.SaveVisionState(ctx, vs)
	})
}

func (h *Hub) SetNorthStar(ctx context.Context, northStar string) (domain.VisionState, error) {
	return invoke(h, OpSetNorthStar, func() (domain.VisionState, error) {
		return h.records.SetNorthStar(ctx, northStar)
	})
}

func (h *Hub) SetThemes(ctx context.Context, themes []domain.Theme) (domain.VisionState, error) {
	return invoke(h, OpSetThemes, func() (domain.VisionState, error) {
		return h.records.SetThemes(ctx, themes)
	})
}

func (h *Hub) SetTarget(ctx context.Context, d domain.Dimension, value float64) (domain.VisionState, error) {
	return invoke(h, OpSetTarget, func() (domain.VisionState, error) {
		return h.records.SetTarget(ctx, d, value)
	})
}

func (h *Hub) CreateMilestone(ctx context.Context, m domain.Milestone) (domain.Milestone, error) {
	return invoke(h, OpCreateMilestone, func() (domain.Milestone, error) {
		return h.records.CreateMilestone(ctx, m)
	})
}

func (h *Hub) UpdateMilestone(ctx context.Context, id string, patch records.MilestonePatch) (domain.Milestone, error) {
	return invoke(h, OpUpdateMilestone, func() (domain.Milestone, error) {
		return h.records.UpdateMilestone(ctx, id, patch)
	})
}

func (h *Hub) DeleteMilestone(ctx context.Context, id string) error {
	return invokeErr(h, OpDeleteMilestone, func() error {
		return h.records.DeleteMilestone(ctx, id)
	})
}

func (h *Hub) ArchiveMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	return invoke(h, OpArchiveMilestone, func() (domain.Milestone, error) {
		return h.records.ArchiveMilestone(ctx, id)
	})
}

func (h *Hub) RestoreMilestone(ctx context.Context, id string) (domain.Milestone, error) {
	return invoke(h, OpRestoreMilestone, func() (domain.Milestone, error) {
		return h.records.RestoreMilestone(ctx, id)
	})
}

func (h *Hub) ToggleWeeklyCommitment(ctx context.Context, id string) (bool, error) {
	return invoke(h, OpToggleWeeklyCommitment, func() (bool, error) {
		return h.records.ToggleWeeklyCommitment(ctx, id)
	})
}

func (h *Hub) ClearWeeklyCommitments(ctx context.Context) error {
	return invokeErr(h, OpClearWeeklyCommitments, func() error {
		return h.records.ClearWeeklyCommitments(ctx)
	})
}

func (h *Hub) LogDecision(ctx context.Context, d domain.Decision) (domain.Decision, error) {
	return invoke(h, OpLogDecision, func() (domain.Decision, error) {
		return h.records.LogDecision(ctx, d)
	})
}

func (h *Hub) ClearDecisionLog(ctx context.Context) error {
	return invokeErr(h, OpClearDecisionLog, func() error {
		return h.records.ClearDecisionLog(ctx)
	})
}

func (h *Hub) RecordSnapshot(ctx context.Context, s domain.Snapshot) (domain.Snapshot, error) {
	return invoke(h, OpRecordSnapshot, func() (domain.Snapshot, error) {
		return h.records.RecordSnapshot(ctx, s)
	})
}

func (h *Hub) SaveFinanceSnapshot(ctx context.Context, f domain.FinanceSnapshot) (domain.FinanceSnapshot, error) {
	return invoke(h, OpSaveFinanceSnapshot, func() (domain.FinanceSnapshot, error) {
		return h.records.SaveFinanceSnapshot(ctx, f)
	})
}

func (h *Hub) CreateHabit(ctx context.Context, name string) (domain.Habit, error) {
	return invoke(h, OpCreateHabit, func() (domain.Habit, error) {
		return h.records.CreateHabit(ctx, name)
	})
}

func (h *Hub) ToggleHabit(ctx context.Context, id, day string) (domain.Habit, error) {
	return invoke(h, OpToggleHabit, func() (domain.Habit, error) {
		return h.records.ToggleHabit(ctx, id, day)
	})
}

func (h *Hub) DeleteHabit(ctx context.Context, id string) error {
	return invokeErr(h, OpDeleteHabit, func() error {
		return h.records.DeleteHabit(ctx, id)
	})
}

func (h *Hub) ResetAll(ctx context.Context) error {
	return invokeErr(h, OpResetAll, func() error {
		return h.records.ResetAll(ctx)
	})
}

func (h *Hub) SeedDemo(ctx context.Context) error {
	return invokeErr(h, OpSeedDemo, func() error {
		return h.records.SeedDemo(ctx)
	})
}
