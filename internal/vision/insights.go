package vision

import (
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

// WeekBounds returns the Monday 00:00 that starts ref's week and the
// following Monday, which is exclusive.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	day := startOfDay(ref)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// WeeklyInsights summarises decisions, snapshots and milestone movement in
// the ISO week containing ref.
func WeeklyInsights(decisions []domain.Decision, snapshots []domain.Snapshot, milestones []domain.Milestone, ref time.Time) domain.WeeklyInsights {
	start, end := WeekBounds(ref)
	inWeek := func(t time.Time) bool {
		return !t.IsZero() && !t.Before(start) && t.Before(end)
	}

	out := domain.WeeklyInsights{WeekStart: start, WeekEnd: end}

	for _, d := range decisions {
		if !inWeek(d.Timestamp) {
			continue
		}
		out.DecisionCount++
		if d.Outcome == domain.DecisionYes {
			out.AlignedCount++
		}
	}

	var baseline, first, last *domain.Snapshot
	for i := range snapshots {
		s := &snapshots[i]
		switch {
		case s.ComputedAt.Before(start):
			if baseline == nil || !s.ComputedAt.Before(baseline.ComputedAt) {
				baseline = s
			}
		case inWeek(s.ComputedAt):
			if first == nil || s.ComputedAt.Before(first.ComputedAt) {
				first = s
			}
			if last == nil || !s.ComputedAt.Before(last.ComputedAt) {
				last = s
			}
		}
	}
	if last != nil {
		if baseline == nil {
			baseline = first
		}
		out.AlignmentDelta = last.Alignment.Overall - baseline.Alignment.Overall
		out.DriftDelta = last.Drift.Overall - baseline.Drift.Overall
	}

	for _, m := range milestones {
		if m.Archived || !inWeek(m.UpdatedAt) {
			continue
		}
		out.MilestonesMoved++
		if domain.DeriveStatus(clamp(coerce(m.CompletionPct, 0), 0, 100), m.Status) == domain.MilestoneStatusDone {
			out.MilestonesCompleted++
		}
	}

	return out
}
