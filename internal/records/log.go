package records

import (
	"context"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/google/uuid"
)

// GetDecisionLog returns decisions oldest first.
func (a *Accessors) GetDecisionLog(ctx context.Context) ([]domain.Decision, error) {
	raw, err := a.load(ctx, KeyDecisions)
	if err != nil {
		return nil, err
	}
	return decodeDecisions(raw), nil
}

func (a *Accessors) LogDecision(ctx context.Context, d domain.Decision) (domain.Decision, error) {
	log, err := a.GetDecisionLog(ctx)
	if err != nil {
		return domain.Decision{}, err
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = a.now()
	}
	log = append(log, d)
	if err := a.save(ctx, KeyDecisions, log); err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

func (a *Accessors) ClearDecisionLog(ctx context.Context) error {
	return a.save(ctx, KeyDecisions, []domain.Decision{})
}

// GetSnapshotHistory returns recorded snapshots oldest first.
func (a *Accessors) GetSnapshotHistory(ctx context.Context) ([]domain.Snapshot, error) {
	raw, err := a.load(ctx, KeySnapshots)
	if err != nil {
		return nil, err
	}
	return decodeSnapshots(raw), nil
}

// RecordSnapshot appends s to the history. Existing entries are never
// rewritten; once the limit is reached the oldest entries are dropped.
func (a *Accessors) RecordSnapshot(ctx context.Context, s domain.Snapshot) (domain.Snapshot, error) {
	history, err := a.GetSnapshotHistory(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if s.ComputedAt.IsZero() {
		s.ComputedAt = a.now()
	}
	history = append(history, s)
	if over := len(history) - a.historyLimit; over > 0 {
		history = history[over:]
	}
	if err := a.save(ctx, KeySnapshots, history); err != nil {
		return domain.Snapshot{}, err
	}
	return s, nil
}
