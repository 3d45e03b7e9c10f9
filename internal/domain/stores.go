package domain

import "context"

// KVStore is the flat key -> JSON blob persistence the dashboard sits on.
// Get returns store.ErrNotFound for missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// FinanceReader exposes the latest finance snapshot. ok is false when no
// finance data has been recorded.
type FinanceReader interface {
	FinanceSnapshot() (FinanceSnapshot, bool)
}

// HabitReader exposes the recent habit completion rate in [0,1].
type HabitReader interface {
	HabitCompletionRate() (float64, bool)
}

// ExternalReader bundles the external accessors the alignment engine reads.
type ExternalReader interface {
	FinanceReader
	HabitReader
}

// StaticExternal is an ExternalReader over fixed values.
type StaticExternal struct {
	Finance   *FinanceSnapshot
	HabitRate float64
	HasHabits bool
}

func (s StaticExternal) FinanceSnapshot() (FinanceSnapshot, bool) {
	if s.Finance == nil {
		return FinanceSnapshot{}, false
	}
	return *s.Finance, true
}

func (s StaticExternal) HabitCompletionRate() (float64, bool) {
	return s.HabitRate, s.HasHabits
}
