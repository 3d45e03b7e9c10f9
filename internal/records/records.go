// Package records holds the typed accessors over the flat key/value store.
// Every record lives under one key as a JSON blob. Reads are lenient so that
// hand-edited or partially written blobs still decode into a usable value.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/store"
)

const (
	KeyVision    = "vision"
	KeyDecisions = "decisions"
	KeySnapshots = "snapshots"
	KeyFinance   = "finance"
	KeyHabits    = "habits"
)

// DefaultHistoryLimit bounds the snapshot history when no limit is configured.
const DefaultHistoryLimit = 180

// HabitWindowDays is the look-back used for the habit completion rate.
const HabitWindowDays = 7

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrMilestoneExists   = errors.New("milestone already exists")
	ErrHabitNotFound     = errors.New("habit not found")
	ErrInvalidDimension  = errors.New("invalid dimension")
)

type Config struct {
	HistoryLimit int
	Now          func() time.Time
}

// Accessors reads and writes the dashboard records. It holds no locks:
// callers that share it across goroutines must serialize access.
type Accessors struct {
	kv           domain.KVStore
	historyLimit int
	now          func() time.Time
}

func New(kv domain.KVStore, cfg Config) *Accessors {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Accessors{
		kv:           kv,
		historyLimit: cfg.HistoryLimit,
		now:          cfg.Now,
	}
}

// Now returns the accessors' clock reading.
func (a *Accessors) Now() time.Time {
	return a.now()
}

func (a *Accessors) HistoryLimit() int {
	return a.historyLimit
}

// load returns the raw blob under key, or nil when it does not exist.
func (a *Accessors) load(ctx context.Context, key string) ([]byte, error) {
	raw, err := a.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return raw, nil
}

func (a *Accessors) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ResetAll removes every key in the store, including keys left behind by
// older record layouts.
func (a *Accessors) ResetAll(ctx context.Context) error {
	keys, err := a.kv.Keys(ctx, "")
	if err != nil {
		return fmt.Errorf("reset: list keys: %w", err)
	}
	for _, key := range keys {
		if err := a.kv.Delete(ctx, key); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}
