package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrNoProducer    = errors.New("no producer registered")
	ErrProducerType  = errors.New("producer has wrong result type")
	ErrProducerPanic = errors.New("producer panicked")
	ErrLayerCycle    = errors.New("layer read itself while computing")
	ErrUnknownLayer  = errors.New("unknown layer")
)

// Domain is the raw record state handed to producers.
type Domain struct {
	Vision    domain.VisionState
	Decisions []domain.Decision
	Snapshots []domain.Snapshot
	Finance   *domain.FinanceSnapshot
	Habits    []domain.Habit
	HabitRate float64
	HasHabits bool
}

func (d Domain) FinanceSnapshot() (domain.FinanceSnapshot, bool) {
	if d.Finance == nil {
		return domain.FinanceSnapshot{}, false
	}
	return *d.Finance, true
}

func (d Domain) HabitCompletionRate() (float64, bool) {
	return d.HabitRate, d.HasHabits
}

// Reader exposes the memoized layer getters. Producers that compose other
// layers read them through Input.Siblings.
type Reader interface {
	TimeState(ctx context.Context, force bool) TimeState
	AttentionState(ctx context.Context, force bool) AttentionState
	AlignmentState(ctx context.Context, force bool) domain.Snapshot
	RelationshipState(ctx context.Context, force bool) RelationshipState
	CreativePhaseState(ctx context.Context, force bool) CreativePhaseState
	NarrativeState(ctx context.Context, force bool) NarrativeState
}

// Input is what a producer gets to work with.
type Input struct {
	Now    time.Time
	Domain Domain
	// Prior is the layer's last successfully computed value, or nil.
	Prior    any
	History  []domain.Snapshot
	Siblings Reader
}

type Producer[T any] interface {
	Compute(ctx context.Context, in Input) (T, error)
}

type ProducerFunc[T any] func(ctx context.Context, in Input) (T, error)

func (f ProducerFunc[T]) Compute(ctx context.Context, in Input) (T, error) {
	return f(ctx, in)
}

// Register installs p as the producer for the named layer, replacing any
// previous one. A producer whose type does not match the layer is reported
// at compute time and the layer falls back to its default.
func Register[T any](h *Hub, layer string, p Producer[T]) {
	h.producers[layer] = p
	h.logger.Debug("producer registered", zap.String("layer", layer))
}

type invalidator interface {
	invalidate()
}

// Layer memoizes one derived view. Entries are only ever replaced whole.
type Layer[T any] struct {
	name     string
	hub      *Hub
	fallback func(now time.Time) T

	entry     *T
	prior     *T
	computing bool
}

func newLayer[T any](h *Hub, name string, fallback func(time.Time) T) *Layer[T] {
	l := &Layer[T]{name: name, hub: h, fallback: fallback}
	h.layers = append(h.layers, l)
	return l
}

func (l *Layer[T]) Name() string {
	return l.name
}

// Get returns the cached value unless it is missing or force is set. A
// failed recompute returns the layer default and leaves the cache empty.
func (l *Layer[T]) Get(ctx context.Context, force bool) T {
	v, err := l.get(ctx, force)
	if err != nil {
		return l.fallback(l.hub.now())
	}
	return v
}

// get is Get without the fallback: a failed recompute is reported as an
// error and the cache is left empty.
func (l *Layer[T]) get(ctx context.Context, force bool) (T, error) {
	if l.entry != nil && !force {
		l.hub.observer.CacheHit(l.name)
		return *l.entry, nil
	}
	l.hub.observer.CacheMiss(l.name)

	v, err := l.compute(ctx)
	if err != nil {
		l.hub.observer.ComputeFailed(l.name)
		l.hub.logger.Warn("layer compute failed",
			zap.String("layer", l.name),
			zap.Error(err),
		)
		var zero T
		return zero, err
	}
	l.entry = &v
	l.prior = &v
	return v, nil
}

func (l *Layer[T]) compute(ctx context.Context) (out T, err error) {
	if l.computing {
		return out, ErrLayerCycle
	}
	l.computing = true
	defer func() {
		l.computing = false
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProducerPanic, r)
		}
	}()

	p, ok := l.hub.producers[l.name]
	if !ok {
		return out, ErrNoProducer
	}
	producer, ok := p.(Producer[T])
	if !ok {
		return out, fmt.Errorf("%w: %T", ErrProducerType, p)
	}

	dom, err := l.hub.domainState(ctx)
	if err != nil {
		return out, err
	}
	in := Input{
		Now:      l.hub.now(),
		Domain:   dom,
		History:  dom.Snapshots,
		Siblings: l.hub,
	}
	if l.prior != nil {
		in.Prior = *l.prior
	}
	return producer.Compute(ctx, in)
}

func (l *Layer[T]) invalidate() {
	l.entry = nil
}

// cached reports whether the layer currently holds an entry.
func (l *Layer[T]) cached() bool {
	return l.entry != nil
}
