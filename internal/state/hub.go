// Package state is the reactive layer over the record accessors. Mutating
// accessors called through the Hub invalidate every derived layer and notify
// subscribers; derived layers recompute lazily through registered producers.
//
// Nothing here locks or spawns goroutines. A Hub must be used from one
// goroutine at a time.
package state

import (
	"context"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/records"
	"go.uber.org/zap"
)

type Option func(*Hub)

func WithObserver(o Observer) Option {
	return func(h *Hub) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithClock overrides the time source used for events and layer inputs.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

type Hub struct {
	records  *records.Accessors
	bus      *Bus
	logger   *zap.Logger
	observer Observer
	now      func() time.Time

	installed bool
	ops       map[Operation]bool
	warned    map[Operation]bool

	producers map[string]any
	dom       *Domain
	layers    []invalidator

	timeLayer          *Layer[TimeState]
	attentionLayer     *Layer[AttentionState]
	alignmentLayer     *Layer[domain.Snapshot]
	relationshipLayer  *Layer[RelationshipState]
	creativePhaseLayer *Layer[CreativePhaseState]
	narrativeLayer     *Layer[NarrativeState]
	systemLayer        *Layer[SystemState]
}

func NewHub(rec *records.Accessors, logger *zap.Logger, opts ...Option) *Hub {
	h := &Hub{
		records:   rec,
		logger:    logger,
		observer:  NopObserver{},
		now:       rec.Now,
		warned:    make(map[Operation]bool),
		producers: make(map[string]any),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.bus = NewBus(logger, h.observer)

	h.timeLayer = newLayer(h, LayerTime, DefaultTimeState)
	h.attentionLayer = newLayer(h, LayerAttention, DefaultAttentionState)
	h.alignmentLayer = newLayer(h, LayerAlignment, DefaultAlignmentState)
	h.relationshipLayer = newLayer(h, LayerRelationship, DefaultRelationshipState)
	h.creativePhaseLayer = newLayer(h, LayerCreativePhase, DefaultCreativePhaseState)
	h.narrativeLayer = newLayer(h, LayerNarrative, DefaultNarrativeState)
	h.systemLayer = newLayer(h, LayerSystem, DefaultSystemState)
	return h
}

// Install turns on interception. Calling it again is a no-op.
func (h *Hub) Install() {
	if h.installed {
		return
	}
	ops := Operations()
	h.ops = make(map[Operation]bool, len(ops))
	mutating := 0
	for _, op := range ops {
		m := IsMutating(op)
		h.ops[op] = m
		if m {
			mutating++
		}
	}
	h.installed = true
	h.logger.Info("state hub installed",
		zap.Int("operations", len(h.ops)),
		zap.Int("mutating", mutating),
	)
}

func (h *Hub) Installed() bool {
	return h.installed
}

func (h *Hub) Subscribe(fn Listener) *Subscription {
	sub := h.bus.Subscribe(fn)
	h.logger.Debug("subscriber added", zap.Int("subscribers", h.bus.Len()))
	return sub
}

func (h *Hub) Now() time.Time {
	return h.now()
}

// invoke runs fn as operation op. For a mutating operation on an installed
// hub it then drops every cached layer and publishes an event. The result
// of fn is returned unchanged.
func invoke[T any](h *Hub, op Operation, fn func() (T, error)) (T, error) {
	if !h.installed {
		return fn()
	}
	mutating, known := h.ops[op]
	if !known {
		if !h.warned[op] {
			h.warned[op] = true
			h.logger.Warn("unclassified operation treated as mutating", zap.String("op", string(op)))
		}
		mutating = true
	}
	if !mutating {
		return fn()
	}

	res, err := fn()
	h.invalidateAll()
	h.observer.Mutation(string(op))
	if err != nil {
		h.logger.Debug("mutation failed, skipping notify",
			zap.String("op", string(op)),
			zap.Error(err),
		)
		return res, err
	}
	h.bus.publish(Event{Source: op, Timestamp: h.now()})
	return res, err
}

func invokeErr(h *Hub, op Operation, fn func() error) error {
	_, err := invoke(h, op, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Do runs fn as the named operation. Operations outside the built-in table
// are treated as mutating.
func (h *Hub) Do(op Operation, fn func() error) error {
	return invokeErr(h, op, fn)
}

func (h *Hub) invalidateAll() {
	h.dom = nil
	for _, l := range h.layers {
		l.invalidate()
	}
}

// domainState loads the raw records once per invalidation cycle.
func (h *Hub) domainState(ctx context.Context) (Domain, error) {
	if h.dom != nil {
		return *h.dom, nil
	}

	vs, err := h.records.GetVisionState(ctx)
	if err != nil {
		return Domain{}, err
	}
	decisions, err := h.records.GetDecisionLog(ctx)
	if err != nil {
		return Domain{}, err
	}
	snapshots, err := h.records.GetSnapshotHistory(ctx)
	if err != nil {
		return Domain{}, err
	}
	finance, hasFinance, err := h.records.GetFinanceSnapshot(ctx)
	if err != nil {
		return Domain{}, err
	}
	habits, err := h.records.ListHabits(ctx)
	if err != nil {
		return Domain{}, err
	}

	d := Domain{
		Vision:    vs,
		Decisions: decisions,
		Snapshots: snapshots,
		Habits:    habits,
	}
	if hasFinance {
		d.Finance = &finance
	}
	d.HabitRate, d.HasHabits = records.HabitCompletionRate(habits, h.now())
	h.dom = &d
	return d, nil
}

func (h *Hub) TimeState(ctx context.Context, force bool) TimeState {
	return h.timeLayer.Get(ctx, force)
}

func (h *Hub) AttentionState(ctx context.Context, force bool) AttentionState {
	return h.attentionLayer.Get(ctx, force)
}

func (h *Hub) AlignmentState(ctx context.Context, force bool) domain.Snapshot {
	return h.alignmentLayer.Get(ctx, force)
}

// ComputeAlignment forces a fresh alignment snapshot. Unlike AlignmentState
// it returns the compute error instead of the neutral default.
func (h *Hub) ComputeAlignment(ctx context.Context) (domain.Snapshot, error) {
	return h.alignmentLayer.get(ctx, true)
}

func (h *Hub) RelationshipState(ctx context.Context, force bool) RelationshipState {
	return h.relationshipLayer.Get(ctx, force)
}

func (h *Hub) CreativePhaseState(ctx context.Context, force bool) CreativePhaseState {
	return h.creativePhaseLayer.Get(ctx, force)
}

func (h *Hub) NarrativeState(ctx context.Context, force bool) NarrativeState {
	return h.narrativeLayer.Get(ctx, force)
}

func (h *Hub) SystemState(ctx context.Context, force bool) SystemState {
	return h.systemLayer.Get(ctx, force)
}

// State returns the named layer's value.
func (h *Hub) State(ctx context.Context, layer string, force bool) (any, error) {
	switch layer {
	case LayerTime:
		return h.TimeState(ctx, force), nil
	case LayerAttention:
		return h.AttentionState(ctx, force), nil
	case LayerAlignment:
		return h.AlignmentState(ctx, force), nil
	case LayerRelationship:
		return h.RelationshipState(ctx, force), nil
	case LayerCreativePhase:
		return h.CreativePhaseState(ctx, force), nil
	case LayerNarrative:
		return h.NarrativeState(ctx, force), nil
	case LayerSystem:
		return h.SystemState(ctx, force), nil
	}
	return nil, ErrUnknownLayer
}

var _ Reader = (*Hub)(nil)
