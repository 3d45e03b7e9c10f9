package state

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Event is published once per intercepted mutation.
type Event struct {
	Source    Operation `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Listener receives events. A returned error or a panic is logged and does
// not stop delivery to the remaining listeners.
type Listener func(Event) error

type Subscription struct {
	bus    *Bus
	fn     Listener
	active bool
}

// Unsubscribe detaches the listener. Safe to call more than once and from
// inside the listener itself.
func (s *Subscription) Unsubscribe() {
	s.bus.Unsubscribe(s)
}

// Bus delivers events synchronously, in subscription order.
type Bus struct {
	logger   *zap.Logger
	observer Observer
	subs     []*Subscription
}

func NewBus(logger *zap.Logger, observer Observer) *Bus {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Bus{logger: logger, observer: observer}
}

func (b *Bus) Subscribe(fn Listener) *Subscription {
	s := &Subscription{bus: b, fn: fn, active: true}
	b.subs = append(b.subs, s)
	return s
}

// Unsubscribe reports whether s was still registered.
func (b *Bus) Unsubscribe(s *Subscription) bool {
	if s == nil || !s.active {
		return false
	}
	s.active = false
	for i, sub := range b.subs {
		if sub == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	return true
}

func (b *Bus) Len() int {
	return len(b.subs)
}

// publish delivers ev to the listeners registered when it starts. Listeners
// removed during delivery are skipped.
func (b *Bus) publish(ev Event) {
	snapshot := make([]*Subscription, len(b.subs))
	copy(snapshot, b.subs)

	for _, s := range snapshot {
		if !s.active {
			continue
		}
		if err := b.deliver(s, ev); err != nil {
			b.observer.SubscriberFailed()
			b.logger.Error("subscriber failed",
				zap.String("source", string(ev.Source)),
				zap.Error(err),
			)
		}
	}
}

func (b *Bus) deliver(s *Subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return s.fn(ev)
}
