package state

// Observer receives counters from the hub. Implementations must not call
// back into the hub.
type Observer interface {
	CacheHit(layer string)
	CacheMiss(layer string)
	ComputeFailed(layer string)
	Mutation(op string)
	SubscriberFailed()
}

type NopObserver struct{}

func (NopObserver) CacheHit(string)      {}
func (NopObserver) CacheMiss(string)     {}
func (NopObserver) ComputeFailed(string) {}
func (NopObserver) Mutation(string)      {}
func (NopObserver) SubscriberFailed()    {}
