package store

import "sync"

// container holds one slice of state. Reducers receive the current value and
// return the next one; they must copy any slice they change.
//
// order serializes apply-then-publish, so listeners and sinks see a slice's
// actions in the order they were applied. mu only guards the value, which
// lets listeners read state while an action is being published. A listener
// must not dispatch to the slice that is publishing.
type container[S any] struct {
	order sync.Mutex
	mu    sync.RWMutex
	state S
	bus   *Bus
}

func newContainer[S any](initial S, bus *Bus) *container[S] {
	return &container[S]{state: initial, bus: bus}
}

func (c *container[S]) get() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *container[S]) dispatch(actionType string, payload any, reduce func(S) S) {
	c.order.Lock()
	defer c.order.Unlock()

	c.mu.Lock()
	c.state = reduce(c.state)
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Publish(actionType, payload)
	}
}
