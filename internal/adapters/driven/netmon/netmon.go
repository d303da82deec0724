// Package netmon provides NetworkMonitor implementations: Manual for
// tests and embedding callers that track connectivity themselves, and
// Prober for real deployments that infer connectivity from periodic
// TCP dials.
//
// Both monitors are edge triggered. Callbacks registered with OnOnline
// fire once per offline-to-online transition and are always invoked
// outside the monitor's lock, so a callback may call back into the
// monitor or into the sync service without deadlocking.
package netmon

import "sync"

// callbacks is an edge-triggered callback registry shared by the
// monitor implementations.
type callbacks struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

// add registers fn and returns a cancel func that removes it. Cancel is
// idempotent.
func (c *callbacks) add(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fns == nil {
		c.fns = make(map[int]func())
	}
	id := c.nextID
	c.nextID++
	c.fns[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.fns, id)
	}
}

// snapshot returns the registered callbacks. Callers invoke them after
// releasing their own locks.
func (c *callbacks) snapshot() []func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fns := make([]func(), 0, len(c.fns))
	for _, fn := range c.fns {
		fns = append(fns, fn)
	}
	return fns
}
