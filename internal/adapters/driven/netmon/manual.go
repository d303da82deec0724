package netmon

import (
	"sync"

	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Ensure Manual implements the interface.
var _ driven.NetworkMonitor = (*Manual)(nil)

// Manual is a NetworkMonitor whose state is set explicitly. It backs
// tests and callers that already know their connectivity state.
type Manual struct {
	mu     sync.Mutex
	online bool
	subs   callbacks
}

// NewManual creates a manual monitor with the given initial state.
func NewManual(online bool) *Manual {
	return &Manual{online: online}
}

// IsOnline reports the current state.
func (m *Manual) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline updates the state. An offline-to-online transition fires
// every registered callback; callbacks run outside the monitor's lock.
func (m *Manual) SetOnline(online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	m.mu.Unlock()

	if online && !wasOnline {
		for _, fn := range m.subs.snapshot() {
			fn()
		}
	}
}

// OnOnline registers fn to run on every offline-to-online transition.
// The returned cancel func removes the registration.
func (m *Manual) OnOnline(fn func()) func() {
	return m.subs.add(fn)
}
