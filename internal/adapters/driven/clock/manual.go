package clock

import (
	"sync"
	"time"

	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Ensure Manual implements the interface.
var _ driven.Clock = (*Manual)(nil)

// Manual is a deterministic driven.Clock for tests. Time stands still
// until Advance is called; due callbacks then run synchronously on the
// caller's goroutine, in deadline order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers []*manualTimer
}

// NewManual creates a manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the clock's current instant.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers fn to fire once the clock has been advanced past d.
// A non-positive delay fires on the next Advance call.
func (m *Manual) AfterFunc(d time.Duration, fn func()) driven.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{
		clock:    m,
		id:       m.nextID,
		deadline: m.now.Add(d),
		fn:       fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls within the window. Callbacks run outside the clock's lock, so
// they may schedule further timers; newly due ones fire in the same call.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		t := m.popDueLocked(target)
		if t == nil {
			break
		}
		if t.deadline.After(m.now) {
			m.now = t.deadline
		}
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// TimerCount returns the number of timers that have neither fired nor
// been stopped.
func (m *Manual) TimerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// popDueLocked removes and returns the earliest timer due at or before
// target, preferring lower registration IDs on equal deadlines.
func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	best := -1
	for i, t := range m.timers {
		if t.deadline.After(target) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := m.timers[best]
		if t.deadline.Before(b.deadline) || (t.deadline.Equal(b.deadline) && t.id < b.id) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	t := m.timers[best]
	m.timers = append(m.timers[:best], m.timers[best+1:]...)
	return t
}

type manualTimer struct {
	clock    *Manual
	id       int
	deadline time.Time
	fn       func()
}

// Stop removes the timer if it has not fired yet.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	for i, pending := range t.clock.timers {
		if pending.id == t.id {
			t.clock.timers = append(t.clock.timers[:i], t.clock.timers[i+1:]...)
			return true
		}
	}
	return false
}
