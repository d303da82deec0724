// Package clock provides driven.Clock implementations: the wall clock
// for production and a manually advanced clock for tests.
package clock

import (
	"time"

	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Ensure System implements the interface.
var _ driven.Clock = (*System)(nil)

// System is the wall-clock implementation of driven.Clock.
type System struct{}

// NewSystem creates a wall clock.
func NewSystem() *System {
	return &System{}
}

// Now returns the current time.
func (s *System) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn on the runtime timer heap.
func (s *System) AfterFunc(d time.Duration, fn func()) driven.Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

// Stop cancels the timer.
func (s systemTimer) Stop() bool {
	return s.t.Stop()
}
