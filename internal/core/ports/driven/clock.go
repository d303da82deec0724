package driven

import "time"

// Clock abstracts time so the debounce and backoff schedules can run
// against a manual clock in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules fn to run on its own goroutine after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to a pending AfterFunc call.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// function from firing.
	Stop() bool
}
