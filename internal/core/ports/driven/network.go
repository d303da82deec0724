package driven

// NetworkMonitor reports connectivity so the sync engine can decide
// between writing immediately and queueing for later.
type NetworkMonitor interface {
	// IsOnline reports the current connectivity state.
	IsOnline() bool

	// OnOnline registers a callback fired each time connectivity is
	// regained. The returned function cancels the registration; calling
	// it more than once is safe.
	OnOnline(fn func()) (cancel func())
}
