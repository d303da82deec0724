package domain

import "time"

// SyncState identifies where a user's pending sync sits in its lifecycle.
type SyncState string

// Sync lifecycle states.
const (
	// SyncStateIdle means no work is pending for the user.
	SyncStateIdle SyncState = "idle"

	// SyncStateDebouncing means a debounce timer is running; further
	// calls inside the window replace the payload and restart it.
	SyncStateDebouncing SyncState = "debouncing"

	// SyncStateQueued means the write waits in the offline queue.
	SyncStateQueued SyncState = "queued"

	// SyncStateWriting means a remote write attempt is in flight.
	SyncStateWriting SyncState = "writing"

	// SyncStateRetryWait means an attempt failed and the backoff timer
	// is running.
	SyncStateRetryWait SyncState = "retry_wait"

	// SyncStateSuccess means the write reached the remote store.
	SyncStateSuccess SyncState = "success"

	// SyncStateFailed means every attempt was exhausted.
	SyncStateFailed SyncState = "failed"
)

// IsValid returns true if the state is recognised.
func (s SyncState) IsValid() bool {
	switch s {
	case SyncStateIdle, SyncStateDebouncing, SyncStateQueued,
		SyncStateWriting, SyncStateRetryWait, SyncStateSuccess, SyncStateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SyncState) String() string {
	return string(s)
}

// Description returns a human-readable description of the state.
func (s SyncState) Description() string {
	switch s {
	case SyncStateIdle:
		return "Idle (nothing pending)"
	case SyncStateDebouncing:
		return "Debouncing (coalescing rapid writes)"
	case SyncStateQueued:
		return "Queued (waiting for connectivity)"
	case SyncStateWriting:
		return "Writing (remote write in flight)"
	case SyncStateRetryWait:
		return "Retry wait (backing off after a failure)"
	case SyncStateSuccess:
		return "Success (write reached the remote store)"
	case SyncStateFailed:
		return "Failed (every attempt exhausted)"
	default:
		return unknownDescription
	}
}

// SyncConfig tunes the debounce and retry behaviour of the sync manager.
type SyncConfig struct {
	// DebounceWindow is how long rapid successive syncs for one user
	// coalesce before a write fires.
	DebounceWindow time.Duration

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps backoff growth.
	MaxDelay time.Duration

	// Multiplier scales the delay after each failed attempt.
	Multiplier float64

	// MaxAttempts bounds write attempts per logical sync.
	MaxAttempts int
}

// DefaultSyncConfig returns the engine's tuning defaults.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		DebounceWindow: 500 * time.Millisecond,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		MaxAttempts:    3,
	}
}

// Normalized returns a copy with unusable values replaced by defaults,
// so a zero SyncConfig behaves like DefaultSyncConfig.
func (c SyncConfig) Normalized() SyncConfig {
	def := DefaultSyncConfig()
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = def.DebounceWindow
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.Multiplier < 1 {
		c.Multiplier = def.Multiplier
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	return c
}

// BackoffDelay returns the wait after the given failed attempt (1-based):
// BaseDelay scaled by Multiplier per prior attempt, clamped to MaxDelay.
func (c SyncConfig) BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(c.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= c.Multiplier
		if d >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	if d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// SyncMetrics holds the engine's sync counters. Counters are process
// scoped and monotonic until explicitly reset.
type SyncMetrics struct {
	// TotalSyncs counts individual remote write attempts, retries included.
	TotalSyncs int64 `json:"totalSyncs"`

	// SuccessfulSyncs counts logical syncs that reached the remote store,
	// one per operation regardless of how many attempts it took.
	SuccessfulSyncs int64 `json:"successfulSyncs"`

	// FailedSyncs counts logical syncs that exhausted every attempt,
	// one per operation.
	FailedSyncs int64 `json:"failedSyncs"`
}

// QueueEntry is a sync deferred while the network was offline.
// Entries drain FIFO on reconnection.
type QueueEntry struct {
	// ID uniquely identifies the entry in logs and introspection.
	ID string

	// UserID owns the preferences document.
	UserID string

	// Preferences is the payload to write once connectivity returns.
	Preferences Preferences

	// EnqueuedAt records when the entry joined the queue.
	EnqueuedAt time.Time
}
