package driving

import (
	"context"

	"github.com/veldt-labs/prefsync/internal/core/domain"
)

// PreferenceSyncer reconciles preferences with the remote store. Writes
// are debounced per user, retried with exponential backoff, and queued
// while offline; reads and deletes go straight through.
type PreferenceSyncer interface {
	// Sync schedules a debounced write of prefs for a user. Calling it
	// again within the debounce window replaces the pending payload and
	// restarts the window. It never blocks and never reports an error;
	// failures surface through Metrics and the logs.
	Sync(userID string, prefs domain.Preferences)

	// SyncNow writes prefs for a user immediately, bypassing debounce
	// and the offline queue. Retries still apply. Unlike Sync it
	// propagates the final error.
	SyncNow(ctx context.Context, userID string, prefs domain.Preferences) error

	// Fetch retrieves the user's preferences from the remote store.
	// It returns (nil, nil) when no record exists or the stored record
	// fails schema validation; the remote record is never modified.
	// Transport failures are returned as errors.
	Fetch(ctx context.Context, userID string) (*domain.Preferences, error)

	// Delete removes the user's preferences from the remote store and
	// propagates any failure.
	Delete(ctx context.Context, userID string) error

	// CancelPending cancels every debounce timer, in-flight retry, and
	// queued entry across all users.
	CancelPending()

	// State reports where the user's sync currently stands.
	State(userID string) domain.SyncState

	// Queue returns a snapshot of writes held for connectivity, oldest
	// first.
	Queue() []domain.QueueEntry

	// Metrics returns a snapshot of the sync counters.
	Metrics() domain.SyncMetrics

	// ResetMetrics zeroes the sync counters.
	ResetMetrics()

	// Close cancels all pending work, detaches from the network monitor,
	// and waits for in-flight goroutines to finish. It is idempotent.
	Close() error
}
