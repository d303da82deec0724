package driven

import (
	"context"
)

// LocalStore persists the on-device preferences cache as string slots.
// Adapters map this onto whatever storage the host offers (an in-memory
// map, a file, a SQLite table); core treats values as opaque payloads.
type LocalStore interface {
	// Get retrieves the value stored under key.
	// The boolean reports whether the slot exists; an error means the
	// backing store itself could not be read.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	// Returns domain.ErrQuotaExceeded when the store is out of space.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the slot under key. Removing an absent slot is not
	// an error.
	Remove(ctx context.Context, key string) error
}
