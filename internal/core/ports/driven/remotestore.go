package driven

import (
	"context"

	"github.com/veldt-labs/prefsync/internal/core/domain"
)

// RemoteStore persists preferences per user in the remote backend.
type RemoteStore interface {
	// Get retrieves the raw preferences record for a user.
	// Returns domain.ErrNotFound when no record exists. The record is
	// returned unvalidated; schema checks belong to core.
	Get(ctx context.Context, userID string) (domain.RawRecord, error)

	// Set stores or replaces the preferences record for a user.
	Set(ctx context.Context, userID string, prefs domain.Preferences) error

	// Delete removes the preferences record for a user. Deleting an
	// absent record is not an error.
	Delete(ctx context.Context, userID string) error
}
