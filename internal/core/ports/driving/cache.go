package driving

import (
	"context"

	"github.com/veldt-labs/prefsync/internal/core/domain"
)

// PreferenceCache manages the on-device preferences cache. Its operations
// never return errors: storage failures degrade to a boolean or a nil
// result so callers can treat the cache as best-effort.
type PreferenceCache interface {
	// Save persists preferences to the local store. It reports whether
	// the write succeeded; on quota exhaustion or any other storage
	// failure it logs and returns false.
	Save(ctx context.Context, prefs domain.Preferences) bool

	// Load retrieves cached preferences. It returns nil when nothing is
	// cached, and it self-heals: a record that cannot be decoded or that
	// fails schema validation is deleted and nil is returned.
	Load(ctx context.Context) *domain.Preferences

	// Clear removes the cached preferences.
	Clear(ctx context.Context)
}
