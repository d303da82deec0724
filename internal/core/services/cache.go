package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
	"github.com/veldt-labs/prefsync/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.PreferenceCache = (*CacheService)(nil)

// preferencesKey is the local-store slot holding the cached record.
const preferencesKey = "user_preferences"

// CacheService manages the on-device preferences cache. Every failure
// mode degrades to a boolean or a nil result; the cache is best-effort
// and callers never have to handle storage errors.
type CacheService struct {
	store driven.LocalStore
}

// NewCacheService creates a new cache service.
func NewCacheService(store driven.LocalStore) *CacheService {
	return &CacheService{store: store}
}

// Save persists preferences to the local store. Invalid preferences and
// storage failures are logged and reported as false.
func (c *CacheService) Save(ctx context.Context, prefs domain.Preferences) bool {
	if err := prefs.Validate(); err != nil {
		logger.Warn("Refusing to cache invalid preferences: %v", err)
		return false
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		logger.Error("Could not encode preferences: %v", err)
		return false
	}

	if err := c.store.Set(ctx, preferencesKey, string(data)); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			logger.Warn("Local storage quota exceeded, preferences not cached")
		} else {
			logger.Error("Could not cache preferences: %v", err)
		}
		return false
	}

	logger.Debug("Cached preferences (language=%s theme=%s)", prefs.Language, prefs.Theme)
	return true
}

// Load retrieves cached preferences, or nil when nothing usable is
// cached. A record that does not decode is treated as corruption and
// deleted; a record that decodes but fails schema validation is likewise
// deleted. A read failure of the store itself leaves the slot alone.
func (c *CacheService) Load(ctx context.Context) *domain.Preferences {
	value, ok, err := c.store.Get(ctx, preferencesKey)
	if err != nil {
		logger.Error("Could not read cached preferences: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var rec domain.RawRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		logger.Error("Cached preferences are corrupt, discarding: %v", err)
		c.removeSlot(ctx)
		return nil
	}

	prefs, err := domain.ValidateRecord(rec)
	if err != nil {
		logger.Warn("Cached preferences failed validation, discarding: %v", err)
		c.removeSlot(ctx)
		return nil
	}

	return &prefs
}

// Clear removes the cached preferences.
func (c *CacheService) Clear(ctx context.Context) {
	if err := c.store.Remove(ctx, preferencesKey); err != nil {
		logger.Warn("Could not clear cached preferences: %v", err)
	}
}

func (c *CacheService) removeSlot(ctx context.Context) {
	if err := c.store.Remove(ctx, preferencesKey); err != nil {
		logger.Warn("Could not remove unusable cached preferences: %v", err)
	}
}
