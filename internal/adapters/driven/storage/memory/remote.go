package memory

import (
	"context"
	"sync"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Ensure Remote implements the interface.
var _ driven.RemoteStore = (*Remote)(nil)

// Remote is an in-memory implementation of driven.RemoteStore.
type Remote struct {
	mu      sync.RWMutex
	records map[string]domain.RawRecord
}

// NewRemote creates an in-memory remote store.
func NewRemote() *Remote {
	return &Remote{records: make(map[string]domain.RawRecord)}
}

// Get retrieves the raw preferences record for a user.
func (r *Remote) Get(_ context.Context, userID string) (domain.RawRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRecord(rec), nil
}

// Set stores or replaces the preferences record for a user.
func (r *Remote) Set(_ context.Context, userID string, prefs domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[userID] = prefs.Record()
	return nil
}

// Delete removes the preferences record for a user.
func (r *Remote) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, userID)
	return nil
}

// SetRecord stores an arbitrary raw record for a user, bypassing the
// typed Set path. Tests use it to seed malformed remote state.
func (r *Remote) SetRecord(userID string, rec domain.RawRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[userID] = copyRecord(rec)
}

func copyRecord(rec domain.RawRecord) domain.RawRecord {
	out := make(domain.RawRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
