package mcp

import (
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Cache is the local preference cache.
	Cache driving.PreferenceCache

	// Syncer reconciles preferences with the remote store.
	Syncer driving.PreferenceSyncer

	// DefaultUserID fills tool calls that omit a user id. Optional;
	// without it such calls are rejected.
	DefaultUserID string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Cache == nil {
		return ErrMissingCacheService
	}
	if p.Syncer == nil {
		return ErrMissingSyncService
	}
	return nil
}
