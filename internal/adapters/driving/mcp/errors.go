// Package mcp provides an MCP (Model Context Protocol) server adapter for
// prefsync. It enables AI assistants like Claude to read and update user
// preferences through the cache and sync engine.
package mcp

import "errors"

// Errors returned when a required port is not provided.
var (
	// ErrMissingCacheService is returned when the preference cache is not provided.
	ErrMissingCacheService = errors.New("mcp: preference cache is required")

	// ErrMissingSyncService is returned when the sync service is not provided.
	ErrMissingSyncService = errors.New("mcp: sync service is required")
)
