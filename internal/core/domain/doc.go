// Package domain defines the core business entities for prefsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Preferences: The user settings record the engine caches and syncs
//   - RawRecord: An untyped record prior to schema validation
//   - QueueEntry: A sync deferred while the network was offline
//   - SyncConfig: Debounce and retry tuning
//   - SyncMetrics: Attempt/success/failure counters
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
