// Package sqlite provides a SQLite-backed implementation of the LocalStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Preference payloads are
// stored as opaque strings in a single key/value table, so the cache layer
// keeps full control over serialization and validation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and tracked in a schema_migrations table.
//
// # Data Location
//
// By default, the database is stored at ~/.prefsync/data/preferences.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
