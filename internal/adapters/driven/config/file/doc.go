// Package file provides a TOML-backed implementation of the ConfigStore
// port. Nested tables are flattened to dot-notation keys on load, so
// [sync] debounce_ms = 500 is read as "sync.debounce_ms". Writes persist
// immediately with 0600 permissions.
package file
