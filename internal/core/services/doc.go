// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// CacheService owns the local preferences cache and its self-healing
// reads; SyncService owns debounce, retry, the offline queue, and the
// sync counters. All I/O happens behind the driven ports.
package services
