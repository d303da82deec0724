// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LocalStore: Key/value persistence for the on-device cache
//   - RemoteStore: Per-user preferences persistence in the remote backend
//   - NetworkMonitor: Connectivity state and online notifications
//   - Clock: Time source and timer scheduling
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// None. Tests substitute manual implementations of NetworkMonitor and
// Clock to drive debounce, retry, and queue-drain paths deterministically.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
