package domain

import "errors"

// Domain errors represent engine-level failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded indicates the local store refused a write for lack of space.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidPreferences indicates a record that fails schema validation.
	// Field-level detail travels as a *FieldError wrapping this sentinel.
	ErrInvalidPreferences = errors.New("invalid preferences")

	// ErrSyncCancelled indicates a sync was superseded or cancelled before completing.
	ErrSyncCancelled = errors.New("sync cancelled")

	// ErrClosed indicates the sync manager has been closed.
	ErrClosed = errors.New("sync manager closed")

	// ErrUserIDRequired indicates a remote operation was invoked without a user id.
	ErrUserIDRequired = errors.New("user id required")
)
