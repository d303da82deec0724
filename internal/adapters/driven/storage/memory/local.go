// Package memory provides in-memory implementations of the storage
// ports. They back tests and the default development configuration;
// nothing survives process exit.
package memory

import (
	"context"
	"sync"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Ensure Local implements the interface.
var _ driven.LocalStore = (*Local)(nil)

// Local is an in-memory implementation of driven.LocalStore.
type Local struct {
	mu    sync.RWMutex
	data  map[string]string
	limit int
}

// NewLocal creates an unbounded in-memory local store.
func NewLocal() *Local {
	return &Local{data: make(map[string]string)}
}

// NewLocalWithLimit creates an in-memory local store that rejects writes
// once the total bytes of stored keys and values would exceed limit.
// Useful for exercising quota handling.
func NewLocalWithLimit(limit int) *Local {
	return &Local{data: make(map[string]string), limit: limit}
}

// Get retrieves the value stored under key.
func (l *Local) Get(_ context.Context, key string) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.data[key]
	return v, ok, nil
}

// Set stores value under key, enforcing the byte limit if one is set.
func (l *Local) Set(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit > 0 {
		usage := 0
		for k, v := range l.data {
			if k == key {
				continue
			}
			usage += len(k) + len(v)
		}
		if usage+len(key)+len(value) > l.limit {
			return domain.ErrQuotaExceeded
		}
	}
	l.data[key] = value
	return nil
}

// Remove deletes the slot under key.
func (l *Local) Remove(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.data, key)
	return nil
}
