// Package ratelimit decorates a RemoteStore with token bucket rate
// limiting so bursts of sync traffic cannot exhaust a backend quota.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit. Zero or negative
	// disables limiting.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size. Values below 1 are raised to 1.
	BurstSize int
}

// Ensure Store implements the RemoteStore interface.
var _ driven.RemoteStore = (*Store)(nil)

// Store wraps another RemoteStore and blocks each call until the token
// bucket permits it.
type Store struct {
	next    driven.RemoteStore
	limiter *rate.Limiter
}

// NewStore creates a rate limited view of next.
func NewStore(next driven.RemoteStore, cfg Config) *Store {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}

	return &Store{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Get waits for a token, then delegates.
func (s *Store) Get(ctx context.Context, userID string) (domain.RawRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return s.next.Get(ctx, userID)
}

// Set waits for a token, then delegates.
func (s *Store) Set(ctx context.Context, userID string, prefs domain.Preferences) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return s.next.Set(ctx, userID, prefs)
}

// Delete waits for a token, then delegates.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return s.next.Delete(ctx, userID)
}
