package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSyncState_IsValid tests all valid and invalid sync states
func TestSyncState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    SyncState
		expected bool
	}{
		{
			name:     "idle is valid",
			state:    SyncStateIdle,
			expected: true,
		},
		{
			name:     "debouncing is valid",
			state:    SyncStateDebouncing,
			expected: true,
		},
		{
			name:     "queued is valid",
			state:    SyncStateQueued,
			expected: true,
		},
		{
			name:     "writing is valid",
			state:    SyncStateWriting,
			expected: true,
		},
		{
			name:     "retry_wait is valid",
			state:    SyncStateRetryWait,
			expected: true,
		},
		{
			name:     "success is valid",
			state:    SyncStateSuccess,
			expected: true,
		},
		{
			name:     "failed is valid",
			state:    SyncStateFailed,
			expected: true,
		},
		{
			name:     "empty string is invalid",
			state:    SyncState(""),
			expected: false,
		},
		{
			name:     "unknown state is invalid",
			state:    SyncState("paused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.state.IsValid()
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestSyncState_String tests string representation
func TestSyncState_String(t *testing.T) {
	assert.Equal(t, "idle", SyncStateIdle.String())
	assert.Equal(t, "debouncing", SyncStateDebouncing.String())
	assert.Equal(t, "queued", SyncStateQueued.String())
	assert.Equal(t, "writing", SyncStateWriting.String())
	assert.Equal(t, "retry_wait", SyncStateRetryWait.String())
	assert.Equal(t, "success", SyncStateSuccess.String())
	assert.Equal(t, "failed", SyncStateFailed.String())
}

// TestSyncState_Description tests human-readable descriptions
func TestSyncState_Description(t *testing.T) {
	tests := []struct {
		name     string
		state    SyncState
		expected string
	}{
		{
			name:     "idle description",
			state:    SyncStateIdle,
			expected: "Idle (nothing pending)",
		},
		{
			name:     "debouncing description",
			state:    SyncStateDebouncing,
			expected: "Debouncing (coalescing rapid writes)",
		},
		{
			name:     "queued description",
			state:    SyncStateQueued,
			expected: "Queued (waiting for connectivity)",
		},
		{
			name:     "writing description",
			state:    SyncStateWriting,
			expected: "Writing (remote write in flight)",
		},
		{
			name:     "retry_wait description",
			state:    SyncStateRetryWait,
			expected: "Retry wait (backing off after a failure)",
		},
		{
			name:     "success description",
			state:    SyncStateSuccess,
			expected: "Success (write reached the remote store)",
		},
		{
			name:     "failed description",
			state:    SyncStateFailed,
			expected: "Failed (every attempt exhausted)",
		},
		{
			name:     "unknown returns Unknown",
			state:    SyncState("paused"),
			expected: unknownDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.state.Description()
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestDefaultSyncConfig tests the default timing profile
func TestDefaultSyncConfig(t *testing.T) {
	cfg := DefaultSyncConfig()

	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 500*time.Millisecond, cfg.BaseDelay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
	assert.Equal(t, 2.0, cfg.Multiplier)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

// TestSyncConfig_Normalized tests that invalid settings fall back to defaults
func TestSyncConfig_Normalized(t *testing.T) {
	tests := []struct {
		name     string
		cfg      SyncConfig
		expected SyncConfig
	}{
		{
			name:     "zero value fills every field",
			cfg:      SyncConfig{},
			expected: DefaultSyncConfig(),
		},
		{
			name: "negative durations fall back",
			cfg: SyncConfig{
				DebounceWindow: -time.Second,
				BaseDelay:      -time.Second,
				MaxDelay:       -time.Second,
				Multiplier:     2.0,
				MaxAttempts:    3,
			},
			expected: DefaultSyncConfig(),
		},
		{
			name: "multiplier below one falls back",
			cfg: SyncConfig{
				DebounceWindow: time.Second,
				BaseDelay:      time.Second,
				MaxDelay:       10 * time.Second,
				Multiplier:     0.5,
				MaxAttempts:    5,
			},
			expected: SyncConfig{
				DebounceWindow: time.Second,
				BaseDelay:      time.Second,
				MaxDelay:       10 * time.Second,
				Multiplier:     2.0,
				MaxAttempts:    5,
			},
		},
		{
			name: "max delay below base delay is raised",
			cfg: SyncConfig{
				DebounceWindow: time.Second,
				BaseDelay:      2 * time.Second,
				MaxDelay:       time.Second,
				Multiplier:     2.0,
				MaxAttempts:    3,
			},
			expected: SyncConfig{
				DebounceWindow: time.Second,
				BaseDelay:      2 * time.Second,
				MaxDelay:       2 * time.Second,
				Multiplier:     2.0,
				MaxAttempts:    3,
			},
		},
		{
			name: "valid config is unchanged",
			cfg: SyncConfig{
				DebounceWindow: 100 * time.Millisecond,
				BaseDelay:      time.Second,
				MaxDelay:       30 * time.Second,
				Multiplier:     3.0,
				MaxAttempts:    7,
			},
			expected: SyncConfig{
				DebounceWindow: 100 * time.Millisecond,
				BaseDelay:      time.Second,
				MaxDelay:       30 * time.Second,
				Multiplier:     3.0,
				MaxAttempts:    7,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.cfg.Normalized()
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestSyncConfig_BackoffDelay tests the delay schedule attempt by attempt
func TestSyncConfig_BackoffDelay(t *testing.T) {
	cfg := DefaultSyncConfig()

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{
			name:     "first retry uses the base delay",
			attempt:  1,
			expected: 500 * time.Millisecond,
		},
		{
			name:     "second retry doubles",
			attempt:  2,
			expected: time.Second,
		},
		{
			name:     "third retry doubles again",
			attempt:  3,
			expected: 2 * time.Second,
		},
		{
			name:     "fourth retry hits the cap",
			attempt:  4,
			expected: 4 * time.Second,
		},
		{
			name:     "fifth retry is capped",
			attempt:  5,
			expected: 5 * time.Second,
		},
		{
			name:     "far attempts stay capped",
			attempt:  20,
			expected: 5 * time.Second,
		},
		{
			name:     "zero attempt uses the base delay",
			attempt:  0,
			expected: 500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cfg.BackoffDelay(tt.attempt)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestSyncConfig_BackoffDelay_CustomMultiplier tests a non-default schedule
func TestSyncConfig_BackoffDelay_CustomMultiplier(t *testing.T) {
	cfg := SyncConfig{
		DebounceWindow: 100 * time.Millisecond,
		BaseDelay:      100 * time.Millisecond,
		MaxDelay:       time.Minute,
		Multiplier:     3.0,
		MaxAttempts:    4,
	}.Normalized()

	assert.Equal(t, 100*time.Millisecond, cfg.BackoffDelay(1))
	assert.Equal(t, 300*time.Millisecond, cfg.BackoffDelay(2))
	assert.Equal(t, 900*time.Millisecond, cfg.BackoffDelay(3))
}

// TestSyncMetrics tests counter snapshot arithmetic
func TestSyncMetrics(t *testing.T) {
	m := SyncMetrics{TotalSyncs: 5, SuccessfulSyncs: 3, FailedSyncs: 1}

	require.Equal(t, int64(5), m.TotalSyncs)
	assert.Equal(t, int64(3), m.SuccessfulSyncs)
	assert.Equal(t, int64(1), m.FailedSyncs)
}
