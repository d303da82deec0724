package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/prefsync/internal/adapters/driven/clock"
	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "prefsync", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "clear")
	assert.Contains(t, commandNames, "push")
	assert.Contains(t, commandNames, "pull")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "status")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "config")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("user"))
}

func TestResolveUserID_FlagWins(t *testing.T) {
	cfg := newMockConfigStore()
	cfg.data["user"] = "from-config"
	cleanup := setupTestServices(&mockCache{}, &mockSyncer{}, cfg)
	defer cleanup()

	userFlag = "from-flag"
	defer func() { userFlag = "" }()

	userID, err := resolveUserID()
	require.NoError(t, err)
	assert.Equal(t, "from-flag", userID)
}

func TestResolveUserID_ConfigFallback(t *testing.T) {
	cfg := newMockConfigStore()
	cfg.data["user"] = "from-config"
	cleanup := setupTestServices(&mockCache{}, &mockSyncer{}, cfg)
	defer cleanup()

	userID, err := resolveUserID()
	require.NoError(t, err)
	assert.Equal(t, "from-config", userID)
}

func TestResolveUserID_Missing(t *testing.T) {
	cleanup := setupTestServices(&mockCache{}, &mockSyncer{}, newMockConfigStore())
	defer cleanup()

	_, err := resolveUserID()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)
	assert.Contains(t, err.Error(), "--user")
}

func TestEnsureSyncer_ReturnsInjected(t *testing.T) {
	syncer := &mockSyncer{}
	cleanup := setupTestServices(&mockCache{}, syncer, newMockConfigStore())
	defer cleanup()

	got, err := ensureSyncer()
	require.NoError(t, err)
	assert.Same(t, syncer, got)
}

func TestEnsureSyncer_BuildsOnce(t *testing.T) {
	cleanup := setupTestServices(&mockCache{}, nil, newMockConfigStore())
	defer cleanup()

	built := &mockSyncer{}
	calls := 0
	syncerFactory = func() (driving.PreferenceSyncer, error) {
		calls++
		return built, nil
	}

	first, err := ensureSyncer()
	require.NoError(t, err)
	second, err := ensureSyncer()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestEnsureSyncer_NotConfigured(t *testing.T) {
	cleanup := setupTestServices(&mockCache{}, nil, newMockConfigStore())
	defer cleanup()

	_, err := ensureSyncer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync service not configured")
}

func TestEnsureSyncer_FactoryError(t *testing.T) {
	cleanup := setupTestServices(&mockCache{}, nil, newMockConfigStore())
	defer cleanup()

	syncerFactory = func() (driving.PreferenceSyncer, error) {
		return nil, errors.New("no credentials")
	}

	_, err := ensureSyncer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
}

func TestNowMillis_UsesInjectedClock(t *testing.T) {
	cleanup := setupTestServices(&mockCache{}, &mockSyncer{}, newMockConfigStore())
	defer cleanup()

	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	appClock = clock.NewManual(start)

	assert.Equal(t, start.UnixMilli(), nowMillis())
}

func TestFormatUpdated(t *testing.T) {
	tests := []struct {
		name     string
		millis   int64
		expected string
	}{
		{
			name:     "zero reads as not set",
			millis:   0,
			expected: "(not set)",
		},
		{
			name:     "negative reads as not set",
			millis:   -5,
			expected: "(not set)",
		},
		{
			name:     "epoch millis render in UTC",
			millis:   time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC).UnixMilli(),
			expected: "2026-08-25 10:30:00 UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUpdated(tt.millis))
		})
	}
}

func TestExecute_ClosesSyncer(t *testing.T) {
	syncer := &mockSyncer{}
	cleanup := setupTestServices(&mockCache{}, syncer, newMockConfigStore())
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := Execute(nil)

	require.NoError(t, err)
	assert.Equal(t, 1, syncer.closed)
}
