// Package cli provides the cobra command tree for prefsync.
//
// Commands talk to the core through the driving ports only. Services are
// injected once via SetServices (production wiring lives in cmd/prefsync)
// or swapped for mocks by the tests; every command guards against a
// missing service instead of constructing one itself.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
	"github.com/veldt-labs/prefsync/internal/logger"
)

// version is the CLI version, overridden at build time via ldflags.
var version = "dev"

// Services the commands drive. Cache-only commands never touch the
// remote stack; commands that do call ensureSyncer, which builds it on
// first use through syncerFactory.
var (
	cacheService driving.PreferenceCache
	syncService  driving.PreferenceSyncer
	configStore  driven.ConfigStore
	appClock     driven.Clock

	syncerFactory func() (driving.PreferenceSyncer, error)

	// watchPath is the file the watch command monitors; empty unless the
	// local store is file backed.
	watchPath string
)

// Persistent flag values.
var (
	verboseFlag   bool
	configDirFlag string
	userFlag      string
)

// Services carries the constructed collaborators for SetServices.
type Services struct {
	// Cache is the local preference cache. Required by get/set/clear,
	// pull --store, and watch.
	Cache driving.PreferenceCache

	// Config is the CLI configuration store.
	Config driven.ConfigStore

	// Clock stamps LastUpdated on set. Defaults to the wall clock.
	Clock driven.Clock

	// Syncer is used directly when non-nil. Otherwise SyncerFactory is
	// invoked the first time a command needs the remote stack.
	Syncer        driving.PreferenceSyncer
	SyncerFactory func() (driving.PreferenceSyncer, error)

	// WatchPath is the local store file the watch command monitors;
	// leave empty when the local backend is not file based.
	WatchPath string
}

// BuildFunc constructs the services once the persistent flags are
// parsed, receiving the value of --config.
type BuildFunc func(configDir string) (Services, error)

var buildServices BuildFunc

var rootCmd = &cobra.Command{
	Use:   "prefsync",
	Short: "Cache and synchronise user preferences",
	Long: `prefsync keeps a small user-preferences record (language, theme,
last-updated marker) in a local cache and reconciles it with a remote
store in the background.

Local reads and writes are synchronous and always available. Remote
writes are debounced so rapid changes coalesce, retried with exponential
backoff on failure, and queued while offline; the queue drains when
connectivity returns. Failures of background sync surface in metrics and
logs, never as errors to the caller.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		// Tests inject services directly; only build when nothing is wired.
		if cacheService != nil || buildServices == nil {
			return nil
		}
		svcs, err := buildServices(configDirFlag)
		if err != nil {
			return fmt.Errorf("initialising services: %w", err)
		}
		SetServices(svcs)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "config directory (default ~/.prefsync)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id owning the remote preferences record")
}

// SetServices wires the command tree to its services.
func SetServices(s Services) {
	cacheService = s.Cache
	configStore = s.Config
	appClock = s.Clock
	syncService = s.Syncer
	syncerFactory = s.SyncerFactory
	watchPath = s.WatchPath
}

// Execute runs the root command, building services via build when a
// command needs them. The sync service, if one was built or injected, is
// closed before Execute returns so no debounce or retry timer outlives
// the process teardown.
func Execute(build BuildFunc) error {
	buildServices = build
	defer func() {
		if syncService != nil {
			if err := syncService.Close(); err != nil {
				logger.Warn("Closing sync service: %v", err)
			}
		}
	}()
	return rootCmd.Execute()
}

// ensureSyncer returns the sync service, constructing the remote stack
// on first use.
func ensureSyncer() (driving.PreferenceSyncer, error) {
	if syncService != nil {
		return syncService, nil
	}
	if syncerFactory == nil {
		return nil, errors.New("sync service not configured")
	}
	s, err := syncerFactory()
	if err != nil {
		return nil, fmt.Errorf("initialising sync service: %w", err)
	}
	syncService = s
	return syncService, nil
}

// resolveUserID returns the user id from --user, falling back to the
// configured default.
func resolveUserID() (string, error) {
	if userFlag != "" {
		return userFlag, nil
	}
	if configStore != nil {
		if id := configStore.GetString("user"); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: pass --user or set the %q config key", domain.ErrUserIDRequired, "user")
}

// nowMillis returns the current time in milliseconds since epoch.
func nowMillis() int64 {
	if appClock != nil {
		return appClock.Now().UnixMilli()
	}
	return time.Now().UnixMilli()
}

// formatUpdated renders a LastUpdated marker for display.
func formatUpdated(millis int64) string {
	if millis <= 0 {
		return "(not set)"
	}
	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05 MST")
}
