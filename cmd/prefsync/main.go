// Command prefsync caches user preferences locally and keeps them in
// sync with a remote store. All wiring of concrete adapters happens
// here; the command tree itself only sees the driving ports.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/veldt-labs/prefsync/internal/adapters/driven/clock"
	configfile "github.com/veldt-labs/prefsync/internal/adapters/driven/config/file"
	"github.com/veldt-labs/prefsync/internal/adapters/driven/netmon"
	"github.com/veldt-labs/prefsync/internal/adapters/driven/remote/dynamo"
	"github.com/veldt-labs/prefsync/internal/adapters/driven/remote/ratelimit"
	filestore "github.com/veldt-labs/prefsync/internal/adapters/driven/storage/file"
	"github.com/veldt-labs/prefsync/internal/adapters/driven/storage/memory"
	"github.com/veldt-labs/prefsync/internal/adapters/driven/storage/sqlite"
	"github.com/veldt-labs/prefsync/internal/adapters/driving/cli"
	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
	"github.com/veldt-labs/prefsync/internal/core/ports/driving"
	"github.com/veldt-labs/prefsync/internal/core/services"
)

func main() {
	if err := cli.Execute(buildServices); err != nil {
		os.Exit(1)
	}
}

// buildServices constructs the production services from the TOML config.
// The remote stack is wrapped in a factory so cache-only commands never
// pay for AWS client setup or a network probe.
func buildServices(configDir string) (cli.Services, error) {
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return cli.Services{}, fmt.Errorf("opening config store: %w", err)
	}

	local, watchPath, err := buildLocalStore(cfg)
	if err != nil {
		return cli.Services{}, err
	}

	clk := clock.NewSystem()

	return cli.Services{
		Cache:     services.NewCacheService(local),
		Config:    cfg,
		Clock:     clk,
		WatchPath: watchPath,
		SyncerFactory: func() (driving.PreferenceSyncer, error) {
			remote, err := buildRemoteStore(cfg)
			if err != nil {
				return nil, err
			}
			return services.NewSyncService(remote, buildNetworkMonitor(cfg), clk, syncConfigFrom(cfg)), nil
		},
	}, nil
}

// buildLocalStore selects the local cache backend. The returned path is
// non-empty only for the file backend, where it feeds the watch command.
func buildLocalStore(cfg driven.ConfigStore) (driven.LocalStore, string, error) {
	switch backend := cfg.GetString("local.backend"); backend {
	case "", "file":
		store, err := filestore.NewStore(cfg.GetString("local.path"))
		if err != nil {
			return nil, "", fmt.Errorf("opening file store: %w", err)
		}
		return store, store.Path(), nil
	case "sqlite":
		store, err := sqlite.NewStore(cfg.GetString("local.path"))
		if err != nil {
			return nil, "", fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, "", nil
	case "memory":
		return memory.NewLocal(), "", nil
	default:
		return nil, "", fmt.Errorf("unknown local backend %q", backend)
	}
}

// buildRemoteStore selects the remote backend and applies rate limiting
// when configured.
func buildRemoteStore(cfg driven.ConfigStore) (driven.RemoteStore, error) {
	var store driven.RemoteStore

	switch backend := cfg.GetString("remote.backend"); backend {
	case "", "memory":
		store = memory.NewRemote()
	case "dynamo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s, err := dynamo.NewStore(ctx, dynamo.Config{
			TableName: cfg.GetString("remote.table"),
			Region:    cfg.GetString("remote.region"),
			Endpoint:  cfg.GetString("remote.endpoint"),
		})
		if err != nil {
			return nil, fmt.Errorf("opening dynamo store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown remote backend %q", backend)
	}

	if rps := cfg.GetFloat("remote.rate_limit"); rps > 0 {
		store = ratelimit.NewStore(store, ratelimit.Config{RequestsPerSecond: rps})
	}
	return store, nil
}

// buildNetworkMonitor returns a TCP prober when a probe address is
// configured; otherwise connectivity is assumed.
func buildNetworkMonitor(cfg driven.ConfigStore) driven.NetworkMonitor {
	addr := cfg.GetString("network.probe_addr")
	if addr == "" {
		return netmon.NewManual(true)
	}

	probeCfg := netmon.ProberConfig{Addr: addr}
	if ms := cfg.GetInt("network.probe_interval_ms"); ms > 0 {
		probeCfg.Interval = time.Duration(ms) * time.Millisecond
	}
	return netmon.NewProber(probeCfg)
}

// syncConfigFrom reads the sync tuning keys. Unset keys come back zero
// and are replaced with defaults when the sync service normalises them.
func syncConfigFrom(cfg driven.ConfigStore) domain.SyncConfig {
	return domain.SyncConfig{
		DebounceWindow: time.Duration(cfg.GetInt("sync.debounce_ms")) * time.Millisecond,
		BaseDelay:      time.Duration(cfg.GetInt("sync.base_delay_ms")) * time.Millisecond,
		MaxDelay:       time.Duration(cfg.GetInt("sync.max_delay_ms")) * time.Millisecond,
		Multiplier:     cfg.GetFloat("sync.multiplier"),
		MaxAttempts:    cfg.GetInt("sync.max_attempts"),
	}
}
