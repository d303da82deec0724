package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage prefsync configuration",
	Long: `View and edit the prefsync configuration file.

Values are stored under dotted keys in a TOML file inside the config
directory. Keys the engine reads:

  user                      default user id for remote operations
  local.backend             local cache backend: file, sqlite, memory
  local.path                file path (file) or data directory (sqlite)
  remote.backend            remote store backend: memory, dynamo
  remote.table              DynamoDB table name
  remote.region             AWS region
  remote.endpoint           endpoint override (e.g. DynamoDB Local)
  remote.rate_limit         remote requests per second (0 = unlimited)
  sync.debounce_ms          debounce window for background sync
  sync.base_delay_ms        first retry delay
  sync.max_delay_ms         retry delay cap
  sync.multiplier           backoff multiplier
  sync.max_attempts         write attempts per sync
  network.probe_addr        TCP address probed for connectivity
  network.probe_interval_ms time between probes

Examples:
  prefsync config set user alice
  prefsync config set remote.backend dynamo
  prefsync config set sync.max_attempts 5
  prefsync config show`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Values parse as booleans or numbers where possible and fall back to
strings, so 'config set sync.max_attempts 5' stores an integer.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

// engineConfigKeys is the key set config show prints, in display order.
var engineConfigKeys = []string{
	"user",
	"local.backend",
	"local.path",
	"remote.backend",
	"remote.table",
	"remote.region",
	"remote.endpoint",
	"remote.rate_limit",
	"sync.debounce_ms",
	"sync.base_delay_ms",
	"sync.max_delay_ms",
	"sync.multiplier",
	"sync.max_attempts",
	"network.probe_addr",
	"network.probe_interval_ms",
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()
	for _, key := range engineConfigKeys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-26s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-26s %v\n", key, val)
	}
	cmd.Println()
	cmd.Printf("File: %s\n", configStore.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		cmd.Println("(not set)")
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], parseConfigValue(args[1])
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println(configStore.Path())
	return nil
}

// parseConfigValue narrows a CLI argument to int, float, or bool before
// falling back to the raw string, matching TOML's scalar types. Numbers
// are tried first so "1" stays an integer rather than becoming true.
func parseConfigValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
