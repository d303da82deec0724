package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/prefsync/internal/core/domain"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the cached preferences",
	Long: `Reads the preferences record from the local cache.

The read is synchronous and self-healing: a corrupt or malformed cached
record is discarded and reported as absent.`,
	RunE: runGet,
}

var setCmd = &cobra.Command{
	Use:   "set [language] [theme]",
	Short: "Save preferences to the local cache",
	Long: `Writes a preferences record to the local cache. The record's
last-updated marker is stamped with the current time.

The write is synchronous and local only. Use --push to also write the
record to the remote store immediately, or 'prefsync push' later.

Examples:
  prefsync set en light
  prefsync set hi dark --push --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached preferences",
	Long: `Removes the preferences record from the local cache.

The remote store is untouched; use 'prefsync delete' to remove the
remote record as well.`,
	RunE: runClear,
}

// setPush triggers an immediate remote write after a successful set.
var setPush bool

func init() {
	setCmd.Flags().BoolVar(&setPush, "push", false, "also write the record to the remote store now")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(clearCmd)
}

func runGet(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("preference cache not configured")
	}

	prefs := cacheService.Load(cmd.Context())
	if prefs == nil {
		cmd.Println("No preferences cached.")
		return nil
	}

	printPreferences(cmd, *prefs)
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	if cacheService == nil {
		return errors.New("preference cache not configured")
	}

	prefs := domain.Preferences{
		Language:    domain.Language(args[0]),
		Theme:       domain.Theme(args[1]),
		LastUpdated: nowMillis(),
	}
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	if !cacheService.Save(cmd.Context(), prefs) {
		return errors.New("preferences were not saved; see the log for details")
	}
	cmd.Printf("Saved preferences: language=%s theme=%s\n", prefs.Language, prefs.Theme)

	if !setPush {
		return nil
	}

	userID, err := resolveUserID()
	if err != nil {
		return err
	}
	syncer, err := ensureSyncer()
	if err != nil {
		return err
	}
	if err := syncer.SyncNow(cmd.Context(), userID, prefs); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	cmd.Printf("Pushed preferences for user %s.\n", userID)
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("preference cache not configured")
	}

	cacheService.Clear(cmd.Context())
	cmd.Println("Cached preferences cleared.")
	return nil
}

// printPreferences renders a record in the fixed field order.
func printPreferences(cmd *cobra.Command, prefs domain.Preferences) {
	cmd.Printf("  Language:     %s\n", prefs.Language)
	cmd.Printf("  Theme:        %s\n", prefs.Theme.Description())
	cmd.Printf("  Last updated: %s\n", formatUpdated(prefs.LastUpdated))
}
