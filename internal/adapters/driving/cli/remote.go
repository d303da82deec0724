package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write the cached preferences to the remote store",
	Long: `Writes the locally cached preferences record to the remote store
for the resolved user, retrying with backoff on transient failure.

Unlike background sync this command reports the final outcome: it fails
when every attempt is exhausted.`,
	RunE: runPush,
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the remote preferences",
	Long: `Fetches the preferences record for the resolved user from the
remote store. A missing record, or one that fails schema validation, is
reported as absent; the remote data is never modified.

Use --store to also save the fetched record to the local cache.`,
	RunE: runPull,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the remote preferences",
	Long: `Removes the preferences record for the resolved user from the
remote store. Any failure is reported; deletion is never silent.

The local cache is untouched; use 'prefsync clear' to remove it as well.`,
	RunE: runDelete,
}

// pullStore saves the fetched record to the local cache.
var pullStore bool

func init() {
	pullCmd.Flags().BoolVar(&pullStore, "store", false, "save the fetched record to the local cache")

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runPush(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("preference cache not configured")
	}

	userID, err := resolveUserID()
	if err != nil {
		return err
	}

	prefs := cacheService.Load(cmd.Context())
	if prefs == nil {
		return errors.New("nothing to push: no preferences cached")
	}

	syncer, err := ensureSyncer()
	if err != nil {
		return err
	}
	if err := syncer.SyncNow(cmd.Context(), userID, *prefs); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	cmd.Printf("Pushed preferences for user %s.\n", userID)
	return nil
}

func runPull(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUserID()
	if err != nil {
		return err
	}

	syncer, err := ensureSyncer()
	if err != nil {
		return err
	}

	prefs, err := syncer.Fetch(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if prefs == nil {
		cmd.Printf("No remote preferences for user %s.\n", userID)
		return nil
	}

	cmd.Printf("Remote preferences for user %s:\n", userID)
	printPreferences(cmd, *prefs)

	if !pullStore {
		return nil
	}
	if cacheService == nil {
		return errors.New("preference cache not configured")
	}
	if !cacheService.Save(cmd.Context(), *prefs) {
		return errors.New("fetched record was not cached; see the log for details")
	}
	cmd.Println("Saved to the local cache.")
	return nil
}

func runDelete(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUserID()
	if err != nil {
		return err
	}

	syncer, err := ensureSyncer()
	if err != nil {
		return err
	}
	if err := syncer.Delete(cmd.Context(), userID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted remote preferences for user %s.\n", userID)
	return nil
}
