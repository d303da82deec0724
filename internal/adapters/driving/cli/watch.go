package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/veldt-labs/prefsync/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the local store and sync external edits",
	Long: `Watches the file-backed local store and schedules a background
sync whenever the file changes, so edits made by another process (or by
hand) reach the remote store.

Rapid successive edits coalesce through the engine's debounce window;
edits made while offline queue up and drain when connectivity returns.
Runs until interrupted. Remaining pending syncs are cancelled on exit.

Requires local.backend = "file".`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("preference cache not configured")
	}
	if watchPath == "" {
		return errors.New("watch requires the file storage backend (local.backend = \"file\")")
	}

	userID, err := resolveUserID()
	if err != nil {
		return err
	}
	syncer, err := ensureSyncer()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort teardown

	// Watch the directory, not the file: editors and the file store
	// itself may replace the file rather than write it in place.
	dir := filepath.Dir(watchPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for user %s. Press Ctrl+C to stop.\n", watchPath, userID)

	target := filepath.Clean(watchPath)
	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopping watch; cancelling pending syncs.")
			syncer.CancelPending()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			prefs := cacheService.Load(ctx)
			if prefs == nil {
				// Cleared or unusable; nothing to push.
				continue
			}
			syncer.Sync(userID, *prefs)
			logger.Info("Change detected, sync scheduled for user %s", userID)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", werr)
		}
	}
}
