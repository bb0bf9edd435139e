package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/connectors/filesystem"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/logger"
)

var (
	syncDryRun bool
	syncWatch  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the corpus against the vector store",
	Long: `Reads the corpus, diffs it against the store's recorded fingerprints,
and embeds and upserts only the documents that changed. Documents that
disappeared locally are deleted from the store.

The command exits non-zero if any document failed or was truncated by
the content-size limit, even when every other document succeeded.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute and print the plan without mutating anything")
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep running, re-syncing when the corpus changes")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if syncDryRun {
		plan, err := app.sync.Plan(ctx)
		if err != nil {
			return err
		}
		printPlan(cmd, plan)
		return nil
	}

	if syncWatch {
		return watchLoop(ctx, cmd, app)
	}

	return syncOnce(ctx, cmd, app)
}

// syncOnce runs a single reconciliation and reports its outcome as the
// command result.
func syncOnce(ctx context.Context, cmd *cobra.Command, app *app) error {
	result, err := app.sync.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(cmd, result)

	if result.Failed() {
		return fmt.Errorf("sync completed abnormally: %d failed, %d truncated",
			len(result.Failures), len(result.Truncated))
	}
	return nil
}

// watchLoop syncs once, then re-syncs every time the corpus settles
// after a change, until ctx is cancelled. Abnormal runs are reported
// but do not stop the loop; the final exit reflects cancellation.
func watchLoop(ctx context.Context, cmd *cobra.Command, app *app) error {
	if err := syncOnce(ctx, cmd, app); err != nil {
		logger.Error("sync: %v", err)
	}

	watcher := filesystem.NewWatcher(app.settings.Root, filesystem.DefaultDebounce)
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch corpus: %w", err)
	}

	cmd.Printf("Watching %s for changes...\n", app.settings.Root)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return fmt.Errorf("corpus watcher stopped")
			}
			if err := syncOnce(ctx, cmd, app); err != nil {
				logger.Error("sync: %v", err)
			}
		}
	}
}

// printSummary writes the run outcome: counts, truncations, failures.
func printSummary(cmd *cobra.Command, result *domain.RunResult) {
	cmd.Printf("Synced: %d inserted, %d updated, %d deleted, %d unchanged\n",
		result.Inserted, result.Updated, result.Deleted, result.Skipped)

	for _, path := range result.Truncated {
		cmd.Printf("Truncated: %s\n", path)
	}
	for _, failure := range result.Failures {
		if failure.Action != "" {
			cmd.Printf("Failed %s %s: %v\n", failure.Action, failure.Path, failure.Err)
		} else {
			cmd.Printf("Failed to read %s: %v\n", failure.Path, failure.Err)
		}
	}
	if result.Cancelled {
		cmd.Println("Interrupted: remaining items were not dispatched")
	}
}
