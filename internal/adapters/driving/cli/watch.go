package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/adapters/driving/watch"
	"github.com/custodia-labs/docsync/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [document-id] [file]",
	Short: "Replace a document whenever a markdown file changes",
	Long: `Watch a local markdown file and replace the document with its content
after every save. Press Ctrl+C to stop.

Edits saved before the watcher is ready are not seen; pass --sync-on-start
to replace the document with the current file first.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before syncing a change")
	watchCmd.Flags().Bool("sync-on-start", false, "Sync once before waiting for changes")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := documents(cmd.Context())
	if err != nil {
		return err
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")
	syncOnStart, _ := cmd.Flags().GetBool("sync-on-start")

	w, err := watch.New(svc, watch.Config{
		DocumentID:  args[0],
		Path:        args[1],
		Debounce:    debounce,
		SyncOnStart: syncOnStart,
		OnSync: func(result *domain.WriteResult, err error) {
			if err != nil {
				cmd.PrintErrf("Sync failed: %v\n", err)
				return
			}
			cmd.Printf("Synced: %d block(s), %d image(s)\n", result.BlocksAdded, result.ImagesProcessed)
			printWarning(cmd, result.Warning)
		},
		OnReady: func() {
			cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[1])
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}
