package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/watch"
)

var watchCollection string

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new files",
	Long: `Watches a directory and automatically ingests files that appear
or change in it. Runs until interrupted with Ctrl+C.

Without an argument the configured watch directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCollection, "collection", "c", "", "collection ID to ingest into")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	dir := appSettings.WatchDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no watch directory configured; pass one as an argument")
	}

	watcher, err := watch.New(dir, documentService, watchCollection)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events, err := watcher.Run(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	for event := range events {
		if event.Err != nil {
			cmd.Printf("  %s: %v\n", event.Path, event.Err)
			continue
		}
		cmd.Printf("  Indexed %s (ID: %s, %d chunks)\n",
			event.Document.OriginalFilename, event.Document.ID, event.Document.ChunksCount)
	}

	cmd.Println("Watch stopped.")
	return nil
}
