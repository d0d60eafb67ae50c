package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var (
	ingestCollection string
	ingestAsync      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Uploads one or more files, extracts their text, chunks it and
indexes the chunks for semantic search.

Supported formats: plain text, Markdown, HTML, DOCX and PDF.

By default the command waits for each document to finish processing.
Use --async to enqueue the files and return immediately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "collection ID to ingest into")
	ingestCmd.Flags().BoolVar(&ingestAsync, "async", false, "enqueue without waiting for processing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	failed := 0

	for _, path := range args {
		if err := ingestFile(ctx, cmd, path); err != nil {
			cmd.Printf("  %s: %v\n", path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	upload := driving.DocumentUpload{
		Filename:     filepath.Base(path),
		ContentType:  detectContentType(path),
		Content:      content,
		CollectionID: ingestCollection,
	}

	if ingestAsync {
		doc, err := documentService.Upload(ctx, upload)
		if err != nil {
			return err
		}
		cmd.Printf("Enqueued %s (ID: %s)\n", doc.OriginalFilename, doc.ID)
		return nil
	}

	cmd.Printf("Ingesting %s...\n", filepath.Base(path))
	doc, err := documentService.UploadAndWait(ctx, upload)
	if err != nil {
		return err
	}

	if doc.Status == domain.StatusFailed {
		return fmt.Errorf("processing failed: %s", doc.ErrorMessage)
	}

	cmd.Printf("Indexed %s (ID: %s, %d chunks)\n", doc.OriginalFilename, doc.ID, doc.ChunksCount)
	return nil
}

// detectContentType maps a file extension to a MIME type, falling back
// to plain text for unknown extensions so the text normaliser gets a
// chance at them. The supported formats are mapped explicitly because
// mime.TypeByExtension appends charset parameters on some systems.
func detectContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
