package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, inspect, or delete ingested documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes a document, its indexed vectors and its stored file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var (
	documentListCollection string
	documentListLimit      int
	documentListOffset     int
)

func init() {
	documentListCmd.Flags().StringVarP(&documentListCollection, "collection", "c", "", "filter by collection ID")
	documentListCmd.Flags().IntVarP(&documentListLimit, "limit", "n", 50, "maximum number of documents")
	documentListCmd.Flags().IntVar(&documentListOffset, "offset", 0, "number of documents to skip")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	opts := driving.ListOptions{
		CollectionID: documentListCollection,
		Offset:       documentListOffset,
		Limit:        documentListLimit,
	}

	list, err := documentService.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(list.Documents) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range list.Documents {
		doc := &list.Documents[i]
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Name:   %s\n", doc.OriginalFilename)
		cmd.Printf("    Status: %s\n", doc.Status)
		if doc.ChunksCount > 0 {
			cmd.Printf("    Chunks: %d\n", doc.ChunksCount)
		}
		if doc.ErrorMessage != "" {
			cmd.Printf("    Error:  %s\n", doc.ErrorMessage)
		}
		cmd.Println()
	}

	cmd.Printf("Showing %d of %d documents\n", len(list.Documents), list.Total)
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, err := documentService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:        %s\n", doc.OriginalFilename)
	cmd.Printf("  Type:        %s\n", doc.ContentType)
	cmd.Printf("  Size:        %d bytes\n", doc.FileSize)
	cmd.Printf("  Status:      %s\n", doc.Status)
	cmd.Printf("  Collection:  %s\n", doc.CollectionID)
	cmd.Printf("  Chunks:      %d\n", doc.ChunksCount)
	if doc.EmbeddingModel != "" {
		cmd.Printf("  Embedding:   %s\n", doc.EmbeddingModel)
	}
	cmd.Printf("  Created:     %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:     %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if doc.ErrorMessage != "" {
		cmd.Printf("\n  Error: %s\n", doc.ErrorMessage)
	}

	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	if err := documentService.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}
