package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage document collections",
	Long:  `Create, list, or delete document collections.`,
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	RunE:  runCollectionList,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete [collection-id]",
	Short: "Delete an empty collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDelete,
}

// collectionDescription is a flag for the create command.
var collectionDescription string

func init() {
	collectionCreateCmd.Flags().StringVarP(&collectionDescription, "description", "d", "", "collection description")

	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	ctx := context.Background()

	col, err := collectionService.Create(ctx, args[0], collectionDescription)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	cmd.Printf("Created collection %q (ID: %s)\n", col.Name, col.ID)
	return nil
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	ctx := context.Background()

	cols, err := collectionService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(cols) == 0 {
		cmd.Println("No collections found.")
		return nil
	}

	cmd.Println("Collections:")
	cmd.Println()
	for i := range cols {
		cmd.Printf("  %s\n", cols[i].ID)
		cmd.Printf("    Name:      %s\n", cols[i].Name)
		if cols[i].Description != "" {
			cmd.Printf("    About:     %s\n", cols[i].Description)
		}
		cmd.Printf("    Documents: %d\n", cols[i].DocumentsCount)
		cmd.Println()
	}

	cmd.Printf("Total: %d collections\n", len(cols))
	return nil
}

func runCollectionDelete(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	ctx := context.Background()

	if err := collectionService.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	cmd.Printf("Collection %s deleted.\n", args[0])
	return nil
}
