package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	searchLimit      int
	searchJSON       bool
	searchKeyword    bool
	searchCollection string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs semantic search across indexed documents.
Results are filtered for relevance and deduplicated per document.

Use --keyword to fall back to plain keyword matching, which works
without an embedding provider or vector index.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchKeyword, "keyword", false, "use keyword matching instead of semantic search")
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "", "restrict results to a collection ID")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	req := domain.SearchRequest{
		Query:        args[0],
		TopK:         searchLimit,
		CollectionID: searchCollection,
	}

	var (
		resp *domain.SearchResponse
		err  error
	)
	if searchKeyword {
		resp, err = searchService.KeywordSearch(ctx, req)
	} else {
		resp, err = searchService.Search(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}

	return outputSearchTable(cmd, resp)
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range resp.Results {
		name := resp.Results[i].DocumentFilename
		if name == "" {
			name = resp.Results[i].DocumentID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, name, resp.Results[i].Score)
		if resp.Results[i].Text != "" {
			cmd.Printf("      %s\n", resp.Results[i].Text)
		}
		cmd.Println()
	}

	cmd.Printf("%d results in %.1fms\n", resp.TotalResults, resp.SearchTimeMS)
	return nil
}
