package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"the search query to find document chunks"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	CollectionID string `json:"collection_id,omitempty" jsonschema:"restrict results to one collection"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Score      float32 `json:"score"`
	Text       string  `json:"text"`
}

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Message      string `json:"message" jsonschema:"the question to answer from the indexed documents"`
	Provider     string `json:"provider,omitempty" jsonschema:"LLM provider to use (gemini or ollama)"`
	CollectionID string `json:"collection_id,omitempty" jsonschema:"restrict retrieval to one collection"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	Message    string               `json:"message"`
	Provider   string               `json:"provider"`
	Sources    []SearchResultOutput `json:"sources,omitempty"`
	TokensUsed int                  `json:"tokens_used"`
	Success    bool                 `json:"success"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all indexed documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat",
		Description: "Answer a question using the indexed documents as context",
	}, s.handleChat)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	req := domain.SearchRequest{
		Query:        input.Query,
		TopK:         limit,
		CollectionID: input.CollectionID,
	}
	resp, err := s.ports.Search.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: toResultOutputs(resp.Results),
		Count:   len(resp.Results),
	}

	return nil, output, nil
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	req := domain.ChatRequest{
		Message:      input.Message,
		Provider:     input.Provider,
		CollectionID: input.CollectionID,
	}

	resp, err := s.ports.Chat.ChatWithDocuments(ctx, req)
	if err != nil {
		return nil, ChatOutput{}, err
	}

	output := ChatOutput{
		Message:    resp.Message,
		Provider:   resp.Provider,
		Sources:    toResultOutputs(resp.Sources),
		TokensUsed: resp.TokensUsed,
		Success:    resp.Success,
	}

	return nil, output, nil
}

func toResultOutputs(results []domain.SearchResult) []SearchResultOutput {
	outputs := make([]SearchResultOutput, len(results))
	for i := range results {
		outputs[i] = SearchResultOutput{
			DocumentID: results[i].DocumentID,
			Filename:   results[i].DocumentFilename,
			Score:      results[i].Score,
			Text:       results[i].Text,
		}
	}
	return outputs
}
