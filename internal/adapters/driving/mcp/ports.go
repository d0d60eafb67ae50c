package mcp

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic search over the index.
	Search driving.SearchService

	// Chat provides RAG generation.
	Chat driving.ChatService

	// Document exposes document metadata and content.
	Document driving.DocumentService

	// Collection lists document collections.
	Collection driving.CollectionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Document and Collection only back optional resources
	return nil
}
