// Package tui provides an interactive terminal user interface for docchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat provides RAG generation.
	Chat driving.ChatService

	// Search provides semantic search over the index.
	Search driving.SearchService

	// Document manages ingested documents.
	Document driving.DocumentService

	// Collection lists document collections.
	Collection driving.CollectionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatService,
	search driving.SearchService,
	document driving.DocumentService,
) *Ports {
	return &Ports{
		Chat:     chat,
		Search:   search,
		Document: document,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	// Collection only backs optional listings
	return nil
}
