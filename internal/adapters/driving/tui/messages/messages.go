// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversational RAG view.
	ViewChat
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewDocuments lists ingested documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ChatCompleted carries a generated response back to the chat view.
type ChatCompleted struct {
	Response *domain.ChatResponse
	Err      error
}

// SearchCompleted carries search results back to the search view.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// DocumentsLoaded carries the document listing.
type DocumentsLoaded struct {
	Documents []domain.Document
	Total     int
	Err       error
}

// DocumentDeleted signals a document deletion completed.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
