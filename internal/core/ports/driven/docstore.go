package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentFilter narrows document listing.
type DocumentFilter struct {
	// CollectionID restricts to one collection when set.
	CollectionID string

	// Status restricts to one pipeline state when set.
	Status domain.DocumentStatus

	// Offset and Limit paginate the listing. Limit 0 means no cap.
	Offset int
	Limit  int
}

// DocumentStore persists document metadata.
// Backed by SQLite; each SaveDocument call is a single commit so readers
// never observe a partially applied status transition.
type DocumentStore interface {
	// SaveDocument stores or updates a document in one transaction.
	// Collection document/chunk counts are kept consistent in the same
	// transaction.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns matching documents plus the unpaginated total.
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]domain.Document, int, error)

	// DeleteDocument removes a document and adjusts collection counts.
	DeleteDocument(ctx context.Context, id string) error
}

// CollectionStore persists collection metadata.
type CollectionStore interface {
	// SaveCollection stores or updates a collection.
	SaveCollection(ctx context.Context, col *domain.Collection) error

	// GetCollection retrieves a collection by ID.
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)

	// GetCollectionByName retrieves a collection by its unique name.
	GetCollectionByName(ctx context.Context, name string) (*domain.Collection, error)

	// ListCollections returns all collections.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// DeleteCollection removes an empty collection.
	// Returns domain.ErrInvalidInput while documents remain in it.
	DeleteCollection(ctx context.Context, id string) error
}
