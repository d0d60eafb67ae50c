package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentUpload carries one file into the ingestion pipeline.
type DocumentUpload struct {
	// Filename is the original upload name.
	Filename string

	// ContentType is the declared MIME type.
	ContentType string

	// Content is the raw file bytes.
	Content []byte

	// CollectionID targets a collection. Empty means the default one.
	CollectionID string
}

// DocumentList is a paginated document listing.
type DocumentList struct {
	Documents []domain.Document
	Total     int
	Offset    int
	Limit     int
}

// ListOptions paginate and scope a document listing.
type ListOptions struct {
	CollectionID string
	Offset       int
	Limit        int
}

// DocumentService manages the document lifecycle: upload, processing,
// retrieval and cascading deletion.
type DocumentService interface {
	// Upload stores a file, records the document as pending and enqueues
	// it for processing. The returned document reflects the pending state.
	Upload(ctx context.Context, upload DocumentUpload) (*domain.Document, error)

	// UploadAndWait uploads and blocks until processing reaches a
	// terminal status. Used by synchronous callers such as the CLI.
	UploadAndWait(ctx context.Context, upload DocumentUpload) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns documents with pagination and optional collection scope.
	List(ctx context.Context, opts ListOptions) (*DocumentList, error)

	// Delete removes a document, its vector points and its stored file.
	Delete(ctx context.Context, id string) error
}

// CollectionService manages document collections.
type CollectionService interface {
	// Create makes a new collection with a unique name.
	Create(ctx context.Context, name, description string) (*domain.Collection, error)

	// Get retrieves a collection by ID.
	Get(ctx context.Context, id string) (*domain.Collection, error)

	// List returns all collections.
	List(ctx context.Context) ([]domain.Collection, error)

	// Delete removes an empty collection.
	Delete(ctx context.Context, id string) error
}
