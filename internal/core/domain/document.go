package domain

import "time"

// DocumentStatus tracks a document through the processing pipeline.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusPending means the document is stored but not yet processed.
	StatusPending DocumentStatus = "pending"

	// StatusProcessing means extraction and vectorisation are underway.
	StatusProcessing DocumentStatus = "processing"

	// StatusCompleted means the document is fully indexed and searchable.
	StatusCompleted DocumentStatus = "completed"

	// StatusFailed means processing failed; ErrorMessage holds the cause.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the pipeline will not advance this status further.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Document represents an uploaded document and its processing state.
// It is mutated only by the ingestion pipeline; each status transition
// is persisted as a single store write.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the sanitised name used for storage.
	Filename string

	// OriginalFilename is the name supplied at upload time.
	OriginalFilename string

	// ContentType is the declared MIME type (e.g. "application/pdf").
	ContentType string

	// FileSize is the uploaded size in bytes.
	FileSize int64

	// FilePath is where the raw bytes are stored on disk.
	FilePath string

	// Content is the extracted plain text. Empty until processing completes.
	Content string

	// Status is the current pipeline state.
	Status DocumentStatus

	// ErrorMessage holds the failure cause when Status is StatusFailed.
	ErrorMessage string

	// ChunksCount is the number of chunks produced during processing.
	ChunksCount int

	// VectorIDs are the vector point identifiers stored for this document.
	// Deleting the document must delete every one of these points.
	VectorIDs []string

	// EmbeddingModel is the model used to vectorise this document.
	EmbeddingModel string

	// CollectionID links to the owning Collection.
	CollectionID string

	// ProcessingStartedAt is set when the worker picks the document up.
	ProcessingStartedAt *time.Time

	// ProcessingCompletedAt is set on terminal status.
	ProcessingCompletedAt *time.Time

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time
}

// Collection is a logical grouping of documents.
// DocumentsCount and ChunksCount are derived values and must stay
// consistent with actual document membership.
type Collection struct {
	// ID is the unique identifier for the collection.
	ID string

	// Name is the human-readable collection name. Unique.
	Name string

	// Description explains what the collection holds.
	Description string

	// DocumentsCount is the number of documents in the collection.
	DocumentsCount int

	// ChunksCount is the total chunk count across member documents.
	ChunksCount int

	// CreatedAt is when the collection was created.
	CreatedAt time.Time

	// UpdatedAt is when the collection was last modified.
	UpdatedAt time.Time
}

// DefaultCollectionName is the collection documents land in when the
// caller does not specify one.
const DefaultCollectionName = "Default Collection"

// Chunk is a contiguous text span cut from a document's extracted content.
// Chunks exist only between extraction and vectorisation; they are never
// persisted as their own entity.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the ordinal position within the document.
	Index int

	// Text is the chunk content.
	Text string
}
