package driven

import (
	"context"
	"time"
)

// VectorPayload is the metadata stored alongside every vector point.
// Its document_id must always reference a live document.
type VectorPayload struct {
	// DocumentID is the source document.
	DocumentID string

	// ChunkIndex is the chunk's position within the document.
	ChunkIndex int

	// Text is the chunk content.
	Text string

	// Timestamp is when the point was written.
	Timestamp time.Time

	// EmbeddingModel is the model that produced the vector.
	EmbeddingModel string
}

// VectorPoint is one vector plus payload, keyed by a generated unique id.
type VectorPoint struct {
	// ID is the unique point identifier.
	ID string

	// Vector is the embedding. Its length must match the collection
	// dimensionality exactly.
	Vector []float32

	// Payload is the point metadata.
	Payload VectorPayload
}

// VectorQuery configures a nearest-neighbour search.
type VectorQuery struct {
	// Limit is the maximum number of hits.
	Limit int

	// DocumentIDs restricts hits to these documents, when set.
	DocumentIDs []string

	// ScoreThreshold drops hits below this similarity score.
	ScoreThreshold float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// PointID is the matched point.
	PointID string

	// Score is the cosine similarity score.
	Score float32

	// Payload is the stored point metadata.
	Payload VectorPayload
}

// CollectionInfo describes the state of the vector collection.
type CollectionInfo struct {
	// Name is the collection name.
	Name string

	// PointsCount is the number of stored points.
	PointsCount uint64

	// Status is the collection status reported by the index.
	Status string
}

// VectorIndex provides persistent vector storage with cosine-similarity
// nearest-neighbour search. Backed by qdrant.
//
// Connection failures are fatal to the calling operation: implementations
// propagate them wrapped, never swallow them.
type VectorIndex interface {
	// EnsureCollection creates the collection with the configured
	// dimensionality and cosine metric if it does not exist. Idempotent:
	// an already-existing collection is not an error.
	EnsureCollection(ctx context.Context) error

	// Upsert writes points with payload metadata.
	Upsert(ctx context.Context, points []VectorPoint) error

	// Search finds the nearest neighbours to the query vector.
	Search(ctx context.Context, vector []float32, query VectorQuery) ([]VectorHit, error)

	// DeleteByDocument removes every point whose payload document_id
	// matches the given id.
	DeleteByDocument(ctx context.Context, documentID string) error

	// CollectionInfo reports collection statistics.
	CollectionInfo(ctx context.Context) (*CollectionInfo, error)

	// Close releases the connection.
	Close() error
}
