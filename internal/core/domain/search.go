package domain

// SearchRequest configures a semantic search over indexed documents.
type SearchRequest struct {
	// Query is the natural-language search text.
	Query string

	// TopK is the maximum number of results (default 5).
	TopK int

	// CollectionID restricts results to one collection, when set.
	CollectionID string

	// DocumentIDs restricts results to specific documents, when set.
	DocumentIDs []string

	// ScoreThreshold drops hits below this similarity score.
	ScoreThreshold float32
}

// SearchResult is a single retrieval hit enriched with document metadata.
// It is assembled at query time and never stored.
type SearchResult struct {
	// ID is the vector point identifier that matched.
	ID string `json:"id"`

	// Score is the cosine similarity of the hit.
	Score float32 `json:"score"`

	// DocumentID is the source document.
	DocumentID string `json:"document_id"`

	// Text is the cleaned chunk text for display.
	Text string `json:"text"`

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int `json:"chunk_index"`

	// Timestamp is when the chunk was vectorised.
	Timestamp string `json:"timestamp,omitempty"`

	// EmbeddingModel is the model that produced the matched vector.
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// DocumentFilename is the source document's display name.
	DocumentFilename string `json:"document_filename,omitempty"`

	// DocumentType is the source document's content type.
	DocumentType string `json:"document_type,omitempty"`
}

// SearchResponse is the result set for one search request.
type SearchResponse struct {
	// Results are the surviving hits, ordered by descending score.
	Results []SearchResult `json:"results"`

	// Query echoes the original search text.
	Query string `json:"query"`

	// TotalResults is the number of results returned.
	TotalResults int `json:"total_results"`

	// SearchTimeMS is the elapsed search time in milliseconds.
	SearchTimeMS float64 `json:"search_time_ms"`
}
