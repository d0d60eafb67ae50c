// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document moving through the processing pipeline
//   - Collection: A logical grouping of documents
//   - Chunk: A transient text span produced by the chunking pipeline
//   - SearchResult: A single retrieval hit assembled at query time
//   - ChatRequest/ChatResponse: The RAG conversation contract
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
