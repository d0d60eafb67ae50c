package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file type no normaliser handles.
	// Supported formats are PDF, DOCX, TXT, MD and HTML.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrChunkingConfig indicates a chunker configuration that would not
	// terminate (overlap >= chunk size). Callers must fail fast on it.
	ErrChunkingConfig = errors.New("invalid chunking configuration")

	// ErrVectorIndex indicates a vector index transport or collection
	// failure. Fatal to the triggering operation, never silently dropped.
	ErrVectorIndex = errors.New("vector index error")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Semantic search is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrProviderUnavailable indicates an optional LLM provider is not
	// reachable. The provider is excluded from routing; this is not an
	// error surfaced to the end user.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderError indicates a selected LLM provider failed mid-call.
	// Surfaced as a failed chat response, never an unhandled crash.
	ErrProviderError = errors.New("provider error")

	// ErrNoProviders indicates no LLM provider could be initialised.
	ErrNoProviders = errors.New("no LLM providers available")
)
