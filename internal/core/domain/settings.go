package domain

// Default configuration values for the processing and retrieval pipeline.
const (
	DefaultChunkSize           = 1000
	DefaultChunkOverlap        = 200
	DefaultMaxContextChunks    = 5
	DefaultMaxContextLength    = 4000
	DefaultSimilarityThreshold = 0.8
	DefaultMinTextLength       = 20
	DefaultURLRatio            = 0.7
	DefaultMaxHexTokens        = 2
	DefaultMaxTokens           = 1000
	DefaultTemperature         = 0.7
)

// ChunkingSettings configures how extracted text is split.
type ChunkingSettings struct {
	// ChunkSize is the window size in characters.
	ChunkSize int

	// Overlap is the character overlap between consecutive chunks.
	// Must be strictly less than ChunkSize.
	Overlap int
}

// Validate checks the configuration can terminate.
func (s ChunkingSettings) Validate() error {
	if s.ChunkSize <= 0 || s.Overlap < 0 || s.Overlap >= s.ChunkSize {
		return ErrChunkingConfig
	}
	return nil
}

// RetrievalSettings configures the filter/rank stage.
// The thresholds are heuristics; all are tunable.
type RetrievalSettings struct {
	// MaxContextChunks caps how many chunks feed one generation prompt.
	MaxContextChunks int

	// MaxContextLength is the total character budget for context.
	MaxContextLength int

	// SimilarityThreshold is the token-set Jaccard ratio above which two
	// chunks count as near-duplicates.
	SimilarityThreshold float64

	// MinTextLength drops hits with shorter trimmed text.
	MinTextLength int

	// URLRatio drops hits whose text is mostly URL substrings.
	URLRatio float64

	// MaxHexTokens drops hits containing more long hexadecimal tokens
	// than this (signature of ID/hash noise rather than prose).
	MaxHexTokens int
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	// BaseURL is the Ollama server address.
	BaseURL string

	// Model is the embedding model identifier.
	Model string

	// Dimensions is the model's output vector size. Must match the
	// vector collection exactly.
	Dimensions int
}

// IsConfigured returns true if the settings name a model.
func (s EmbeddingSettings) IsConfigured() bool {
	return s.Model != ""
}

// VectorSettings configures the vector index connection.
type VectorSettings struct {
	// Addr is the qdrant gRPC address (host:port).
	Addr string

	// Collection is the vector collection name.
	Collection string
}

// GeminiSettings configures the cloud generation provider.
type GeminiSettings struct {
	// APIKey is the provisioned credential. Required for the provider
	// to be initialised at all.
	APIKey string

	// Model is the generation model identifier.
	Model string
}

// IsConfigured returns true if a credential is present.
func (s GeminiSettings) IsConfigured() bool {
	return s.APIKey != ""
}

// OllamaSettings configures the optional local generation provider.
type OllamaSettings struct {
	// BaseURL is the Ollama server address.
	BaseURL string

	// Model is the generation model identifier.
	Model string
}

// GenerationSettings holds default generation parameters.
type GenerationSettings struct {
	// MaxTokens is the default generation length cap.
	MaxTokens int

	// Temperature is the default sampling temperature.
	Temperature float64
}

// Settings aggregates the full configuration surface the core consumes.
type Settings struct {
	// DataDir is where uploaded files and metadata live.
	DataDir string

	// WatchDir is the directory the watch command monitors. Optional.
	WatchDir string

	Chunking   ChunkingSettings
	Retrieval  RetrievalSettings
	Embedding  EmbeddingSettings
	Vector     VectorSettings
	Gemini     GeminiSettings
	Ollama     OllamaSettings
	Generation GenerationSettings
}

// DefaultSettings returns the configuration used when no file overrides it.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkingSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			MaxContextChunks:    DefaultMaxContextChunks,
			MaxContextLength:    DefaultMaxContextLength,
			SimilarityThreshold: DefaultSimilarityThreshold,
			MinTextLength:       DefaultMinTextLength,
			URLRatio:            DefaultURLRatio,
			MaxHexTokens:        DefaultMaxHexTokens,
		},
		Embedding: EmbeddingSettings{
			BaseURL:    "http://localhost:11434",
			Model:      "all-minilm",
			Dimensions: 384,
		},
		Vector: VectorSettings{
			Addr:       "localhost:6334",
			Collection: "documents",
		},
		Gemini: GeminiSettings{
			Model: "gemini-2.0-flash",
		},
		Ollama: OllamaSettings{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
		},
		Generation: GenerationSettings{
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
	}
}
