package file

import (
	"os"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// LoadSettings builds a typed domain.Settings from a config store.
// Defaults apply wherever the store has no value for a key, so a fresh
// install works with an empty config file.
//
// The Gemini API key may come from the GEMINI_API_KEY environment
// variable when the config file doesn't set it. The environment never
// overrides an explicit config value.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()

	setString(store, "data.dir", &s.DataDir)
	setString(store, "watch.dir", &s.WatchDir)

	setInt(store, "chunking.chunk_size", &s.Chunking.ChunkSize)
	setInt(store, "chunking.overlap", &s.Chunking.Overlap)

	setInt(store, "retrieval.max_context_chunks", &s.Retrieval.MaxContextChunks)
	setInt(store, "retrieval.max_context_length", &s.Retrieval.MaxContextLength)
	setFloat(store, "retrieval.similarity_threshold", &s.Retrieval.SimilarityThreshold)
	setInt(store, "retrieval.min_text_length", &s.Retrieval.MinTextLength)
	setFloat(store, "retrieval.url_ratio", &s.Retrieval.URLRatio)
	setInt(store, "retrieval.max_hex_tokens", &s.Retrieval.MaxHexTokens)

	setString(store, "embedding.base_url", &s.Embedding.BaseURL)
	setString(store, "embedding.model", &s.Embedding.Model)
	setInt(store, "embedding.dimensions", &s.Embedding.Dimensions)

	setString(store, "qdrant.addr", &s.Vector.Addr)
	setString(store, "qdrant.collection", &s.Vector.Collection)

	setString(store, "gemini.api_key", &s.Gemini.APIKey)
	setString(store, "gemini.model", &s.Gemini.Model)
	if s.Gemini.APIKey == "" {
		s.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	setString(store, "ollama.base_url", &s.Ollama.BaseURL)
	setString(store, "ollama.model", &s.Ollama.Model)

	setInt(store, "generation.max_tokens", &s.Generation.MaxTokens)
	setFloat(store, "generation.temperature", &s.Generation.Temperature)

	return s
}

func setString(store driven.ConfigStore, key string, dst *string) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetString(key)
	}
}

func setInt(store driven.ConfigStore, key string, dst *int) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetInt(key)
	}
}

func setFloat(store driven.ConfigStore, key string, dst *float64) {
	if _, ok := store.Get(key); ok {
		*dst = store.GetFloat(key)
	}
}
