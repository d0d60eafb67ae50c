// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/ollama"
	geminillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// probeTimeout is the liveness budget for optional local providers.
// Shorter than pingTimeout: an absent Ollama server should not stall startup.
const probeTimeout = 3 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMClients       []driven.LLMClient // Generation providers, in routing priority order.
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex
	Warnings         []string // Non-fatal issues that excluded a component.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	for _, client := range r.LLMClients {
		_ = client.Close()
	}
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		_ = r.VectorIndex.Close()
	}
}

// Init builds the full AI stack from settings.
// Generation providers that fail to initialise are excluded with a warning
// rather than failing startup; the embedding service and vector index are
// likewise optional so that keyword search keeps working without them.
func Init(ctx context.Context, settings domain.Settings) *InitResult {
	result := &InitResult{}

	result.LLMClients, result.Warnings = CreateLLMClients(ctx, settings)

	embedSvc, err := CreateAndValidateEmbeddingService(ctx, settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.EmbeddingService = embedSvc
	}

	if result.EmbeddingService != nil {
		index, err := CreateVectorIndex(ctx, settings.Vector, result.EmbeddingService.Dimensions())
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			result.VectorIndex = index
		}
	}

	return result
}

// CreateLLMClients builds generation clients in routing priority order.
// Gemini is included whenever an API key is configured; a bad key surfaces
// later as a failed chat, not at startup. Ollama is probed for liveness and
// silently excluded when the local server isn't running.
func CreateLLMClients(ctx context.Context, settings domain.Settings) ([]driven.LLMClient, []string) {
	var clients []driven.LLMClient
	var warnings []string

	if settings.Gemini.IsConfigured() {
		client, err := geminillm.New(geminillm.Config{
			APIKey: settings.Gemini.APIKey,
			Model:  settings.Gemini.Model,
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("gemini provider disabled: %v", err))
		} else {
			clients = append(clients, client)
		}
	}

	ollamaClient := ollamallm.New(ollamallm.Config{
		BaseURL: settings.Ollama.BaseURL,
		Model:   settings.Ollama.Model,
	})

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := ollamaClient.Ping(probeCtx); err != nil {
		_ = ollamaClient.Close()
		warnings = append(warnings, fmt.Sprintf("ollama provider disabled: %v", err))
	} else {
		clients = append(clients, ollamaClient)
	}

	return clients, warnings
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no embedding model configured. Run 'docchat settings' to fix",
			domain.ErrEmbeddingUnavailable)
	}

	svc := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docchat settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateVectorIndex connects to qdrant and ensures the collection exists
// with the embedding service's dimensionality.
func CreateVectorIndex(ctx context.Context, settings domain.VectorSettings, dimensions int) (driven.VectorIndex, error) {
	index, err := qdrant.New(qdrant.Config{
		Addr:       settings.Addr,
		Collection: settings.Collection,
		Dimensions: dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndex, err)
	}

	ensureCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := index.EnsureCollection(ensureCtx); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndex, err)
	}

	return index, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for the settings command to validate values on configuration.
func ValidateEmbeddingConfig(ctx context.Context, settings domain.EmbeddingSettings) error {
	if !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateGeminiConfig validates a Gemini configuration by pinging the API.
// This is intended for the settings command to validate credentials on configuration.
func ValidateGeminiConfig(ctx context.Context, settings domain.GeminiSettings) error {
	if !settings.IsConfigured() {
		return nil
	}

	client, err := geminillm.New(geminillm.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx)
}

// ValidateOllamaConfig validates an Ollama configuration by pinging the server.
func ValidateOllamaConfig(ctx context.Context, settings domain.OllamaSettings) error {
	client := ollamallm.New(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx)
}
