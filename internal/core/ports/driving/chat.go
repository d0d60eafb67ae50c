package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ComponentHealth reports the state of the RAG service's dependencies.
type ComponentHealth struct {
	// Providers maps provider name to "healthy", "unhealthy" or an error.
	Providers map[string]string

	// VectorIndex is "healthy" or an error description.
	VectorIndex string

	// DefaultProvider is the provider routed to when none is requested.
	DefaultProvider string
}

// ChatService is the RAG orchestrator's inbound contract.
type ChatService interface {
	// ChatWithDocuments retrieves context, builds the prompt, generates
	// and packages the response with citations. Errors degrade to an
	// apologetic response; they are never propagated to the caller.
	ChatWithDocuments(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// SimpleChat generates without retrieval, using a minimal system prompt.
	SimpleChat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// AvailableProviders lists providers that initialised successfully.
	AvailableProviders() []string

	// HealthCheck probes each provider with a minimal real generation and
	// reports vector index connectivity.
	HealthCheck(ctx context.Context) *ComponentHealth
}
