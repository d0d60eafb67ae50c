package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatOptions configures one generation call.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// LLMClient is the capability every generation provider implements:
// produce a response from a structured message list under token and
// temperature limits. Variants: Gemini cloud API, local Ollama server.
//
// Failures are returned wrapped in domain.ErrProviderError (or
// domain.ErrProviderUnavailable for a dead optional provider), never
// panics.
type LLMClient interface {
	// Chat generates a response for the role-tagged message list.
	Chat(ctx context.Context, messages []domain.ChatMessage, opts ChatOptions) (string, error)

	// Ping validates the provider is reachable with a short-timeout probe.
	Ping(ctx context.Context) error

	// Name identifies the provider variant.
	Name() domain.Provider

	// ModelName returns the generation model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
