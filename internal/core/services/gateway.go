package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// LLMGateway routes generation calls across the initialised providers.
// The default provider is the first available in priority order (cloud
// first, local second). A provider failure is returned as an unsuccessful
// GenerationResult, never as a panic or an unhandled error.
type LLMGateway struct {
	clients map[domain.Provider]driven.LLMClient
	order   []domain.Provider
}

// NewLLMGateway creates a gateway over the given clients.
// Client order is preserved for default-provider selection.
func NewLLMGateway(clients []driven.LLMClient) *LLMGateway {
	g := &LLMGateway{
		clients: make(map[domain.Provider]driven.LLMClient, len(clients)),
	}
	for _, client := range clients {
		name := client.Name()
		if _, ok := g.clients[name]; ok {
			continue
		}
		g.clients[name] = client
		g.order = append(g.order, name)
	}

	if len(g.order) == 0 {
		logger.Warn("No LLM providers available, chat is disabled")
	} else {
		logger.Info("LLM providers: %s (default: %s)", strings.Join(g.providerNames(), ", "), g.order[0])
	}

	return g
}

// DefaultProvider returns the provider routed to when none is requested.
// Empty when no provider initialised.
func (g *LLMGateway) DefaultProvider() domain.Provider {
	if len(g.order) == 0 {
		return ""
	}
	return g.order[0]
}

// AvailableProviders lists providers that initialised successfully.
func (g *LLMGateway) AvailableProviders() []string {
	return g.providerNames()
}

// Generate routes one generation call to the requested provider, or the
// default when provider is empty. The result is always populated: on
// failure Success is false and Error holds the cause.
func (g *LLMGateway) Generate(ctx context.Context, messages []domain.ChatMessage, provider domain.Provider, opts driven.ChatOptions) (*domain.GenerationResult, error) {
	if len(g.order) == 0 {
		return nil, domain.ErrNoProviders
	}

	if provider == "" {
		provider = g.DefaultProvider()
	}

	client, ok := g.clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: provider %q not available (available: %s)",
			domain.ErrProviderUnavailable, provider, strings.Join(g.providerNames(), ", "))
	}

	if opts.MaxTokens <= 0 {
		opts.MaxTokens = domain.DefaultMaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = domain.DefaultTemperature
	}

	response, err := client.Chat(ctx, messages, opts)
	if err != nil {
		logger.Warn("Generation failed on %s: %v", provider, err)
		return &domain.GenerationResult{
			Response: fmt.Sprintf("Error: %v", err),
			Provider: provider,
			Success:  false,
			Error:    err.Error(),
		}, nil
	}

	return &domain.GenerationResult{
		Response: response,
		Provider: provider,
		Tokens:   EstimateTokens(response),
		Success:  true,
	}, nil
}

// CheckHealth probes a provider with a minimal real generation.
func (g *LLMGateway) CheckHealth(ctx context.Context, provider domain.Provider) bool {
	client, ok := g.clients[provider]
	if !ok {
		return false
	}

	messages := []domain.ChatMessage{{Role: domain.RoleUser, Content: "Hello"}}
	response, err := client.Chat(ctx, messages, driven.ChatOptions{MaxTokens: 10, Temperature: domain.DefaultTemperature})
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) != ""
}

// Close releases all provider clients.
func (g *LLMGateway) Close() {
	for _, client := range g.clients {
		_ = client.Close()
	}
}

func (g *LLMGateway) providerNames() []string {
	names := make([]string, len(g.order))
	for i, p := range g.order {
		names[i] = p.String()
	}
	return names
}

// EstimateTokens approximates token usage as a whitespace word count.
// A rough figure for usage display, not tokenizer-exact.
func EstimateTokens(text string) int {
	return len(strings.Fields(text))
}
