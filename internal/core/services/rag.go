package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure RAGService implements the interfaces.
var (
	_ driving.ChatService     = (*RAGService)(nil)
	_ driven.PromptStoreAware = (*RAGService)(nil)
)

// errorApology is returned when orchestration itself fails.
const errorApology = "I apologize, but I encountered an error while processing your request. Please try again."

// historyLimit caps how many prior turns are forwarded to the provider.
const historyLimit = 10

// Default prompts used when no PromptStore is injected.
const (
	defaultRAGSystemPrompt = `You are a helpful AI assistant that answers questions based on the provided document context.

INSTRUCTIONS:
1. Use the provided context to answer the user's question accurately
2. If the answer is not in the provided context, say so honestly
3. When possible, mention which document(s) your answer comes from
4. Be concise but thorough in your responses
5. If you quote directly from the documents, use quotation marks

CONTEXT FROM DOCUMENTS:
%s

Remember: Base your answers primarily on the provided context. If the context doesn't contain relevant information, let the user know.`

	defaultRAGNoContextPrompt = `You are a helpful AI assistant. Answer the user's questions to the best of your ability. If you don't know something, please say so honestly.`

	defaultChatSimplePrompt = `You are a helpful AI assistant. Answer questions clearly and concisely.`
)

// RAGService orchestrates retrieval-augmented chat: retrieve context,
// build the prompt, generate, and package the response with citations.
type RAGService struct {
	search    driving.SearchService
	gateway   *LLMGateway
	index     driven.VectorIndex
	retrieval domain.RetrievalSettings
	prompts   driven.PromptStore
}

// NewRAGService creates a new RAG service.
// The index is only used for health reporting and may be nil.
func NewRAGService(
	search driving.SearchService,
	gateway *LLMGateway,
	index driven.VectorIndex,
	retrieval domain.RetrievalSettings,
) *RAGService {
	return &RAGService{
		search:    search,
		gateway:   gateway,
		index:     index,
		retrieval: retrieval,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *RAGService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// ChatWithDocuments retrieves context, builds the prompt, generates and
// packages the response with citations. Errors degrade to an apologetic
// response; they are never propagated to the caller.
func (s *RAGService) ChatWithDocuments(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	logger.Section("RAG Chat")
	logger.Debug("Message: %.100q", req.Message)

	contextChunks := s.retrieveContext(ctx, req)
	logger.Info("Retrieved %d context chunks", len(contextChunks))

	messages := s.buildConversationMessages(req, contextChunks)

	result, err := s.gateway.Generate(ctx, messages, domain.Provider(req.Provider), driven.ChatOptions{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		logger.Warn("RAG chat failed: %v", err)
		return &domain.ChatResponse{
			Message:  errorApology,
			Sources:  []domain.SearchResult{},
			Provider: "error",
			Success:  false,
			Error:    err.Error(),
		}, nil
	}

	contextLength := 0
	for _, chunk := range contextChunks {
		contextLength += len(chunk.Text)
	}

	response := &domain.ChatResponse{
		Message:    result.Response,
		Sources:    contextChunks,
		Provider:   result.Provider.String(),
		TokensUsed: result.Tokens,
		Success:    result.Success,
		Metadata: map[string]any{
			"chunks_retrieved": len(contextChunks),
			"context_length":   contextLength,
			"search_query":     req.Message,
		},
	}
	if !result.Success {
		response.Error = result.Error
	}

	return response, nil
}

// SimpleChat generates without retrieval, using a minimal system prompt.
func (s *RAGService) SimpleChat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: s.loadPrompt(driven.PromptChatSimple, defaultChatSimplePrompt)},
		{Role: domain.RoleUser, Content: req.Message},
	}

	result, err := s.gateway.Generate(ctx, messages, domain.Provider(req.Provider), driven.ChatOptions{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return &domain.ChatResponse{
			Message:  "I apologize, but I encountered an error. Please try again.",
			Sources:  []domain.SearchResult{},
			Provider: "error",
			Success:  false,
			Error:    err.Error(),
			Metadata: map[string]any{"mode": "simple_chat"},
		}, nil
	}

	response := &domain.ChatResponse{
		Message:    result.Response,
		Sources:    []domain.SearchResult{},
		Provider:   result.Provider.String(),
		TokensUsed: result.Tokens,
		Success:    result.Success,
		Metadata:   map[string]any{"mode": "simple_chat"},
	}
	if !result.Success {
		response.Error = result.Error
	}

	return response, nil
}

// AvailableProviders lists providers that initialised successfully.
func (s *RAGService) AvailableProviders() []string {
	return s.gateway.AvailableProviders()
}

// HealthCheck probes each provider with a minimal real generation and
// reports vector index connectivity.
func (s *RAGService) HealthCheck(ctx context.Context) *driving.ComponentHealth {
	health := &driving.ComponentHealth{
		Providers:       make(map[string]string),
		DefaultProvider: s.gateway.DefaultProvider().String(),
	}

	for _, name := range s.gateway.AvailableProviders() {
		if s.gateway.CheckHealth(ctx, domain.Provider(name)) {
			health.Providers[name] = "healthy"
		} else {
			health.Providers[name] = "unhealthy"
		}
	}

	if s.index == nil {
		health.VectorIndex = "error: not configured"
	} else if _, err := s.index.CollectionInfo(ctx); err != nil {
		health.VectorIndex = fmt.Sprintf("error: %v", err)
	} else {
		health.VectorIndex = "healthy"
	}

	return health
}

// retrieveContext runs semantic search and budgets the hits for one prompt.
// Retrieval failure yields empty context, not a failed chat.
func (s *RAGService) retrieveContext(ctx context.Context, req domain.ChatRequest) []domain.SearchResult {
	topK := req.MaxResults
	if topK <= 0 {
		topK = s.retrieval.MaxContextChunks
	}

	response, err := s.search.Search(ctx, domain.SearchRequest{
		Query:        req.Message,
		TopK:         topK * 2,
		CollectionID: req.CollectionID,
		DocumentIDs:  req.DocumentIDs,
	})
	if err != nil {
		logger.Warn("Context retrieval failed: %v", err)
		return nil
	}

	return s.filterAndRankChunks(response.Results, topK)
}

// filterAndRankChunks drops near-duplicate chunks, then greedily selects
// by score under the chunk-count and character budgets.
func (s *RAGService) filterAndRankChunks(chunks []domain.SearchResult, maxChunks int) []domain.SearchResult {
	if len(chunks) == 0 {
		return nil
	}

	var unique []domain.SearchResult
	for _, chunk := range chunks {
		duplicate := false
		for _, existing := range unique {
			if textSimilarity(chunk.Text, existing.Text) > s.retrieval.SimilarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, chunk)
		}
	}

	// Results arrive score-descending from search; keep that order.
	var selected []domain.SearchResult
	totalLength := 0
	for _, chunk := range unique {
		if len(selected) >= maxChunks {
			break
		}
		if totalLength+len(chunk.Text) > s.retrieval.MaxContextLength {
			break
		}
		selected = append(selected, chunk)
		totalLength += len(chunk.Text)
	}

	logger.Debug("Filtered to %d chunks (total length: %d)", len(selected), totalLength)
	return selected
}

// buildConversationMessages assembles system prompt, trimmed history and
// the current user message.
func (s *RAGService) buildConversationMessages(req domain.ChatRequest, contextChunks []domain.SearchResult) []domain.ChatMessage {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: s.buildSystemPrompt(contextChunks)},
	}

	history := req.ConversationHistory
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, msg := range history {
		role := msg.Role
		if role == "" {
			role = domain.RoleUser
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: msg.Content})
	}

	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: req.Message})
	return messages
}

// buildSystemPrompt renders the grounding prompt with document context,
// or the no-context fallback when retrieval found nothing.
func (s *RAGService) buildSystemPrompt(contextChunks []domain.SearchResult) string {
	if len(contextChunks) == 0 {
		return s.loadPrompt(driven.PromptRAGNoContext, defaultRAGNoContextPrompt)
	}

	blocks := make([]string, len(contextChunks))
	for i, chunk := range contextChunks {
		blocks[i] = fmt.Sprintf("Document: %s\nContent: %s", chunk.DocumentFilename, chunk.Text)
	}

	template := s.loadPrompt(driven.PromptRAGSystem, defaultRAGSystemPrompt)
	return fmt.Sprintf(template, strings.Join(blocks, "\n\n"))
}

// loadPrompt fetches a prompt from the store, falling back to the
// embedded default.
func (s *RAGService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// textSimilarity is the Jaccard ratio over lowercase word sets.
func textSimilarity(text1, text2 string) float64 {
	words1 := wordSet(text1)
	words2 := wordSet(text2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	intersection := 0
	for word := range words1 {
		if words2[word] {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection

	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[word] = true
	}
	return set
}
