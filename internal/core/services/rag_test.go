package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func newRAGFixture(clients ...driven.LLMClient) (*RAGService, *mockSearchService) {
	search := &mockSearchService{}
	gateway := NewLLMGateway(clients)
	svc := NewRAGService(search, gateway, &mockVectorIndex{}, domain.DefaultSettings().Retrieval)
	return svc, search
}

func searchResult(docID, filename, text string, score float32) domain.SearchResult {
	return domain.SearchResult{
		ID:               "point-" + docID,
		Score:            score,
		DocumentID:       docID,
		Text:             text,
		DocumentFilename: filename,
	}
}

func TestRAGService_ChatWithDocuments_WithContext(t *testing.T) {
	client := &mockLLMClient{name: domain.ProviderGemini, response: "Paris is the capital."}
	svc, search := newRAGFixture(client)
	search.results = []domain.SearchResult{
		searchResult("doc1", "france.txt", "Paris is the capital of France.", 0.9),
	}

	resp, err := svc.ChatWithDocuments(context.Background(), domain.ChatRequest{
		Message: "What is the capital of France?",
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Paris is the capital.", resp.Message)
	assert.Equal(t, "gemini", resp.Provider)
	assert.Equal(t, 4, resp.TokensUsed)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "doc1", resp.Sources[0].DocumentID)
	assert.Equal(t, 1, resp.Metadata["chunks_retrieved"])

	// System prompt carries the document context block.
	require.NotEmpty(t, client.lastMsgs)
	system := client.lastMsgs[0]
	assert.Equal(t, domain.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "CONTEXT FROM DOCUMENTS:")
	assert.Contains(t, system.Content, "Document: france.txt\nContent: Paris is the capital of France.")

	// Final message is the user's question.
	last := client.lastMsgs[len(client.lastMsgs)-1]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.Equal(t, "What is the capital of France?", last.Content)
}

func TestRAGService_ChatWithDocuments_NoContext(t *testing.T) {
	client := &mockLLMClient{name: domain.ProviderGemini}
	svc, _ := newRAGFixture(client)

	resp, err := svc.ChatWithDocuments(context.Background(), domain.ChatRequest{Message: "Hello"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Sources)

	system := client.lastMsgs[0]
	assert.NotContains(t, system.Content, "CONTEXT FROM DOCUMENTS")
	assert.Contains(t, system.Content, "to the best of your ability")
}

func TestRAGService_ChatWithDocuments_RetrievalFailureDegrades(t *testing.T) {
	client := &mockLLMClient{name: domain.ProviderGemini, response: "still answering"}
	svc, search := newRAGFixture(client)
	search.searchErr = domain.ErrEmbeddingUnavailable

	resp, err := svc.ChatWithDocuments(context.Background(), domain.ChatRequest{Message: "Hello"})

	// Retrieval failure means empty context, not a failed chat.
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Sources)
}

func TestRAGService_ChatWithDocuments_NoProviders(t *testing.T) {
	svc, _ := newRAGFixture()

	resp, err := svc.ChatWithDocuments(context.Background(), domain.ChatRequest{Message: "Hello"})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, errorApology, resp.Message)
	assert.Equal(t, "error", resp.Provider)
	assert.NotEmpty(t, resp.Error)
}

func TestRAGService_ChatWithDocuments_TrimsHistory(t *testing.T) {
	client := &mockLLMClient{name: domain.ProviderGemini}
	svc, _ := newRAGFixture(client)

	history := make([]domain.ChatMessage, 0, 14)
	for i := 0; i < 14; i++ {
		history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: "turn"})
	}

	_, err := svc.ChatWithDocuments(context.Background(), domain.ChatRequest{
		Message:             "Hello",
		ConversationHistory: history,
	})

	require.NoError(t, err)
	// system + last 10 history turns + current message.
	assert.Len(t, client.lastMsgs, 12)
}

func TestRAGService_SimpleChat(t *testing.T) {
	client := &mockLLMClient{name: domain.ProviderOllama, response: "Hi there"}
	svc, _ := newRAGFixture(client)

	resp, err := svc.SimpleChat(context.Background(), domain.ChatRequest{Message: "Hello"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Hi there", resp.Message)
	assert.Equal(t, "simple_chat", resp.Metadata["mode"])
	assert.Empty(t, resp.Sources)

	require.Len(t, client.lastMsgs, 2)
	assert.Equal(t, "You are a helpful AI assistant. Answer questions clearly and concisely.", client.lastMsgs[0].Content)
}

func TestRAGService_SimpleChat_NoProviders(t *testing.T) {
	svc, _ := newRAGFixture()

	resp, err := svc.SimpleChat(context.Background(), domain.ChatRequest{Message: "Hello"})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "I apologize")
	assert.Equal(t, "simple_chat", resp.Metadata["mode"])
}

func TestRAGService_FilterAndRankChunks_NearDuplicates(t *testing.T) {
	svc, _ := newRAGFixture(&mockLLMClient{name: domain.ProviderGemini})

	chunks := []domain.SearchResult{
		searchResult("doc1", "a.txt", "the quick brown fox jumps over the lazy dog", 0.9),
		searchResult("doc2", "b.txt", "the quick brown fox jumps over the lazy dog today", 0.8),
		searchResult("doc3", "c.txt", "an entirely different subject matter altogether here", 0.7),
	}

	selected := svc.filterAndRankChunks(chunks, 5)

	require.Len(t, selected, 2)
	assert.Equal(t, "doc1", selected[0].DocumentID)
	assert.Equal(t, "doc3", selected[1].DocumentID)
}

func TestRAGService_FilterAndRankChunks_Budgets(t *testing.T) {
	svc, _ := newRAGFixture(&mockLLMClient{name: domain.ProviderGemini})

	big := strings.Repeat("unique", 700) // 4200 chars, over the context budget alone
	chunks := []domain.SearchResult{
		searchResult("doc1", "a.txt", "a short first chunk of context text", 0.9),
		searchResult("doc2", "b.txt", big, 0.8),
	}

	selected := svc.filterAndRankChunks(chunks, 5)

	// The oversized chunk breaks the character budget and selection stops.
	require.Len(t, selected, 1)
	assert.Equal(t, "doc1", selected[0].DocumentID)
}

func TestRAGService_FilterAndRankChunks_CharacterBudgetBoundary(t *testing.T) {
	retrieval := domain.DefaultSettings().Retrieval
	retrieval.MaxContextLength = 100
	gateway := NewLLMGateway([]driven.LLMClient{&mockLLMClient{name: domain.ProviderGemini}})
	svc := NewRAGService(&mockSearchService{}, gateway, &mockVectorIndex{}, retrieval)

	texts := []string{
		"alpha beta gamma delta epsilon zeta now.",
		"one two three four five six seven eight.",
		"red green blue yellow purple orange cyan",
	}
	var chunks []domain.SearchResult
	for i, text := range texts {
		require.Len(t, text, 40)
		chunks = append(chunks, searchResult(fmt.Sprintf("doc%d", i+1), "a.txt", text, 0.9-float32(i)*0.05))
	}

	// 40 + 40 fits the 100-char budget; the third chunk would exceed it.
	selected := svc.filterAndRankChunks(chunks, 5)

	require.Len(t, selected, 2)
	assert.Equal(t, "doc1", selected[0].DocumentID)
	assert.Equal(t, "doc2", selected[1].DocumentID)
}

func TestRAGService_FilterAndRankChunks_MaxChunks(t *testing.T) {
	svc, _ := newRAGFixture(&mockLLMClient{name: domain.ProviderGemini})

	var chunks []domain.SearchResult
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta"}
	for i, w := range words {
		chunks = append(chunks, searchResult("doc"+w, w+".txt", "chunk about "+w+" only", 0.9-float32(i)*0.05))
	}

	selected := svc.filterAndRankChunks(chunks, 3)

	assert.Len(t, selected, 3)
}

func TestRAGService_HealthCheck(t *testing.T) {
	healthy := &mockLLMClient{name: domain.ProviderGemini, response: "pong"}
	broken := &mockLLMClient{name: domain.ProviderOllama, chatErr: domain.ErrProviderUnavailable}
	svc, _ := newRAGFixture(healthy, broken)

	health := svc.HealthCheck(context.Background())

	assert.Equal(t, "gemini", health.DefaultProvider)
	assert.Equal(t, "healthy", health.Providers["gemini"])
	assert.Equal(t, "unhealthy", health.Providers["ollama"])
	assert.Equal(t, "healthy", health.VectorIndex)
}

func TestRAGService_HealthCheck_NoVectorIndex(t *testing.T) {
	gateway := NewLLMGateway(nil)
	svc := NewRAGService(&mockSearchService{}, gateway, nil, domain.DefaultSettings().Retrieval)

	health := svc.HealthCheck(context.Background())

	assert.Contains(t, health.VectorIndex, "error")
	assert.Empty(t, health.Providers)
}

func TestTextSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, textSimilarity("same words here", "same words here"), 0.0001)
	assert.InDelta(t, 0.0, textSimilarity("alpha beta", "gamma delta"), 0.0001)
	assert.InDelta(t, 0.0, textSimilarity("", "anything"), 0.0001)

	// 4-word overlap out of a 5-word union.
	sim := textSimilarity("a quick brown fox", "a quick brown wolf fox")
	assert.InDelta(t, 0.8, sim, 0.0001)
}
