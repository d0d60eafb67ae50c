package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// --- Shared mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	points     []driven.VectorPoint
	hits       []driven.VectorHit
	upsertErr  error
	searchErr  error
	deleteErr  error
	deletedDoc string
	lastQuery  driven.VectorQuery
}

func (m *mockVectorIndex) EnsureCollection(_ context.Context) error {
	return nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, points []driven.VectorPoint) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.points = append(m.points, points...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, query driven.VectorQuery) ([]driven.VectorHit, error) {
	m.lastQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if query.Limit < len(m.hits) {
		return m.hits[:query.Limit], nil
	}
	return m.hits, nil
}

func (m *mockVectorIndex) DeleteByDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedDoc = documentID
	return nil
}

func (m *mockVectorIndex) CollectionInfo(_ context.Context) (*driven.CollectionInfo, error) {
	return &driven.CollectionInfo{Name: "documents", PointsCount: uint64(len(m.points)), Status: "green"}, nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedErr error
	calls    int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vec, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockLLMClient implements driven.LLMClient for testing.
type mockLLMClient struct {
	name     domain.Provider
	response string
	chatErr  error
	lastMsgs []domain.ChatMessage
	lastOpts driven.ChatOptions
}

func (m *mockLLMClient) Chat(_ context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.lastMsgs = messages
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if m.response == "" {
		return "mock response", nil
	}
	return m.response, nil
}

func (m *mockLLMClient) Ping(_ context.Context) error { return nil }

func (m *mockLLMClient) Name() domain.Provider { return m.name }

func (m *mockLLMClient) ModelName() string { return fmt.Sprintf("%s-model", m.name) }

func (m *mockLLMClient) Close() error { return nil }

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results   []domain.SearchResult
	searchErr error
	lastReq   domain.SearchRequest
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastReq = req
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return &domain.SearchResponse{
		Results:      m.results,
		Query:        req.Query,
		TotalResults: len(m.results),
	}, nil
}

func (m *mockSearchService) KeywordSearch(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	return &domain.SearchResponse{Query: req.Query}, nil
}

func (m *mockSearchService) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	return nil, nil
}
