package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	lastReq domain.SearchRequest
	err     error
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SearchResponse{
		Results:      m.results,
		Query:        req.Query,
		TotalResults: len(m.results),
	}, nil
}

func (m *mockSearchService) KeywordSearch(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	return m.Search(ctx, req)
}

func (m *mockSearchService) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	return nil, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	response *domain.ChatResponse
	lastReq  domain.ChatRequest
	err      error
}

func (m *mockChatService) ChatWithDocuments(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.lastReq = req
	return m.response, m.err
}

func (m *mockChatService) SimpleChat(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.lastReq = req
	return m.response, m.err
}

func (m *mockChatService) AvailableProviders() []string {
	return []string{"gemini"}
}

func (m *mockChatService) HealthCheck(_ context.Context) *driving.ComponentHealth {
	return &driving.ComponentHealth{}
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ driving.DocumentUpload) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) UploadAndWait(_ context.Context, _ driving.DocumentUpload) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context, _ driving.ListOptions) (*driving.DocumentList, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.DocumentList{Documents: m.documents, Total: len(m.documents)}, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockCollectionService is a mock implementation of driving.CollectionService.
type mockCollectionService struct {
	collections []domain.Collection
	collection  *domain.Collection
	err         error
}

func (m *mockCollectionService) Create(_ context.Context, _, _ string) (*domain.Collection, error) {
	return m.collection, m.err
}

func (m *mockCollectionService) Get(_ context.Context, _ string) (*domain.Collection, error) {
	return m.collection, m.err
}

func (m *mockCollectionService) List(_ context.Context) ([]domain.Collection, error) {
	return m.collections, m.err
}

func (m *mockCollectionService) Delete(_ context.Context, _ string) error {
	return m.err
}
