package tui

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

type mockChatService struct {
	response *domain.ChatResponse
	err      error
}

func (m *mockChatService) ChatWithDocuments(_ context.Context, _ domain.ChatRequest) (*domain.ChatResponse, error) {
	return m.response, m.err
}

func (m *mockChatService) SimpleChat(_ context.Context, _ domain.ChatRequest) (*domain.ChatResponse, error) {
	return m.response, m.err
}

func (m *mockChatService) AvailableProviders() []string {
	return []string{"gemini"}
}

func (m *mockChatService) HealthCheck(_ context.Context) *driving.ComponentHealth {
	return &driving.ComponentHealth{}
}

type mockSearchService struct {
	response *domain.SearchResponse
	err      error
}

func (m *mockSearchService) Search(_ context.Context, _ domain.SearchRequest) (*domain.SearchResponse, error) {
	return m.response, m.err
}

func (m *mockSearchService) KeywordSearch(_ context.Context, _ domain.SearchRequest) (*domain.SearchResponse, error) {
	return m.response, m.err
}

func (m *mockSearchService) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	return nil, m.err
}

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
	return &driving.DocumentList{
		Documents: m.documents,
		Total:     len(m.documents),
	}, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
