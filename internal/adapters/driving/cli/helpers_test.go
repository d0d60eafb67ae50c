package cli

import (
	"context"
	"testing"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// setupTestServices swaps the package service variables for mocks and
// returns a cleanup func that restores the previous values.
func setupTestServices(t *testing.T, s *Services) func() {
	t.Helper()

	prevDocument := documentService
	prevCollection := collectionService
	prevSearch := searchService
	prevChat := chatService
	prevConfig := configStore
	prevSettings := appSettings

	SetServices(s)

	return func() {
		documentService = prevDocument
		collectionService = prevCollection
		searchService = prevSearch
		chatService = prevChat
		configStore = prevConfig
		appSettings = prevSettings
	}
}

type mockDocumentService struct {
	document *domain.Document
	list     *driving.DocumentList
	uploads  []driving.DocumentUpload
	deleted  []string
	err      error
}

func (m *mockDocumentService) Upload(_ context.Context, upload driving.DocumentUpload) (*domain.Document, error) {
	m.uploads = append(m.uploads, upload)
	return m.document, m.err
}

func (m *mockDocumentService) UploadAndWait(_ context.Context, upload driving.DocumentUpload) (*domain.Document, error) {
	m.uploads = append(m.uploads, upload)
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context, _ driving.ListOptions) (*driving.DocumentList, error) {
	return m.list, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCollectionService struct {
	collection  *domain.Collection
	collections []domain.Collection
	deleted     []string
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

func (m *mockCollectionService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockSearchService struct {
	response *domain.SearchResponse
	lastReq  domain.SearchRequest
	keyword  bool
	err      error
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastReq = req
	m.keyword = false
	return m.response, m.err
}

func (m *mockSearchService) KeywordSearch(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastReq = req
	m.keyword = true
	return m.response, m.err
}

func (m *mockSearchService) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	return nil, m.err
}

type mockChatService struct {
	response  *domain.ChatResponse
	lastReq   domain.ChatRequest
	simple    bool
	providers []string
	health    *driving.ComponentHealth
	healthCtx context.Context
	err       error
}

func (m *mockChatService) ChatWithDocuments(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.lastReq = req
	m.simple = false
	return m.response, m.err
}

func (m *mockChatService) SimpleChat(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.lastReq = req
	m.simple = true
	return m.response, m.err
}

func (m *mockChatService) AvailableProviders() []string {
	return m.providers
}

func (m *mockChatService) HealthCheck(ctx context.Context) *driving.ComponentHealth {
	m.healthCtx = ctx
	return m.health
}

type mockConfigStore struct {
	values map[string]any
	saved  bool
	path   string
	err    error
}

var _ driven.ConfigStore = (*mockConfigStore)(nil)

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: map[string]any{}, path: "/tmp/docchat/config.toml"}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.values[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	if m.err != nil {
		return m.err
	}
	m.saved = true
	return nil
}

func (m *mockConfigStore) Load() error {
	return m.err
}

func (m *mockConfigStore) Path() string {
	return m.path
}
