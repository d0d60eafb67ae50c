package mcp

import (
	"context"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func readRequest(uri string) *sdk.ReadResourceRequest {
	return &sdk.ReadResourceRequest{
		Params: &sdk.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleCollectionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns collection list", func(t *testing.T) {
		mockCollections := &mockCollectionService{
			collections: []domain.Collection{
				{ID: "col-1", Name: "Default Collection", DocumentsCount: 3},
				{ID: "col-2", Name: "Research", DocumentsCount: 1},
			},
		}
		server := newTestServer(t, &Ports{
			Search:     &mockSearchService{},
			Chat:       &mockChatService{},
			Collection: mockCollections,
		})

		result, err := server.handleCollectionsResource(ctx, readRequest("docchat://collections"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "col-1")
		assert.Contains(t, result.Contents[0].Text, "Default Collection")
		assert.Contains(t, result.Contents[0].Text, "Research")
	})

	t.Run("nil collection service returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Search: &mockSearchService{},
			Chat:   &mockChatService{},
		})

		result, err := server.handleCollectionsResource(ctx, readRequest("docchat://collections"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document list for collection", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			documents: []domain.Document{
				{ID: "doc-1", OriginalFilename: "report.pdf", Status: domain.StatusCompleted},
			},
		}
		server := newTestServer(t, &Ports{
			Search:   &mockSearchService{},
			Chat:     &mockChatService{},
			Document: mockDocs,
		})

		result, err := server.handleDocumentsResource(ctx,
			readRequest("docchat://collections/col-1/documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "doc-1")
		assert.Contains(t, result.Contents[0].Text, "report.pdf")
		assert.Contains(t, result.Contents[0].Text, "completed")
	})

	t.Run("malformed URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Search:   &mockSearchService{},
			Chat:     &mockChatService{},
			Document: &mockDocumentService{},
		})

		_, err := server.handleDocumentsResource(ctx, readRequest("docchat://collections"))

		require.Error(t, err)
	})

	t.Run("nil document service returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Search: &mockSearchService{},
			Chat:   &mockChatService{},
		})

		_, err := server.handleDocumentsResource(ctx,
			readRequest("docchat://collections/col-1/documents"))

		require.Error(t, err)
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document content", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			document: &domain.Document{
				ID:      "doc-1",
				Content: "The extracted text of the document.",
			},
		}
		server := newTestServer(t, &Ports{
			Search:   &mockSearchService{},
			Chat:     &mockChatService{},
			Document: mockDocs,
		})

		result, err := server.handleDocumentContentResource(ctx,
			readRequest("docchat://documents/doc-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "The extracted text of the document.", result.Contents[0].Text)
	})

	t.Run("malformed URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Search:   &mockSearchService{},
			Chat:     &mockChatService{},
			Document: &mockDocumentService{},
		})

		_, err := server.handleDocumentContentResource(ctx, readRequest("docchat://other/doc-1"))

		require.Error(t, err)
	})
}

func TestExtractCollectionID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"docchat://collections/col-1/documents", "col-1"},
		{"docchat://collections/col-1", ""},
		{"docchat://documents/doc-1", ""},
		{"other://collections/col-1/documents", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCollectionID(tt.uri), tt.uri)
	}
}

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"docchat://documents/doc-1", "doc-1"},
		{"docchat://collections/col-1", ""},
		{"other://documents/doc-1", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractDocumentID(tt.uri), tt.uri)
	}
}
