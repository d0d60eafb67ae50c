package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func TestDocumentListCommand(t *testing.T) {
	t.Run("service not configured", func(t *testing.T) {
		cleanup := setupTestServices(t, &Services{})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "list"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "document service not configured")
	})

	t.Run("empty list", func(t *testing.T) {
		docs := &mockDocumentService{list: &driving.DocumentList{}}
		cleanup := setupTestServices(t, &Services{Document: docs})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "list"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No documents found.")
	})

	t.Run("lists documents", func(t *testing.T) {
		docs := &mockDocumentService{list: &driving.DocumentList{
			Documents: []domain.Document{
				{
					ID:               "doc-1",
					OriginalFilename: "notes.md",
					Status:           domain.StatusCompleted,
					ChunksCount:      3,
				},
				{
					ID:               "doc-2",
					OriginalFilename: "bad.pdf",
					Status:           domain.StatusFailed,
					ErrorMessage:     "extraction failed",
				},
			},
			Total: 2,
		}}
		cleanup := setupTestServices(t, &Services{Document: docs})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "list"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "doc-1")
		assert.Contains(t, output, "Name:   notes.md")
		assert.Contains(t, output, "Chunks: 3")
		assert.Contains(t, output, "Error:  extraction failed")
		assert.Contains(t, output, "Showing 2 of 2 documents")
	})
}

func TestDocumentGetCommand(t *testing.T) {
	t.Run("requires document id", func(t *testing.T) {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "get"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "accepts 1 arg(s)")
	})

	t.Run("prints document details", func(t *testing.T) {
		created := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
		docs := &mockDocumentService{document: &domain.Document{
			ID:               "doc-1",
			OriginalFilename: "notes.md",
			ContentType:      "text/markdown",
			FileSize:         2048,
			Status:           domain.StatusCompleted,
			CollectionID:     "col-1",
			ChunksCount:      3,
			EmbeddingModel:   "all-minilm",
			CreatedAt:        created,
			UpdatedAt:        created,
		}}
		cleanup := setupTestServices(t, &Services{Document: docs})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "get", "doc-1"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "Document: doc-1")
		assert.Contains(t, output, "Name:        notes.md")
		assert.Contains(t, output, "Type:        text/markdown")
		assert.Contains(t, output, "Size:        2048 bytes")
		assert.Contains(t, output, "Embedding:   all-minilm")
		assert.Contains(t, output, "Created:     2025-03-01 10:30:00")
	})

	t.Run("get error", func(t *testing.T) {
		docs := &mockDocumentService{err: assert.AnError}
		cleanup := setupTestServices(t, &Services{Document: docs})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "get", "missing"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get document")
	})
}

func TestDocumentDeleteCommand(t *testing.T) {
	t.Run("deletes a document", func(t *testing.T) {
		docs := &mockDocumentService{}
		cleanup := setupTestServices(t, &Services{Document: docs})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "delete", "doc-1"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Document doc-1 deleted.")
		assert.Equal(t, []string{"doc-1"}, docs.deleted)
	})

	t.Run("delete error", func(t *testing.T) {
		docs := &mockDocumentService{err: assert.AnError}
		cleanup := setupTestServices(t, &Services{Document: docs})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"document", "delete", "doc-1"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete document")
	})
}
