package documents

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

type mockDocumentService struct {
	documents []domain.Document
	deleted   []string
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ driving.DocumentUpload) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) UploadAndWait(_ context.Context, _ driving.DocumentUpload) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, m.err
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

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func newTestView(svc *mockDocumentService) *View {
	view := NewView(nil, nil, svc)
	view.SetDimensions(100, 40)
	return view
}

func TestView_Init(t *testing.T) {
	svc := &mockDocumentService{documents: []domain.Document{
		{ID: "doc-1", OriginalFilename: "notes.md", Status: domain.StatusCompleted, ChunksCount: 3},
	}}
	view := newTestView(svc)

	cmd := view.Init()

	require.NotNil(t, cmd)
	assert.True(t, view.Loading())

	msg := cmd()
	loaded, ok := msg.(messages.DocumentsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Len(t, loaded.Documents, 1)
	assert.Equal(t, 1, loaded.Total)
}

func TestView_Update(t *testing.T) {
	t.Run("loaded documents populate the list", func(t *testing.T) {
		view := newTestView(&mockDocumentService{})
		view.loading = true

		view, _ = view.Update(messages.DocumentsLoaded{
			Documents: []domain.Document{
				{ID: "doc-1", OriginalFilename: "notes.md", Status: domain.StatusCompleted},
			},
			Total: 1,
		})

		assert.False(t, view.Loading())
		assert.Len(t, view.Documents(), 1)
	})

	t.Run("load error surfaces on the status bar", func(t *testing.T) {
		view := newTestView(&mockDocumentService{})
		view.loading = true

		view, _ = view.Update(messages.DocumentsLoaded{Err: assert.AnError})

		assert.False(t, view.Loading())
		assert.Empty(t, view.Documents())
	})

	t.Run("delete key removes the selected document", func(t *testing.T) {
		svc := &mockDocumentService{documents: []domain.Document{
			{ID: "doc-1", OriginalFilename: "notes.md", Status: domain.StatusCompleted},
		}}
		view := newTestView(svc)
		view.documents = svc.documents

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

		require.NotNil(t, cmd)
		msg := cmd()
		deleted, ok := msg.(messages.DocumentDeleted)
		require.True(t, ok)
		require.NoError(t, deleted.Err)
		assert.Equal(t, "doc-1", deleted.DocumentID)
		assert.Equal(t, []string{"doc-1"}, svc.deleted)
	})

	t.Run("deletion triggers a reload", func(t *testing.T) {
		view := newTestView(&mockDocumentService{})

		view, cmd := view.Update(messages.DocumentDeleted{DocumentID: "doc-1"})

		assert.True(t, view.Loading())
		require.NotNil(t, cmd)
	})

	t.Run("cursor navigation", func(t *testing.T) {
		view := newTestView(&mockDocumentService{})
		view.documents = []domain.Document{{ID: "a"}, {ID: "b"}}

		view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 1, view.Cursor())

		view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 1, view.Cursor())

		view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
		assert.Equal(t, 0, view.Cursor())
	})
}

func TestView_View(t *testing.T) {
	t.Run("placeholder before first resize", func(t *testing.T) {
		view := NewView(nil, nil, &mockDocumentService{})

		assert.Equal(t, "Initialising...", view.View())
	})

	t.Run("empty state hint", func(t *testing.T) {
		view := newTestView(&mockDocumentService{})

		assert.Contains(t, view.View(), "No documents indexed")
	})

	t.Run("renders rows with status", func(t *testing.T) {
		view := newTestView(&mockDocumentService{})
		view.documents = []domain.Document{
			{ID: "doc-1", OriginalFilename: "notes.md", Status: domain.StatusCompleted, ChunksCount: 3},
			{ID: "doc-2", OriginalFilename: "bad.pdf", Status: domain.StatusFailed, ErrorMessage: "extraction failed"},
		}

		rendered := view.View()

		assert.Contains(t, rendered, "notes.md")
		assert.Contains(t, rendered, "3 chunks")
		assert.Contains(t, rendered, "extraction failed")
	})
}
