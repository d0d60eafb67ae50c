// Package documents provides the document management view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

const (
	listTimeout = 10 * time.Second
	pageSize    = 50
)

// View is the document management view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService

	statusBar *status.Bar

	documents []domain.Document
	total     int
	cursor    int
	offset    int
	loading   bool
	width     int
	height    int
	ready     bool
}

// NewView creates the document management view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ListHelp())

	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		statusBar:       bar,
	}
}

// Init initialises the view and loads the first page.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDocuments()
}

// Update handles document view messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.DocumentsLoaded:
		return v.handleLoaded(msg)

	case messages.DocumentDeleted:
		return v.handleDeleted(msg)
	}

	return v, nil
}

// handleKey handles keyboard input.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
		}

	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.cursor < len(v.documents)-1 {
			v.cursor++
		}

	case keymap.Matches(msg.String(), v.keymap.Delete):
		if doc := v.selected(); doc != nil {
			return v, v.deleteDocument(doc.ID)
		}

	case msg.String() == "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

// selected returns the document under the cursor, or nil.
func (v *View) selected() *domain.Document {
	if len(v.documents) == 0 || v.cursor >= len(v.documents) {
		return nil
	}
	return &v.documents[v.cursor]
}

// loadDocuments returns a command that fetches a page of documents.
func (v *View) loadDocuments() tea.Cmd {
	offset := v.offset
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		result, err := v.documentService.List(ctx, driving.ListOptions{
			Offset: offset,
			Limit:  pageSize,
		})
		if err != nil {
			return messages.DocumentsLoaded{Err: err}
		}

		return messages.DocumentsLoaded{
			Documents: result.Documents,
			Total:     result.Total,
		}
	}
}

// deleteDocument returns a command that deletes one document.
func (v *View) deleteDocument(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		if err := v.documentService.Delete(ctx, id); err != nil {
			return messages.DocumentDeleted{DocumentID: id, Err: err}
		}
		return messages.DocumentDeleted{DocumentID: id}
	}
}

// handleLoaded processes a finished listing.
func (v *View) handleLoaded(msg messages.DocumentsLoaded) (*View, tea.Cmd) {
	v.loading = false

	if msg.Err != nil {
		v.statusBar.SetState(status.StateError)
		v.statusBar.SetMessage(msg.Err.Error())
		return v, nil
	}

	v.documents = msg.Documents
	v.total = msg.Total
	if v.cursor >= len(v.documents) {
		v.cursor = 0
	}
	v.statusBar.SetState(status.StateReady)
	v.statusBar.SetMessage(fmt.Sprintf("%d of %d documents", len(v.documents), v.total))

	return v, nil
}

// handleDeleted processes a finished deletion and reloads the list.
func (v *View) handleDeleted(msg messages.DocumentDeleted) (*View, tea.Cmd) {
	if msg.Err != nil {
		v.statusBar.SetState(status.StateError)
		v.statusBar.SetMessage(msg.Err.Error())
		return v, nil
	}

	v.loading = true
	v.statusBar.SetMessage("Document deleted")
	return v, v.loadDocuments()
}

// View renders the document list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents indexed. Use 'docchat ingest' to add some."))
	default:
		b.WriteString(v.renderList())
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderList renders the visible document rows.
func (v *View) renderList() string {
	var b strings.Builder

	for i, doc := range v.documents {
		name := doc.OriginalFilename
		if name == "" {
			name = doc.Filename
		}
		line := fmt.Sprintf("%s  %s  %d chunks", name, doc.Status, doc.ChunksCount)
		if doc.Status == domain.StatusFailed && doc.ErrorMessage != "" {
			line += "  " + doc.ErrorMessage
		}

		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		if i < len(v.documents)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Documents returns the currently loaded documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// Cursor returns the cursor position.
func (v *View) Cursor() int {
	return v.cursor
}

// Loading reports whether a listing is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusBar.SetWidth(width)
}
