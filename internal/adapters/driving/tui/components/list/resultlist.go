// Package list provides scrollable list components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ResultList displays search results with cursor navigation.
type ResultList struct {
	styles  *styles.Styles
	results []domain.SearchResult
	cursor  int
	offset  int
	height  int
	width   int
	focused bool
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		height: 10,
		width:  80,
	}
}

// Init initialises the result list.
func (l *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles result list messages.
func (l *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if !l.focused {
		return l, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}

	return l, nil
}

// View renders the result list.
func (l *ResultList) View() string {
	if len(l.results) == 0 {
		return l.styles.Muted.Render("No results")
	}

	var b strings.Builder
	visible := l.visibleRange()

	for i := visible.start; i < visible.end; i++ {
		result := l.results[i]
		line := l.renderResult(i, result)
		b.WriteString(line)
		if i < visible.end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderResult renders a single result line.
func (l *ResultList) renderResult(index int, result domain.SearchResult) string {
	name := result.DocumentFilename
	if name == "" {
		name = result.DocumentID
	}

	header := fmt.Sprintf("[%d] %s (%.2f)", index+1, name, result.Score)
	preview := l.preview(result.Text)

	if index == l.cursor && l.focused {
		header = l.styles.Selected.Render("> " + header)
	} else {
		header = l.styles.Normal.Render("  " + header)
	}

	return header + "\n" + l.styles.Muted.Render("    "+preview)
}

// preview returns a single-line excerpt fitted to the list width.
func (l *ResultList) preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	max := l.width - 6
	if max < 20 {
		max = 20
	}
	if len(text) > max {
		text = text[:max-3] + "..."
	}
	return text
}

type visibleRange struct {
	start, end int
}

// visibleRange calculates which results to display. Each result takes
// two lines, the header and the preview.
func (l *ResultList) visibleRange() visibleRange {
	perResult := 2
	maxVisible := l.height / perResult
	if maxVisible < 1 {
		maxVisible = 1
	}

	start := l.offset
	end := start + maxVisible
	if end > len(l.results) {
		end = len(l.results)
	}

	return visibleRange{start: start, end: end}
}

// SetResults sets the results to display.
func (l *ResultList) SetResults(results []domain.SearchResult) {
	l.results = results
	l.cursor = 0
	l.offset = 0
}

// Results returns the current results.
func (l *ResultList) Results() []domain.SearchResult {
	return l.results
}

// Selected returns the currently selected result, or nil if empty.
func (l *ResultList) Selected() *domain.SearchResult {
	if len(l.results) == 0 || l.cursor >= len(l.results) {
		return nil
	}
	return &l.results[l.cursor]
}

// Cursor returns the current cursor position.
func (l *ResultList) Cursor() int {
	return l.cursor
}

// MoveUp moves the cursor up one position.
func (l *ResultList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		if l.cursor < l.offset {
			l.offset = l.cursor
		}
	}
}

// MoveDown moves the cursor down one position.
func (l *ResultList) MoveDown() {
	if l.cursor < len(l.results)-1 {
		l.cursor++
		visible := l.visibleRange()
		if l.cursor >= visible.end {
			l.offset++
		}
	}
}

// Focus gives the list keyboard focus.
func (l *ResultList) Focus() {
	l.focused = true
}

// Blur removes keyboard focus.
func (l *ResultList) Blur() {
	l.focused = false
}

// Focused reports whether the list has focus.
func (l *ResultList) Focused() bool {
	return l.focused
}

// SetDimensions sets the list dimensions.
func (l *ResultList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Clear removes all results.
func (l *ResultList) Clear() {
	l.results = nil
	l.cursor = 0
	l.offset = 0
}
