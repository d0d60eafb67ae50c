// Package menu provides the main menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Item represents a menu entry.
type Item struct {
	Title       string
	Description string
	View        messages.ViewType
}

// View is the main menu.
type View struct {
	styles *styles.Styles
	items  []Item
	cursor int
	width  int
	height int
}

// NewView creates the main menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Title: "Chat", Description: "Ask questions about your documents", View: messages.ViewChat},
			{Title: "Search", Description: "Search document chunks directly", View: messages.ViewSearch},
			{Title: "Documents", Description: "Browse and manage indexed documents", View: messages.ViewDocuments},
			{Title: "Help", Description: "Keybindings and usage", View: messages.ViewHelp},
		},
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles menu messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
	case "enter":
		selected := v.items[v.cursor]
		return v, func() tea.Msg {
			return messages.ViewChanged{View: selected.View}
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Docchat"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Chat with your documents"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		line := item.Title
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("> " + line))
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("    " + item.Description))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("    " + item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("up/down: navigate | enter: select | q: quit"))

	return b.String()
}

// Cursor returns the current cursor position.
func (v *View) Cursor() int {
	return v.cursor
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
