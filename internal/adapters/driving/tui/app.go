package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/search"
)

// App is the root TUI model. It owns the views and routes messages to
// whichever one is active.
type App struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	ports  *Ports

	currentView messages.ViewType

	menuView      *menu.View
	chatView      *chat.View
	searchView    *search.View
	documentsView *documents.View

	width  int
	height int
	ready  bool
}

// NewApp creates the root TUI model.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("ports are required")
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ports: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		styles:        s,
		keymap:        km,
		ports:         ports,
		currentView:   messages.ViewMenu,
		menuView:      menu.NewView(s),
		chatView:      chat.NewView(s, km, ports.Chat),
		searchView:    search.NewView(s, km, ports.Search),
		documentsView: documents.NewView(s, km, ports.Document),
	}, nil
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat - Chat with your documents"),
		a.menuView.Init(),
	)
}

// Update handles application messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.menuView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit only from the menu; views get esc first.
		if a.currentView == messages.ViewMenu && keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			return a.handleHelpKey(msg)
		}

	case messages.ViewChanged:
		return a.switchView(msg.View)

	case messages.Quit:
		return a, tea.Quit
	}

	return a.routeToView(msg)
}

// handleHelpKey handles input on the help screen.
func (a *App) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keymap.Back) || msg.String() == "q" {
		a.currentView = messages.ViewMenu
	}
	return a, nil
}

// switchView changes the active view and runs its Init command.
func (a *App) switchView(view messages.ViewType) (tea.Model, tea.Cmd) {
	a.currentView = view

	switch view {
	case messages.ViewMenu:
		return a, a.menuView.Init()
	case messages.ViewChat:
		return a, a.chatView.Init()
	case messages.ViewSearch:
		return a, a.searchView.Init()
	case messages.ViewDocuments:
		return a, a.documentsView.Init()
	case messages.ViewHelp:
		return a, nil
	}

	return a, nil
}

// routeToView forwards a message to the active view.
func (a *App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View renders the active view.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewHelp:
		return a.helpView()
	}

	return a.menuView.View()
}

// helpView renders the keybinding reference.
func (a *App) helpView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(a.styles.Normal.Render(fmt.Sprintf("  %-12s %s", h.Key, h.Desc)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("esc: back to menu"))

	return b.String()
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}
