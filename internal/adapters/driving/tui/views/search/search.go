// Package search provides the search view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

const (
	searchTimeout = 10 * time.Second
	searchLimit   = 10
)

// View is the search view.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	searchService driving.SearchService

	searchInput *input.PromptInput
	resultList  *list.ResultList
	statusBar   *status.Bar

	searching bool
	width     int
	height    int
	ready     bool
}

// NewView creates the search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ListHelp())

	return &View{
		styles:        s,
		keymap:        km,
		searchService: searchService,
		searchInput:   input.NewPromptInput(s, "Search", "Search your documents..."),
		resultList:    list.NewResultList(s),
		statusBar:     bar,
	}
}

// Init initialises the search view.
func (v *View) Init() tea.Cmd {
	v.searchInput.Focus()
	return v.searchInput.Init()
}

// Update handles search view messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SearchCompleted:
		return v.handleCompleted(msg)
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return v, cmd
}

// handleKey handles keyboard input.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		if v.resultList.Focused() {
			// Esc from the results returns focus to the input.
			v.resultList.Blur()
			v.searchInput.Focus()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case msg.String() == "enter" && v.searchInput.Focused():
		return v.submit()

	case msg.String() == "tab":
		if v.searchInput.Focused() && len(v.resultList.Results()) > 0 {
			v.searchInput.Blur()
			v.resultList.Focus()
		} else {
			v.resultList.Blur()
			v.searchInput.Focus()
		}
		return v, nil
	}

	if v.resultList.Focused() {
		var cmd tea.Cmd
		v.resultList, cmd = v.resultList.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return v, cmd
}

// submit runs a search for the current query.
func (v *View) submit() (*View, tea.Cmd) {
	if v.searching {
		return v, nil
	}

	query := strings.TrimSpace(v.searchInput.Value())
	if query == "" {
		return v, nil
	}

	v.searching = true
	v.statusBar.SetState(status.StateThinking)
	v.statusBar.SetMessage("Searching...")

	return v, v.performSearch(query)
}

// performSearch returns a command that runs the search request.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.SearchCompleted{Err: fmt.Errorf("search service not available")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		resp, err := v.searchService.Search(ctx, domain.SearchRequest{
			Query: query,
			TopK:  searchLimit,
		})
		if err != nil {
			return messages.SearchCompleted{Err: err}
		}

		return messages.SearchCompleted{Response: resp}
	}
}

// handleCompleted processes a finished search.
func (v *View) handleCompleted(msg messages.SearchCompleted) (*View, tea.Cmd) {
	v.searching = false

	if msg.Err != nil {
		v.statusBar.SetState(status.StateError)
		v.statusBar.SetMessage(msg.Err.Error())
		return v, nil
	}

	resp := msg.Response
	v.resultList.SetResults(resp.Results)
	v.statusBar.SetState(status.StateResults)
	v.statusBar.SetResultCount(len(resp.Results))
	v.statusBar.SetMessage(fmt.Sprintf("%d results in %.1fms", resp.TotalResults, resp.SearchTimeMS))

	if len(resp.Results) > 0 {
		v.searchInput.Blur()
		v.resultList.Focus()
	}

	return v, nil
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(v.searchInput.View())
	b.WriteString("\n\n")

	if v.searching {
		b.WriteString(v.styles.Muted.Render("Searching..."))
	} else {
		b.WriteString(v.resultList.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// Results returns the current result count.
func (v *View) Results() int {
	return len(v.resultList.Results())
}

// Searching reports whether a search is in flight.
func (v *View) Searching() bool {
	return v.searching
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.searchInput.SetWidth(width)
	v.statusBar.SetWidth(width)

	listHeight := height - 10
	if listHeight < 4 {
		listHeight = 4
	}
	v.resultList.SetDimensions(width, listHeight)
}
