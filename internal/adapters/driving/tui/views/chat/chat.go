// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

const chatTimeout = 60 * time.Second

// turn is one rendered exchange in the transcript.
type turn struct {
	role    string
	content string
	sources []domain.SearchResult
}

// View is the conversation view.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	chatService driving.ChatService

	promptInput *input.PromptInput
	statusBar   *status.Bar

	turns   []turn
	history []domain.ChatMessage
	waiting bool
	width   int
	height  int
	ready   bool
}

// NewView creates the conversation view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ChatHelp())

	return &View{
		styles:      s,
		keymap:      km,
		chatService: chatService,
		promptInput: input.NewPromptInput(s, "Ask", "Ask a question about your documents..."),
		statusBar:   bar,
	}
}

// Init initialises the conversation view.
func (v *View) Init() tea.Cmd {
	v.promptInput.Focus()
	return v.promptInput.Init()
}

// Update handles conversation messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.ChatCompleted:
		return v.handleCompleted(msg)
	}

	var cmd tea.Cmd
	v.promptInput, cmd = v.promptInput.Update(msg)
	return v, cmd
}

// handleKey handles keyboard input.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.NewChat):
		v.Reset()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Send):
		return v.submit()
	}

	var cmd tea.Cmd
	v.promptInput, cmd = v.promptInput.Update(msg)
	return v, cmd
}

// submit sends the current prompt to the chat service.
func (v *View) submit() (*View, tea.Cmd) {
	if v.waiting {
		return v, nil
	}

	message := strings.TrimSpace(v.promptInput.Value())
	if message == "" {
		return v, nil
	}

	v.turns = append(v.turns, turn{role: domain.RoleUser, content: message})
	v.promptInput.Reset()
	v.waiting = true
	v.statusBar.SetState(status.StateThinking)

	history := make([]domain.ChatMessage, len(v.history))
	copy(history, v.history)

	return v, v.performChat(message, history)
}

// performChat returns a command that runs the chat request.
func (v *View) performChat(message string, history []domain.ChatMessage) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ChatCompleted{Err: fmt.Errorf("chat service not available")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		resp, err := v.chatService.ChatWithDocuments(ctx, domain.ChatRequest{
			Message:             message,
			ConversationHistory: history,
		})
		if err != nil {
			return messages.ChatCompleted{Err: err}
		}

		return messages.ChatCompleted{Response: resp}
	}
}

// handleCompleted processes a finished chat request.
func (v *View) handleCompleted(msg messages.ChatCompleted) (*View, tea.Cmd) {
	v.waiting = false

	if msg.Err != nil {
		v.statusBar.SetState(status.StateError)
		v.statusBar.SetMessage(msg.Err.Error())
		return v, nil
	}

	resp := msg.Response
	v.turns = append(v.turns, turn{
		role:    domain.RoleAssistant,
		content: resp.Message,
		sources: resp.Sources,
	})

	// The user turn is already in the transcript; record both sides of
	// the exchange as provider history.
	var userMessage string
	for i := len(v.turns) - 1; i >= 0; i-- {
		if v.turns[i].role == domain.RoleUser {
			userMessage = v.turns[i].content
			break
		}
	}
	v.history = append(v.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: userMessage},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: resp.Message},
	)

	v.statusBar.SetState(status.StateReady)
	if resp.Provider != "" {
		v.statusBar.SetMessage(fmt.Sprintf("%s | %d tokens", resp.Provider, resp.TokensUsed))
	} else {
		v.statusBar.SetMessage("")
	}

	return v, nil
}

// View renders the conversation.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Chat"))
	b.WriteString("\n\n")

	if len(v.turns) == 0 {
		b.WriteString(v.styles.Muted.Render("No messages yet. Ask a question to get started."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.renderTranscript())
	}

	b.WriteString("\n")
	b.WriteString(v.promptInput.View())
	if v.waiting {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Thinking..."))
	}
	b.WriteString("\n\n")
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderTranscript renders the visible conversation turns.
func (v *View) renderTranscript() string {
	var b strings.Builder

	for i, t := range v.turns {
		switch t.role {
		case domain.RoleUser:
			b.WriteString(v.styles.UserMessage.Render("You: "))
			b.WriteString(v.styles.Normal.Render(t.content))
		case domain.RoleAssistant:
			b.WriteString(v.styles.AssistantMessage.Render("Docchat: "))
			b.WriteString(v.styles.Normal.Render(t.content))
			if len(t.sources) > 0 {
				b.WriteString("\n")
				b.WriteString(v.renderSources(t.sources))
			}
		}
		if i < len(v.turns)-1 {
			b.WriteString("\n\n")
		}
	}
	b.WriteString("\n")

	return b.String()
}

// renderSources renders citation lines under an assistant turn.
func (v *View) renderSources(sources []domain.SearchResult) string {
	lines := make([]string, 0, len(sources))
	for i, src := range sources {
		name := src.DocumentFilename
		if name == "" {
			name = src.DocumentID
		}
		lines = append(lines, v.styles.Muted.Render(
			fmt.Sprintf("  [%d] %s (%.2f)", i+1, name, src.Score),
		))
	}
	return strings.Join(lines, "\n")
}

// Reset clears the conversation.
func (v *View) Reset() {
	v.turns = nil
	v.history = nil
	v.waiting = false
	v.promptInput.Reset()
	v.statusBar.Clear()
}

// Turns returns the number of transcript entries.
func (v *View) Turns() int {
	return len(v.turns)
}

// History returns the provider-facing conversation history.
func (v *View) History() []domain.ChatMessage {
	return v.history
}

// Waiting reports whether a request is in flight.
func (v *View) Waiting() bool {
	return v.waiting
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.promptInput.SetWidth(width)
	v.statusBar.SetWidth(width)
}
