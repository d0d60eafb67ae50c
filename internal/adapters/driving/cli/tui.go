package cli

import (
	"errors"
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long: `Launch the interactive terminal interface.

The TUI provides a conversational view over your indexed documents,
a direct chunk search and a document browser.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) (err error) {
	if chatService == nil || searchService == nil || documentService == nil {
		return errors.New("tui services not configured")
	}

	// A panic inside the TUI would leave the terminal in raw mode.
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tui panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("tui crashed: %v", r)
		}
	}()

	ports := tui.NewPorts(chatService, searchService, documentService)
	ports.Collection = collectionService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to initialise tui: %w", err)
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	return nil
}
