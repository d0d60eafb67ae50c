package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestChatCommand(t *testing.T) {
	t.Run("service not configured", func(t *testing.T) {
		cleanup := setupTestServices(t, &Services{})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"chat", "hello"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat service not configured")
	})

	t.Run("one-shot answer with sources", func(t *testing.T) {
		chat := &mockChatService{response: &domain.ChatResponse{
			Message:  "Paris is the capital of France.",
			Provider: "gemini",
			Sources: []domain.SearchResult{
				{DocumentFilename: "france.txt", Score: 0.95},
			},
			Success: true,
		}}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"chat", "What is the capital of France?"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "Paris is the capital of France.")
		assert.Contains(t, output, "Sources:")
		assert.Contains(t, output, "[1] france.txt (0.95)")
		assert.Equal(t, "What is the capital of France?", chat.lastReq.Message)
		assert.False(t, chat.simple)
	})

	t.Run("no-sources flag hides citations", func(t *testing.T) {
		chat := &mockChatService{response: &domain.ChatResponse{
			Message: "An answer.",
			Sources: []domain.SearchResult{
				{DocumentFilename: "doc.txt", Score: 0.9},
			},
			Success: true,
		}}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"chat", "--no-sources", "question"})
		defer func() {
			rootCmd.SetArgs(nil)
			chatNoSources = false
		}()

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "Sources:")
	})

	t.Run("simple flag skips retrieval", func(t *testing.T) {
		chat := &mockChatService{response: &domain.ChatResponse{
			Message: "Just chatting.",
			Success: true,
		}}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"chat", "--simple", "hello"})
		defer func() {
			rootCmd.SetArgs(nil)
			chatSimple = false
		}()

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.True(t, chat.simple)
	})

	t.Run("provider flag is forwarded", func(t *testing.T) {
		chat := &mockChatService{response: &domain.ChatResponse{Message: "ok", Success: true}}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"chat", "-p", "ollama", "question"})
		defer func() {
			rootCmd.SetArgs(nil)
			chatProvider = ""
		}()

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Equal(t, "ollama", chat.lastReq.Provider)
	})

	t.Run("chat error", func(t *testing.T) {
		chat := &mockChatService{err: assert.AnError}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"chat", "boom"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat failed")
	})
}
