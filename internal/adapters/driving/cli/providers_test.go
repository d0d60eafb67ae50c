package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func TestProvidersCommand(t *testing.T) {
	t.Run("service not configured", func(t *testing.T) {
		cleanup := setupTestServices(t, &Services{})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"providers"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat service not configured")
	})

	t.Run("no providers configured", func(t *testing.T) {
		chat := &mockChatService{}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"providers"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "No LLM providers configured.")
		assert.Contains(t, output, "docchat settings gemini")
	})

	t.Run("lists providers", func(t *testing.T) {
		chat := &mockChatService{providers: []string{"gemini", "ollama"}}
		cleanup := setupTestServices(t, &Services{Chat: chat})
		defer cleanup()

		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"providers"})
		defer rootCmd.SetArgs(nil)

		err := rootCmd.Execute()

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "Available providers:")
		assert.Contains(t, output, "gemini")
		assert.Contains(t, output, "ollama")
	})
}

func TestProvidersHealthCommand(t *testing.T) {
	chat := &mockChatService{health: &driving.ComponentHealth{
		Providers: map[string]string{
			"gemini": "healthy",
			"ollama": "unhealthy: connection refused",
		},
		VectorIndex:     "healthy",
		DefaultProvider: "gemini",
	}}
	cleanup := setupTestServices(t, &Services{Chat: chat})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"providers", "health"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Provider health:")
	assert.Contains(t, output, "gemini")
	assert.Contains(t, output, "healthy")
	assert.Contains(t, output, "unhealthy: connection refused")
	assert.Contains(t, output, "Vector index: healthy")
	assert.Contains(t, output, "Default provider: gemini")

	require.NotNil(t, chat.healthCtx)
	deadline, ok := chat.healthCtx.Deadline()
	assert.True(t, ok)
	assert.LessOrEqual(t, time.Until(deadline), healthTimeout)
}
