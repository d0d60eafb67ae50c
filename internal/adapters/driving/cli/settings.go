package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure LLM providers, embedding, chunking and other options.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGeminiCmd = &cobra.Command{
	Use:   "gemini",
	Short: "Configure the Gemini provider",
	Long:  `Configure the Gemini API key and model for cloud generation.`,
	RunE:  runSettingsGemini,
}

var settingsOllamaCmd = &cobra.Command{
	Use:   "ollama",
	Short: "Configure the Ollama provider",
	Long:  `Configure the local Ollama endpoint and model.`,
	RunE:  runSettingsOllama,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long:  `Configure the Ollama embedding endpoint, model and dimensions.`,
	RunE:  runSettingsEmbedding,
}

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure document chunking",
	Long:  `Configure chunk size and overlap used during ingestion.`,
	RunE:  runSettingsChunking,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGeminiCmd)
	settingsCmd.AddCommand(settingsOllamaCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	s := appSettings

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Gemini]")
	if s.Gemini.IsConfigured() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(s.Gemini.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Model: %s\n", s.Gemini.Model)
	cmd.Printf("  Status: %s\n", configuredLabel(s.Gemini.IsConfigured()))
	cmd.Println()

	cmd.Println("[Ollama]")
	cmd.Printf("  Base URL: %s\n", s.Ollama.BaseURL)
	cmd.Printf("  Model: %s\n", s.Ollama.Model)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Base URL: %s\n", s.Embedding.BaseURL)
	cmd.Printf("  Model: %s\n", s.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", s.Embedding.Dimensions)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Chunk size: %d\n", s.Chunking.ChunkSize)
	cmd.Printf("  Overlap: %d\n", s.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Vector Index]")
	cmd.Printf("  Address: %s\n", s.Vector.Addr)
	cmd.Printf("  Collection: %s\n", s.Vector.Collection)
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsGemini(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Print("Enter Gemini API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}

	cmd.Printf("Enter model name [%s]: ", appSettings.Gemini.Model)
	model := readLine(reader)
	if model == "" {
		model = appSettings.Gemini.Model
	}

	settings := domain.GeminiSettings{APIKey: apiKey, Model: model}

	cmd.Print("Validating configuration... ")
	if err := ai.ValidateGeminiConfig(context.Background(), settings); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("gemini configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	configStore.Set("gemini.api_key", apiKey)
	configStore.Set("gemini.model", model)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	appSettings.Gemini = settings
	cmd.Printf("Gemini provider configured (%s)\n", model)
	return nil
}

func runSettingsOllama(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Enter base URL [%s]: ", appSettings.Ollama.BaseURL)
	baseURL := readLine(reader)
	if baseURL == "" {
		baseURL = appSettings.Ollama.BaseURL
	}

	cmd.Printf("Enter model name [%s]: ", appSettings.Ollama.Model)
	model := readLine(reader)
	if model == "" {
		model = appSettings.Ollama.Model
	}

	settings := domain.OllamaSettings{BaseURL: baseURL, Model: model}

	cmd.Print("Validating configuration... ")
	if err := ai.ValidateOllamaConfig(context.Background(), settings); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("ollama configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	configStore.Set("ollama.base_url", baseURL)
	configStore.Set("ollama.model", model)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	appSettings.Ollama = settings
	cmd.Printf("Ollama provider configured: %s (%s)\n", baseURL, model)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Enter base URL [%s]: ", appSettings.Embedding.BaseURL)
	baseURL := readLine(reader)
	if baseURL == "" {
		baseURL = appSettings.Embedding.BaseURL
	}

	cmd.Printf("Enter model name [%s]: ", appSettings.Embedding.Model)
	model := readLine(reader)
	if model == "" {
		model = appSettings.Embedding.Model
	}

	cmd.Printf("Enter dimensions [%d]: ", appSettings.Embedding.Dimensions)
	dimensions := parseIntDefault(readLine(reader), appSettings.Embedding.Dimensions)

	settings := domain.EmbeddingSettings{BaseURL: baseURL, Model: model, Dimensions: dimensions}

	cmd.Print("Validating configuration... ")
	if err := ai.ValidateEmbeddingConfig(context.Background(), settings); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	configStore.Set("embedding.base_url", baseURL)
	configStore.Set("embedding.model", model)
	configStore.Set("embedding.dimensions", dimensions)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	appSettings.Embedding = settings
	cmd.Printf("Embedding provider configured: %s (%s, %d dimensions)\n", baseURL, model, dimensions)
	cmd.Println("Note: documents indexed with a different model must be re-ingested.")
	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Enter chunk size [%d]: ", appSettings.Chunking.ChunkSize)
	chunkSize := parseIntDefault(readLine(reader), appSettings.Chunking.ChunkSize)

	cmd.Printf("Enter overlap [%d]: ", appSettings.Chunking.Overlap)
	overlap := parseIntDefault(readLine(reader), appSettings.Chunking.Overlap)

	if chunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}
	if overlap < 0 || overlap >= chunkSize {
		return errors.New("overlap must be non-negative and smaller than chunk size")
	}

	configStore.Set("chunking.chunk_size", chunkSize)
	configStore.Set("chunking.overlap", overlap)
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	appSettings.Chunking.ChunkSize = chunkSize
	appSettings.Chunking.Overlap = overlap
	cmd.Printf("Chunking configured: size %d, overlap %d\n", chunkSize, overlap)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseIntDefault(input string, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		return defaultVal
	}
	return val
}

///nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func configuredLabel(configured bool) string {
	if configured {
		return "configured"
	}
	return "not configured"
}
