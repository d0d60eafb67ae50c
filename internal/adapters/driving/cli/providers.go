package cli

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show available LLM providers",
	RunE:  runProvidersList,
}

// healthTimeout bounds the whole health probe so a stalled provider
// cannot hang the command.
const healthTimeout = 15 * time.Second

var providersHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe provider and index health",
	Long: `Sends a minimal generation request to each configured provider and
checks vector index connectivity.`,
	RunE: runProvidersHealth,
}

func init() {
	providersCmd.AddCommand(providersHealthCmd)
	rootCmd.AddCommand(providersCmd)
}

func runProvidersList(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	providers := chatService.AvailableProviders()
	if len(providers) == 0 {
		cmd.Println("No LLM providers configured.")
		cmd.Println("Run 'docchat settings gemini' or 'docchat settings ollama' to configure one.")
		return nil
	}

	cmd.Println("Available providers:")
	for _, p := range providers {
		cmd.Printf("  %s\n", p)
	}
	return nil
}

func runProvidersHealth(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	health := chatService.HealthCheck(ctx)

	cmd.Println("Provider health:")
	names := make([]string, 0, len(health.Providers))
	for name := range health.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %-10s %s\n", name, health.Providers[name])
	}

	cmd.Println()
	cmd.Printf("Vector index: %s\n", health.VectorIndex)
	if health.DefaultProvider != "" {
		cmd.Printf("Default provider: %s\n", health.DefaultProvider)
	}

	return nil
}
