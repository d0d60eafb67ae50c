package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	chatProvider   string
	chatCollection string
	chatSimple     bool
	chatNoSources  bool
	chatMaxResults int
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with your documents",
	Long: `Asks a question and answers it using retrieved document context.

With a message argument the command answers once and exits.
Without arguments it starts an interactive session; type 'exit' or
press Ctrl+D to leave. Conversation history is kept for the session.

Use --simple to chat without document retrieval.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "p", "", "LLM provider (gemini, ollama)")
	chatCmd.Flags().StringVarP(&chatCollection, "collection", "c", "", "restrict retrieval to a collection ID")
	chatCmd.Flags().BoolVar(&chatSimple, "simple", false, "chat without document retrieval")
	chatCmd.Flags().BoolVar(&chatNoSources, "no-sources", false, "hide source citations")
	chatCmd.Flags().IntVar(&chatMaxResults, "max-results", 0, "maximum context chunks (0 = configured default)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		return chatOnce(ctx, cmd, args[0], nil)
	}

	return chatInteractive(ctx, cmd)
}

func chatOnce(ctx context.Context, cmd *cobra.Command, message string, history []domain.ChatMessage) error {
	resp, err := sendChat(ctx, message, history)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(resp.Message)
	printSources(cmd, resp)
	return nil
}

func chatInteractive(ctx context.Context, cmd *cobra.Command) error {
	cmd.Println("Docchat interactive session. Type 'exit' to quit.")
	cmd.Println()

	scanner := bufio.NewScanner(os.Stdin)
	var history []domain.ChatMessage

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			return nil
		}

		resp, err := sendChat(ctx, message, history)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			continue
		}

		cmd.Println()
		cmd.Println(resp.Message)
		printSources(cmd, resp)
		cmd.Println()

		history = append(history,
			domain.ChatMessage{Role: domain.RoleUser, Content: message},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: resp.Message},
		)
	}
}

func sendChat(ctx context.Context, message string, history []domain.ChatMessage) (*domain.ChatResponse, error) {
	req := domain.ChatRequest{
		Message:             message,
		ConversationHistory: history,
		Provider:            chatProvider,
		MaxResults:          chatMaxResults,
		CollectionID:        chatCollection,
	}

	if chatSimple {
		return chatService.SimpleChat(ctx, req)
	}
	return chatService.ChatWithDocuments(ctx, req)
}

func printSources(cmd *cobra.Command, resp *domain.ChatResponse) {
	if chatNoSources || len(resp.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i := range resp.Sources {
		name := resp.Sources[i].DocumentFilename
		if name == "" {
			name = resp.Sources[i].DocumentID
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, name, resp.Sources[i].Score)
	}
}
