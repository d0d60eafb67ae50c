package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is the application version, set at build time via ldflags.
var version = "dev"

// Services wired in by the composition root. Commands check for nil
// so that partially configured environments fail with a clear message
// instead of a panic.
var (
	documentService   driving.DocumentService
	collectionService driving.CollectionService
	searchService     driving.SearchService
	chatService       driving.ChatService
	configStore       driven.ConfigStore
	appSettings       domain.Settings
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents from the terminal",
	Long: `Docchat ingests documents, indexes them for semantic search and
answers questions about them using a local or cloud LLM.

Typical workflow:
  docchat ingest report.pdf      # extract, chunk and index a document
  docchat search "quarterly revenue"
  docchat chat "what were the Q3 numbers?"

Run 'docchat settings' to review provider configuration.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// Services bundles the ports and configuration the commands depend on.
type Services struct {
	Document   driving.DocumentService
	Collection driving.CollectionService
	Search     driving.SearchService
	Chat       driving.ChatService
	Config     driven.ConfigStore
	Settings   domain.Settings
}

// SetServices injects the service ports into the command tree.
// Must be called before Execute.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	documentService = s.Document
	collectionService = s.Collection
	searchService = s.Search
	chatService = s.Chat
	configStore = s.Config
	appSettings = s.Settings
}

// SetVersion overrides the build-time version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
