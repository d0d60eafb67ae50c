// Command docchat is a local-first document chat tool. It ingests
// documents, indexes them for semantic search and answers questions
// about them with a local or cloud LLM.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/files"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/normalisers"
	"github.com/custodia-labs/docchat/internal/postprocessors"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; variables like GEMINI_API_KEY.
	_ = godotenv.Load()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to initialise config store: %w", err)
	}
	settings := configfile.LoadSettings(configStore)

	ctx := context.Background()

	aiStack := ai.Init(ctx, settings)
	defer aiStack.Close()
	for _, warning := range aiStack.Warnings {
		logger.Warn("%s", warning)
	}

	metaStore, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer metaStore.Close()

	fileStore, err := files.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open file store: %w", err)
	}

	normaliserRegistry := normalisers.NewDefaultRegistry()

	chunkProcessor, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.ChunkSize),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return fmt.Errorf("failed to build chunker: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunkProcessor)

	queue := services.NewProcessingQueue(
		metaStore.DocumentStore(),
		fileStore,
		normaliserRegistry,
		pipeline,
		aiStack.EmbeddingService,
		aiStack.VectorIndex,
	)
	queue.Start(ctx)
	defer queue.Stop()

	collectionService := services.NewCollectionService(metaStore.CollectionStore())
	documentService := services.NewDocumentService(
		metaStore.DocumentStore(),
		fileStore,
		aiStack.VectorIndex,
		collectionService,
		queue,
	)
	searchService := services.NewSearchService(
		metaStore.DocumentStore(),
		aiStack.VectorIndex,
		aiStack.EmbeddingService,
		settings.Retrieval,
	)

	gateway := services.NewLLMGateway(aiStack.LLMClients)
	ragService := services.NewRAGService(searchService, gateway, aiStack.VectorIndex, settings.Retrieval)
	if promptStore, err := configfile.NewPromptStore(""); err == nil {
		ragService.SetPromptStore(promptStore)
	}

	cli.SetServices(&cli.Services{
		Document:   documentService,
		Collection: collectionService,
		Search:     searchService,
		Chat:       ragService,
		Config:     configStore,
		Settings:   settings,
	})

	return cli.Execute()
}
