// Command ingest builds the chat assistant's knowledge base: it chunks every
// markdown file in the knowledge directory, embeds the chunks, and writes
// them to the vector store. Run it once per content update.
package main

import (
	"os"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/ollama/ollama/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hannahmacd/portfolio-core/appconfig"
	"github.com/hannahmacd/portfolio-core/db"
	"github.com/hannahmacd/portfolio-core/ingest"
	"github.com/hannahmacd/portfolio-core/llm"
)

func main() {
	var (
		dryRun bool
		reset  bool
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Chunk, embed and store the knowledge-base markdown files",
		RunE: func(cmd *cobra.Command, args []string) error {
			dotenv.LoadEnv()

			ccfgg := &appconfig.AppConfig{}
			if err := config.LoadConfig("config.ini", ccfgg); err != nil {
				logger.Fatal("Failed to load config", zap.Error(err))
			}

			if dir == "" {
				dir = ccfgg.KnowledgeDir
			}

			ollamaClient, err := api.ClientFromEnvironment()
			if err != nil {
				logger.Fatal("Failed to create Ollama client", zap.Error(err))
			}

			mongoClient := odm.ProvideMongoClient()

			ctx := cmd.Context()

			if err := db.InitPortfolioDB(ctx, mongoClient, ccfgg.DatabaseName); err != nil {
				logger.Fatal("Failed to ensure indexes", zap.Error(err))
			}

			store := db.ProvideKnowledgeStore(mongoClient, ccfgg.DatabaseName)
			embedder := llm.NewOllamaEmbedder(ollamaClient, ccfgg.EmbeddingModel)

			pipeline := ingest.NewPipeline(store, embedder, ccfgg.MaxChunkChars)
			return pipeline.Run(ctx, dir, ingest.Options{DryRun: dryRun, Reset: reset})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and log chunks without embedding or writing")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete each file's existing rows before re-inserting")
	cmd.Flags().StringVar(&dir, "dir", "", "knowledge directory (defaults to config knowledge_dir)")

	if err := cmd.Execute(); err != nil {
		logger.Error("Ingestion failed", zap.Error(err))
		os.Exit(1)
	}
}
