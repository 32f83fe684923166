package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/hannahmacd/portfolio-core/appconfig"
	"github.com/hannahmacd/portfolio-core/chat"
	"github.com/hannahmacd/portfolio-core/db"
	"github.com/hannahmacd/portfolio-core/llm"
	"github.com/hannahmacd/portfolio-core/retrieval"
	"github.com/hannahmacd/portfolio-core/server"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ollamaClient, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Fatal("Failed to create Ollama client", zap.Error(err))
	}

	mongoClient := odm.ProvideMongoClient()

	ctx := getCancellableContext()

	if err := db.InitPortfolioDB(ctx, mongoClient, ccfgg.DatabaseName); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	embedder := llm.NewOllamaEmbedder(ollamaClient, ccfgg.EmbeddingModel)
	store := db.ProvideKnowledgeStore(mongoClient, ccfgg.DatabaseName)
	retriever := retrieval.NewRetriever(embedder, store)
	chatClient := provideChatClient(ccfgg)
	logger.Info("Chat client ready", zap.String("model", chatClient.GetModel()))
	composer := chat.NewComposer(retriever, chatClient, ccfgg.OwnerName)

	httpServer := server.New(ccfgg.HTTPPort, composer)

	// catch SIGINT -> cancel
	if err := httpServer.Serve(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}

func provideChatClient(ccfgg *appconfig.AppConfig) llm.LLMClient {
	switch ccfgg.ChatProvider {
	case "groq":
		return llm.NewGroqClient(ccfgg.ChatModel)
	case "anthropic", "":
		return llm.NewAnthropicClient(ccfgg.ChatModel)
	default:
		logger.Fatal("Unknown chat provider", zap.String("provider", ccfgg.ChatProvider))
		return nil
	}
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
