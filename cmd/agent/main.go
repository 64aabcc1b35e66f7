package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/user/shopscout-service/internal/adapter/clip"
	openai_adapter "github.com/user/shopscout-service/internal/adapter/openai"
	opensearch_adapter "github.com/user/shopscout-service/internal/adapter/opensearch"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/internal/usecase"
	"github.com/user/shopscout-service/pkg/config"
	"github.com/user/shopscout-service/pkg/logger"
)

// The agent command is an interactive shopping assistant over the product
// index. Type a question, get an answer grounded in indexed records; type
// "exit" or press Ctrl-D to quit.
func main() {
	cfg := config.Load()
	logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	if cfg.OpenSearchAddr == "" {
		slog.Error("OPENSEARCH_ADDR is required")
		os.Exit(1)
	}

	llm := openai_adapter.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbedModel)

	osClient, err := opensearch.NewClient(opensearch.Config{Addresses: []string{cfg.OpenSearchAddr}})
	if err != nil {
		slog.Error("Unable to create OpenSearch client", "error", err)
		os.Exit(1)
	}
	indexRepo := opensearch_adapter.NewIndexRepo(osClient, cfg.OpenSearchIndex)

	var imageEmbedder repository.ImageEmbedder
	if cfg.ClipEndpoint != "" {
		imageEmbedder = clip.New(cfg.ClipEndpoint, 30*time.Second)
	}

	assistant := usecase.NewAssistant(indexRepo, llm, imageEmbedder, llm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Shopping assistant ready. Ask about products from your browsing history.")

	var history []repository.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		answer, err := assistant.Ask(ctx, query, history)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			slog.Error("Assistant request failed", "error", err)
			continue
		}

		fmt.Println(answer)
		history = append(history,
			repository.ChatMessage{Role: "user", Content: query},
			repository.ChatMessage{Role: "assistant", Content: answer},
		)
	}

	if err := scanner.Err(); err != nil {
		slog.Error("Input error", "error", err)
		os.Exit(1)
	}
}
