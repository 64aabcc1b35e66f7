package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/redis/go-redis/v9"
	"github.com/user/shopscout-service/internal/adapter/chromedp_fetch"
	"github.com/user/shopscout-service/internal/adapter/clip"
	"github.com/user/shopscout-service/internal/adapter/httpfetch"
	openai_adapter "github.com/user/shopscout-service/internal/adapter/openai"
	opensearch_adapter "github.com/user/shopscout-service/internal/adapter/opensearch"
	"github.com/user/shopscout-service/internal/adapter/postgres"
	redis_adapter "github.com/user/shopscout-service/internal/adapter/redis"
	"github.com/user/shopscout-service/internal/adapter/tesseract"
	"github.com/user/shopscout-service/internal/delivery/http/handler"
	"github.com/user/shopscout-service/internal/delivery/http/router"
	"github.com/user/shopscout-service/internal/fetch"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/internal/usecase"
	"github.com/user/shopscout-service/pkg/config"
	"github.com/user/shopscout-service/pkg/logger"
	"github.com/user/shopscout-service/pkg/metrics"
)

const workerInterval = 30 * time.Second

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	slog.Info("Logger initialized", "level", cfg.LogLevel)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL ---
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	visitedRepo := redis_adapter.NewVisitedRepo(rdb)
	queueRepo := redis_adapter.NewBatchQueueRepo(rdb)
	recordRepo := postgres.NewRecordRepo(dbpool)
	failureRepo := postgres.NewFailureRepo(dbpool)

	// --- External model clients ---
	var llm *openai_adapter.Client
	if cfg.OpenAIAPIKey != "" {
		llm = openai_adapter.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbedModel)
	} else {
		slog.Error("OPENAI_API_KEY is required for reconciliation")
		os.Exit(1)
	}

	var imageEmbedder repository.ImageEmbedder
	if cfg.ClipEndpoint != "" {
		imageEmbedder = clip.New(cfg.ClipEndpoint, 30*time.Second)
	} else {
		slog.Warn("No CLIP_ENDPOINT configured, records will be indexed without image vectors")
	}

	var indexRepo repository.SearchIndexRepository
	if cfg.OpenSearchAddr != "" {
		osClient, err := opensearch.NewClient(opensearch.Config{Addresses: []string{cfg.OpenSearchAddr}})
		if err != nil {
			slog.Error("Unable to create OpenSearch client", "error", err)
			os.Exit(1)
		}
		indexRepo = opensearch_adapter.NewIndexRepo(osClient, cfg.OpenSearchIndex)
		slog.Info("OpenSearch client created", "index", cfg.OpenSearchIndex)
	} else {
		slog.Warn("No OPENSEARCH_ADDR configured, products will not be indexed")
	}

	// --- Pipeline ---
	chain := fetch.NewChain(
		httpfetch.New(cfg.HTTPFetchTimeout),
		chromedp_fetch.NewHeadless(cfg.RenderTimeout),
		chromedp_fetch.NewStealth(cfg.RenderTimeout),
	)
	capturer := chromedp_fetch.NewCapturer(cfg.CaptureTimeout)
	ocr := tesseract.New(cfg.TesseractBinary, cfg.OCRTimeout)

	var indexer usecase.Indexer
	if indexRepo != nil {
		indexer = usecase.NewIndexer(llm, imageEmbedder, indexRepo)
	}

	pipeline := usecase.NewPipeline(chain, capturer, ocr, llm,
		recordRepo, failureRepo, queueRepo, indexer, cfg.OutputDir)

	// --- Use Cases ---
	ingestor := usecase.NewIngestor(visitedRepo, queueRepo)
	preferences := usecase.NewPreferenceComputer(recordRepo)
	var assistant usecase.Assistant
	if indexRepo != nil {
		assistant = usecase.NewAssistant(indexRepo, llm, imageEmbedder, llm)
	}

	// --- Queue worker ---
	go runWorker(ctx, pipeline)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(ingestor, preferences, assistant)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}

// runWorker drains the pending queue on a fixed interval until shutdown.
func runWorker(ctx context.Context, pipeline usecase.Pipeline) {
	ticker := time.NewTicker(workerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Queue worker stopping")
			return
		case <-ticker.C:
			result, err := pipeline.DrainQueue(ctx)
			if err != nil {
				slog.Error("Queue drain failed", "error", err)
				continue
			}
			if result.Stats.Total > 0 {
				slog.Info("Queue drained",
					"total", result.Stats.Total,
					"processed", result.Stats.Processed,
					"products", result.Stats.Products,
					"errors", result.Stats.Errors,
				)
			}
		}
	}
}
