package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/user/shopscout-service/internal/adapter/chromedp_fetch"
	"github.com/user/shopscout-service/internal/adapter/clip"
	"github.com/user/shopscout-service/internal/adapter/httpfetch"
	openai_adapter "github.com/user/shopscout-service/internal/adapter/openai"
	opensearch_adapter "github.com/user/shopscout-service/internal/adapter/opensearch"
	"github.com/user/shopscout-service/internal/adapter/tesseract"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/fetch"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/internal/usecase"
	"github.com/user/shopscout-service/pkg/config"
	"github.com/user/shopscout-service/pkg/logger"
)

// The pipeline command processes a browser history export file end to end
// without the API server or its backing stores. Records are written as JSON
// artifacts into the output directory, one file per URL, plus a summary.
func main() {
	var (
		inputPath   = flag.String("input", "history.json", "path to a browser history JSON export")
		outputDir   = flag.String("out", "", "artifact directory (defaults to OUTPUT_DIR)")
		summaryPath = flag.String("summary", "", "write batch summary JSON to this file")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	if *outputDir == "" {
		*outputDir = cfg.OutputDir
	}

	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required for reconciliation")
		os.Exit(1)
	}

	items, err := loadHistory(*inputPath)
	if err != nil {
		slog.Error("Unable to read history file", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	slog.Info("History loaded", "path", *inputPath, "items", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llm := openai_adapter.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbedModel)

	chain := fetch.NewChain(
		httpfetch.New(cfg.HTTPFetchTimeout),
		chromedp_fetch.NewHeadless(cfg.RenderTimeout),
		chromedp_fetch.NewStealth(cfg.RenderTimeout),
	)
	capturer := chromedp_fetch.NewCapturer(cfg.CaptureTimeout)
	ocr := tesseract.New(cfg.TesseractBinary, cfg.OCRTimeout)

	// Index uploads are optional for batch runs; most runs only want the
	// JSON artifacts.
	var indexer usecase.Indexer
	if cfg.OpenSearchAddr != "" {
		osClient, err := opensearch.NewClient(opensearch.Config{Addresses: []string{cfg.OpenSearchAddr}})
		if err != nil {
			slog.Error("Unable to create OpenSearch client", "error", err)
			os.Exit(1)
		}
		var imageEmbedder repository.ImageEmbedder
		if cfg.ClipEndpoint != "" {
			imageEmbedder = clip.New(cfg.ClipEndpoint, 30*time.Second)
		}
		indexer = usecase.NewIndexer(llm, imageEmbedder, opensearch_adapter.NewIndexRepo(osClient, cfg.OpenSearchIndex))
	}

	pipeline := usecase.NewPipeline(chain, capturer, ocr, llm, nil, nil, nil, indexer, *outputDir)

	result := pipeline.ProcessBatch(ctx, items)
	slog.Info("Batch complete",
		"total", result.Stats.Total,
		"processed", result.Stats.Processed,
		"products", result.Stats.Products,
		"non_products", result.Stats.NonProducts,
		"errors", result.Stats.Errors,
	)

	if *summaryPath != "" {
		if err := writeSummary(*summaryPath, result); err != nil {
			slog.Error("Unable to write summary", "path", *summaryPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Summary written", "path", *summaryPath)
	}
}

func loadHistory(path string) ([]entity.HistoryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []entity.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func writeSummary(path string, result *entity.BatchResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
