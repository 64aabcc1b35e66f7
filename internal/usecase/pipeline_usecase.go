package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/extract"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/pkg/metrics"
	"github.com/user/shopscout-service/pkg/utils"
)

// PageFetcher abstracts the fetcher chain for the pipeline.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*entity.ParsedPage, error)
}

// Pipeline turns history items into enriched product records, one item fully
// processed at a time.
type Pipeline interface {
	// ProcessItem runs one URL through fetch, extraction, capture, OCR,
	// reconciliation, and enrichment.
	ProcessItem(ctx context.Context, item entity.HistoryItem) (*entity.ProductRecord, error)
	// ProcessBatch processes a slice of items with per-item failure
	// isolation; no item error aborts the batch.
	ProcessBatch(ctx context.Context, items []entity.HistoryItem) *entity.BatchResult
	// DrainQueue processes everything currently in the pending queue.
	DrainQueue(ctx context.Context) (*entity.BatchResult, error)
}

type pipelineUseCase struct {
	fetcher    PageFetcher
	capture    repository.ScreenshotRepository
	ocr        repository.OCRRepository
	reconciler repository.ReconcilerRepository
	records    repository.ProductRecordRepository
	failures   repository.FailureRepository
	queue      repository.BatchQueueRepository
	indexer    Indexer
	outputDir  string
}

// NewPipeline wires the pipeline. records, failures, queue, and indexer may
// be nil; the corresponding side effects are skipped.
func NewPipeline(
	fetcher PageFetcher,
	capture repository.ScreenshotRepository,
	ocr repository.OCRRepository,
	reconciler repository.ReconcilerRepository,
	records repository.ProductRecordRepository,
	failures repository.FailureRepository,
	queue repository.BatchQueueRepository,
	indexer Indexer,
	outputDir string,
) Pipeline {
	return &pipelineUseCase{
		fetcher:    fetcher,
		capture:    capture,
		ocr:        ocr,
		reconciler: reconciler,
		records:    records,
		failures:   failures,
		queue:      queue,
		indexer:    indexer,
		outputDir:  outputDir,
	}
}

// ProcessItem runs the full per-URL state machine. Every stage error is
// terminal for the item and reported to the caller.
func (uc *pipelineUseCase) ProcessItem(ctx context.Context, item entity.HistoryItem) (*entity.ProductRecord, error) {
	if item.URL == "" {
		return nil, repository.ErrMissingURL
	}
	url := utils.EnsureScheme(item.URL)

	start := time.Now()
	page, err := uc.fetcher.Fetch(ctx, url)
	observeStage("fetch", start)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	// Image and text extraction share the parsed page and have no ordering
	// dependency between them.
	mainImage := extract.SelectImage(page)
	pageText := extract.ExtractText(page)

	if uc.outputDir != "" {
		if err := os.MkdirAll(uc.outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	screenshotPath := filepath.Join(uc.outputDir, utils.RandomHex(16)+"_screenshot.png")
	start = time.Now()
	err = uc.capture.Capture(ctx, url, screenshotPath)
	observeStage("capture", start)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	start = time.Now()
	ocrText, err := uc.ocr.Recognize(ctx, screenshotPath)
	observeStage("ocr", start)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	start = time.Now()
	record, err := uc.reconciler.Reconcile(ctx, ocrText, pageText)
	observeStage("reconcile", start)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	record = Enrich(record, item, pageText.Title, mainImage)

	if err := uc.writeArtifact(record); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	if uc.records != nil {
		if err := uc.records.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("save record: %w", err)
		}
	}
	if uc.failures != nil {
		// An earlier failure for this URL is stale once it succeeds.
		if err := uc.failures.Delete(ctx, record.URL); err != nil {
			slog.Warn("Failed to clear failure record after success", "url", record.URL, "error", err)
		}
	}

	slog.Info("Processed history item", "url", url, "is_product", record.IsProduct)
	return record, nil
}

// Enrich merges the caller-known metadata into a reconciled record. It
// always overwrites the same-named fields, so values the generation call may
// have produced for them never survive, and applying it twice with the same
// inputs yields the same record.
func Enrich(record *entity.ProductRecord, item entity.HistoryItem, originalTitle, mainImage string) *entity.ProductRecord {
	record.URL = utils.EnsureScheme(item.URL)
	record.LastVisitTime = item.LastVisitTime
	if originalTitle != "" {
		record.OriginalTitle = &originalTitle
	} else {
		record.OriginalTitle = nil
	}
	if mainImage != "" {
		record.MainImage = &mainImage
	} else {
		record.MainImage = nil
	}
	return record
}

// ProcessBatch processes items sequentially. Item failures are logged,
// counted, and recorded; the batch always runs to the end.
func (uc *pipelineUseCase) ProcessBatch(ctx context.Context, items []entity.HistoryItem) *entity.BatchResult {
	result := &entity.BatchResult{Stats: entity.BatchStats{Total: len(items)}}

	for i, item := range items {
		slog.Info("Processing history item", "index", i+1, "total", len(items), "url", item.URL)

		record, err := uc.ProcessItem(ctx, item)
		if err != nil {
			uc.handleItemFailure(ctx, item, err)
			result.Stats.Errors++
			continue
		}
		result.Stats.Processed++

		if !record.IsProductYes() {
			result.Stats.NonProducts++
			countItem("non_product", "")
			continue
		}
		result.Stats.Products++
		result.Products = append(result.Products, record)
		countItem("product", "")

		if uc.indexer != nil {
			if err := uc.indexer.UploadProduct(ctx, record); err != nil {
				slog.Error("Failed to upload product to search index", "url", record.URL, "error", err)
				result.Stats.Errors++
			}
		}
	}

	slog.Info("Batch complete",
		"total", result.Stats.Total,
		"processed", result.Stats.Processed,
		"products", result.Stats.Products,
		"non_products", result.Stats.NonProducts,
		"errors", result.Stats.Errors,
	)
	return result
}

// DrainQueue pops pending items until the queue is empty, moving each to the
// processed or failed queue as it goes.
func (uc *pipelineUseCase) DrainQueue(ctx context.Context) (*entity.BatchResult, error) {
	if uc.queue == nil {
		return nil, errors.New("no batch queue configured")
	}

	result := &entity.BatchResult{}
	for {
		item, err := uc.queue.PopPending(ctx)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return result, fmt.Errorf("failed to pop pending item: %w", err)
		}
		result.Stats.Total++

		record, err := uc.ProcessItem(ctx, *item)
		if err != nil {
			uc.handleItemFailure(ctx, *item, err)
			result.Stats.Errors++
			if qErr := uc.queue.MarkFailed(ctx, *item, err.Error()); qErr != nil {
				slog.Error("Failed to move item to failed queue", "url", item.URL, "error", qErr)
			}
			continue
		}
		result.Stats.Processed++
		if qErr := uc.queue.MarkProcessed(ctx, *item); qErr != nil {
			slog.Error("Failed to move item to processed queue", "url", item.URL, "error", qErr)
		}

		if !record.IsProductYes() {
			result.Stats.NonProducts++
			countItem("non_product", "")
			continue
		}
		result.Stats.Products++
		result.Products = append(result.Products, record)
		countItem("product", "")

		if uc.indexer != nil {
			if err := uc.indexer.UploadProduct(ctx, record); err != nil {
				slog.Error("Failed to upload product to search index", "url", record.URL, "error", err)
				result.Stats.Errors++
			}
		}
	}

	if metrics.ItemsInQueue != nil {
		if size, err := uc.queue.PendingSize(ctx); err == nil {
			metrics.ItemsInQueue.Set(float64(size))
		}
	}
	return result, nil
}

func (uc *pipelineUseCase) handleItemFailure(ctx context.Context, item entity.HistoryItem, err error) {
	errType := errorType(err)
	countItem("failure", errType)
	slog.Error("Failed to process history item", "url", item.URL, "error_type", errType, "error", err)

	if uc.failures == nil || item.URL == "" {
		return
	}
	failure := &entity.ItemFailure{
		URL:         utils.EnsureScheme(item.URL),
		Stage:       errType,
		Reason:      err.Error(),
		LastAttempt: time.Now().UTC(),
	}
	if saveErr := uc.failures.SaveOrUpdate(ctx, failure); saveErr != nil {
		slog.Warn("Failed to save item failure record", "url", item.URL, "error", saveErr)
	}
}

// writeArtifact persists the record as one JSON file, so partial batch
// progress survives a crash.
func (uc *pipelineUseCase) writeArtifact(record *entity.ProductRecord) error {
	if uc.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(uc.outputDir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(uc.outputDir, utils.RandomHex(16)+"_product.json")
	return os.WriteFile(path, payload, 0o644)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, repository.ErrMissingURL):
		return "missing_url"
	case errors.Is(err, repository.ErrFetchExhausted):
		return "fetch_exhausted"
	case errors.Is(err, repository.ErrCaptureFailed):
		return "capture"
	case errors.Is(err, repository.ErrOCRFailed):
		return "ocr"
	case errors.Is(err, repository.ErrReconcileParse):
		return "reconcile_parse"
	default:
		return "unknown"
	}
}

// Metric collectors are nil until metrics.Init runs; unit tests exercise the
// pipeline without them.
func observeStage(stage string, start time.Time) {
	if metrics.StageDuration != nil {
		metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func countItem(status, errType string) {
	if metrics.PipelineItemsTotal != nil {
		metrics.PipelineItemsTotal.WithLabelValues(status, errType).Inc()
	}
}
