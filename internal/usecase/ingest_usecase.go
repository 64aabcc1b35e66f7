package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/pkg/metrics"
)

const dedupExpiry = 48 * time.Hour // 2 days

// IngestSummary reports what happened to one uploaded history batch.
type IngestSummary struct {
	Received   int `json:"received"`
	Queued     int `json:"queued"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Ingestor validates uploaded history items and queues them for processing.
type Ingestor interface {
	// SubmitBatch enqueues the items, skipping recently seen URLs unless
	// force is set. Malformed entries are counted, never fatal.
	SubmitBatch(ctx context.Context, items []entity.HistoryItem, force bool) (*IngestSummary, error)
	// QueueSize returns the number of items waiting to be processed.
	QueueSize(ctx context.Context) (int64, error)
}

type ingestUseCase struct {
	visited repository.VisitedRepository
	queue   repository.BatchQueueRepository
}

func NewIngestor(visited repository.VisitedRepository, queue repository.BatchQueueRepository) Ingestor {
	return &ingestUseCase{visited: visited, queue: queue}
}

func (uc *ingestUseCase) SubmitBatch(ctx context.Context, items []entity.HistoryItem, force bool) (*IngestSummary, error) {
	summary := &IngestSummary{Received: len(items)}

	for _, item := range items {
		if item.URL == "" {
			summary.Invalid++
			continue
		}

		if force {
			if err := uc.visited.RemoveVisited(ctx, item.URL); err != nil {
				slog.Warn("Failed to remove dedup key for forced ingest", "url", item.URL, "error", err)
			}
		} else {
			seen, err := uc.visited.IsVisited(ctx, item.URL)
			if err != nil {
				return summary, fmt.Errorf("failed to check dedup state for %s: %w", item.URL, err)
			}
			if seen {
				summary.Duplicates++
				continue
			}
		}

		if err := uc.queue.PushPending(ctx, item); err != nil {
			return summary, fmt.Errorf("failed to queue %s: %w", item.URL, err)
		}
		summary.Queued++

		if err := uc.visited.MarkVisited(ctx, item.URL, dedupExpiry); err != nil {
			// The item is queued; at worst it gets queued again before the
			// worker reaches it.
			slog.Error("Failed to mark URL as ingested after queueing", "url", item.URL, "error", err)
		}
	}

	if metrics.ItemsInQueue != nil {
		if size, err := uc.queue.PendingSize(ctx); err == nil {
			metrics.ItemsInQueue.Set(float64(size))
		}
	}

	slog.Info("History batch ingested",
		"received", summary.Received,
		"queued", summary.Queued,
		"duplicates", summary.Duplicates,
		"invalid", summary.Invalid,
	)
	return summary, nil
}

func (uc *ingestUseCase) QueueSize(ctx context.Context) (int64, error) {
	return uc.queue.PendingSize(ctx)
}
