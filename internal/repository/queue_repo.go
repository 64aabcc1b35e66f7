package repository

import (
	"context"

	"github.com/user/shopscout-service/internal/entity"
)

// BatchQueueRepository moves history items between the pending, processed,
// and failed queues that connect ingestion to the pipeline worker.
type BatchQueueRepository interface {
	// PushPending adds a history item to the end of the pending queue.
	PushPending(ctx context.Context, item entity.HistoryItem) error
	// PopPending removes and returns the next pending item.
	PopPending(ctx context.Context) (*entity.HistoryItem, error)
	// MarkProcessed records an item as fully processed.
	MarkProcessed(ctx context.Context, item entity.HistoryItem) error
	// MarkFailed records an item as failed, with the failure reason.
	MarkFailed(ctx context.Context, item entity.HistoryItem, reason string) error
	// PendingSize returns the current number of pending items.
	PendingSize(ctx context.Context) (int64, error)
}
