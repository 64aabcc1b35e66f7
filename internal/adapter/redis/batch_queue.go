package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/shopscout-service/internal/entity"
)

const (
	pendingQueueKey   = "history:pending"
	processedQueueKey = "history:processed"
	failedQueueKey    = "history:failed"
)

// BatchQueueRepoImpl moves history items between the pending, processed, and
// failed Redis lists. Items are stored as JSON so the lastVisitTime and
// title survive the round trip.
type BatchQueueRepoImpl struct {
	client *redis.Client
}

func NewBatchQueueRepo(client *redis.Client) *BatchQueueRepoImpl {
	return &BatchQueueRepoImpl{client: client}
}

// PushPending adds a history item to the pending queue.
func (r *BatchQueueRepoImpl) PushPending(ctx context.Context, item entity.HistoryItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal history item: %w", err)
	}
	return r.client.LPush(ctx, pendingQueueKey, payload).Err()
}

// PopPending removes and returns the next pending item. Returns redis.Nil
// when the queue is empty.
func (r *BatchQueueRepoImpl) PopPending(ctx context.Context) (*entity.HistoryItem, error) {
	payload, err := r.client.RPop(ctx, pendingQueueKey).Result()
	if err != nil {
		return nil, err
	}
	var item entity.HistoryItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending item: %w", err)
	}
	return &item, nil
}

// MarkProcessed records an item as fully processed.
func (r *BatchQueueRepoImpl) MarkProcessed(ctx context.Context, item entity.HistoryItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal history item: %w", err)
	}
	return r.client.LPush(ctx, processedQueueKey, payload).Err()
}

// MarkFailed records an item as failed together with the reason and time.
func (r *BatchQueueRepoImpl) MarkFailed(ctx context.Context, item entity.HistoryItem, reason string) error {
	entry := struct {
		entity.HistoryItem
		Reason   string    `json:"reason"`
		FailedAt time.Time `json:"failed_at"`
	}{item, reason, time.Now().UTC()}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal failed item: %w", err)
	}
	return r.client.LPush(ctx, failedQueueKey, payload).Err()
}

// PendingSize returns the current number of pending items.
func (r *BatchQueueRepoImpl) PendingSize(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, pendingQueueKey).Result()
}
