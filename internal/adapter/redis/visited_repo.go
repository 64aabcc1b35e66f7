package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/shopscout-service/pkg/utils"
)

const visitedKeyPrefix = "ingested:"

// VisitedRepoImpl deduplicates ingested history URLs with expiring Redis
// keys, so re-uploading the same history export does not re-run the whole
// pipeline for every URL.
type VisitedRepoImpl struct {
	client *redis.Client
}

func NewVisitedRepo(client *redis.Client) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client}
}

// URL hashes keep keys short and safe regardless of URL length.
func (r *VisitedRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", visitedKeyPrefix, utils.HashURL(url))
}

// MarkVisited marks a URL as seen, expiring after the given duration.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(url), "1", expiry).Err()
}

// IsVisited checks whether a URL was seen within the expiry window.
func (r *VisitedRepoImpl) IsVisited(ctx context.Context, url string) (bool, error) {
	val, err := r.client.Exists(ctx, r.generateKey(url)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

// RemoveVisited forgets a URL so it can be force re-ingested.
func (r *VisitedRepoImpl) RemoveVisited(ctx context.Context, url string) error {
	return r.client.Del(ctx, r.generateKey(url)).Err()
}
