package repository

import (
	"context"
	"time"
)

// VisitedRepository deduplicates history URLs so a URL ingested twice within
// the expiry window is only piped through the pipeline once.
type VisitedRepository interface {
	// MarkVisited marks a URL as seen with a specific expiry time.
	MarkVisited(ctx context.Context, url string, expiry time.Duration) error
	// IsVisited checks if a URL has been seen recently.
	IsVisited(ctx context.Context, url string) (bool, error)
	// RemoveVisited removes a URL from the visited set, used for forced
	// re-ingestion.
	RemoveVisited(ctx context.Context, url string) error
}
