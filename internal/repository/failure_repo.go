package repository

import (
	"context"

	"github.com/user/shopscout-service/internal/entity"
)

// FailureRepository keeps per-URL failure records for inspection.
type FailureRepository interface {
	// SaveOrUpdate creates or updates the failure record for a URL,
	// incrementing its attempt count.
	SaveOrUpdate(ctx context.Context, failure *entity.ItemFailure) error
	// Delete removes the failure record, typically after a later success.
	Delete(ctx context.Context, url string) error
	// ListRecent returns the most recently failed items.
	ListRecent(ctx context.Context, limit int) ([]*entity.ItemFailure, error)
}
