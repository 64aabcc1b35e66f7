package repository

import (
	"context"

	"github.com/user/shopscout-service/internal/entity"
)

// ProductRecordRepository stores reconciled product records durably.
type ProductRecordRepository interface {
	// Save stores the record for a URL, updating any existing row.
	Save(ctx context.Context, record *entity.ProductRecord) error
	// FindByURL retrieves the record for a specific URL.
	FindByURL(ctx context.Context, url string) (*entity.ProductRecord, error)
	// ListAll returns every stored record, for preference aggregation.
	ListAll(ctx context.Context) ([]*entity.ProductRecord, error)
}
