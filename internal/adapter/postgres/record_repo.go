package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/shopscout-service/internal/entity"
)

// RecordRepoImpl stores reconciled product records in the product_records
// table, one row per URL.
type RecordRepoImpl struct {
	db *pgxpool.Pool
}

func NewRecordRepo(db *pgxpool.Pool) *RecordRepoImpl {
	return &RecordRepoImpl{db: db}
}

// Save stores or updates the record for a URL.
func (r *RecordRepoImpl) Save(ctx context.Context, record *entity.ProductRecord) error {
	attrsJSON, err := json.Marshal(record.AdditionalAttributes)
	if err != nil {
		return fmt.Errorf("failed to marshal additional attributes: %w", err)
	}

	query := `
		INSERT INTO product_records (url, is_product, product_name, color, brand, price, currency,
			rating, rating_count, description, category, additional_attributes,
			last_visit_time, original_title, main_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (url) DO UPDATE SET
			is_product = EXCLUDED.is_product,
			product_name = EXCLUDED.product_name,
			color = EXCLUDED.color,
			brand = EXCLUDED.brand,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			rating = EXCLUDED.rating,
			rating_count = EXCLUDED.rating_count,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			additional_attributes = EXCLUDED.additional_attributes,
			last_visit_time = EXCLUDED.last_visit_time,
			original_title = EXCLUDED.original_title,
			main_image = EXCLUDED.main_image;
	`

	_, err = r.db.Exec(ctx, query,
		record.URL,
		record.IsProduct,
		record.ProductName,
		record.Color,
		record.Brand,
		record.Price,
		record.Currency,
		record.Rating,
		record.RatingCount,
		record.Description,
		record.Category,
		attrsJSON,
		record.LastVisitTime,
		record.OriginalTitle,
		record.MainImage,
	)
	return err
}

const recordColumns = `url, is_product, product_name, color, brand, price, currency,
	rating, rating_count, description, category, additional_attributes,
	last_visit_time, original_title, main_image`

// FindByURL retrieves the record for a specific URL.
func (r *RecordRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ProductRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM product_records WHERE url = $1;`
	row := r.db.QueryRow(ctx, query, url)
	return scanRecord(row)
}

// ListAll returns every stored record, for preference aggregation.
func (r *RecordRepoImpl) ListAll(ctx context.Context) ([]*entity.ProductRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM product_records ORDER BY url;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.ProductRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entity.ProductRecord, error) {
	var record entity.ProductRecord
	var attrsJSON []byte

	err := row.Scan(
		&record.URL,
		&record.IsProduct,
		&record.ProductName,
		&record.Color,
		&record.Brand,
		&record.Price,
		&record.Currency,
		&record.Rating,
		&record.RatingCount,
		&record.Description,
		&record.Category,
		&attrsJSON,
		&record.LastVisitTime,
		&record.OriginalTitle,
		&record.MainImage,
	)
	if err != nil {
		return nil, err // pgx.ErrNoRows when not found
	}

	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &record.AdditionalAttributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal additional attributes: %w", err)
		}
	}
	if record.AdditionalAttributes == nil {
		record.AdditionalAttributes = map[string]string{}
	}
	return &record, nil
}
