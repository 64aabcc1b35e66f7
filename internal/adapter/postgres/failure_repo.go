package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/shopscout-service/internal/entity"
)

// FailureRepoImpl stores per-URL pipeline failures in the item_failures table.
type FailureRepoImpl struct {
	db *pgxpool.Pool
}

func NewFailureRepo(db *pgxpool.Pool) *FailureRepoImpl {
	return &FailureRepoImpl{db: db}
}

// SaveOrUpdate creates or updates the failure record for a URL. The attempt
// count is incremented on conflict.
func (r *FailureRepoImpl) SaveOrUpdate(ctx context.Context, failure *entity.ItemFailure) error {
	query := `
		INSERT INTO item_failures (url, stage, reason, attempts, last_attempt)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (url) DO UPDATE SET
			stage = EXCLUDED.stage,
			reason = EXCLUDED.reason,
			attempts = item_failures.attempts + 1,
			last_attempt = EXCLUDED.last_attempt;
	`
	_, err := r.db.Exec(ctx, query,
		failure.URL,
		failure.Stage,
		failure.Reason,
		failure.LastAttempt,
	)
	return err
}

// Delete removes the failure record for a URL.
func (r *FailureRepoImpl) Delete(ctx context.Context, url string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM item_failures WHERE url = $1;`, url)
	return err
}

// ListRecent returns the most recently failed items.
func (r *FailureRepoImpl) ListRecent(ctx context.Context, limit int) ([]*entity.ItemFailure, error) {
	query := `
		SELECT url, stage, reason, attempts, last_attempt
		FROM item_failures
		ORDER BY last_attempt DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []*entity.ItemFailure
	for rows.Next() {
		var f entity.ItemFailure
		if err := rows.Scan(&f.URL, &f.Stage, &f.Reason, &f.Attempts, &f.LastAttempt); err != nil {
			return nil, err
		}
		failures = append(failures, &f)
	}
	return failures, rows.Err()
}
