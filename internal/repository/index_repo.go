package repository

import "context"

// IndexDocument is what gets uploaded to the hybrid search index for one
// product record.
type IndexDocument struct {
	ID          string
	Content     string
	ProductJSON string
	TextVector  []float32
	ImageVector []float32
}

// IndexHit is one ranked result returned by an index query.
type IndexHit struct {
	ID          string
	Content     string
	ProductJSON string
	Score       float64
}

// SearchIndexRepository is the external hybrid (lexical + vector) index.
type SearchIndexRepository interface {
	// Upload indexes one document.
	Upload(ctx context.Context, doc IndexDocument) error
	// SearchLexical runs a keyword query over the content field.
	SearchLexical(ctx context.Context, query string, k int) ([]IndexHit, error)
	// SearchVector runs a k-nearest-neighbors query against the named
	// vector field ("text_vector" or "image_vector").
	SearchVector(ctx context.Context, field string, vector []float32, k int) ([]IndexHit, error)
}
