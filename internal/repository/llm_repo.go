package repository

import (
	"context"

	"github.com/user/shopscout-service/internal/entity"
)

// ReconcilerRepository merges OCR text and page-extracted text into one
// schema-conformant product record via a schema-constrained generation call.
type ReconcilerRepository interface {
	// Reconcile returns the reconciled record, without enrichment fields.
	// Output that does not decode into the schema is an error, never
	// silently recovered.
	Reconcile(ctx context.Context, ocrText string, page entity.PageText) (*entity.ProductRecord, error)
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRepository answers free-form assistant prompts.
type ChatRepository interface {
	Chat(ctx context.Context, system string, messages []ChatMessage) (string, error)
}

// TextEmbedder produces the text embedding used for index upload and query.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ImageEmbedder produces an image embedding from a public image URL. A nil
// vector with nil error means the image could not be fetched; records are
// indexed without an image vector in that case.
type ImageEmbedder interface {
	EmbedImageURL(ctx context.Context, url string) ([]float32, error)
	// EmbedQuery embeds free text into the image-embedding space so text
	// queries can match image vectors.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
