package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/pkg/utils"
)

// Indexer uploads product records to the hybrid search index.
type Indexer interface {
	UploadProduct(ctx context.Context, record *entity.ProductRecord) error
}

type indexUseCase struct {
	textEmbedder  repository.TextEmbedder
	imageEmbedder repository.ImageEmbedder
	index         repository.SearchIndexRepository
}

// NewIndexer creates the index-upload use case. imageEmbedder may be nil;
// records are then indexed without an image vector.
func NewIndexer(
	textEmbedder repository.TextEmbedder,
	imageEmbedder repository.ImageEmbedder,
	index repository.SearchIndexRepository,
) Indexer {
	return &indexUseCase{
		textEmbedder:  textEmbedder,
		imageEmbedder: imageEmbedder,
		index:         index,
	}
}

// UploadProduct embeds the record and uploads one index document keyed by
// the URL hash. Image-embedding problems degrade to a text-only document
// rather than failing the upload.
func (uc *indexUseCase) UploadProduct(ctx context.Context, record *entity.ProductRecord) error {
	content := BuildContentText(record)

	textVector, err := uc.textEmbedder.EmbedText(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to embed record text: %w", err)
	}

	var imageVector []float32
	if uc.imageEmbedder != nil && record.MainImage != nil && *record.MainImage != "" {
		imageVector, err = uc.imageEmbedder.EmbedImageURL(ctx, *record.MainImage)
		if err != nil {
			slog.Warn("Failed to embed main image, indexing without image vector",
				"url", record.URL, "image", *record.MainImage, "error", err)
			imageVector = nil
		}
	}

	productJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	doc := repository.IndexDocument{
		ID:          utils.HashURL(record.URL),
		Content:     content,
		ProductJSON: string(productJSON),
		TextVector:  textVector,
		ImageVector: imageVector,
	}
	return uc.index.Upload(ctx, doc)
}

// BuildContentText flattens a record into the text that gets embedded and
// lexically searched. Only populated fields appear.
func BuildContentText(record *entity.ProductRecord) string {
	var parts []string
	add := func(label string, v *string) {
		if v != nil && *v != "" {
			parts = append(parts, label+": "+*v)
		}
	}

	add("Product name", record.ProductName)
	add("Brand", record.Brand)
	add("Color", record.Color)
	if record.Price != nil && *record.Price != "" {
		line := "Price: " + *record.Price
		if record.Currency != nil && *record.Currency != "" {
			line += " " + *record.Currency
		}
		parts = append(parts, line)
	}
	add("Category", record.Category)
	add("Description", record.Description)
	if len(record.AdditionalAttributes) > 0 {
		if attrs, err := json.Marshal(record.AdditionalAttributes); err == nil {
			parts = append(parts, "Attributes: "+string(attrs))
		}
	}
	add("Original title", record.OriginalTitle)

	return strings.Join(parts, "\n")
}
