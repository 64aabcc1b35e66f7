package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/pkg/utils"
)

type MockTextEmbedder struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)
	Called        int
	LastText      string
}

func (m *MockTextEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.Called++
	m.LastText = text
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

type MockImageEmbedder struct {
	EmbedImageURLFunc func(ctx context.Context, imageURL string) ([]float32, error)
	EmbedQueryFunc    func(ctx context.Context, query string) ([]float32, error)
}

func (m *MockImageEmbedder) EmbedImageURL(ctx context.Context, imageURL string) ([]float32, error) {
	if m.EmbedImageURLFunc != nil {
		return m.EmbedImageURLFunc(ctx, imageURL)
	}
	return []float32{0.9}, nil
}

func (m *MockImageEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, query)
	}
	return []float32{0.8}, nil
}

type MockSearchIndex struct {
	UploadFunc        func(ctx context.Context, doc repository.IndexDocument) error
	SearchLexicalFunc func(ctx context.Context, query string, k int) ([]repository.IndexHit, error)
	SearchVectorFunc  func(ctx context.Context, field string, vector []float32, k int) ([]repository.IndexHit, error)
	Uploaded          []repository.IndexDocument
}

func (m *MockSearchIndex) Upload(ctx context.Context, doc repository.IndexDocument) error {
	m.Uploaded = append(m.Uploaded, doc)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, doc)
	}
	return nil
}

func (m *MockSearchIndex) SearchLexical(ctx context.Context, query string, k int) ([]repository.IndexHit, error) {
	if m.SearchLexicalFunc != nil {
		return m.SearchLexicalFunc(ctx, query, k)
	}
	return nil, nil
}

func (m *MockSearchIndex) SearchVector(ctx context.Context, field string, vector []float32, k int) ([]repository.IndexHit, error) {
	if m.SearchVectorFunc != nil {
		return m.SearchVectorFunc(ctx, field, vector, k)
	}
	return nil, nil
}

func indexedProduct() *entity.ProductRecord {
	record := productRecord("Shoes", "Nike", "Black", "$90.00", nil)
	record.ProductName = strPtr("Air Zoom")
	record.URL = "https://shop.com/item"
	record.MainImage = strPtr("https://cdn.shop.com/img.jpg")
	return record
}

func TestUploadProduct_FullDocument(t *testing.T) {
	index := &MockSearchIndex{}
	text := &MockTextEmbedder{}
	image := &MockImageEmbedder{}

	err := NewIndexer(text, image, index).UploadProduct(context.Background(), indexedProduct())
	require.NoError(t, err)

	require.Len(t, index.Uploaded, 1)
	doc := index.Uploaded[0]
	assert.Equal(t, utils.HashURL("https://shop.com/item"), doc.ID)
	assert.Contains(t, doc.Content, "Product name: Air Zoom")
	assert.Contains(t, doc.ProductJSON, `"is_product":"Yes"`)
	assert.Equal(t, []float32{0.1, 0.2}, doc.TextVector)
	assert.Equal(t, []float32{0.9}, doc.ImageVector)
}

func TestUploadProduct_ImageEmbedFailureDegrades(t *testing.T) {
	index := &MockSearchIndex{}
	image := &MockImageEmbedder{
		EmbedImageURLFunc: func(ctx context.Context, imageURL string) ([]float32, error) {
			return nil, errors.New("sidecar unreachable")
		},
	}

	err := NewIndexer(&MockTextEmbedder{}, image, index).UploadProduct(context.Background(), indexedProduct())
	require.NoError(t, err, "a missing image vector must not block the upload")

	require.Len(t, index.Uploaded, 1)
	assert.Nil(t, index.Uploaded[0].ImageVector)
	assert.NotNil(t, index.Uploaded[0].TextVector)
}

func TestUploadProduct_TextEmbedFailureIsFatal(t *testing.T) {
	index := &MockSearchIndex{}
	text := &MockTextEmbedder{
		EmbedTextFunc: func(ctx context.Context, s string) ([]float32, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	err := NewIndexer(text, nil, index).UploadProduct(context.Background(), indexedProduct())
	assert.Error(t, err)
	assert.Empty(t, index.Uploaded)
}

func TestBuildContentText(t *testing.T) {
	record := indexedProduct()
	record.Currency = strPtr("USD")
	record.Description = strPtr("Responsive road shoe.")
	record.AdditionalAttributes = map[string]string{"Size": "10"}
	record.OriginalTitle = strPtr("Nike Air Zoom - Shop")

	content := BuildContentText(record)

	assert.Contains(t, content, "Product name: Air Zoom")
	assert.Contains(t, content, "Brand: Nike")
	assert.Contains(t, content, "Price: $90.00 USD")
	assert.Contains(t, content, "Category: Shoes")
	assert.Contains(t, content, `"Size":"10"`)
	assert.Contains(t, content, "Original title: Nike Air Zoom - Shop")
}

func TestBuildContentText_SkipsEmptyFields(t *testing.T) {
	content := BuildContentText(&entity.ProductRecord{IsProduct: "Yes"})
	assert.Equal(t, "", content)
}
