package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/user/shopscout-service/internal/repository"
)

// IndexRepo stores product documents in an OpenSearch index carrying both a
// lexical content field and knn vector fields for text and image embeddings.
type IndexRepo struct {
	client *opensearch.Client
	index  string
}

func NewIndexRepo(client *opensearch.Client, index string) *IndexRepo {
	return &IndexRepo{client: client, index: index}
}

// Upload indexes one product document, replacing any previous version with
// the same id.
func (r *IndexRepo) Upload(ctx context.Context, doc repository.IndexDocument) error {
	body := map[string]interface{}{
		"content":      doc.Content,
		"product_json": doc.ProductJSON,
	}
	if doc.TextVector != nil {
		body["text_vector"] = doc.TextVector
	}
	if doc.ImageVector != nil {
		body["image_vector"] = doc.ImageVector
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal index document: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      r.index,
		DocumentID: doc.ID,
		Body:       strings.NewReader(string(payload)),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to execute index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document %s: %s", doc.ID, res.String())
	}
	return nil
}

// SearchLexical runs a keyword match over the content field.
func (r *IndexRepo) SearchLexical(ctx context.Context, query string, k int) ([]repository.IndexHit, error) {
	body := map[string]interface{}{
		"size": k,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"content": map[string]interface{}{"query": query},
			},
		},
	}
	return r.search(ctx, body)
}

// SearchVector runs a k-nearest-neighbors query against one vector field.
func (r *IndexRepo) SearchVector(ctx context.Context, field string, vector []float32, k int) ([]repository.IndexHit, error) {
	body := map[string]interface{}{
		"size": k,
		"query": map[string]interface{}{
			"knn": map[string]interface{}{
				field: map[string]interface{}{
					"vector": vector,
					"k":      k,
				},
			},
		},
	}
	return r.search(ctx, body)
}

func (r *IndexRepo) search(ctx context.Context, body map[string]interface{}) ([]repository.IndexHit, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(string(payload)),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source struct {
					Content     string `json:"content"`
					ProductJSON string `json:"product_json"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]repository.IndexHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, repository.IndexHit{
			ID:          h.ID,
			Content:     h.Source.Content,
			ProductJSON: h.Source.ProductJSON,
			Score:       h.Score,
		})
	}
	return hits, nil
}
