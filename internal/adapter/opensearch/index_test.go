package opensearch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/shopscout-service/internal/repository"
)

type mockTransport struct {
	Response *http.Response
	Error    error
	LastReq  *http.Request
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.LastReq = req
	return m.Response, m.Error
}

func newMockRepo(t *testing.T, status int, body string) (*IndexRepo, *mockTransport) {
	t.Helper()
	transport := &mockTransport{
		Response: &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		},
	}
	client, err := opensearch.NewClient(opensearch.Config{Transport: transport})
	require.NoError(t, err)
	return NewIndexRepo(client, "products"), transport
}

func TestIndexRepo_Upload(t *testing.T) {
	repo, transport := newMockRepo(t, 201, `{"result":"created"}`)

	doc := repository.IndexDocument{
		ID:          "abc123",
		Content:     "Product name: Air Zoom",
		ProductJSON: `{"is_product":"Yes"}`,
		TextVector:  []float32{0.1},
	}
	err := repo.Upload(context.Background(), doc)

	require.NoError(t, err)
	require.NotNil(t, transport.LastReq)
	assert.Contains(t, transport.LastReq.URL.Path, "/products/_doc/abc123")

	sent, err := io.ReadAll(transport.LastReq.Body)
	require.NoError(t, err)
	assert.Contains(t, string(sent), `"text_vector"`)
	assert.NotContains(t, string(sent), `"image_vector"`, "absent vectors stay out of the document")
}

func TestIndexRepo_Upload_Error(t *testing.T) {
	repo, _ := newMockRepo(t, 500, `{"error":"internal error"}`)

	err := repo.Upload(context.Background(), repository.IndexDocument{ID: "abc123"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error indexing document abc123")
}

func TestIndexRepo_SearchLexical(t *testing.T) {
	body := `{"hits":{"hits":[
		{"_id":"a","_score":2.5,"_source":{"content":"Air Zoom","product_json":"{}"}},
		{"_id":"b","_score":1.0,"_source":{"content":"Pegasus","product_json":"{}"}}
	]}}`
	repo, _ := newMockRepo(t, 200, body)

	hits, err := repo.SearchLexical(context.Background(), "air zoom", 10)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, 2.5, hits[0].Score)
	assert.Equal(t, "Air Zoom", hits[0].Content)
}

func TestIndexRepo_SearchVector(t *testing.T) {
	repo, transport := newMockRepo(t, 200, `{"hits":{"hits":[]}}`)

	hits, err := repo.SearchVector(context.Background(), "text_vector", []float32{0.1, 0.2}, 5)

	require.NoError(t, err)
	assert.Empty(t, hits)

	sent, err := io.ReadAll(transport.LastReq.Body)
	require.NoError(t, err)
	assert.Contains(t, string(sent), `"knn"`)
	assert.Contains(t, string(sent), `"text_vector"`)
}

func TestIndexRepo_Search_Error(t *testing.T) {
	repo, _ := newMockRepo(t, 503, `{"error":"cluster unavailable"}`)

	_, err := repo.SearchLexical(context.Background(), "anything", 10)
	assert.Error(t, err)
}
