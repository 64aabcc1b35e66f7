package clip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the CLIP embedding sidecar, which serves normalized image
// and text embeddings over HTTP. Image and query vectors share one space so
// text queries can match image vectors in the index.
type Client struct {
	endpoint string
	http     *http.Client
}

func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	ImageURL string `json:"image_url,omitempty"`
	Text     string `json:"text,omitempty"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedImageURL embeds the image behind url. A 4xx from the sidecar means
// the image itself could not be fetched; that is reported as no vector
// rather than an error so records still get indexed without one.
func (c *Client) EmbedImageURL(ctx context.Context, url string) ([]float32, error) {
	vec, status, err := c.embed(ctx, "/embed/image", embedRequest{ImageURL: url})
	if err != nil {
		return nil, err
	}
	if status >= 400 && status < 500 {
		return nil, nil
	}
	return vec, nil
}

// EmbedQuery embeds free text into the image-embedding space.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, status, err := c.embed(ctx, "/embed/text", embedRequest{Text: text})
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("clip sidecar returned status %d", status)
	}
	return vec, nil
}

func (c *Client) embed(ctx context.Context, path string, payload embedRequest) ([]float32, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("clip sidecar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("clip sidecar returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode clip response: %w", err)
	}
	return parsed.Embedding, resp.StatusCode, nil
}
