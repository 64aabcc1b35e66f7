package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
)

const maxOCRChars = 5000

// schemaExample is embedded into the prompt so the model sees the exact
// field set it must emit.
const schemaExample = `{
  "is_product": "Yes if it the website has a product on a shopping/ecommerce/any other website, No if it is some other website eg. google search, chatgpt, blogs, etc.",
  "product_name": "string",
  "Color": "color of the product if available",
  "Brand": "brand of the product that the product belongs to",
  "price": "string (numeric value with currency symbol if present)",
  "currency": "string or null (e.g. 'USD', 'INR', 'EUR')",
  "rating": "number or null (e.g. 4.5)",
  "rating_count": "integer or null (e.g. 1234)",
  "description": "string or null",
  "Category": "Electronics, Shoes, Clothing, Mobile, Home, etc.",
  "additional_attributes": {
    "key": "value (any other useful attributes like size, color, brand, etc.)"
  }
}`

// reconcilePrompt trusts OCR only when it clearly carries product signals;
// otherwise the scraped text wins. The tie-break wording is policy, not a
// hard contract.
const reconcilePrompt = `You are a robust product-information extraction engine.

You will receive TWO inputs:
1. OCR_TEXT = noisy, possibly incomplete screenshot OCR
2. SCRAPED_TEXT = clean structured text extracted from HTML

Rules:
- Use OCR_TEXT **only if** it contains clear product information.
- If OCR_TEXT is noisy, missing price/name/brand/color/etc., rely on SCRAPED_TEXT.
- Never ask for more info.
- Produce ONE final JSON object following EXACTLY this schema:

` + schemaExample + `

Additional rules:
- If a field is missing in BOTH OCR and SCRAPED TEXT, set it to null.
- Never invent unrealistic attributes.
- Output MUST be a valid JSON object and nothing else.`

const assistantPrompt = "You are a helpful shopping assistant. Do not chat like a bot, chat like a human " +
	"working in a shop. Use the retrieved products to answer. For every product displayed, include the URL " +
	"to the product. Also include all other available metadata like product name, price, etc."

// Client wraps the OpenAI API for reconciliation, embeddings, and assistant
// chat. One client is constructed at process start and shared.
type Client struct {
	api        *openai.Client
	model      string
	embedModel openai.EmbeddingModel
}

func New(apiKey, model, embedModel string) *Client {
	return &Client{
		api:        openai.NewClient(apiKey),
		model:      model,
		embedModel: openai.EmbeddingModel(embedModel),
	}
}

// Reconcile merges OCR text and page-extracted text into one product record
// via a JSON-mode completion. The model output must decode into the record
// schema; anything else is ErrReconcileParse.
func (c *Client) Reconcile(ctx context.Context, ocrText string, page entity.PageText) (*entity.ProductRecord, error) {
	pageJSON, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page text: %w", err)
	}

	if len(ocrText) > maxOCRChars {
		ocrText = ocrText[:maxOCRChars]
	}

	userPrompt := "OCR_TEXT:\n" + ocrText + "\n\nSCRAPED_TEXT:\n" + string(pageJSON) + "\n\nReturn ONE final JSON now:"

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reconcilePrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reconciliation completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion returned no choices", repository.ErrReconcileParse)
	}

	return DecodeRecord(resp.Choices[0].Message.Content)
}

// DecodeRecord parses raw model output into a product record. The raw output
// is carried in the error so a bad generation can be inspected.
func DecodeRecord(raw string) (*entity.ProductRecord, error) {
	var record entity.ProductRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("%w: %v: raw output: %s", repository.ErrReconcileParse, err, truncate(raw, 500))
	}
	record.IsProduct = normalizeIsProduct(record.IsProduct)
	if record.AdditionalAttributes == nil {
		record.AdditionalAttributes = map[string]string{}
	}
	return &record, nil
}

// normalizeIsProduct pins the classification to the two literal values the
// schema allows. Anything the model emits that is not an affirmative counts
// as "No".
func normalizeIsProduct(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "yes") {
		return "Yes"
	}
	return "No"
}

// Chat answers an assistant conversation with the shop-assistant persona.
func (c *Client) Chat(ctx context.Context, system string, messages []repository.ChatMessage) (string, error) {
	if system == "" {
		system = assistantPrompt
	}
	msgs := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages:    msgs,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// EmbedText returns the text embedding used for index upload and query.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: c.embedModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return resp.Data[0].Embedding, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
