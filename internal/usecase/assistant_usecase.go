package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/user/shopscout-service/internal/repository"
)

const (
	textVectorField  = "text_vector"
	imageVectorField = "image_vector"

	textVectorK  = 20
	lexicalK     = 10
	imageVectorK = 5
)

const assistantSystemPrompt = "You are a helpful shopping assistant. Do not chat like a bot, chat like a human " +
	"working in a shop. Use the retrieved products below to answer the customer. For every product displayed, " +
	"include the URL to the product. Also include all other available metadata like product name, price, etc."

// Assistant answers shopping questions over the product index.
type Assistant interface {
	Ask(ctx context.Context, query string, history []repository.ChatMessage) (string, error)
}

type assistantUseCase struct {
	index         repository.SearchIndexRepository
	textEmbedder  repository.TextEmbedder
	imageEmbedder repository.ImageEmbedder
	chat          repository.ChatRepository
}

func NewAssistant(
	index repository.SearchIndexRepository,
	textEmbedder repository.TextEmbedder,
	imageEmbedder repository.ImageEmbedder,
	chat repository.ChatRepository,
) Assistant {
	return &assistantUseCase{
		index:         index,
		textEmbedder:  textEmbedder,
		imageEmbedder: imageEmbedder,
		chat:          chat,
	}
}

type searchHit struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Product string `json:"product"`
}

type searchResults struct {
	TextHits  []searchHit `json:"text_hits"`
	ImageHits []searchHit `json:"image_hits"`
}

// Ask retrieves products for the query and answers with a grounded chat
// completion. Retrieval blends a text-vector pass, a lexical pass, and an
// image-vector pass; any single pass failing degrades retrieval instead of
// failing the question.
func (uc *assistantUseCase) Ask(ctx context.Context, query string, history []repository.ChatMessage) (string, error) {
	results := uc.productSearch(ctx, query)

	context, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal search results: %w", err)
	}

	messages := append([]repository.ChatMessage{}, history...)
	messages = append(messages, repository.ChatMessage{
		Role:    "user",
		Content: "Retrieved products:\n" + string(context) + "\n\nCustomer question: " + query,
	})

	answer, err := uc.chat.Chat(ctx, assistantSystemPrompt, messages)
	if err != nil {
		return "", fmt.Errorf("assistant chat failed: %w", err)
	}
	return answer, nil
}

// productSearch runs the three retrieval passes and merges the text-side
// hits, lexical results ranking first.
func (uc *assistantUseCase) productSearch(ctx context.Context, query string) searchResults {
	var results searchResults
	seen := map[string]bool{}

	appendText := func(hits []repository.IndexHit) {
		for _, h := range hits {
			if seen[h.ID] {
				continue
			}
			seen[h.ID] = true
			results.TextHits = append(results.TextHits, searchHit{ID: h.ID, Content: h.Content, Product: h.ProductJSON})
		}
	}

	if hits, err := uc.index.SearchLexical(ctx, query, lexicalK); err != nil {
		slog.Warn("Lexical search failed", "query", query, "error", err)
	} else {
		appendText(hits)
	}

	if vector, err := uc.textEmbedder.EmbedText(ctx, query); err != nil {
		slog.Warn("Query text embedding failed", "query", query, "error", err)
	} else if hits, err := uc.index.SearchVector(ctx, textVectorField, vector, textVectorK); err != nil {
		slog.Warn("Text vector search failed", "query", query, "error", err)
	} else {
		appendText(hits)
	}

	if uc.imageEmbedder != nil {
		if vector, err := uc.imageEmbedder.EmbedQuery(ctx, query); err != nil {
			slog.Warn("Query image embedding failed", "query", query, "error", err)
		} else if hits, err := uc.index.SearchVector(ctx, imageVectorField, vector, imageVectorK); err != nil {
			slog.Warn("Image vector search failed", "query", query, "error", err)
		} else {
			for _, h := range hits {
				results.ImageHits = append(results.ImageHits, searchHit{ID: h.ID, Content: h.Content, Product: h.ProductJSON})
			}
		}
	}

	return results
}
