package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
	"github.com/user/shopscout-service/internal/usecase"
)

type MockIngestor struct {
	SubmitBatchFunc func(ctx context.Context, items []entity.HistoryItem, force bool) (*usecase.IngestSummary, error)
	QueueSizeFunc   func(ctx context.Context) (int64, error)
	LastForce       bool
}

func (m *MockIngestor) SubmitBatch(ctx context.Context, items []entity.HistoryItem, force bool) (*usecase.IngestSummary, error) {
	m.LastForce = force
	if m.SubmitBatchFunc != nil {
		return m.SubmitBatchFunc(ctx, items, force)
	}
	return &usecase.IngestSummary{Received: len(items), Queued: len(items)}, nil
}

func (m *MockIngestor) QueueSize(ctx context.Context) (int64, error) {
	if m.QueueSizeFunc != nil {
		return m.QueueSizeFunc(ctx)
	}
	return 0, nil
}

type MockPreferences struct {
	ComputeProfileFunc func(ctx context.Context) (*entity.PreferenceProfile, error)
}

func (m *MockPreferences) ComputeProfile(ctx context.Context) (*entity.PreferenceProfile, error) {
	if m.ComputeProfileFunc != nil {
		return m.ComputeProfileFunc(ctx)
	}
	return &entity.PreferenceProfile{UserID: "default_user"}, nil
}

type MockAssistant struct {
	AskFunc func(ctx context.Context, query string, history []repository.ChatMessage) (string, error)
}

func (m *MockAssistant) Ask(ctx context.Context, query string, history []repository.ChatMessage) (string, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, query, history)
	}
	return "answer", nil
}

func TestHandleIngestHistory(t *testing.T) {
	ingestor := &MockIngestor{}
	h := NewHandler(ingestor, nil, nil)

	body := `[{"url": "https://shop.com/item", "lastVisitTime": 1700000000}]`
	req := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleIngestHistory(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.False(t, ingestor.LastForce)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(1), resp["queued"])
}

func TestHandleIngestHistory_ForceFlag(t *testing.T) {
	ingestor := &MockIngestor{}
	h := NewHandler(ingestor, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/history?force=true", strings.NewReader(`[]`))
	rec := httptest.NewRecorder()

	h.HandleIngestHistory(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, ingestor.LastForce)
}

func TestHandleIngestHistory_InvalidBody(t *testing.T) {
	h := NewHandler(&MockIngestor{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/history", strings.NewReader(`{"not": "an array"`))
	rec := httptest.NewRecorder()

	h.HandleIngestHistory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleQueueStatus(t *testing.T) {
	ingestor := &MockIngestor{
		QueueSizeFunc: func(ctx context.Context) (int64, error) { return 7, nil },
	}
	h := NewHandler(ingestor, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleQueueStatus(rec, httptest.NewRequest(http.MethodGet, "/api/queue", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pending": 7}`, rec.Body.String())
}

func TestHandlePreferences_Unavailable(t *testing.T) {
	h := NewHandler(&MockIngestor{}, nil, nil)

	rec := httptest.NewRecorder()
	h.HandlePreferences(rec, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePreferences(t *testing.T) {
	h := NewHandler(&MockIngestor{}, &MockPreferences{}, nil)

	rec := httptest.NewRecorder()
	h.HandlePreferences(rec, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "default_user")
}

func TestHandleAssistantChat(t *testing.T) {
	assistant := &MockAssistant{
		AskFunc: func(ctx context.Context, query string, history []repository.ChatMessage) (string, error) {
			assert.Equal(t, "red sneakers", query)
			return "try these", nil
		},
	}
	h := NewHandler(&MockIngestor{}, nil, assistant)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(`{"query": "red sneakers"}`))
	rec := httptest.NewRecorder()

	h.HandleAssistantChat(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer": "try these"}`, rec.Body.String())
}

func TestHandleAssistantChat_EmptyQuery(t *testing.T) {
	h := NewHandler(&MockIngestor{}, nil, &MockAssistant{})

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.HandleAssistantChat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssistantChat_AskError(t *testing.T) {
	assistant := &MockAssistant{
		AskFunc: func(ctx context.Context, query string, history []repository.ChatMessage) (string, error) {
			return "", errors.New("model overloaded")
		},
	}
	h := NewHandler(&MockIngestor{}, nil, assistant)

	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(`{"query": "x"}`))
	rec := httptest.NewRecorder()

	h.HandleAssistantChat(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewHandler(&MockIngestor{}, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
