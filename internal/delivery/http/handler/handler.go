package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/shopscout-service/internal/delivery/http/request"
	"github.com/user/shopscout-service/internal/delivery/http/response"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/usecase"
)

type Handler struct {
	ingestor    usecase.Ingestor
	preferences usecase.PreferenceComputer
	assistant   usecase.Assistant
}

// NewHandler wires the HTTP handlers. preferences and assistant may be nil
// when the process runs without postgres or the search index; the
// corresponding endpoints then report 503.
func NewHandler(ingestor usecase.Ingestor, preferences usecase.PreferenceComputer, assistant usecase.Assistant) *Handler {
	return &Handler{
		ingestor:    ingestor,
		preferences: preferences,
		assistant:   assistant,
	}
}

// HandleIngestHistory accepts a JSON array of history items and queues them
// for the pipeline worker. force=true re-queues recently seen URLs.
func (h *Handler) HandleIngestHistory(w http.ResponseWriter, r *http.Request) {
	var items []entity.HistoryItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		h.writeJSONError(w, "Expected a JSON array of history items", http.StatusBadRequest)
		return
	}

	force := r.URL.Query().Get("force") == "true"

	summary, err := h.ingestor.SubmitBatch(r.Context(), items, force)
	if err != nil {
		slog.Error("Failed to ingest history batch", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, response.IngestResponse{
		Status:     "success",
		Message:    "History items queued for processing",
		Received:   summary.Received,
		Queued:     summary.Queued,
		Duplicates: summary.Duplicates,
		Invalid:    summary.Invalid,
	})
}

// HandleQueueStatus reports the pending-queue depth.
func (h *Handler) HandleQueueStatus(w http.ResponseWriter, r *http.Request) {
	size, err := h.ingestor.QueueSize(r.Context())
	if err != nil {
		slog.Error("Failed to read queue size", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.QueueStatusResponse{Pending: size})
}

// HandlePreferences computes and returns the preference profile.
func (h *Handler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	if h.preferences == nil {
		h.writeJSONError(w, "Preference profile is not available", http.StatusServiceUnavailable)
		return
	}
	profile, err := h.preferences.ComputeProfile(r.Context())
	if err != nil {
		slog.Error("Failed to compute preference profile", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// HandleAssistantChat answers one shopping question over the index.
func (h *Handler) HandleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		h.writeJSONError(w, "Assistant is not available", http.StatusServiceUnavailable)
		return
	}

	var req request.AssistantChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	answer, err := h.assistant.Ask(r.Context(), req.Query, nil)
	if err != nil {
		slog.Error("Assistant request failed", "query", req.Query, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.AssistantChatResponse{Answer: answer})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
