package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/shopscout-service/internal/delivery/http/handler"
	"github.com/user/shopscout-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/history", h.HandleIngestHistory)
	mux.HandleFunc("GET /api/queue", h.HandleQueueStatus)
	mux.HandleFunc("GET /api/preferences", h.HandlePreferences)
	mux.HandleFunc("POST /api/assistant/chat", h.HandleAssistantChat)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
