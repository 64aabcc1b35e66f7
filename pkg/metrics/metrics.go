package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ItemsInQueue        prometheus.Gauge
	PipelineItemsTotal  *prometheus.CounterVec
	StageDuration       *prometheus.HistogramVec
	FetchStrategyTotal  *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ItemsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_items_in_queue",
			Help: "Current number of history items in the pending queue.",
		},
	)

	PipelineItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_items_total",
			Help: "Total number of pipeline item runs.",
		},
		[]string{"status", "error_type"}, // status: product, non_product, failure
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"stage"},
	)

	FetchStrategyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_strategy_total",
			Help: "Fetch attempts per strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)
}
