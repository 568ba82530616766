package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for fetch operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manga_etl_fetch_requests_total",
		Help: "Total upstream API requests by host and status",
	}, []string{"host", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "manga_etl_fetch_request_duration_seconds",
		Help:    "Upstream API request duration in seconds by host",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"host"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_fetch_retries_total",
		Help: "Total number of retry attempts",
	})

	retryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "manga_etl_fetch_retry_backoff_seconds",
		Help:    "Backoff duration before retries",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	retryExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_fetch_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted",
	})

	fallbackUsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_fetch_fallback_used_total",
		Help: "Pages for which the fallback endpoint was attempted",
	})

	endOfDataTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_fetch_end_of_data_total",
		Help: "HTTP 400 responses treated as end of pagination",
	})
)
