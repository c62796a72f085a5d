package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendQueryDuration tracks round trips to the Remote Data Backend.
	BackendQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_query_duration_seconds",
			Help:    "Remote data backend call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route", "status"},
	)

	TaskMutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_mutation_count",
			Help: "Total number of optimistic task mutations by outcome",
		},
		[]string{"outcome"}, // committed, rolled_back
	)

	CacheLookupCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_lookup_count",
			Help: "Query cache lookups by result",
		},
		[]string{"result"}, // hit, miss, stale
	)
)

func RecordBackendQueryDuration(operation, table string, duration time.Duration) {
	BackendQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func IncrementTaskMutation(outcome string) {
	TaskMutationCount.WithLabelValues(outcome).Inc()
}

func IncrementCacheLookup(result string) {
	CacheLookupCount.WithLabelValues(result).Inc()
}
