// Package metrics provides Prometheus metrics for the portal gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alumnet"

var (
	// UpstreamRequestsTotal counts calls to the content, follow and messaging services.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream service calls",
		},
		[]string{"service", "operation", "outcome"},
	)

	// UpstreamRequestDuration measures upstream call latency including retries.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream service calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	// FollowActionsTotal counts follow, unfollow and conversation actions.
	FollowActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "follow_actions_total",
			Help:      "Total number of follow and messaging actions",
		},
		[]string{"action", "outcome"},
	)

	// FeedEntries observes the size of the aggregated feed before paging.
	FeedEntries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_entries",
			Help:      "Distribution of aggregated feed sizes",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// ContentCacheTotal counts content cache lookups.
	ContentCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_cache_total",
			Help:      "Total number of content cache lookups",
		},
		[]string{"collection", "result"},
	)

	// HTTPRequestsTotal counts requests served by the gateway.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request handling latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordUpstream records one upstream call.
func RecordUpstream(service, operation, outcome string, duration float64) {
	UpstreamRequestsTotal.WithLabelValues(service, operation, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(duration)
}

// RecordFollowAction records a follow action.
func RecordFollowAction(action, outcome string) {
	FollowActionsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordCache records a content cache lookup. result is hit, miss or error.
func RecordCache(collection, result string) {
	ContentCacheTotal.WithLabelValues(collection, result).Inc()
}

// RecordHTTP records a served request.
func RecordHTTP(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}
