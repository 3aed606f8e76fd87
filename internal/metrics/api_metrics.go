// Package metrics defines API and cache metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// API counter vectors
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of API requests by route and status code",
	}, []string{"route", "status"})
	RatingsCacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_cache_requests_total",
		Help:      "Ratings cache lookups by result",
	}, []string{"result"})
)

// API histogram vectors
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// RecordHTTPRequest records a served API request.
func RecordHTTPRequest(route, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordCacheLookup records a ratings cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	RatingsCacheRequestsTotal.WithLabelValues(result).Inc()
}
