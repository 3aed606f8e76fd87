// Package metrics provides centralized Prometheus metrics registry for the rating service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "courtside"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_processed_total",
		Help:      "Total number of games folded into ratings",
	})
	RatingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_runs_total",
		Help:      "Total number of rating runs by K-factor policy",
	}, []string{"policy"})
	SeriesProjectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_projections_total",
		Help:      "Total number of series probability calculations",
	})
	MarketComparisonsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "market_comparisons_total",
		Help:      "Total number of model versus market comparisons by risk level",
	}, []string{"risk_level"})
	CalculationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculation_errors_total",
		Help:      "Total number of rejected calculations by error kind",
	}, []string{"kind"})
)

// Gauge metrics
var (
	TeamsRated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "teams_rated",
		Help:      "Number of teams in the most recent rating run",
	})
)

// Histogram metrics
var (
	RatingRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rating_run_duration_seconds",
		Help:      "Duration of rating runs in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(GamesProcessedTotal)
		registry.MustRegister(RatingRunsTotal)
		registry.MustRegister(SeriesProjectionsTotal)
		registry.MustRegister(MarketComparisonsTotal)
		registry.MustRegister(CalculationErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(TeamsRated)

		// Register histogram metrics
		registry.MustRegister(RatingRunDuration)

		// Register API and cache metrics
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(RatingsCacheRequestsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRatingRun records a completed rating run.
func RecordRatingRun(policy string, games, teams int, durationSeconds float64) {
	RatingRunsTotal.WithLabelValues(policy).Inc()
	GamesProcessedTotal.Add(float64(games))
	TeamsRated.Set(float64(teams))
	RatingRunDuration.Observe(durationSeconds)
}

// RecordSeriesProjection records a series probability calculation.
func RecordSeriesProjection() {
	SeriesProjectionsTotal.Inc()
}

// RecordMarketComparison records one comparison against the market.
func RecordMarketComparison(riskLevel string) {
	MarketComparisonsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordCalculationError records a rejected calculation.
// kind should be one of: "configuration", "invalid_state", "domain", "degenerate", "unknown"
func RecordCalculationError(kind string) {
	CalculationErrorsTotal.WithLabelValues(kind).Inc()
}
