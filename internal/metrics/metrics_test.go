package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordRatingRun(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(GamesProcessedTotal)
	runsBefore := testutil.ToFloat64(RatingRunsTotal.WithLabelValues("decreasing"))

	RecordRatingRun("decreasing", 1230, 30, 0.02)

	assert.Equal(t, before+1230, testutil.ToFloat64(GamesProcessedTotal))
	assert.Equal(t, runsBefore+1, testutil.ToFloat64(RatingRunsTotal.WithLabelValues("decreasing")))
	assert.Equal(t, float64(30), testutil.ToFloat64(TeamsRated))
}

func TestRecordCalculationError(t *testing.T) {
	InitRegistry()

	tests := []string{"configuration", "invalid_state", "domain", "degenerate", "unknown"}
	for _, kind := range tests {
		t.Run(kind, func(t *testing.T) {
			before := testutil.ToFloat64(CalculationErrorsTotal.WithLabelValues(kind))
			RecordCalculationError(kind)
			assert.Equal(t, before+1, testutil.ToFloat64(CalculationErrorsTotal.WithLabelValues(kind)))
		})
	}
}

func TestRecordSeriesAndMarket(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SeriesProjectionsTotal)

	assert.NotPanics(t, func() {
		RecordSeriesProjection()
		RecordMarketComparison("Moderate Edge")
	})
	assert.Equal(t, before+1, testutil.ToFloat64(SeriesProjectionsTotal))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(RatingsCacheRequestsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(RatingsCacheRequestsTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(RatingsCacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(RatingsCacheRequestsTotal.WithLabelValues("miss")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	InitRegistry()
	RecordHTTPRequest("/api/teams", "200", 0.004)

	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "courtside_http_requests_total")
	assert.Contains(t, string(body), "courtside_games_processed_total")
}
