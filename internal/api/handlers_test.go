package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/season"
	"github.com/yourusername/courtside/internal/service"
)

// staticSource serves a fixed list of games
type staticSource struct {
	games []models.GameRecord
	err   error
}

func (s staticSource) FetchGames(ctx context.Context) ([]models.GameRecord, error) {
	return s.games, s.err
}

func (s staticSource) Name() string {
	return "static"
}

func game(date string, home, away string, homeScore, awayScore int) models.GameRecord {
	d, _ := time.Parse("2006-01-02", date)
	return models.GameRecord{Date: d, HomeTeam: home, AwayTeam: away, HomeScore: homeScore, AwayScore: awayScore, Stage: models.StageRegular}
}

func testGames() []models.GameRecord {
	return []models.GameRecord{
		game("2024-11-01", "Boston Celtics", "Indiana Pacers", 120, 100),
		game("2024-12-01", "Oklahoma City Thunder", "Boston Celtics", 110, 104),
		game("2025-01-15", "Indiana Pacers", "Oklahoma City Thunder", 99, 118),
		game("2025-02-20", "Oklahoma City Thunder", "Indiana Pacers", 125, 101),
	}
}

func newTestServer(t *testing.T, src datasource.GameSource) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	svc, err := service.NewAnalyticsService(service.Options{
		ProbabilityHomeBonus: 65,
		Seasons:              season.NewCatalogue(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Sources:              func(string) datasource.GameSource { return src },
		Cache:                service.NewRatingsCache(time.Minute),
		Logger:               log,
	})
	require.NoError(t, err)

	return NewServer(Config{
		ServiceName: "courtside-test",
		Version:     "test",
		MetricsPath: "/metrics",
		Logger:      log,
		Service:     svc,
	})
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	w = do(t, srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-25", decodeBody(t, w)["current_season"])

	srv.SetReady(false)
	w = do(t, srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTeamsAndSeasons(t *testing.T) {
	srv := newTestServer(t, staticSource{})

	w := do(t, srv, http.MethodGet, "/api/teams", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(30), decodeBody(t, w)["count"])

	w = do(t, srv, http.MethodGet, "/api/seasons", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "2024-25", body["current"])
	assert.NotEmpty(t, body["seasons"])
}

func TestRatingsEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodPost, "/api/ratings", `{"season":"2024-25","k_factor_type":"decreasing"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "2024-25", body["season"])
	snapshot := body["snapshot"].(map[string]interface{})
	assert.Equal(t, "decreasing", snapshot["policy"])
	results := snapshot["results"].([]interface{})
	require.Len(t, results, 3)
	assert.Equal(t, "Oklahoma City Thunder", results[0].(map[string]interface{})["team"])
}

func TestRatingsEndpointWindow(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodPost, "/api/ratings", `{"start_date":"2024-11-01","end_date":"2024-11-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeBody(t, w)["snapshot"].(map[string]interface{})["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total_games"])

	w = do(t, srv, http.MethodPost, "/api/ratings", `{"start_date":"2024-11-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "configuration", decodeBody(t, w)["kind"])
}

func TestRatingsEndpointRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	tests := []struct {
		name string
		body string
		kind string
	}{
		{"malformed", `{"season":`, "malformed"},
		{"unknown field", `{"colour":"green"}`, "malformed"},
		{"unknown policy", `{"k_factor_type":"sigmoid"}`, "validation"},
		{"uncatalogued season", `{"season":"1990-91"}`, "configuration"},
		{"non-positive fixed k", `{"k_factor_type":"fixed","k_factor_value":0}`, "configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/ratings", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.kind, decodeBody(t, w)["kind"])
		})
	}
}

func TestRatingsEndpointSourceFailure(t *testing.T) {
	srv := newTestServer(t, staticSource{err: errors.New("disk on fire")})

	w := do(t, srv, http.MethodPost, "/api/ratings", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decodeBody(t, w)["message"])
}

func TestRatingsEndpointMissingGamesFile(t *testing.T) {
	missing := datasource.NewSourceError(datasource.SourceName, datasource.ErrCodeNotFound,
		"games file data/nba_2024-25_games.json", datasource.ErrNotFound)
	srv := newTestServer(t, staticSource{err: missing})

	w := do(t, srv, http.MethodPost, "/api/ratings", `{"season":"2024-25"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "not_found", body["kind"])
	assert.Contains(t, body["message"], "data/nba_2024-25_games.json")

	w = do(t, srv, http.MethodPost, "/api/win-probability",
		`{"team_a":"Boston Celtics","team_b":"Indiana Pacers"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRatingsEndpointHistory(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodPost, "/api/ratings", `{"season":"2024-25","history":"Indiana Pacers"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "2024-25", body["season"])

	history := body["history"].([]interface{})
	require.Len(t, history, 3)
	first := history[0].(map[string]interface{})
	assert.Equal(t, "Boston Celtics", first["opponent"])
	assert.Equal(t, false, first["home"])
	assert.Equal(t, false, first["won"])
	assert.Equal(t, float64(1), first["game"])

	w = do(t, srv, http.MethodPost, "/api/ratings", `{"season":"2024-25"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w), "history")

	w = do(t, srv, http.MethodPost, "/api/ratings", `{"season":"2024-25","history":"Seattle SuperSonics"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "domain", decodeBody(t, w)["kind"])
}

func TestCompareEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodPost, "/api/ratings/compare", `{"policies":["fixed:20","fixed:40","decreasing"],"movers":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Len(t, body["policies"], 3)
	assert.Len(t, body["teams"], 3)
	assert.Len(t, body["biggest_movers"], 2)

	w = do(t, srv, http.MethodPost, "/api/ratings/compare", `{"policies":["fixed:-1"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWinProbabilityEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodPost, "/api/win-probability", `{"team_a":"Oklahoma City Thunder","team_b":"Indiana Pacers"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeBody(t, w)["result"].(map[string]interface{})
	neutral := result["neutral_site"].(map[string]interface{})
	assert.Greater(t, neutral["team_a_prob"].(float64), 50.0)
	assert.InDelta(t, 100.0, neutral["team_a_prob"].(float64)+neutral["team_b_prob"].(float64), 1e-9)

	w = do(t, srv, http.MethodPost, "/api/win-probability", `{"team_a":"Oklahoma City Thunder","team_b":"Oklahoma City Thunder"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/win-probability", `{"team_a":"Oklahoma City Thunder","team_b":"Utah Jazz"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "domain", decodeBody(t, w)["kind"])
}

func TestSeriesEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{games: testGames()})

	w := do(t, srv, http.MethodPost, "/api/series-probability",
		`{"team_a":"Indiana Pacers","team_b":"Oklahoma City Thunder","seed_a":4,"seed_b":1,"wins_a":1,"rating_a":1500,"rating_b":1500}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Oklahoma City Thunder", body["higher_seed"])
	assert.Equal(t, float64(2), body["next_game"])
	assert.Less(t, body["next_game_prob_a"].(float64), 0.5)

	w = do(t, srv, http.MethodPost, "/api/series-probability",
		`{"team_a":"Oklahoma City Thunder","team_b":"Boston Celtics","seed_a":1,"seed_b":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Greater(t, decodeBody(t, w)["series_prob_a"].(float64), 0.5)
	assert.NotContains(t, decodeBody(t, w), "simulation")

	w = do(t, srv, http.MethodPost, "/api/series-probability",
		`{"team_a":"Indiana Pacers","team_b":"Oklahoma City Thunder","seed_a":4,"seed_b":1,"rating_a":1500,"rating_b":1500,"simulations":5000,"seed":9}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeBody(t, w)
	sim := body["simulation"].(map[string]interface{})
	assert.Equal(t, float64(5000), sim["iterations"])
	assert.InDelta(t, body["series_prob_a"].(float64), sim["series_prob_a"].(float64), 0.05)

	w = do(t, srv, http.MethodPost, "/api/series-probability",
		`{"team_a":"Indiana Pacers","team_b":"Oklahoma City Thunder","seed_a":4,"seed_b":1,"wins_b":4,"rating_a":1500,"rating_b":1500}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeBody(t, w)["kind"])
}

func TestMarketAnalysisEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{})

	w := do(t, srv, http.MethodPost, "/api/market-analysis",
		`{"team_a":"Indiana Pacers","team_b":"Oklahoma City Thunder","market_probability":25,"estimates":[{"model":"elo","probability":35}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Contains(t, body["report"], "Market Analysis Report")
	comparisons := body["analysis"].(map[string]interface{})["comparisons"].([]interface{})
	require.Len(t, comparisons, 1)

	w = do(t, srv, http.MethodPost, "/api/market-analysis", `{"market_probability":100,"estimates":[{"model":"elo","probability":35}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOddsEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{})

	w := do(t, srv, http.MethodGet, "/api/odds?american=-150", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.InDelta(t, 60.0, body["implied_probability"].(float64), 1e-9)
	assert.Equal(t, "-150", body["formatted"])

	w = do(t, srv, http.MethodGet, "/api/odds?probability=25", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+300", decodeBody(t, w)["formatted"])

	w = do(t, srv, http.MethodGet, "/api/odds?american=50", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodGet, "/api/odds", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, staticSource{})
	do(t, srv, http.MethodGet, "/health", "")

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `courtside_http_requests_total{route="/health",status="200"}`)
}
