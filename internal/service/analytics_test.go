package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/elo"
	"github.com/yourusername/courtside/internal/league"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/season"
	"github.com/yourusername/courtside/internal/series"
)

// MockGameSource mocks a game source
type MockGameSource struct {
	mock.Mock
}

func (m *MockGameSource) FetchGames(ctx context.Context) ([]models.GameRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameRecord), args.Error(1)
}

func (m *MockGameSource) Name() string {
	return "mock"
}

const (
	celtics = "Boston Celtics"
	knicks  = "New York Knicks"
	nuggets = "Denver Nuggets"
	thunder = "Oklahoma City Thunder"
)

func played(month time.Month, day int, year int, home, away string, homeScore, awayScore int) models.GameRecord {
	return models.GameRecord{
		Date:      time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Stage:     models.StageRegular,
	}
}

func seasonGames() []models.GameRecord {
	return []models.GameRecord{
		played(time.November, 2, 2024, celtics, knicks, 112, 104),
		played(time.November, 5, 2024, thunder, nuggets, 120, 101),
		played(time.December, 1, 2024, knicks, thunder, 99, 110),
		played(time.January, 9, 2025, nuggets, celtics, 118, 115),
		played(time.February, 14, 2025, celtics, thunder, 105, 111),
		played(time.March, 3, 2025, knicks, nuggets, 101, 100),
		// previous season, outside the 2024-25 window
		played(time.April, 10, 2024, knicks, celtics, 130, 90),
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestService(t *testing.T, src datasource.GameSource, cache *RatingsCache) (*AnalyticsService, *[]string) {
	t.Helper()
	requested := []string{}
	svc, err := NewAnalyticsService(Options{
		Elo:                  elo.DefaultConfig(),
		ProbabilityHomeBonus: 65,
		Seasons:              season.NewCatalogue(time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)),
		League:               league.Default(),
		Sources: func(seasonID string) datasource.GameSource {
			requested = append(requested, seasonID)
			return src
		},
		Cache:  cache,
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	return svc, &requested
}

func TestRatingsUsesCache(t *testing.T) {
	src := &MockGameSource{}
	src.On("FetchGames", mock.Anything).Return(seasonGames(), nil).Once()
	svc, requested := newTestService(t, src, NewRatingsCache(time.Minute))

	first, err := svc.Ratings(context.Background(), RatingsRequest{})
	require.NoError(t, err)
	second, err := svc.Ratings(context.Background(), RatingsRequest{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"2024-25"}, *requested)
	assert.Equal(t, 7, first.Snapshot.Stats.TotalGames)
	src.AssertExpectations(t)

	hits, misses, ratio := svc.Cache().Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestRatingsForSeasonUsesSeasonWindow(t *testing.T) {
	src := &MockGameSource{}
	src.On("FetchGames", mock.Anything).Return(seasonGames(), nil)
	svc, _ := newTestService(t, src, nil)

	report, err := svc.Ratings(context.Background(), RatingsRequest{Season: "2024-25"})
	require.NoError(t, err)

	assert.Equal(t, "2024-25", report.Season)
	assert.Equal(t, 6, report.Snapshot.Stats.TotalGames)
	assert.Len(t, report.Snapshot.Ratings, 4)

	total := 0.0
	for _, r := range report.Snapshot.Ratings {
		total += r.Rating
		assert.NotEqual(t, league.Unknown, r.Conference)
	}
	assert.InDelta(t, 4*models.BaselineRating, total, 1e-9)

	assert.Contains(t, report.ConferenceAverages, league.Eastern)
	assert.Contains(t, report.ConferenceAverages, league.Western)
	assert.InDelta(t, 2*models.BaselineRating,
		report.ConferenceAverages[league.Eastern]+report.ConferenceAverages[league.Western], 1e-9)
}

func TestRatingsRequestOverrides(t *testing.T) {
	src := &MockGameSource{}
	src.On("FetchGames", mock.Anything).Return(seasonGames(), nil)
	svc, _ := newTestService(t, src, NewRatingsCache(time.Minute))

	mov := true
	report, err := svc.Ratings(context.Background(), RatingsRequest{KFactorType: "decreasing", MarginOfVictory: &mov})
	require.NoError(t, err)
	assert.Equal(t, "decreasing", report.Snapshot.Policy)

	_, err = svc.Ratings(context.Background(), RatingsRequest{KFactorType: "sigmoid"})
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = svc.Ratings(context.Background(), RatingsRequest{Season: "1999-00"})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestRatingsSourceError(t *testing.T) {
	src := &MockGameSource{}
	src.On("FetchGames", mock.Anything).Return(nil, datasource.NewSourceError("mock", datasource.ErrCodeNotFound, "missing", datasource.ErrNotFound))
	svc, _ := newTestService(t, src, nil)

	_, err := svc.Ratings(context.Background(), RatingsRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, datasource.ErrNotFound))
	assert.False(t, IsClientError(err))
}

func TestWinProbability(t *testing.T) {
	src := &MockGameSource{}
	src.On("FetchGames", mock.Anything).Return(seasonGames(), nil)
	svc, _ := newTestService(t, src, NewRatingsCache(time.Minute))

	result, err := svc.WinProbability(context.Background(), RatingsRequest{}, thunder, knicks)
	require.NoError(t, err)

	assert.Greater(t, result.RatingA, result.RatingB)
	assert.Greater(t, result.Neutral.TeamA, 50.0)
	assert.InDelta(t, 100.0, result.Neutral.TeamA+result.Neutral.TeamB, 1e-9)
	assert.Greater(t, result.TeamAHome.TeamA, result.Neutral.TeamA)
	assert.Less(t, result.TeamBHome.TeamA, result.Neutral.TeamA)

	_, err = svc.WinProbability(context.Background(), RatingsRequest{}, thunder, "Seattle SuperSonics")
	assert.ErrorIs(t, err, models.ErrDomain)
	assert.True(t, IsClientError(err))
}

func TestSeriesForTeams(t *testing.T) {
	src := &MockGameSource{}
	src.On("FetchGames", mock.Anything).Return(seasonGames(), nil)
	svc, _ := newTestService(t, src, NewRatingsCache(time.Minute))

	result, err := svc.SeriesForTeams(context.Background(), RatingsRequest{}, models.SeriesState{
		TeamA: thunder, TeamB: celtics, SeedA: 1, SeedB: 2, WinsA: 1,
	})
	require.NoError(t, err)

	assert.Greater(t, result.ProbabilityA, 0.5)
	assert.Equal(t, thunder, result.HigherSeed)
	assert.NotZero(t, result.State.RatingA)

	_, err = svc.SeriesProbability(models.SeriesState{SeedA: 1, SeedB: 2, WinsA: 4})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	sim, err := svc.SimulateSeries(context.Background(), result.State, series.SimulationConfig{Iterations: 20000, Seed: 11})
	require.NoError(t, err)
	assert.InDelta(t, result.ProbabilityA, sim.ProbabilityA, 0.03)
}

func TestAnalyzeMarket(t *testing.T) {
	svc, _ := newTestService(t, &MockGameSource{}, nil)
	marketProb := 25.0

	analysis, err := svc.AnalyzeMarket(MarketRequest{
		TeamA:             "Indiana Pacers",
		TeamB:             thunder,
		MarketProbability: &marketProb,
		Estimates:         []EstimateInput{{Model: "elo", Probability: 35}},
	})
	require.NoError(t, err)
	require.Len(t, analysis.Comparisons, 1)
	assert.Equal(t, models.AdaptiveElo, analysis.Comparisons[0].Model)
	assert.InDelta(t, 10.0, analysis.Comparisons[0].Analysis.EstimatedEdge, 1e-9)
	assert.Equal(t, models.RiskModerateEdge, analysis.Comparisons[0].Analysis.RiskLevel)

	odds := 50.0
	_, err = svc.AnalyzeMarket(MarketRequest{MarketOdds: &odds})
	assert.ErrorIs(t, err, models.ErrDomain)

	_, err = svc.AnalyzeMarket(MarketRequest{Estimates: []EstimateInput{{Model: "elo", Probability: 35}}})
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestNewAnalyticsServiceRequiresSource(t *testing.T) {
	_, err := NewAnalyticsService(Options{})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestGamesSourceFactory(t *testing.T) {
	local := GamesSourceFactory("data/nba_{season}_games.json", config.RemoteConfig{}, quietLogger())("2024-25")
	file, ok := local.(*datasource.FileSource)
	require.True(t, ok)
	assert.Equal(t, "data/nba_2024-25_games.json", file.Path())

	remote := GamesSourceFactory("https://example.com/games/{season}.json", config.RemoteConfig{MaxRetries: 1}, quietLogger())("2023-24")
	assert.IsType(t, &datasource.HTTPSource{}, remote)
}
