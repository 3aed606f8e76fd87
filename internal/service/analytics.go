package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/elo"
	"github.com/yourusername/courtside/internal/league"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/market"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/probability"
	"github.com/yourusername/courtside/internal/season"
	"github.com/yourusername/courtside/internal/series"
)

// SourceFactory returns the game source for a season id
type SourceFactory func(seasonID string) datasource.GameSource

// GamesSourceFactory resolves a games location template per season. Remote
// locations share one rate-limited client.
func GamesSourceFactory(template string, remote config.RemoteConfig, log *logrus.Logger) SourceFactory {
	var client *datasource.RateLimitedHTTPClient
	if datasource.IsRemote(template) {
		httpCfg := datasource.DefaultHTTPClientConfig()
		if remote.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(remote.TimeoutSeconds) * time.Second
		}
		httpCfg.MaxRetries = remote.MaxRetries
		httpCfg.RateLimit = remote.RateLimit
		client = datasource.NewRateLimitedHTTPClient(httpCfg, log)
	}
	return func(seasonID string) datasource.GameSource {
		return datasource.NewSource(datasource.ResolvePath(template, seasonID), client, log)
	}
}

// Options wires an AnalyticsService
type Options struct {
	Elo                  elo.Config
	ProbabilityHomeBonus float64
	Series               *series.Calculator
	Edge                 *market.EdgeCalculator
	Seasons              *season.Catalogue
	League               *league.Directory
	Sources              SourceFactory
	Cache                *RatingsCache
	Logger               *logrus.Logger
}

// AnalyticsService answers rating, probability, series and market questions
type AnalyticsService struct {
	elo       elo.Config
	homeBonus float64
	series    *series.Calculator
	edge      *market.EdgeCalculator
	seasons   *season.Catalogue
	league    *league.Directory
	sources   SourceFactory
	cache     *RatingsCache
	logger    *logrus.Logger
	analytics *logger.AnalyticsLogger
}

// NewAnalyticsService creates the service, filling unset collaborators with
// their defaults
func NewAnalyticsService(opts Options) (*AnalyticsService, error) {
	if opts.Sources == nil {
		return nil, fmt.Errorf("%w: a game source factory is required", models.ErrConfiguration)
	}
	if opts.Elo.KFactor == nil {
		opts.Elo = elo.DefaultConfig()
	}
	if err := opts.Elo.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Series == nil {
		opts.Series = series.NewCalculator(series.DefaultHomeCourtBonus)
	}
	if opts.Edge == nil {
		edge, err := market.NewEdgeCalculator(market.DefaultBands())
		if err != nil {
			return nil, err
		}
		opts.Edge = edge
	}
	if opts.Seasons == nil {
		opts.Seasons = season.NewCatalogue(time.Now())
	}
	if opts.League == nil {
		opts.League = league.Default()
	}

	return &AnalyticsService{
		elo:       opts.Elo,
		homeBonus: opts.ProbabilityHomeBonus,
		series:    opts.Series,
		edge:      opts.Edge,
		seasons:   opts.Seasons,
		league:    opts.League,
		sources:   opts.Sources,
		cache:     opts.Cache,
		logger:    opts.Logger,
		analytics: logger.NewAnalyticsLogger(opts.Logger),
	}, nil
}

// NewFromConfig builds the service described by the configuration file
func NewFromConfig(cfg *config.Config, log *logrus.Logger) (*AnalyticsService, error) {
	eloCfg, err := elo.EngineConfigFromConfig(cfg.Elo)
	if err != nil {
		return nil, err
	}
	edge, err := market.NewEdgeCalculator(market.Bands{
		Moderate: cfg.Market.ModerateEdge,
		High:     cfg.Market.HighEdge,
	})
	if err != nil {
		return nil, err
	}

	return NewAnalyticsService(Options{
		Elo:                  eloCfg,
		ProbabilityHomeBonus: cfg.Probability.HomeCourtBonus,
		Series:               series.NewCalculator(cfg.Series.HomeCourtBonus),
		Edge:                 edge,
		Seasons:              season.NewCatalogue(time.Now()),
		League:               league.Default(),
		Sources:              GamesSourceFactory(cfg.Data.GamesFile, cfg.Data.Remote, log),
		Cache:                NewRatingsCache(cfg.CacheTTL()),
		Logger:               log,
	})
}

// Seasons returns the season catalogue
func (s *AnalyticsService) Seasons() *season.Catalogue {
	return s.seasons
}

// League returns the team directory
func (s *AnalyticsService) League() *league.Directory {
	return s.league
}

// Cache returns the ratings cache, which may be nil
func (s *AnalyticsService) Cache() *RatingsCache {
	return s.cache
}

// ProbabilityHomeBonus returns the single-game home-court bonus
func (s *AnalyticsService) ProbabilityHomeBonus() float64 {
	return s.homeBonus
}

// fail records a rejected calculation and passes the error through
func (s *AnalyticsService) fail(operation string, err error) error {
	kind := models.ErrorKind(err)
	metrics.RecordCalculationError(kind)
	s.analytics.LogCalculationError(operation, kind, err)
	return err
}

// RatingsRequest selects a season and optionally overrides the configured
// engine settings. Nil pointers keep the configured value.
type RatingsRequest struct {
	Season          string
	KFactorType     string
	KFactorValue    float64
	HomeCourt       *bool
	MarginOfVictory *bool
	Window          *elo.DateWindow
}

// RatingsReport is a rating snapshot with its context
type RatingsReport struct {
	ID                 uuid.UUID          `json:"id"`
	Season             string             `json:"season"`
	GeneratedAt        time.Time          `json:"generated_at"`
	Snapshot           *elo.Snapshot      `json:"snapshot"`
	ConferenceAverages map[string]float64 `json:"conference_averages"`
}

// engineConfig merges a request into the configured engine settings. A
// named season without an explicit window restricts the run to that season.
func (s *AnalyticsService) engineConfig(req RatingsRequest, sn season.Season) (elo.Config, error) {
	cfg := s.elo
	if req.KFactorType != "" {
		policy, err := elo.ParseKFactor(req.KFactorType, req.KFactorValue)
		if err != nil {
			return elo.Config{}, err
		}
		cfg.KFactor = policy
	}
	if req.HomeCourt != nil {
		cfg.HomeCourt = *req.HomeCourt
	}
	if req.MarginOfVictory != nil {
		cfg.MarginOfVictory = *req.MarginOfVictory
	}
	switch {
	case req.Window != nil:
		cfg.Window = *req.Window
	case req.Season != "":
		cfg.Window = sn.Window()
	}
	return cfg, cfg.Validate()
}

func ratingsKey(seasonID string, cfg elo.Config) RatingsKey {
	return RatingsKey{
		Season:          seasonID,
		Policy:          cfg.KFactor.Name(),
		HomeCourt:       cfg.HomeCourt,
		HomeCourtBonus:  cfg.HomeCourtBonus,
		MarginOfVictory: cfg.MarginOfVictory,
		PlayoffK:        cfg.PlayoffKMultiplier,
		InitialRating:   cfg.InitialRating,
		WindowStart:     cfg.Window.Start,
		WindowEnd:       cfg.Window.End,
	}
}

// Ratings runs (or reuses) the rating fold for a season
func (s *AnalyticsService) Ratings(ctx context.Context, req RatingsRequest) (*RatingsReport, error) {
	sn, err := s.seasons.Lookup(req.Season)
	if err != nil {
		return nil, s.fail("ratings", err)
	}
	cfg, err := s.engineConfig(req, sn)
	if err != nil {
		return nil, s.fail("ratings", err)
	}

	key := ratingsKey(sn.ID, cfg)
	if report, ok := s.cache.Get(key); ok {
		s.analytics.LogRatingRun(sn.ID, key.Policy, report.Snapshot.Stats.TotalGames, len(report.Snapshot.Ratings), 0, true)
		return report, nil
	}

	games, err := s.sources(sn.ID).FetchGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for %s: %w", sn.ID, err)
	}

	report, err := s.run(sn.ID, cfg, games)
	if err != nil {
		return nil, s.fail("ratings", err)
	}
	s.cache.Set(key, report)
	return report, nil
}

// run folds games with one configuration and records the outcome
func (s *AnalyticsService) run(seasonID string, cfg elo.Config, games []models.GameRecord) (*RatingsReport, error) {
	engine, err := elo.NewEngine(cfg, s.logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	snapshot, err := engine.Run(games)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	s.league.Annotate(snapshot.Ratings)
	metrics.RecordRatingRun(snapshot.Policy, snapshot.Stats.TotalGames, len(snapshot.Ratings), elapsed.Seconds())
	s.analytics.LogRatingRun(seasonID, snapshot.Policy, snapshot.Stats.TotalGames, len(snapshot.Ratings), elapsed, false)

	return &RatingsReport{
		ID:                 uuid.New(),
		Season:             seasonID,
		GeneratedAt:        time.Now(),
		Snapshot:           snapshot,
		ConferenceAverages: league.ConferenceAverages(snapshot.Ratings),
	}, nil
}

// teamRatings looks up two rated teams; an unrated team is a domain error
func teamRatings(report *RatingsReport, teamA, teamB string) (float64, float64, error) {
	a, ok := report.Snapshot.Rating(teamA)
	if !ok {
		return 0, 0, fmt.Errorf("%w: team %q has no rating in %s", models.ErrDomain, teamA, report.Season)
	}
	b, ok := report.Snapshot.Rating(teamB)
	if !ok {
		return 0, 0, fmt.Errorf("%w: team %q has no rating in %s", models.ErrDomain, teamB, report.Season)
	}
	return a.Rating, b.Rating, nil
}

// WinProbability evaluates a single game between two rated teams
func (s *AnalyticsService) WinProbability(ctx context.Context, req RatingsRequest, teamA, teamB string) (probability.MatchupResult, error) {
	report, err := s.Ratings(ctx, req)
	if err != nil {
		return probability.MatchupResult{}, err
	}
	ratingA, ratingB, err := teamRatings(report, teamA, teamB)
	if err != nil {
		return probability.MatchupResult{}, s.fail("win_probability", err)
	}
	return probability.Matchup(ratingA, ratingB, s.homeBonus), nil
}

// SeriesProbability projects a series from explicit ratings and seeds
func (s *AnalyticsService) SeriesProbability(state models.SeriesState) (*series.Result, error) {
	result, err := s.series.Calculate(state)
	if err != nil {
		return nil, s.fail("series", err)
	}
	metrics.RecordSeriesProjection()
	s.analytics.LogSeriesProjection(state.TeamA, state.TeamB, state.WinsA, state.WinsB, result.ProbabilityA)
	return result, nil
}

// SimulateSeries cross-checks a projection by Monte Carlo
func (s *AnalyticsService) SimulateSeries(ctx context.Context, state models.SeriesState, cfg series.SimulationConfig) (series.SimulationResult, error) {
	result, err := s.series.Simulate(ctx, state, cfg)
	if err != nil && IsClientError(err) {
		return result, s.fail("series_simulation", err)
	}
	return result, err
}

// SeriesForTeams projects a series using the teams' current ratings
func (s *AnalyticsService) SeriesForTeams(ctx context.Context, req RatingsRequest, state models.SeriesState) (*series.Result, error) {
	report, err := s.Ratings(ctx, req)
	if err != nil {
		return nil, err
	}
	ratingA, ratingB, err := teamRatings(report, state.TeamA, state.TeamB)
	if err != nil {
		return nil, s.fail("series", err)
	}
	state.RatingA, state.RatingB = ratingA, ratingB
	return s.SeriesProbability(state)
}

// EstimateInput is one model's probability for team A, in percent
type EstimateInput struct {
	Model       string  `json:"model"`
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence,omitempty"`
}

// MarketRequest describes a market analysis. The market view is taken from
// MarketOdds when set, otherwise from MarketProbability.
type MarketRequest struct {
	TeamA             string          `json:"team_a"`
	TeamB             string          `json:"team_b"`
	SeriesState       string          `json:"series_state,omitempty"`
	MarketOdds        *float64        `json:"market_odds,omitempty"`
	MarketProbability *float64        `json:"market_probability,omitempty"`
	Estimates         []EstimateInput `json:"estimates"`
}

// AnalyzeMarket compares each model estimate with the market
func (s *AnalyticsService) AnalyzeMarket(req MarketRequest) (*market.Analysis, error) {
	analyzer := market.NewAnalyzer(s.edge, req.TeamA, req.TeamB, req.SeriesState)

	var err error
	switch {
	case req.MarketOdds != nil:
		err = analyzer.AddMarketOdds(*req.MarketOdds, "")
	case req.MarketProbability != nil:
		err = analyzer.AddEstimate(models.MarketOdds, *req.MarketProbability, "")
	}
	if err != nil {
		return nil, s.fail("market", err)
	}

	for _, in := range req.Estimates {
		if err := analyzer.AddEstimate(models.ParseModelKind(in.Model), in.Probability, in.Confidence); err != nil {
			return nil, s.fail("market", err)
		}
	}

	analysis, err := analyzer.Analyze()
	if err != nil {
		return nil, s.fail("market", err)
	}

	for _, c := range analysis.Comparisons {
		metrics.RecordMarketComparison(string(c.Analysis.RiskLevel))
		s.analytics.LogMarketComparison(analysis.ID.String(), c.Model.String(),
			c.Analysis.EstimatedEdge, c.Analysis.KellyCriterion, string(c.Analysis.RiskLevel))
	}
	return analysis, nil
}

// IsClientError reports whether err belongs to the calculation taxonomy
// rather than an infrastructure failure
func IsClientError(err error) bool {
	return errors.Is(err, models.ErrConfiguration) ||
		errors.Is(err, models.ErrInvalidState) ||
		errors.Is(err, models.ErrDomain) ||
		errors.Is(err, models.ErrDegenerate)
}
