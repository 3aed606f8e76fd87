// Package elo folds a chronological sequence of games into team ratings.
package elo

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/probability"
)

// DefaultHomeCourtBonus is the rating bonus credited to the host when
// home-court adjustment is enabled.
const DefaultHomeCourtBonus = 65.0

// Config controls a rating run
type Config struct {
	InitialRating      float64
	KFactor            KFactorPolicy
	Window             DateWindow
	HomeCourt          bool
	HomeCourtBonus     float64
	MarginOfVictory    bool
	PlayoffKMultiplier float64
}

// DefaultConfig returns a fixed K=20 configuration starting from the baseline
func DefaultConfig() Config {
	return Config{
		InitialRating:      models.BaselineRating,
		KFactor:            FixedK{Value: 20},
		HomeCourtBonus:     DefaultHomeCourtBonus,
		PlayoffKMultiplier: 1,
	}
}

// Validate checks the configuration before any game is processed
func (c Config) Validate() error {
	if c.KFactor == nil {
		return fmt.Errorf("%w: k-factor policy is required", models.ErrConfiguration)
	}
	if err := c.KFactor.Validate(); err != nil {
		return err
	}
	if err := c.Window.Validate(); err != nil {
		return err
	}
	if c.InitialRating <= 0 {
		return fmt.Errorf("%w: initial rating must be positive", models.ErrConfiguration)
	}
	if c.HomeCourt && c.HomeCourtBonus < 0 {
		return fmt.Errorf("%w: home-court bonus cannot be negative", models.ErrConfiguration)
	}
	if c.PlayoffKMultiplier < 0 {
		return fmt.Errorf("%w: playoff k multiplier cannot be negative", models.ErrConfiguration)
	}
	return nil
}

// Engine runs rating folds. Each call to Run owns its own rating map, so one
// Engine may be shared and independent engines may run concurrently.
type Engine struct {
	config Config
	logger *logrus.Logger
}

// NewEngine validates cfg and creates an engine
func NewEngine(cfg Config, logger *logrus.Logger) (*Engine, error) {
	if cfg.PlayoffKMultiplier == 0 {
		cfg.PlayoffKMultiplier = 1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Engine{config: cfg, logger: logger}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// RatingChange records how one game moved both teams' ratings
type RatingChange struct {
	GameID       string           `json:"game_id,omitempty"`
	Date         time.Time        `json:"date"`
	Stage        models.GameStage `json:"stage"`
	HomeTeam     string           `json:"home_team"`
	AwayTeam     string           `json:"away_team"`
	HomeBefore   float64          `json:"home_before"`
	AwayBefore   float64          `json:"away_before"`
	HomeDelta    float64          `json:"home_delta"`
	AwayDelta    float64          `json:"away_delta"`
	ExpectedHome float64          `json:"expected_home"`
	K            float64          `json:"k"`
	Multiplier   float64          `json:"multiplier"`
}

type teamState struct {
	rating float64
	wins   int
	losses int
}

// Run processes games in chronological order, ties kept in input order.
// Preseason games and games outside the window are skipped. The input slice
// is not modified.
func (e *Engine) Run(games []models.GameRecord) (*Snapshot, error) {
	ordered := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		if g.IsPreseason() || !e.config.Window.Contains(g.Date) {
			continue
		}
		ordered = append(ordered, g)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	window := e.config.Window
	if window.IsZero() && len(ordered) > 0 {
		window = DateWindow{Start: ordered[0].Date, End: ordered[len(ordered)-1].Date}
	}

	teams := make(map[string]*teamState)
	history := make([]RatingChange, 0, len(ordered))
	for i, game := range ordered {
		change, err := e.apply(teams, game, window)
		if err != nil {
			return nil, fmt.Errorf("game %d (%s): %w", i+1, game.ID, err)
		}
		history = append(history, change)
	}

	snapshot := newSnapshot(teams, history, e.config.KFactor.Name())

	e.logger.WithFields(logrus.Fields{
		"policy":          snapshot.Policy,
		"games_input":     len(games),
		"games_processed": snapshot.Stats.TotalGames,
		"teams":           snapshot.Stats.Teams,
		"highest":         snapshot.Stats.Highest,
	}).Debug("Rating run completed")

	return snapshot, nil
}

func (e *Engine) state(teams map[string]*teamState, team string) *teamState {
	ts, ok := teams[team]
	if !ok {
		ts = &teamState{rating: e.config.InitialRating}
		teams[team] = ts
	}
	return ts
}

func (e *Engine) apply(teams map[string]*teamState, game models.GameRecord, window DateWindow) (RatingChange, error) {
	if err := validateGame(game); err != nil {
		return RatingChange{}, err
	}

	home := e.state(teams, game.HomeTeam)
	away := e.state(teams, game.AwayTeam)

	bonus := 0.0
	if e.config.HomeCourt {
		bonus = e.config.HomeCourtBonus
	}
	expectedHome := probability.WinProbability(home.rating-away.rating, bonus)

	actualHome := 0.0
	if game.HomeWon() {
		actualHome = 1
		home.wins++
		away.losses++
	} else {
		away.wins++
		home.losses++
	}

	k := e.config.KFactor.K(window.Progress(game.Date))
	if game.Stage == models.StagePlayoff {
		k *= e.config.PlayoffKMultiplier
	}

	multiplier := 1.0
	if e.config.MarginOfVictory {
		gap := home.rating - away.rating
		if !game.HomeWon() {
			gap = -gap
		}
		multiplier = MarginMultiplier(game.Margin(), gap)
	}

	delta := k * multiplier * (actualHome - expectedHome)
	change := RatingChange{
		GameID:       game.ID,
		Date:         game.Date,
		Stage:        game.Stage,
		HomeTeam:     game.HomeTeam,
		AwayTeam:     game.AwayTeam,
		HomeBefore:   home.rating,
		AwayBefore:   away.rating,
		HomeDelta:    delta,
		AwayDelta:    -delta,
		ExpectedHome: expectedHome,
		K:            k,
		Multiplier:   multiplier,
	}

	home.rating += change.HomeDelta
	away.rating += change.AwayDelta
	return change, nil
}

func validateGame(game models.GameRecord) error {
	switch {
	case game.HomeTeam == "" || game.AwayTeam == "":
		return fmt.Errorf("%w: game is missing a team", models.ErrDomain)
	case game.HomeTeam == game.AwayTeam:
		return fmt.Errorf("%w: team %q cannot play itself", models.ErrDomain, game.HomeTeam)
	case game.HomeScore < 0 || game.AwayScore < 0:
		return fmt.Errorf("%w: negative score", models.ErrDomain)
	case game.HomeScore == game.AwayScore:
		return fmt.Errorf("%w: tied score %d-%d, draws are not rated", models.ErrDomain, game.HomeScore, game.AwayScore)
	}
	return nil
}
