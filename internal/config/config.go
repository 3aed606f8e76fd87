// Package config provides configuration management for the Courtside application.
package config

import (
	"fmt"
	"time"
)

// DateLayout is the format of every date in the configuration
const DateLayout = "2006-01-02"

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Data        DataConfig        `mapstructure:"data" validate:"required"`
	Elo         EloConfig         `mapstructure:"elo" validate:"required"`
	Probability ProbabilityConfig `mapstructure:"probability"`
	Series      SeriesConfig      `mapstructure:"series"`
	Market      MarketConfig      `mapstructure:"market"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig locates the games export. GamesFile may contain a {season}
// placeholder that is replaced by the selected season id, and may be an
// http(s) URL.
type DataConfig struct {
	GamesFile string       `mapstructure:"games_file" validate:"required"`
	Season    string       `mapstructure:"season"`
	Remote    RemoteConfig `mapstructure:"remote"`
}

// RemoteConfig tunes downloads of remote games exports
type RemoteConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// EloConfig represents rating engine configuration
type EloConfig struct {
	InitialRating      float64         `mapstructure:"initial_rating" validate:"gt=0"`
	KFactor            KFactorConfig   `mapstructure:"k_factor" validate:"required"`
	Window             WindowConfig    `mapstructure:"window"`
	HomeCourt          HomeCourtConfig `mapstructure:"home_court"`
	MarginOfVictory    bool            `mapstructure:"margin_of_victory"`
	PlayoffKMultiplier float64         `mapstructure:"playoff_k_multiplier" validate:"gte=0"`
}

// KFactorConfig selects the K-factor policy
type KFactorConfig struct {
	Type  string  `mapstructure:"type" validate:"required,kfactor"`
	Value float64 `mapstructure:"value" validate:"gte=0"`
}

// WindowConfig restricts a rating run to a date range
type WindowConfig struct {
	Start string `mapstructure:"start" validate:"omitempty,datetime"`
	End   string `mapstructure:"end" validate:"omitempty,datetime"`
}

// HomeCourtConfig controls the home-court bonus used inside rating updates
type HomeCourtConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Bonus   float64 `mapstructure:"bonus" validate:"gte=0"`
}

// ProbabilityConfig represents single-game probability configuration
type ProbabilityConfig struct {
	HomeCourtBonus float64 `mapstructure:"home_court_bonus" validate:"gte=0"`
}

// SeriesConfig represents playoff series configuration
type SeriesConfig struct {
	HomeCourtBonus float64 `mapstructure:"home_court_bonus" validate:"gte=0"`
}

// MarketConfig holds the risk band thresholds in percentage points
type MarketConfig struct {
	ModerateEdge float64 `mapstructure:"moderate_edge" validate:"gte=0"`
	HighEdge     float64 `mapstructure:"high_edge" validate:"gtefield=ModerateEdge"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port            int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	CacheTTLSeconds int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	SeasonRefresh string `mapstructure:"season_refresh"`
	CachePurge    string `mapstructure:"cache_purge"`
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging returns true if running in staging environment
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CacheTTL returns the ratings cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Server.CacheTTLSeconds) * time.Second
}

// ListenAddress returns the address the API server binds to
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Dates parses the window bounds. Empty strings yield zero times.
func (w WindowConfig) Dates() (start, end time.Time, err error) {
	if w.Start != "" {
		if start, err = time.Parse(DateLayout, w.Start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid window start %q: %w", w.Start, err)
		}
	}
	if w.End != "" {
		if end, err = time.Parse(DateLayout, w.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid window end %q: %w", w.End, err)
		}
	}
	return start, end, nil
}
