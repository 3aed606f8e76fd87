// Package config provides configuration management for the Courtside application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. COURTSIDE_SERVER_PORT
const EnvPrefix = "COURTSIDE"

// DefaultPath is used when no configuration path is given
const DefaultPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads the file and expands ${VAR} placeholders before parsing
func readExpanded(v *viper.Viper, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := readExpanded(v, data); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// SetDefaults registers the values used when neither the file nor the
// environment provides one
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "courtside")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("data.games_file", "data/nba_{season}_games.json")
	v.SetDefault("data.remote.timeout_seconds", 30)
	v.SetDefault("data.remote.max_retries", 3)
	v.SetDefault("data.remote.rate_limit", 2.0)
	v.SetDefault("elo.initial_rating", 1500.0)
	v.SetDefault("elo.k_factor.type", "fixed")
	v.SetDefault("elo.k_factor.value", 20.0)
	v.SetDefault("elo.home_court.enabled", false)
	v.SetDefault("elo.home_court.bonus", 65.0)
	v.SetDefault("elo.margin_of_victory", false)
	v.SetDefault("elo.playoff_k_multiplier", 1.0)
	v.SetDefault("probability.home_court_bonus", 65.0)
	v.SetDefault("series.home_court_bonus", 40.0)
	v.SetDefault("market.moderate_edge", 5.0)
	v.SetDefault("market.high_edge", 15.0)
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cache_ttl_seconds", 300)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("scheduler.season_refresh", "0 6 * * *")
	v.SetDefault("scheduler.cache_purge", "*/15 * * * *")
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	SetDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}
