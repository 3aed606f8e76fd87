package elo

import (
	"fmt"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/models"
)

// EngineConfigFromConfig converts the file configuration into an engine
// configuration. A configured window end covers the whole of its last day.
func EngineConfigFromConfig(cfg config.EloConfig) (Config, error) {
	policy, err := ParseKFactor(cfg.KFactor.Type, cfg.KFactor.Value)
	if err != nil {
		return Config{}, err
	}

	start, end, err := cfg.Window.Dates()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}
	window := DayWindow(start, end)

	out := DefaultConfig()
	out.KFactor = policy
	out.Window = window
	out.HomeCourt = cfg.HomeCourt.Enabled
	out.MarginOfVictory = cfg.MarginOfVictory
	if cfg.InitialRating > 0 {
		out.InitialRating = cfg.InitialRating
	}
	if cfg.HomeCourt.Bonus > 0 {
		out.HomeCourtBonus = cfg.HomeCourt.Bonus
	}
	if cfg.PlayoffKMultiplier > 0 {
		out.PlayoffKMultiplier = cfg.PlayoffKMultiplier
	}

	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}
