package elo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/models"
)

func TestEngineConfigFromConfig(t *testing.T) {
	cfg, err := EngineConfigFromConfig(config.EloConfig{
		InitialRating:      1500,
		KFactor:            config.KFactorConfig{Type: "decreasing"},
		Window:             config.WindowConfig{Start: "2024-10-22", End: "2025-04-13"},
		HomeCourt:          config.HomeCourtConfig{Enabled: true, Bonus: 70},
		MarginOfVictory:    true,
		PlayoffKMultiplier: 1.5,
	})
	require.NoError(t, err)

	assert.Equal(t, DecreasingK{}, cfg.KFactor)
	assert.Equal(t, time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC), cfg.Window.Start)
	assert.True(t, cfg.Window.Contains(time.Date(2025, 4, 13, 23, 30, 0, 0, time.UTC)))
	assert.False(t, cfg.Window.Contains(time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cfg.HomeCourt)
	assert.Equal(t, 70.0, cfg.HomeCourtBonus)
	assert.True(t, cfg.MarginOfVictory)
	assert.Equal(t, 1.5, cfg.PlayoffKMultiplier)
}

func TestEngineConfigFromConfigDefaults(t *testing.T) {
	cfg, err := EngineConfigFromConfig(config.EloConfig{
		KFactor: config.KFactorConfig{Type: "fixed", Value: 32},
	})
	require.NoError(t, err)

	assert.Equal(t, FixedK{Value: 32}, cfg.KFactor)
	assert.True(t, cfg.Window.IsZero())
	assert.Equal(t, models.BaselineRating, cfg.InitialRating)
	assert.Equal(t, DefaultHomeCourtBonus, cfg.HomeCourtBonus)
	assert.Equal(t, 1.0, cfg.PlayoffKMultiplier)
}

func TestEngineConfigFromConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.EloConfig
	}{
		{"unknown policy", config.EloConfig{KFactor: config.KFactorConfig{Type: "sigmoid"}}},
		{"fixed zero", config.EloConfig{KFactor: config.KFactorConfig{Type: "fixed"}}},
		{"bad date", config.EloConfig{
			KFactor: config.KFactorConfig{Type: "decreasing"},
			Window:  config.WindowConfig{Start: "yesterday", End: "2025-04-13"},
		}},
		{"half window", config.EloConfig{
			KFactor: config.KFactorConfig{Type: "decreasing"},
			Window:  config.WindowConfig{Start: "2024-10-22"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EngineConfigFromConfig(tt.cfg)
			assert.ErrorIs(t, err, models.ErrConfiguration)
		})
	}
}
