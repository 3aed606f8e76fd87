package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinProbabilityHundredPointGap(t *testing.T) {
	// 1600 vs 1500 on a neutral court: 10^(100/400) ~= 1.778
	p := WinProbability(1600-1500, 0)
	assert.InDelta(t, 0.640, p, 0.001)
	assert.InDelta(t, 0.640, ExpectedScore(1600, 1500), 0.001)
}

func TestWinProbabilityEvenMatch(t *testing.T) {
	assert.Equal(t, 0.5, WinProbability(0, 0))
	assert.Equal(t, 0.5, WinProbability(40, -40))
}

func TestWinProbabilityComplementarity(t *testing.T) {
	diffs := []float64{0, 0.1, 1, 13.7, 40, 99.9, 100, 250, 400, 799, 1200, 3000}
	bonuses := []float64{0, 40, 65, 100}

	for _, d := range diffs {
		for _, h := range bonuses {
			for _, sign := range []float64{1, -1} {
				dd, hh := sign*d, sign*h
				sum := WinProbability(dd, hh) + WinProbability(-dd, -hh)
				assert.Equal(t, 1.0, sum, "d=%v h=%v", dd, hh)
			}
		}
	}
}

func TestWinProbabilityMonotonic(t *testing.T) {
	prev := 0.0
	for d := -1000.0; d <= 1000; d += 25 {
		p := WinProbability(d, 0)
		assert.GreaterOrEqual(t, p, prev)
		assert.True(t, p >= 0 && p <= 1)
		prev = p
	}
}

func TestWinProbabilityHomeBonus(t *testing.T) {
	neutral := WinProbability(0, 0)
	home := WinProbability(0, 65)
	away := WinProbability(0, -65)

	assert.Greater(t, home, neutral)
	assert.Less(t, away, neutral)
	assert.InDelta(t, 1.0, home+away, 1e-15)
}

func TestMatchup(t *testing.T) {
	result := Matchup(1213.7, 1131.8, 65)

	for name, split := range map[string]Split{
		"neutral": result.Neutral,
		"a_home":  result.TeamAHome,
		"b_home":  result.TeamBHome,
	} {
		assert.InDelta(t, 100.0, split.TeamA+split.TeamB, 1e-9, name)
	}
	assert.Greater(t, result.TeamAHome.TeamA, result.Neutral.TeamA)
	assert.Less(t, result.TeamBHome.TeamA, result.Neutral.TeamA)
	assert.False(t, math.IsNaN(result.Neutral.TeamA))
}
