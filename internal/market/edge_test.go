package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

func TestModerateEdgeAtTenPoints(t *testing.T) {
	result, err := CalculateMarketEdge(25.0, 35.0)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, result.EstimatedEdge, 1e-9)
	assert.Equal(t, models.RiskModerateEdge, result.RiskLevel)

	// b = 3, p = 0.35
	assert.InDelta(t, 0.35*3-0.65, result.ExpectedValue, 1e-9)
	assert.InDelta(t, (3*0.35-0.65)/3, result.KellyCriterion, 1e-9)
	assert.True(t, result.ShouldBet())
}

func TestNegativeKellyClampsToZero(t *testing.T) {
	result, err := CalculateMarketEdge(60, 40)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.KellyCriterion)
	assert.False(t, result.ShouldBet())
	assert.Less(t, result.ExpectedValue, 0.0)
	assert.InDelta(t, -20.0, result.EstimatedEdge, 1e-9)
	assert.Equal(t, models.RiskHighEdge, result.RiskLevel)
}

func TestNoEdge(t *testing.T) {
	result, err := CalculateMarketEdge(45, 45)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.EstimatedEdge)
	assert.InDelta(t, 0.0, result.ExpectedValue, 1e-12)
	assert.InDelta(t, 0.0, result.KellyCriterion, 1e-12)
	assert.Equal(t, models.RiskLowEdge, result.RiskLevel)
}

func TestRiskBandBoundaries(t *testing.T) {
	bands := DefaultBands()
	tests := []struct {
		edge float64
		want models.RiskLevel
	}{
		{0, models.RiskLowEdge},
		{4.999, models.RiskLowEdge},
		{-4.999, models.RiskLowEdge},
		{5, models.RiskModerateEdge},
		{-5, models.RiskModerateEdge},
		{14.999, models.RiskModerateEdge},
		{15, models.RiskHighEdge},
		{-32, models.RiskHighEdge},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bands.Classify(tt.edge), "edge %v", tt.edge)
	}
}

func TestCustomBands(t *testing.T) {
	calc, err := NewEdgeCalculator(Bands{Moderate: 2, High: 8})
	require.NoError(t, err)

	result, err := calc.Calculate(40, 43)
	require.NoError(t, err)
	assert.Equal(t, models.RiskModerateEdge, result.RiskLevel)

	_, err = NewEdgeCalculator(Bands{Moderate: 10, High: 5})
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = NewEdgeCalculator(Bands{Moderate: -1, High: 5})
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestCalculateMarketEdgeErrors(t *testing.T) {
	tests := []struct {
		name   string
		market float64
		truth  float64
		want   error
	}{
		{"market zero", 0, 30, models.ErrDegenerate},
		{"market saturated", 100, 30, models.ErrDegenerate},
		{"market negative", -1, 30, models.ErrDomain},
		{"market above 100", 101, 30, models.ErrDomain},
		{"true above 100", 40, 100.5, models.ErrDomain},
		{"true NaN", 40, math.NaN(), models.ErrDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateMarketEdge(tt.market, tt.truth)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculateMarketEdgeExtremes(t *testing.T) {
	result, err := CalculateMarketEdge(50, 100)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.KellyCriterion, 1e-12)

	result, err = CalculateMarketEdge(50, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.KellyCriterion)
	assert.InDelta(t, -1.0, result.ExpectedValue, 1e-12)
}
