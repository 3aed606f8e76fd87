package market

import (
	"fmt"
	"math"

	"github.com/yourusername/courtside/internal/models"
)

// Default risk band thresholds in percentage points of |edge|
const (
	DefaultModerateEdge = 5.0
	DefaultHighEdge     = 15.0
)

// Bands holds the lower bounds of the moderate and high risk tiers. A tier
// includes its lower bound: |edge| < Moderate is Low, Moderate <= |edge| < High
// is Moderate and anything from High up is High.
type Bands struct {
	Moderate float64
	High     float64
}

// DefaultBands returns the 5/15 point tiers
func DefaultBands() Bands {
	return Bands{Moderate: DefaultModerateEdge, High: DefaultHighEdge}
}

// Validate checks that the bands are ordered and non-negative
func (b Bands) Validate() error {
	if b.Moderate < 0 || b.High < b.Moderate {
		return fmt.Errorf("%w: risk bands must satisfy 0 <= moderate (%g) <= high (%g)", models.ErrConfiguration, b.Moderate, b.High)
	}
	return nil
}

// Classify assigns a risk tier to an edge
func (b Bands) Classify(edge float64) models.RiskLevel {
	abs := math.Abs(edge)
	switch {
	case abs < b.Moderate:
		return models.RiskLowEdge
	case abs < b.High:
		return models.RiskModerateEdge
	default:
		return models.RiskHighEdge
	}
}

// EdgeCalculator computes edge, expected value and Kelly sizing. It is
// stateless apart from its bands and safe for concurrent use.
type EdgeCalculator struct {
	bands Bands
}

// NewEdgeCalculator creates a calculator with the given risk bands
func NewEdgeCalculator(bands Bands) (*EdgeCalculator, error) {
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	return &EdgeCalculator{bands: bands}, nil
}

// Bands returns the calculator's risk tiers
func (c *EdgeCalculator) Bands() Bands {
	return c.bands
}

// Calculate compares a true probability with a market probability, both in
// percent. The net odds b come from the market price: b = 100/market - 1.
func (c *EdgeCalculator) Calculate(marketProb, trueProb float64) (models.MarketAnalysis, error) {
	if err := checkPercent("market", marketProb); err != nil {
		return models.MarketAnalysis{}, err
	}
	if err := checkPercent("true", trueProb); err != nil {
		return models.MarketAnalysis{}, err
	}
	if marketProb == 0 || marketProb == 100 {
		return models.MarketAnalysis{}, fmt.Errorf("%w: market probability %g%% has no finite odds", models.ErrDegenerate, marketProb)
	}

	b := 100/marketProb - 1
	p := trueProb / 100
	q := 1 - p

	// Kelly: f = (bp - q) / b
	kelly := (b*p - q) / b
	if kelly < 0 {
		kelly = 0
	}

	edge := trueProb - marketProb
	return models.MarketAnalysis{
		EstimatedEdge:  edge,
		ExpectedValue:  p*b - q,
		KellyCriterion: kelly,
		RiskLevel:      c.bands.Classify(edge),
	}, nil
}

// CalculateMarketEdge runs Calculate with the default risk bands
func CalculateMarketEdge(marketProb, trueProb float64) (models.MarketAnalysis, error) {
	c := EdgeCalculator{bands: DefaultBands()}
	return c.Calculate(marketProb, trueProb)
}

func checkPercent(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return fmt.Errorf("%w: %s probability %v outside [0,100]", models.ErrDomain, name, v)
	}
	return nil
}
