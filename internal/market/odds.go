// Package market converts between American odds and probabilities and
// measures how far a model estimate sits from the market price.
package market

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/yourusername/courtside/internal/models"
)

// OddsToProbability converts American odds to an implied probability in (0,1).
// Odds strictly between -100 and 100 are not a legal price.
func OddsToProbability(odds float64) (float64, error) {
	switch {
	case math.IsNaN(odds) || math.IsInf(odds, 0):
		return 0, fmt.Errorf("%w: odds %v are not finite", models.ErrDomain, odds)
	case odds >= 100:
		return 100 / (odds + 100), nil
	case odds <= -100:
		return -odds / (-odds + 100), nil
	default:
		return 0, fmt.Errorf("%w: odds %v between -100 and +100", models.ErrDomain, odds)
	}
}

// ProbabilityToAmericanOdds converts a probability in (0,1) to American odds
// at full precision. Even money maps to +100.
func ProbabilityToAmericanOdds(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: probability %v outside (0,1)", models.ErrDomain, p)
	}
	if p <= 0.5 {
		return 100 * (1 - p) / p, nil
	}
	return -100 * p / (1 - p), nil
}

// AmericanToDecimal converts American odds to decimal odds (stake included)
func AmericanToDecimal(odds float64) (float64, error) {
	switch {
	case odds >= 100:
		return 1 + odds/100, nil
	case odds <= -100:
		return 1 + 100/-odds, nil
	default:
		return 0, fmt.Errorf("%w: odds %v between -100 and +100", models.ErrDomain, odds)
	}
}

// FormatAmericanOdds rounds odds to the nearest whole number for display,
// with an explicit sign on positive prices.
func FormatAmericanOdds(odds float64) string {
	rounded := decimal.NewFromFloat(odds).Round(0)
	if rounded.IsPositive() {
		return "+" + rounded.String()
	}
	return rounded.String()
}

// FormatPercent renders a percentage with one decimal place
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(1) + "%"
}
