package models

import (
	"fmt"
	"math"
)

// Kind enumerates the known sources of a probability estimate
type Kind int

const (
	KindMarketOdds Kind = iota
	KindAdaptiveElo
	KindHistoricalPrecedent
	KindCustom
)

// ModelKind tags a probability estimate with its source. Custom models carry
// a caller supplied label; the fixed kinds ignore Label.
type ModelKind struct {
	Kind  Kind
	Label string
}

var (
	MarketOdds          = ModelKind{Kind: KindMarketOdds}
	AdaptiveElo         = ModelKind{Kind: KindAdaptiveElo}
	HistoricalPrecedent = ModelKind{Kind: KindHistoricalPrecedent}
)

// CustomModel builds the open extension kind
func CustomModel(label string) ModelKind {
	return ModelKind{Kind: KindCustom, Label: label}
}

// IsMarket reports whether the estimate comes from market odds
func (k ModelKind) IsMarket() bool {
	return k.Kind == KindMarketOdds
}

// String returns the display name of the model kind
func (k ModelKind) String() string {
	switch k.Kind {
	case KindMarketOdds:
		return "Betting Markets"
	case KindAdaptiveElo:
		return "Elo Model (Adaptive K)"
	case KindHistoricalPrecedent:
		return "Historical Precedent"
	case KindCustom:
		if k.Label == "" {
			return "Custom Model"
		}
		return k.Label
	default:
		return fmt.Sprintf("Kind(%d)", int(k.Kind))
	}
}

// MarshalText encodes the kind by its display name
func (k ModelKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseModelKind maps short identifiers ("market", "elo", "historical") to the
// fixed kinds; anything else becomes a custom kind labelled with the input.
func ParseModelKind(s string) ModelKind {
	switch s {
	case "market", "market_odds", "Betting Markets":
		return MarketOdds
	case "elo", "adaptive_elo", "Elo Model (Adaptive K)":
		return AdaptiveElo
	case "historical", "historical_precedent", "Historical Precedent":
		return HistoricalPrecedent
	default:
		return CustomModel(s)
	}
}

// ProbabilityEstimate is one model's view of a two-team matchup, in percent.
type ProbabilityEstimate struct {
	Model            ModelKind `json:"model_type"`
	TeamAProbability float64   `json:"team_a_probability"`
	TeamBProbability float64   `json:"team_b_probability"`
	ConfidenceLevel  string    `json:"confidence_level,omitempty"`
}

// NewProbabilityEstimate derives team B's probability as the complement of
// team A's, so the pair always sums to 100.
func NewProbabilityEstimate(model ModelKind, teamAProb float64, confidence string) (ProbabilityEstimate, error) {
	if math.IsNaN(teamAProb) || teamAProb < 0 || teamAProb > 100 {
		return ProbabilityEstimate{}, fmt.Errorf("%w: probability %.4f outside [0,100]", ErrDomain, teamAProb)
	}
	return ProbabilityEstimate{
		Model:            model,
		TeamAProbability: teamAProb,
		TeamBProbability: 100 - teamAProb,
		ConfidenceLevel:  confidence,
	}, nil
}
