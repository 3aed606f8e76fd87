package market

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/courtside/internal/models"
)

// Comparison is one non-market estimate measured against the market
type Comparison struct {
	Model             models.ModelKind      `json:"model_type"`
	MarketProbability float64               `json:"market_probability"`
	ModelProbability  float64               `json:"model_probability"`
	Analysis          models.MarketAnalysis `json:"analysis"`
}

// Analysis is the outcome of comparing every estimate for a matchup
type Analysis struct {
	ID          uuid.UUID                    `json:"id"`
	TeamA       string                       `json:"team_a"`
	TeamB       string                       `json:"team_b"`
	SeriesState string                       `json:"series_state,omitempty"`
	GeneratedAt time.Time                    `json:"analysis_timestamp"`
	Estimates   []models.ProbabilityEstimate `json:"estimates"`
	Comparisons []Comparison                 `json:"comparisons"`
}

// Market returns the market estimate of the analysis, if any
func (a *Analysis) Market() (models.ProbabilityEstimate, bool) {
	for _, e := range a.Estimates {
		if e.Model.IsMarket() {
			return e, true
		}
	}
	return models.ProbabilityEstimate{}, false
}

// Analyzer collects probability estimates for one matchup. It is not safe
// for concurrent use; build one per request.
type Analyzer struct {
	calc        *EdgeCalculator
	teamA       string
	teamB       string
	seriesState string
	estimates   []models.ProbabilityEstimate
	now         func() time.Time
}

// NewAnalyzer creates an analyzer for team A against team B
func NewAnalyzer(calc *EdgeCalculator, teamA, teamB, seriesState string) *Analyzer {
	if calc == nil {
		calc = &EdgeCalculator{bands: DefaultBands()}
	}
	return &Analyzer{
		calc:        calc,
		teamA:       teamA,
		teamB:       teamB,
		seriesState: seriesState,
		now:         time.Now,
	}
}

// AddEstimate records a model's probability for team A, in percent
func (a *Analyzer) AddEstimate(model models.ModelKind, teamAProb float64, confidence string) error {
	est, err := models.NewProbabilityEstimate(model, teamAProb, confidence)
	if err != nil {
		return fmt.Errorf("%s estimate: %w", model, err)
	}
	a.estimates = append(a.estimates, est)
	return nil
}

// AddMarketOdds records the market estimate from team A's American odds
func (a *Analyzer) AddMarketOdds(odds float64, confidence string) error {
	p, err := OddsToProbability(odds)
	if err != nil {
		return fmt.Errorf("market estimate: %w", err)
	}
	return a.AddEstimate(models.MarketOdds, p*100, confidence)
}

// Estimates returns a copy of the recorded estimates
func (a *Analyzer) Estimates() []models.ProbabilityEstimate {
	out := make([]models.ProbabilityEstimate, len(a.estimates))
	copy(out, a.estimates)
	return out
}

// Analyze compares each non-market estimate with the first market estimate
func (a *Analyzer) Analyze() (*Analysis, error) {
	analysis := &Analysis{
		ID:          uuid.New(),
		TeamA:       a.teamA,
		TeamB:       a.teamB,
		SeriesState: a.seriesState,
		GeneratedAt: a.now(),
		Estimates:   a.Estimates(),
		Comparisons: []Comparison{},
	}

	market, ok := analysis.Market()
	if !ok {
		return nil, fmt.Errorf("%w: no market estimate for %s vs %s", models.ErrInvalidState, a.teamA, a.teamB)
	}

	for _, est := range analysis.Estimates {
		if est.Model.IsMarket() {
			continue
		}
		result, err := a.calc.Calculate(market.TeamAProbability, est.TeamAProbability)
		if err != nil {
			return nil, fmt.Errorf("compare %s with market: %w", est.Model, err)
		}
		analysis.Comparisons = append(analysis.Comparisons, Comparison{
			Model:             est.Model,
			MarketProbability: market.TeamAProbability,
			ModelProbability:  est.TeamAProbability,
			Analysis:          result,
		})
	}

	return analysis, nil
}
