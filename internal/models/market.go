package models

// RiskLevel classifies the size of an estimated edge
type RiskLevel string

const (
	RiskLowEdge      RiskLevel = "Low Edge"
	RiskModerateEdge RiskLevel = "Moderate Edge"
	RiskHighEdge     RiskLevel = "High Edge"
)

// MarketAnalysis compares a true probability estimate with a market one
type MarketAnalysis struct {
	EstimatedEdge  float64   `json:"estimated_edge"`  // percentage points
	ExpectedValue  float64   `json:"expected_value"`  // fraction of stake
	KellyCriterion float64   `json:"kelly_criterion"` // fraction of bankroll, >= 0
	RiskLevel      RiskLevel `json:"risk_level"`
}

// ShouldBet reports whether Kelly sizing recommends any stake at all
func (m MarketAnalysis) ShouldBet() bool {
	return m.KellyCriterion > 0
}
