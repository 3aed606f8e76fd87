package market

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/courtside/internal/models"
)

const reportWidth = 80

// ExportVersion is written into every JSON export
const ExportVersion = "1.0.0"

// GenerateConsoleReport formats an analysis for terminal output
func GenerateConsoleReport(a *Analysis) string {
	rule := strings.Repeat("=", reportWidth)

	var builder strings.Builder
	builder.WriteString("Market Analysis Report\n")
	builder.WriteString(rule + "\n")
	builder.WriteString(fmt.Sprintf("Analysis Date: %s\n", a.GeneratedAt.Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("Matchup: %s vs %s\n", a.TeamA, a.TeamB))
	if a.SeriesState != "" {
		builder.WriteString(fmt.Sprintf("Series State: %s\n", a.SeriesState))
	}
	builder.WriteString(rule + "\n\n")

	builder.WriteString("Probability Estimates\n")
	builder.WriteString(fmt.Sprintf("%-28s %12s %12s %12s\n", "Model/Source", a.TeamA+" Win %", "Implied Odds", a.TeamB+" Win %"))
	builder.WriteString(strings.Repeat("-", reportWidth) + "\n")
	for _, est := range a.Estimates {
		builder.WriteString(fmt.Sprintf("%-28s %12s %12s %12s\n",
			est.Model.String(),
			FormatPercent(est.TeamAProbability),
			impliedOdds(est.TeamAProbability),
			FormatPercent(est.TeamBProbability),
		))
	}

	if len(a.Comparisons) > 0 {
		builder.WriteString("\nMarket Inefficiency\n")
		builder.WriteString(rule + "\n")
		for _, c := range a.Comparisons {
			builder.WriteString(fmt.Sprintf("- %s: %s pts edge, %s EV, Kelly %s, Risk: %s\n",
				c.Model.String(),
				signed(c.Analysis.EstimatedEdge, 1),
				signed(c.Analysis.ExpectedValue*100, 1)+"%",
				FormatPercent(c.Analysis.KellyCriterion*100),
				c.Analysis.RiskLevel,
			))
		}
	}

	return builder.String()
}

func impliedOdds(pct float64) string {
	odds, err := ProbabilityToAmericanOdds(pct / 100)
	if err != nil {
		return "n/a"
	}
	return FormatAmericanOdds(odds)
}

func signed(v float64, places int32) string {
	d := decimal.NewFromFloat(v)
	s := d.StringFixed(places)
	if d.Round(places).IsPositive() {
		return "+" + s
	}
	return s
}

type exportMetadata struct {
	ID          string    `json:"id"`
	TeamA       string    `json:"team_a"`
	TeamB       string    `json:"team_b"`
	SeriesState string    `json:"series_state,omitempty"`
	Timestamp   time.Time `json:"analysis_timestamp"`
	Version     string    `json:"version"`
}

type export struct {
	Metadata    exportMetadata               `json:"metadata"`
	Estimates   []models.ProbabilityEstimate `json:"estimates"`
	Comparisons []Comparison                 `json:"comparisons"`
}

// MarshalExport encodes an analysis in the export layout
func MarshalExport(a *Analysis) ([]byte, error) {
	return json.MarshalIndent(export{
		Metadata: exportMetadata{
			ID:          a.ID.String(),
			TeamA:       a.TeamA,
			TeamB:       a.TeamB,
			SeriesState: a.SeriesState,
			Timestamp:   a.GeneratedAt,
			Version:     ExportVersion,
		},
		Estimates:   a.Estimates,
		Comparisons: a.Comparisons,
	}, "", "  ")
}

// ExportToJSON writes the analysis to outputPath, or to a timestamped file in
// the working directory when outputPath is empty. It returns the path written.
func ExportToJSON(a *Analysis, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("market_analysis_%s.json", a.GeneratedAt.Format("20060102_150405"))
	}

	data, err := MarshalExport(a)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write analysis export: %w", err)
	}
	return outputPath, nil
}
