package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/market"
	"github.com/yourusername/courtside/internal/service"
)

// parseEstimate reads "model=probability" or "model=probability:confidence"
func parseEstimate(raw string) (service.EstimateInput, error) {
	model, rest, ok := strings.Cut(raw, "=")
	if !ok || model == "" {
		return service.EstimateInput{}, fmt.Errorf("estimate %q is not of the form model=probability", raw)
	}
	value, confidence, _ := strings.Cut(rest, ":")
	prob, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return service.EstimateInput{}, fmt.Errorf("estimate %q: %w", raw, err)
	}
	return service.EstimateInput{Model: model, Probability: prob, Confidence: confidence}, nil
}

func newMarketCmd() *cobra.Command {
	var (
		req        service.MarketRequest
		odds       float64
		marketProb float64
		estimates  []string
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Compare model estimates with a market price",
		Example: `  courtside market --team-a "Indiana Pacers" --team-b "Oklahoma City Thunder" \
    --market-odds 300 --estimate elo=35 --estimate historical=30:low`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case cmd.Flags().Changed("market-odds"):
				req.MarketOdds = &odds
			case cmd.Flags().Changed("market-probability"):
				req.MarketProbability = &marketProb
			default:
				return fmt.Errorf("one of --market-odds or --market-probability is required")
			}
			for _, raw := range estimates {
				est, err := parseEstimate(raw)
				if err != nil {
					return err
				}
				req.Estimates = append(req.Estimates, est)
			}

			analysis, err := svc.AnalyzeMarket(req)
			if err != nil {
				return err
			}
			fmt.Print(market.GenerateConsoleReport(analysis))

			if exportPath != "" {
				path, err := market.ExportToJSON(analysis, exportPath)
				if err != nil {
					return err
				}
				fmt.Printf("\nExported analysis to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TeamA, "team-a", "", "Team A")
	cmd.Flags().StringVar(&req.TeamB, "team-b", "", "Team B")
	cmd.Flags().StringVar(&req.SeriesState, "series-state", "", "Series description, e.g. \"Series tied 1-1\"")
	cmd.Flags().Float64Var(&odds, "market-odds", 0, "American odds on team A")
	cmd.Flags().Float64Var(&marketProb, "market-probability", 0, "Market probability of team A in percent")
	cmd.Flags().StringArrayVarP(&estimates, "estimate", "e", nil, "Model estimate as model=percent[:confidence]; repeatable")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the analysis as JSON to this file")
	return cmd
}

func newOddsCmd() *cobra.Command {
	var american, probability float64

	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Convert between American odds and implied probability",
		RunE: func(cmd *cobra.Command, args []string) error {
			odds := american
			if cmd.Flags().Changed("probability") {
				var err error
				if odds, err = market.ProbabilityToAmericanOdds(probability / 100); err != nil {
					return err
				}
			} else if !cmd.Flags().Changed("american") {
				return fmt.Errorf("one of --american or --probability is required")
			}

			implied, err := market.OddsToProbability(odds)
			if err != nil {
				return err
			}
			dec, err := market.AmericanToDecimal(odds)
			if err != nil {
				return err
			}
			fmt.Printf("American %s  Decimal %.3f  Implied %s\n",
				market.FormatAmericanOdds(odds), dec, market.FormatPercent(implied*100))
			return nil
		},
	}

	cmd.Flags().Float64Var(&american, "american", 0, "American odds, e.g. -150 or 300")
	cmd.Flags().Float64Var(&probability, "probability", 0, "Probability in percent")
	return cmd
}
