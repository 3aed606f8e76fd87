package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/market"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/series"
)

func newSeriesCmd() *cobra.Command {
	var (
		flags            ratingsFlags
		state            models.SeriesState
		ratingA, ratingB float64
		simulations      int
		seed             int64
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Best-of-seven series probability from the current score",
		Long: `Projects a best-of-seven series under 2-2-1-1-1 hosting. Ratings come
from --rating-a/--rating-b when both are set, otherwise from the season's
Elo ratings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				result *series.Result
				err    error
			)
			if cmd.Flags().Changed("rating-a") && cmd.Flags().Changed("rating-b") {
				state.RatingA, state.RatingB = ratingA, ratingB
				result, err = svc.SeriesProbability(state)
			} else {
				req, reqErr := flags.request(cmd)
				if reqErr != nil {
					return reqErr
				}
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				result, err = svc.SeriesForTeams(ctx, req, state)
			}
			if err != nil {
				return err
			}
			printSeries(result)

			if simulations > 0 {
				sim, err := svc.SimulateSeries(context.Background(), result.State,
					series.SimulationConfig{Iterations: simulations, Seed: seed})
				if err != nil {
					return err
				}
				printSimulation(sim)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&state.TeamA, "team-a", "", "Team A")
	cmd.Flags().StringVar(&state.TeamB, "team-b", "", "Team B")
	cmd.Flags().IntVar(&state.SeedA, "seed-a", 0, "Team A playoff seed")
	cmd.Flags().IntVar(&state.SeedB, "seed-b", 0, "Team B playoff seed")
	cmd.Flags().IntVar(&state.WinsA, "wins-a", 0, "Games won by team A")
	cmd.Flags().IntVar(&state.WinsB, "wins-b", 0, "Games won by team B")
	cmd.Flags().Float64Var(&ratingA, "rating-a", 0, "Team A rating")
	cmd.Flags().Float64Var(&ratingB, "rating-b", 0, "Team B rating")
	cmd.Flags().IntVar(&simulations, "simulate", 0, "Cross-check with this many Monte Carlo runs")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for --simulate (0 uses the clock)")
	_ = cmd.MarkFlagRequired("team-a")
	_ = cmd.MarkFlagRequired("team-b")
	_ = cmd.MarkFlagRequired("seed-a")
	_ = cmd.MarkFlagRequired("seed-b")
	return cmd
}

func printSeries(r *series.Result) {
	s := r.State
	fmt.Printf("\n%s (%.1f) vs %s (%.1f), series %d-%d\n", s.TeamA, s.RatingA, s.TeamB, s.RatingB, s.WinsA, s.WinsB)
	fmt.Printf("Home court: %s  Hosting: %s\n\n", r.HigherSeed, strings.Join(r.HostSequence, "-"))
	fmt.Printf("  Series:  %s %s / %s %s\n", s.TeamA, market.FormatPercent(r.ProbabilityA*100), s.TeamB, market.FormatPercent(r.ProbabilityB*100))
	fmt.Printf("  Game %d at %s: %s wins %s\n", r.NextGame, r.NextGameHost, s.TeamA, market.FormatPercent(r.NextGameProbabilityA*100))
	fmt.Printf("  Neutral game: %s wins %s\n", s.TeamA, market.FormatPercent(r.NeutralGameProbabilityA*100))
	fmt.Printf("  Remaining games %v: %s %d home / %d away\n", r.Remaining.Games, s.TeamA, r.Remaining.AHome, r.Remaining.AAway)
}

func printSimulation(sim series.SimulationResult) {
	fmt.Printf("\nMonte Carlo (%d runs): %s, 95%% CI %s to %s\n", sim.Iterations,
		market.FormatPercent(sim.ProbabilityA*100), market.FormatPercent(sim.Low95*100), market.FormatPercent(sim.High95*100))
	for games := series.WinsNeeded; games <= series.MaxGames; games++ {
		if share, ok := sim.Length[games]; ok {
			fmt.Printf("  Ends in %d: %s\n", games, market.FormatPercent(share*100))
		}
	}
}
