package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/elo"
	"github.com/yourusername/courtside/internal/market"
	"github.com/yourusername/courtside/internal/service"
)

// ratingsFlags are shared by every command that needs a rating run
type ratingsFlags struct {
	season          string
	kType           string
	kValue          float64
	homeCourt       bool
	marginOfVictory bool
	start           string
	end             string
}

func (f *ratingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.season, "season", "s", "", "Season id such as 2024-25 (default: data.season or the current season)")
	cmd.Flags().StringVar(&f.kType, "k-type", "", "K-factor policy: fixed or decreasing")
	cmd.Flags().Float64Var(&f.kValue, "k-value", 20, "K for the fixed policy")
	cmd.Flags().BoolVar(&f.homeCourt, "home-court", false, "Credit the home team inside rating updates")
	cmd.Flags().BoolVar(&f.marginOfVictory, "mov", false, "Scale updates by margin of victory")
	cmd.Flags().StringVar(&f.start, "start", "", "First date of the rating window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last date of the rating window (YYYY-MM-DD)")
}

// request converts the flags; only flags the user set override configuration
func (f *ratingsFlags) request(cmd *cobra.Command) (service.RatingsRequest, error) {
	req := service.RatingsRequest{Season: f.season}
	if req.Season == "" {
		req.Season = cfg.Data.Season
	}
	if f.kType != "" {
		req.KFactorType = f.kType
		req.KFactorValue = f.kValue
	}
	if cmd.Flags().Changed("home-court") {
		req.HomeCourt = &f.homeCourt
	}
	if cmd.Flags().Changed("mov") {
		req.MarginOfVictory = &f.marginOfVictory
	}

	if f.start == "" && f.end == "" {
		return req, nil
	}
	start, err := time.Parse(config.DateLayout, f.start)
	if err != nil {
		return req, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(config.DateLayout, f.end)
	if err != nil {
		return req, fmt.Errorf("invalid --end: %w", err)
	}
	window := elo.DayWindow(start, end)
	req.Window = &window
	return req, nil
}

func newRatingsCmd() *cobra.Command {
	var (
		flags   ratingsFlags
		top     int
		asJSON  bool
		history string
	)

	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Compute team Elo ratings for a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			report, err := svc.Ratings(ctx, req)
			if err != nil {
				return err
			}

			if history != "" {
				points, err := report.Snapshot.TeamHistory(history)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(points)
				}
				printHistory(history, report.Season, points)
				return nil
			}
			if asJSON {
				return printJSON(report)
			}
			printRatings(report, top)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&top, "top", "n", 0, "Only show the top n teams")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	cmd.Flags().StringVar(&history, "history", "", "Print one team's game-by-game rating trajectory instead of the table")
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHistory(team, seasonID string, points []elo.TrajectoryPoint) {
	fmt.Printf("\n%s rating trajectory %s (%d games)\n\n", team, seasonID, len(points))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tDATE\tOPPONENT\tRESULT\tDELTA\tELO")
	for _, p := range points {
		venue := "@"
		if p.Home {
			venue = "vs"
		}
		result := "L"
		if p.Won {
			result = "W"
		}
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%+.1f\t%.1f\n",
			p.Game, p.Date.Format(config.DateLayout), venue, p.Opponent, result, p.Delta, p.Rating)
	}
	w.Flush()
}

func printRatings(report *service.RatingsReport, top int) {
	snap := report.Snapshot
	fmt.Printf("\nElo ratings %s (%s, %d games)\n\n", report.Season, snap.Policy, snap.Stats.TotalGames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tTEAM\tCONF\tELO\tW-L")
	for i, r := range snap.Ratings {
		if top > 0 && i >= top {
			break
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d-%d\n", i+1, r.Team, r.Conference, r.Rating, r.Wins, r.Losses)
	}
	w.Flush()

	fmt.Printf("\nHighest %.1f  Lowest %.1f  Average %.1f  Range %.1f\n",
		snap.Stats.Highest, snap.Stats.Lowest, snap.Stats.Average, snap.Stats.Range)
	for conf, avg := range report.ConferenceAverages {
		fmt.Printf("%s average: %.1f\n", conf, avg)
	}
}

func newCompareKCmd() *cobra.Command {
	var (
		flags    ratingsFlags
		policies []string
		movers   int
	)

	cmd := &cobra.Command{
		Use:   "compare-k",
		Short: "Compare K-factor policies over the same season",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd)
			if err != nil {
				return err
			}
			parsed, err := service.ParsePolicies(policies)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			cmp, err := svc.CompareKPolicies(ctx, req, parsed)
			if err != nil {
				return err
			}

			fmt.Printf("\nK-factor comparison %s\n\n", cmp.Season)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "TEAM\t%s\tSPREAD\n", strings.Join(cmp.Policies, "\t"))
			for _, team := range cmp.Teams {
				cells := make([]string, len(team.Ratings))
				for i := range team.Ratings {
					cells[i] = fmt.Sprintf("%.1f (#%d)", team.Ratings[i], team.Ranks[i])
				}
				fmt.Fprintf(w, "%s\t%s\t%.1f\n", team.Team, strings.Join(cells, "\t"), team.RatingSpread)
			}
			w.Flush()

			fmt.Println("\nBiggest movers:")
			for _, m := range cmp.BiggestMovers(movers) {
				fmt.Printf("  %s: %d places, %.1f points\n", m.Team, m.RankSpread, m.RatingSpread)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&policies, "policies", []string{"fixed:20", "decreasing"}, "Policies to compare")
	cmd.Flags().IntVar(&movers, "movers", 5, "Number of biggest movers to list")
	return cmd
}

func newProbabilityCmd() *cobra.Command {
	var flags ratingsFlags

	cmd := &cobra.Command{
		Use:   "probability TEAM_A TEAM_B",
		Short: "Single-game win probability between two rated teams",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			result, err := svc.WinProbability(ctx, req, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (%.1f) vs %s (%.1f)\n\n", args[0], result.RatingA, args[1], result.RatingB)
			fmt.Printf("  Neutral site:   %s / %s\n", market.FormatPercent(result.Neutral.TeamA), market.FormatPercent(result.Neutral.TeamB))
			fmt.Printf("  %s at home: %s / %s\n", args[0], market.FormatPercent(result.TeamAHome.TeamA), market.FormatPercent(result.TeamAHome.TeamB))
			fmt.Printf("  %s at home: %s / %s\n", args[1], market.FormatPercent(result.TeamBHome.TeamA), market.FormatPercent(result.TeamBHome.TeamB))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
