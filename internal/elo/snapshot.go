package elo

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yourusername/courtside/internal/models"
)

// Stats summarises a rating table
type Stats struct {
	TotalGames int     `json:"total_games"`
	Teams      int     `json:"teams"`
	Highest    float64 `json:"highest_elo"`
	Lowest     float64 `json:"lowest_elo"`
	Average    float64 `json:"average_elo"`
	Range      float64 `json:"elo_range"`
}

// Snapshot is the outcome of one rating run
type Snapshot struct {
	Policy  string              `json:"policy"`
	Ratings []models.TeamRating `json:"results"`
	Stats   Stats               `json:"stats"`
	History []RatingChange      `json:"-"`
}

func newSnapshot(teams map[string]*teamState, history []RatingChange, policy string) *Snapshot {
	ratings := make([]models.TeamRating, 0, len(teams))
	for team, ts := range teams {
		ratings = append(ratings, models.TeamRating{
			Team:   team,
			Rating: ts.rating,
			Wins:   ts.wins,
			Losses: ts.losses,
		})
	}
	SortRatings(ratings)

	stats := ComputeStats(ratings)
	stats.TotalGames = len(history)

	return &Snapshot{
		Policy:  policy,
		Ratings: ratings,
		Stats:   stats,
		History: history,
	}
}

// SortRatings orders ratings from strongest to weakest; equal ratings are
// ordered by team id.
func SortRatings(ratings []models.TeamRating) {
	sort.SliceStable(ratings, func(i, j int) bool {
		if ratings[i].Rating != ratings[j].Rating {
			return ratings[i].Rating > ratings[j].Rating
		}
		return ratings[i].Team < ratings[j].Team
	})
}

// ComputeStats reduces a rating table to its aggregate statistics.
// TotalGames is left for the caller.
func ComputeStats(ratings []models.TeamRating) Stats {
	if len(ratings) == 0 {
		return Stats{}
	}
	stats := Stats{
		Teams:   len(ratings),
		Highest: math.Inf(-1),
		Lowest:  math.Inf(1),
	}
	sum := 0.0
	for _, r := range ratings {
		sum += r.Rating
		stats.Highest = math.Max(stats.Highest, r.Rating)
		stats.Lowest = math.Min(stats.Lowest, r.Rating)
	}
	stats.Average = sum / float64(len(ratings))
	stats.Range = stats.Highest - stats.Lowest
	return stats
}

// Rating looks up a team's final rating
func (s *Snapshot) Rating(team string) (models.TeamRating, bool) {
	for _, r := range s.Ratings {
		if r.Team == team {
			return r, true
		}
	}
	return models.TeamRating{}, false
}

// Rank returns the team's 1-based position in the table, or 0 if unrated
func (s *Snapshot) Rank(team string) int {
	for i, r := range s.Ratings {
		if r.Team == team {
			return i + 1
		}
	}
	return 0
}

// RatingMap returns team id -> rating
func (s *Snapshot) RatingMap() map[string]float64 {
	out := make(map[string]float64, len(s.Ratings))
	for _, r := range s.Ratings {
		out[r.Team] = r.Rating
	}
	return out
}

// TrajectoryPoint is one team's rating after one game
type TrajectoryPoint struct {
	Game     int              `json:"game"`
	Date     time.Time        `json:"date"`
	Stage    models.GameStage `json:"stage"`
	Opponent string           `json:"opponent"`
	Home     bool             `json:"home"`
	Won      bool             `json:"won"`
	Before   float64          `json:"elo_before"`
	Delta    float64          `json:"delta"`
	Rating   float64          `json:"elo"`
}

// TeamHistory returns the team's rating after each of its games in run order.
// Game counts the team's own games from 1.
func (s *Snapshot) TeamHistory(team string) ([]TrajectoryPoint, error) {
	if _, ok := s.Rating(team); !ok {
		return nil, fmt.Errorf("%w: team %q has no rating in this run", models.ErrDomain, team)
	}

	points := make([]TrajectoryPoint, 0)
	for _, change := range s.History {
		var p TrajectoryPoint
		switch team {
		case change.HomeTeam:
			p = TrajectoryPoint{Opponent: change.AwayTeam, Home: true, Before: change.HomeBefore, Delta: change.HomeDelta}
		case change.AwayTeam:
			p = TrajectoryPoint{Opponent: change.HomeTeam, Before: change.AwayBefore, Delta: change.AwayDelta}
		default:
			continue
		}
		p.Game = len(points) + 1
		p.Date = change.Date
		p.Stage = change.Stage
		p.Won = p.Delta > 0
		p.Rating = p.Before + p.Delta
		points = append(points, p)
	}
	return points, nil
}
