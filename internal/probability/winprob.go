// Package probability converts rating differentials into win probabilities.
package probability

import "math"

// eloScale is the rating gap at which the stronger side is a 10:1 favourite
const eloScale = 400.0

// WinProbability returns the probability that team A beats team B given the
// rating differential d (A minus B) and a home-court bonus h credited to A.
// Neutral-court calls pass h = 0; pass a negative bonus when B hosts.
//
// WinProbability(d, h) + WinProbability(-d, -h) is exactly 1: the logistic is
// only evaluated for non-negative arguments and negative ones take the
// complement, which is exact for values in [0.5, 1].
func WinProbability(d, h float64) float64 {
	z := d + h
	if z < 0 {
		return 1 - logistic(-z)
	}
	return logistic(z)
}

func logistic(z float64) float64 {
	return 1 / (1 + math.Pow(10, -z/eloScale))
}

// ExpectedScore is the probability that a team rated ratingA beats a team
// rated ratingB on a neutral court.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return WinProbability(ratingA-ratingB, 0)
}

// Split is a pair of percentages for teams A and B that sums to 100
type Split struct {
	TeamA float64 `json:"team_a_prob"`
	TeamB float64 `json:"team_b_prob"`
}

func newSplit(p float64) Split {
	return Split{TeamA: p * 100, TeamB: (1 - p) * 100}
}

// MatchupResult holds A's chances on a neutral court and with either team hosting
type MatchupResult struct {
	RatingA   float64 `json:"elo_a"`
	RatingB   float64 `json:"elo_b"`
	Neutral   Split   `json:"neutral_site"`
	TeamAHome Split   `json:"team_a_home"`
	TeamBHome Split   `json:"team_b_home"`
}

// Matchup evaluates a single game between A and B at every venue
func Matchup(ratingA, ratingB, homeBonus float64) MatchupResult {
	d := ratingA - ratingB
	return MatchupResult{
		RatingA:   ratingA,
		RatingB:   ratingB,
		Neutral:   newSplit(WinProbability(d, 0)),
		TeamAHome: newSplit(WinProbability(d, homeBonus)),
		TeamBHome: newSplit(WinProbability(d, -homeBonus)),
	}
}
