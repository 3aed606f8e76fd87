package models

// BaselineRating is the rating every team starts from before its first game
const BaselineRating = 1500.0

// TeamRating is a team's rating and record at the end of a rating run
type TeamRating struct {
	Team       string  `json:"team"`
	Rating     float64 `json:"rating"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Conference string  `json:"conference,omitempty"`
}

// GamesPlayed returns the number of processed games for the team
func (r TeamRating) GamesPlayed() int {
	return r.Wins + r.Losses
}

// WinPercentage returns wins over games played, or 0 with no games
func (r TeamRating) WinPercentage() float64 {
	if r.GamesPlayed() == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.GamesPlayed())
}
