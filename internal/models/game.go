package models

import "time"

// GameStage distinguishes preseason, regular season and playoff games
type GameStage string

const (
	StagePreseason GameStage = "preseason"
	StageRegular   GameStage = "regular"
	StagePlayoff   GameStage = "playoff"
)

// GameRecord represents one finished game. Records are treated as immutable
// once they have been loaded.
type GameRecord struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"home_team" validate:"required"`
	AwayTeam  string    `json:"away_team" validate:"required,nefield=HomeTeam"`
	HomeScore int       `json:"home_score" validate:"gte=0"`
	AwayScore int       `json:"away_score" validate:"gte=0"`
	Stage     GameStage `json:"stage" validate:"required,oneof=preseason regular playoff"`
}

// IsPreseason reports whether the game must be ignored by rating runs
func (g GameRecord) IsPreseason() bool {
	return g.Stage == StagePreseason
}

// HomeWon reports whether the home team won the game
func (g GameRecord) HomeWon() bool {
	return g.HomeScore > g.AwayScore
}

// Margin returns the absolute point differential
func (g GameRecord) Margin() int {
	if g.HomeScore > g.AwayScore {
		return g.HomeScore - g.AwayScore
	}
	return g.AwayScore - g.HomeScore
}

// Winner returns the id of the winning team
func (g GameRecord) Winner() string {
	if g.HomeWon() {
		return g.HomeTeam
	}
	return g.AwayTeam
}

// Loser returns the id of the losing team
func (g GameRecord) Loser() string {
	if g.HomeWon() {
		return g.AwayTeam
	}
	return g.HomeTeam
}
