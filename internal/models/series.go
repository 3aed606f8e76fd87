package models

// SeriesState is the current score of a best-of-seven series between A and B.
// Seeds are ranks: the numerically lower seed is the higher seed.
type SeriesState struct {
	TeamA   string  `json:"team_a"`
	TeamB   string  `json:"team_b"`
	RatingA float64 `json:"rating_a"`
	RatingB float64 `json:"rating_b"`
	SeedA   int     `json:"seed_a"`
	SeedB   int     `json:"seed_b"`
	WinsA   int     `json:"wins_a"`
	WinsB   int     `json:"wins_b"`
}

// GameNumber returns the number of the next game to be played
func (s SeriesState) GameNumber() int {
	return s.WinsA + s.WinsB + 1
}

// AHasHomeCourt reports whether team A is the higher seed
func (s SeriesState) AHasHomeCourt() bool {
	return s.SeedA < s.SeedB
}
