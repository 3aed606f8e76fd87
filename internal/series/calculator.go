package series

import (
	"fmt"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/probability"
)

// DefaultHomeCourtBonus is the rating bonus for the host of a playoff game
const DefaultHomeCourtBonus = 40.0

// Calculator computes series win probabilities. It holds no mutable state;
// every call allocates its own table.
type Calculator struct {
	homeCourtBonus float64
}

// NewCalculator creates a calculator with the given home-court bonus
func NewCalculator(homeCourtBonus float64) *Calculator {
	return &Calculator{homeCourtBonus: homeCourtBonus}
}

// Result is a projection from the queried series state
type Result struct {
	State                   models.SeriesState `json:"state"`
	ProbabilityA            float64            `json:"series_prob_a"`
	ProbabilityB            float64            `json:"series_prob_b"`
	NeutralGameProbabilityA float64            `json:"neutral_prob_a"`
	NextGame                int                `json:"next_game"`
	NextGameHost            string             `json:"next_game_host"`
	NextGameProbabilityA    float64            `json:"next_game_prob_a"`
	HigherSeed              string             `json:"higher_seed"`
	LowerSeed               string             `json:"lower_seed"`
	HostSequence            []string           `json:"host_sequence"`
	Remaining               Remaining          `json:"remaining"`
}

// ValidateState rejects decided or malformed series states
func ValidateState(state models.SeriesState) error {
	switch {
	case state.WinsA < 0 || state.WinsB < 0:
		return fmt.Errorf("%w: negative win count %d-%d", models.ErrInvalidState, state.WinsA, state.WinsB)
	case state.WinsA >= WinsNeeded || state.WinsB >= WinsNeeded:
		return fmt.Errorf("%w: series already decided at %d-%d", models.ErrInvalidState, state.WinsA, state.WinsB)
	case state.SeedA < 1 || state.SeedB < 1:
		return fmt.Errorf("%w: seeds must be positive ranks, got %d and %d", models.ErrInvalidState, state.SeedA, state.SeedB)
	case state.SeedA == state.SeedB:
		return fmt.Errorf("%w: both teams have seed %d, home court is undefined", models.ErrInvalidState, state.SeedA)
	}
	return nil
}

// GameProbability returns A's chance of winning the given game number, with
// the home-court bonus credited to whichever side hosts it.
func (c *Calculator) GameProbability(state models.SeriesState, gameNumber int) float64 {
	d := state.RatingA - state.RatingB
	if HostOf(gameNumber, state.AHasHomeCourt()) == SideA {
		return probability.WinProbability(d, c.homeCourtBonus)
	}
	return probability.WinProbability(d, -c.homeCourtBonus)
}

// table fills P(A wins series) for every (winsA, winsB) state.
// Row/column 4 are the decided states; [4][4] is unreachable.
func (c *Calculator) table(state models.SeriesState) [WinsNeeded + 1][WinsNeeded + 1]float64 {
	var t [WinsNeeded + 1][WinsNeeded + 1]float64
	for i := 0; i < WinsNeeded; i++ {
		t[WinsNeeded][i] = 1
		t[i][WinsNeeded] = 0
	}
	for a := WinsNeeded - 1; a >= 0; a-- {
		for b := WinsNeeded - 1; b >= 0; b-- {
			p := c.GameProbability(state, a+b+1)
			t[a][b] = p*t[a+1][b] + (1-p)*t[a][b+1]
		}
	}
	return t
}

// SeriesProbability returns A's probability of winning the series from state
func (c *Calculator) SeriesProbability(state models.SeriesState) (float64, error) {
	if err := ValidateState(state); err != nil {
		return 0, err
	}
	t := c.table(state)
	return t[state.WinsA][state.WinsB], nil
}

// Calculate projects the series and reports the supporting breakdown
func (c *Calculator) Calculate(state models.SeriesState) (*Result, error) {
	pA, err := c.SeriesProbability(state)
	if err != nil {
		return nil, err
	}

	aHigher := state.AHasHomeCourt()
	higher, lower := state.TeamA, state.TeamB
	if !aHigher {
		higher, lower = lower, higher
	}

	next := state.GameNumber()
	hosts := HostSequence(aHigher)
	labels := make([]string, len(hosts))
	for i, side := range hosts {
		labels[i] = teamFor(state, side)
	}

	return &Result{
		State:                   state,
		ProbabilityA:            pA,
		ProbabilityB:            1 - pA,
		NeutralGameProbabilityA: probability.WinProbability(state.RatingA-state.RatingB, 0),
		NextGame:                next,
		NextGameHost:            teamFor(state, HostOf(next, aHigher)),
		NextGameProbabilityA:    c.GameProbability(state, next),
		HigherSeed:              higher,
		LowerSeed:               lower,
		HostSequence:            labels,
		Remaining:               RemainingGames(next, aHigher),
	}, nil
}

func teamFor(state models.SeriesState, side Side) string {
	if side == SideA {
		if state.TeamA != "" {
			return state.TeamA
		}
		return string(SideA)
	}
	if state.TeamB != "" {
		return state.TeamB
	}
	return string(SideB)
}
