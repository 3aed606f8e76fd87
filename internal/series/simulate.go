package series

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/yourusername/courtside/internal/models"
)

// DefaultSimulations is used when a simulation asks for no iterations
const DefaultSimulations = 10000

// SimulationConfig configures a Monte Carlo series simulation
type SimulationConfig struct {
	Iterations int
	// Seed fixes the random stream; zero seeds from the clock
	Seed int64
}

// SimulationResult summarises simulated series outcomes
type SimulationResult struct {
	Iterations   int     `json:"iterations"`
	WinsA        int     `json:"wins_a"`
	ProbabilityA float64 `json:"series_prob_a"`
	StdError     float64 `json:"std_error"`
	Low95        float64 `json:"ci95_low"`
	High95       float64 `json:"ci95_high"`
	// Length maps total games in the series to the share of runs ending there
	Length map[int]float64 `json:"length_distribution"`
}

// Simulate plays the remainder of the series out game by game under the
// same hosting and home-court rules as the exact calculation
func (c *Calculator) Simulate(ctx context.Context, state models.SeriesState, cfg SimulationConfig) (SimulationResult, error) {
	if err := ValidateState(state); err != nil {
		return SimulationResult{}, err
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultSimulations
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var games [MaxGames + 1]float64
	for g := state.GameNumber(); g <= MaxGames; g++ {
		games[g] = c.GameProbability(state, g)
	}

	rng := rand.New(rand.NewSource(seed))
	lengths := make(map[int]int)
	winsA := 0

	for i := 0; i < cfg.Iterations; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return SimulationResult{}, fmt.Errorf("simulation stopped after %d runs: %w", i, err)
			}
		}
		a, b := state.WinsA, state.WinsB
		for a < WinsNeeded && b < WinsNeeded {
			if rng.Float64() < games[a+b+1] {
				a++
			} else {
				b++
			}
		}
		if a == WinsNeeded {
			winsA++
		}
		lengths[a+b]++
	}

	n := float64(cfg.Iterations)
	p := float64(winsA) / n
	se := math.Sqrt(p * (1 - p) / n)

	result := SimulationResult{
		Iterations:   cfg.Iterations,
		WinsA:        winsA,
		ProbabilityA: p,
		StdError:     se,
		Low95:        math.Max(0, p-1.96*se),
		High95:       math.Min(1, p+1.96*se),
		Length:       make(map[int]float64, len(lengths)),
	}
	for played, count := range lengths {
		result.Length[played] = float64(count) / n
	}
	return result, nil
}
