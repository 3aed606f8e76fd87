// Package series projects best-of-seven playoff series under the 2-2-1-1-1
// hosting format.
package series

// Best-of-seven bounds
const (
	MaxGames   = 7
	WinsNeeded = 4
)

// Side identifies one of the two teams in a series
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// higherSeedHosts marks the games hosted by the higher seed: 1, 2, 5 and 7.
// Index 0 is unused.
var higherSeedHosts = [MaxGames + 1]bool{1: true, 2: true, 5: true, 7: true}

// HigherSeedHosts reports whether the higher seed hosts the given game number
func HigherSeedHosts(gameNumber int) bool {
	if gameNumber < 1 || gameNumber > MaxGames {
		return false
	}
	return higherSeedHosts[gameNumber]
}

// HostOf returns the hosting side of a game. The table depends only on which
// side is the higher seed, never on the score.
func HostOf(gameNumber int, aIsHigherSeed bool) Side {
	if HigherSeedHosts(gameNumber) == aIsHigherSeed {
		return SideA
	}
	return SideB
}

// HostSequence lists the hosts of games 1 through 7
func HostSequence(aIsHigherSeed bool) []Side {
	seq := make([]Side, 0, MaxGames)
	for g := 1; g <= MaxGames; g++ {
		seq = append(seq, HostOf(g, aIsHigherSeed))
	}
	return seq
}

// Remaining counts the games each team can still host from a game number on
type Remaining struct {
	Games []int `json:"remaining_games"`
	AHome int   `json:"a_remaining_home"`
	AAway int   `json:"a_remaining_away"`
	BHome int   `json:"b_remaining_home"`
	BAway int   `json:"b_remaining_away"`
}

// RemainingGames walks the host table from gameNumber to game 7
func RemainingGames(gameNumber int, aIsHigherSeed bool) Remaining {
	r := Remaining{Games: []int{}}
	if gameNumber < 1 {
		gameNumber = 1
	}
	for g := gameNumber; g <= MaxGames; g++ {
		r.Games = append(r.Games, g)
		if HostOf(g, aIsHigherSeed) == SideA {
			r.AHome++
		} else {
			r.AAway++
		}
	}
	r.BHome = r.AAway
	r.BAway = r.AHome
	return r
}
