package elo

import "math"

const (
	movGapScale = 0.001
	movGapBase  = 2.2

	// A 19-point margin between even teams scales the update by exactly 1.
	movMarginNorm = 20.0

	// Gaps below this would push the denominator towards zero.
	movMinWinnerGap = -2000.0
)

// MarginMultiplier scales a rating change by the margin of victory. It grows
// with ln(margin+1)/ln(20) and shrinks as the winner's pre-game rating
// advantage over the loser grows, so a favourite's rout over a weak team moves
// ratings less than an upset of the same size.
func MarginMultiplier(margin int, winnerGap float64) float64 {
	if margin < 0 {
		margin = -margin
	}
	winnerGap = math.Max(winnerGap, movMinWinnerGap)
	scale := math.Log(float64(margin)+1) / math.Log(movMarginNorm)
	return scale * movGapBase / (movGapScale*winnerGap + movGapBase)
}
