package elo

import (
	"fmt"
	"math"
	"time"

	"github.com/yourusername/courtside/internal/models"
)

// Decreasing schedule bounds: K starts at 40 and falls linearly to 10.
const (
	DecreasingKStart = 40.0
	DecreasingKFloor = 10.0
	decreasingKSpan  = DecreasingKStart - DecreasingKFloor
)

// KFactorPolicy decides the update sensitivity for a game given the fraction
// of the date window elapsed when it was played.
type KFactorPolicy interface {
	K(progress float64) float64
	Name() string
	Validate() error
}

// FixedK applies the same K to every game
type FixedK struct {
	Value float64
}

// K returns the constant value regardless of progress
func (f FixedK) K(float64) float64 {
	return f.Value
}

// Name identifies the policy in logs and cache keys
func (f FixedK) Name() string {
	return fmt.Sprintf("fixed:%g", f.Value)
}

// Validate rejects non-positive constants
func (f FixedK) Validate() error {
	if !(f.Value > 0) || math.IsInf(f.Value, 0) {
		return fmt.Errorf("%w: fixed k-factor must be positive, got %v", models.ErrConfiguration, f.Value)
	}
	return nil
}

// DecreasingK implements K(progress) = max(10, 40 - 30*progress)
type DecreasingK struct{}

// K returns the scheduled value with progress clamped to [0,1]
func (DecreasingK) K(progress float64) float64 {
	progress = clamp01(progress)
	return math.Max(DecreasingKFloor, DecreasingKStart-decreasingKSpan*progress)
}

// Name identifies the policy in logs and cache keys
func (DecreasingK) Name() string {
	return "decreasing"
}

// Validate always succeeds; the schedule has no free parameters
func (DecreasingK) Validate() error {
	return nil
}

// ParseKFactor builds a policy from its configuration form
func ParseKFactor(kind string, value float64) (KFactorPolicy, error) {
	switch kind {
	case "fixed", "":
		policy := FixedK{Value: value}
		if err := policy.Validate(); err != nil {
			return nil, err
		}
		return policy, nil
	case "decreasing":
		return DecreasingK{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown k-factor type %q", models.ErrConfiguration, kind)
	}
}

// DateWindow bounds the games a run considers. The zero value means "all games".
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindow covers whole calendar days from start through end. A zero end
// leaves the window open-ended.
func DayWindow(start, end time.Time) DateWindow {
	w := DateWindow{Start: start}
	if !end.IsZero() {
		w.End = end.Add(24*time.Hour - time.Nanosecond)
	}
	return w
}

// IsZero reports whether no window was selected
func (w DateWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Validate rejects windows that end before they start
func (w DateWindow) Validate() error {
	if w.IsZero() {
		return nil
	}
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: date window needs both start and end", models.ErrConfiguration)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: date window ends %s before it starts %s",
			models.ErrConfiguration, w.End.Format("2006-01-02"), w.Start.Format("2006-01-02"))
	}
	return nil
}

// Contains reports whether t falls inside the window, bounds included
func (w DateWindow) Contains(t time.Time) bool {
	if w.IsZero() {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// Progress returns the elapsed fraction of the window at t, clamped to [0,1].
// A zero-length window counts as fully elapsed from its single instant on.
func (w DateWindow) Progress(t time.Time) float64 {
	total := w.End.Sub(w.Start)
	if total <= 0 {
		if t.Before(w.Start) {
			return 0
		}
		return 1
	}
	return clamp01(float64(t.Sub(w.Start)) / float64(total))
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
