package models

import "errors"

// Error taxonomy shared by the rating, series and market calculators.
// Callers match on these with errors.Is; every failure wraps exactly one.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrInvalidState  = errors.New("invalid state")
	ErrDomain        = errors.New("domain error")
	ErrDegenerate    = errors.New("arithmetic degeneracy")
)

// ErrorKind returns a short label for the taxonomy member wrapped by err,
// or "unknown" when err wraps none of them.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrDegenerate):
		return "degenerate"
	default:
		return "unknown"
	}
}
