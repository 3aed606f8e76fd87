// Package datasource loads finished game results for rating runs.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/courtside/internal/models"
)

// GameSource supplies finished games in chronological order
type GameSource interface {
	// FetchGames returns every finished game the source knows about
	FetchGames(ctx context.Context) ([]models.GameRecord, error)

	// Name returns the name of the data source
	Name() string
}

// SourceError represents errors from data source operations
type SourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeIO          = "io_error"
)

var (
	ErrNotFound    = errors.New("data not found")
	ErrInvalidData = errors.New("invalid data format")
)

// NewSourceError creates a new data source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
