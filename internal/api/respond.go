package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/service"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Warn("error encoding response")
	}
}

func respondError(w http.ResponseWriter, status int, message, kind string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Kind:    kind,
		Code:    status,
	})
}

// respondFailure maps calculation and validation errors to 400, missing
// game data to 404 and everything else to 500
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	var bad *badRequest
	switch {
	case errors.As(err, &bad):
		respondError(w, http.StatusBadRequest, err.Error(), "malformed")
	case errors.As(err, &verrs):
		respondError(w, http.StatusBadRequest, err.Error(), "validation")
	case service.IsClientError(err):
		respondError(w, http.StatusBadRequest, err.Error(), models.ErrorKind(err))
	case errors.Is(err, datasource.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error(), datasource.ErrCodeNotFound)
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal error", "")
	}
}

// decode reads a JSON body into dst and validates it
func (s *Server) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &badRequest{err: err}
	}
	return s.validate.Struct(dst)
}

// badRequest marks a body that could not be decoded
type badRequest struct {
	err error
}

func (e *badRequest) Error() string {
	return "malformed request body: " + e.err.Error()
}

func (e *badRequest) Unwrap() error {
	return e.err
}
