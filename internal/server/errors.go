// Package server provides the HTTP REST API for the freight intake agent.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/freight-agent/internal/selection"
	"github.com/jonathan/freight-agent/internal/update"
	"github.com/jonathan/freight-agent/internal/workflow"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidCreds *ErrInvalidCredentials
		validation   *ErrValidation
		ambiguous    *workflow.AmbiguousReferenceError
		notFound     *workflow.NotFoundError
		outOfOrder   *selection.OutOfOrderError
		stale        *update.PreconditionFailedError
	)

	switch {
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &ambiguous):
		// The caller must confirm a candidate and retry.
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, selection.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, selection.ErrUnknownCandidate):
		return http.StatusBadRequest
	case errors.As(err, &outOfOrder):
		return http.StatusConflict
	case errors.As(err, &stale):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
