// Package resource provides generic clients for the remote logistics
// resource collections (cities, materials, trips, parcels, partners).
package resource

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError represents a network-level failure: the request never
// produced an HTTP response.
type TransportError struct {
	Collection string
	Operation  string
	Cause      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Collection, e.Operation, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// StatusError represents a non-2xx HTTP response. It carries the status code
// and the raw body so callers can decide on a retry policy.
type StatusError struct {
	Collection string
	Operation  string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s %s: HTTP status %d: %s", e.Collection, e.Operation, e.StatusCode, body)
}

// PreconditionFailed reports whether the response was a stale version
// rejection.
func (e *StatusError) PreconditionFailed() bool {
	return e.StatusCode == http.StatusPreconditionFailed
}

// ValidationError represents a request that was rejected locally before any
// network call was attempted.
type ValidationError struct {
	Collection string
	Operation  string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Collection, e.Operation, e.Message)
}

// IsPreconditionFailed reports whether err is a stale-version rejection from
// the remote service.
func IsPreconditionFailed(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.PreconditionFailed()
}
