package solver

import (
	"errors"
	"fmt"
)

// ErrNetwork reports that no configured endpoint could be reached.
var ErrNetwork = errors.New("network error")

const snippetLimit = 300

// APIError is an error response from the optimization service, or a 502
// when the upstream body was not JSON.
type APIError struct {
	Status  int
	Message string
	// First bytes of a non-JSON upstream body.
	Snippet string
	// Status the upstream actually answered with, when it differs from Status.
	UpstreamStatus int
}

func (e *APIError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("solver: %s (status %d): %s", e.Message, e.Status, e.Snippet)
	}
	return fmt.Sprintf("solver: %s (status %d)", e.Message, e.Status)
}

func snippet(body []byte) string {
	if len(body) > snippetLimit {
		body = body[:snippetLimit]
	}
	return string(body)
}
