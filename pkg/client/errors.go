package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks a 401 from any endpoint. Session-wide fatal:
	// the registered handler has already been told by the time a caller
	// sees this error.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransport marks network-level failures (unreachable, timeout).
	ErrTransport = errors.New("transport failure")
)

// APIError is a non-401 error response from the engine; Body carries the
// server-supplied message verbatim for surfacing to the operator.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("engine returned status %d", e.Status)
	}

	return fmt.Sprintf("engine returned status %d: %s", e.Status, e.Body)
}
