package fetch

import (
	"errors"
	"fmt"
)

// ErrClientClosed is returned when Fetch is called on a closed client.
var ErrClientClosed = errors.New("fetch client is closed")

// StatusError reports a non-2xx HTTP status after all per-attempt
// fallbacks were applied.
type StatusError struct {
	Status int
	URL    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d for %s", e.Status, e.URL)
}

// RetryExhaustedError is returned after the outer retry loop has used up
// every attempt. It wraps the last underlying error.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last underlying error.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
