package simulate

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by a run.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrMismatch     = errors.New("rankings differ between equivalent inputs")
	ErrInvariant    = errors.New("ranking invariant violated")
	ErrUnexpected   = errors.New("unexpected response")
	ErrFileFormat   = errors.New("unsupported file format")
	ErrInvalidInput = errors.New("invalid simulation input")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets callers match status failures with errors.Is(err, ErrUnexpected).
func (e *StatusError) Unwrap() error {
	return ErrUnexpected
}
