package llm

import "fmt"

// ExternalServiceError is returned when a generation call fails terminally:
// either a non-retryable failure or an exhausted retry budget. It carries the
// last underlying failure cause.
type ExternalServiceError struct {
	Attempts int
	Cause    error
}

// Error implements the error interface.
func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("generation call failed after %d attempt(s): %v", e.Attempts, e.Cause)
}

// Unwrap returns the underlying failure cause.
func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}
