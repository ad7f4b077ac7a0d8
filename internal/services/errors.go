package services

import (
	"errors"
	"fmt"
)

var (
	// ErrBundleUnavailable means the bundle location could not be read.
	ErrBundleUnavailable = errors.New("bundle unavailable")
	// ErrMalformedStructuredFile marks a structured-data parse failure. It is
	// reported as a quality issue, never returned to callers.
	ErrMalformedStructuredFile = errors.New("malformed structured file")
	// ErrInternalEvaluation wraps any other unexpected fault during evaluation.
	ErrInternalEvaluation = errors.New("internal evaluation error")
	// ErrInsightsDisabled is returned when the LLM or vector index is not configured.
	ErrInsightsDisabled = errors.New("insights are not configured")
)

func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
