package acquire

import (
	"errors"
	"fmt"
)

// ErrEmptyBody is returned for a successful response that carries no markup.
var ErrEmptyBody = errors.New("empty response body")

// ExhaustedError reports that every retrieval strategy for a locator failed.
type ExhaustedError struct {
	Locator  string
	Attempts int
	Cause    error // the last attempt's failure
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("could not retrieve %s after %d attempts: %v", e.Locator, e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error { return e.Cause }

// MalformedLocatorError reports input that is not a usable https URL after
// normalization. No network attempt is made for it.
type MalformedLocatorError struct {
	Input string
	Cause error
}

func (e *MalformedLocatorError) Error() string {
	return fmt.Sprintf("malformed locator %q: %v", e.Input, e.Cause)
}

func (e *MalformedLocatorError) Unwrap() error { return e.Cause }

// StatusError is an attempt failure caused by a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Code)
}
