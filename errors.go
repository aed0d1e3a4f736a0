package mapsapi

import "fmt"

// StatusOK is the only API status that carries results. Anything else
// (ZERO_RESULTS, OVER_QUERY_LIMIT, REQUEST_DENIED, ...) yields missing-data
// markers rather than a hard failure.
const StatusOK = "OK"

// ValidationError reports a malformed argument. It is always raised before
// any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StatusError reports a non-OK API-level status. Batch operations record it
// per item instead of returning it.
type StatusError struct {
	Status       string
	ErrorMessage string
}

func (e *StatusError) Error() string {
	if e.ErrorMessage == "" {
		return fmt.Sprintf("maps API status %s", e.Status)
	}
	return fmt.Sprintf("maps API status %s: %s", e.Status, e.ErrorMessage)
}

// ParseError reports a response that does not match the expected schema.
// It signals the integration itself is broken, so it is kept distinct from
// validation and transport failures.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
