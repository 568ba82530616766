package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the fetch package.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrNoEndpoints is returned when neither a primary nor a fallback
	// endpoint is configured.
	ErrNoEndpoints = errors.New("no API endpoint configured")

	// ErrAllEndpointsFailed is returned when every configured endpoint
	// failed for a page. It wraps the last underlying failure.
	ErrAllEndpointsFailed = errors.New("all endpoints failed")
)

// StatusError represents a terminal non-2xx HTTP response.
type StatusError struct {
	Code     int
	Endpoint string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.Endpoint)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// DecodeError represents a response body that could not be decoded as the
// expected JSON shape. Decode failures are never retried.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// retryableStatus reports whether an HTTP status signals a transient
// failure worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// isTransient classifies an error for the retry loop. Connection-level
// failures are transient; HTTP statuses follow retryableStatus; decode
// failures are permanent.
func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return retryableStatus(se.Code)
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return false
	}
	return true
}
