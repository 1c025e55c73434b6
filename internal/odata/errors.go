package odata

import (
	"context"
	"errors"
	"fmt"
)

// ErrAuth indicates the backend rejected the supplied credentials (HTTP 401/403).
var ErrAuth = errors.New("odata: authentication rejected")

// RequestError wraps transport-level failures, including timeouts. The request
// never produced an HTTP status.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("odata: request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was caused by the request deadline.
func (e *RequestError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// StatusError is returned for any non-2xx response other than 401/403.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("odata: unexpected status %d", e.Status)
}

// ParseError indicates a 2xx response whose body was not the JSON shape
// the caller expected.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("odata: decode response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
