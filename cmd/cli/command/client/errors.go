package client

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the server answers 503 (its store is down).
var ErrUnavailable = errors.New("service unavailable")

// NetworkError wraps transport failures: DNS, refused connections, timeouts.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the server answered but the body was not what we expected.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: could not decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError carries a non-2xx status and the server's error message.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnavailable && e.StatusCode == 503
}
