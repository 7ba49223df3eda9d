package client

import (
	"errors"
	"fmt"
)

// FetchError reports a failed read. The zero StatusCode means the request
// never produced an HTTP response (transport failure or timeout).
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch failed: %s", e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError reports a failed write or status transition. Server-side
// validation failures arrive here as 4xx responses carrying the server's
// message; the client raises no validation errors of its own.
type MutationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *MutationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mutation failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mutation failed: %s", e.Message)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from either error class.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == 404
	}
	var mutationErr *MutationError
	if errors.As(err, &mutationErr) {
		return mutationErr.StatusCode == 404
	}
	return false
}
