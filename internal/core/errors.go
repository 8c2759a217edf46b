// ABOUTME: Error taxonomy for the place library
// ABOUTME: Distinguishes unavailable backends from per-call failures
package core

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable marks a tier whose backend never initialized or is
// not configured. Callers fall through to the next tier.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ErrNotFound is returned when a place ID does not exist in any tier
var ErrNotFound = errors.New("place not found")

// BackendCallError wraps a failure from a configured backend. The backend
// stays enabled; only this call failed.
type BackendCallError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendCallError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendCallError) Unwrap() error {
	return e.Err
}

func callErr(backend, op string, err error) error {
	return &BackendCallError{Backend: backend, Op: op, Err: err}
}
