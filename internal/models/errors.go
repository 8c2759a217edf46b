// ABOUTME: Validation error type surfaced to MCP/CLI callers
// ABOUTME: Carries the offending field path so the caller can correct the request
package models

import "fmt"

// ValidationError reports a malformed request parameter. It is the only error
// class that reaches callers; backend failures are absorbed by the tier loop.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
