// Package apperr defines the error kinds the asset core surfaces to its callers.
// Callers wrap them with context and test with errors.Is; the gRPC boundary maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced object or datapoint does not exist, or a path resolved to nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPath means a path string is empty or contains an empty segment.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidArgument means a request field failed validation (unknown type, bad parent, empty update).
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFound returns ErrNotFound wrapped with the kind and id of the missing entity (e.g. "object 7 not found").
func NotFound(kind string, id int64) error {
	return fmt.Errorf("%s %d %w", kind, id, ErrNotFound)
}

// Invalid returns ErrInvalidArgument wrapped with msg.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
