package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("object", 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is(%v, ErrNotFound) = false", err)
	}
	if err.Error() != "object 7 not found" {
		t.Errorf("message = %q, want %q", err.Error(), "object 7 not found")
	}
}

func TestInvalid(t *testing.T) {
	err := fmt.Errorf("create object: %w", Invalid("name is required"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("errors.Is(%v, ErrInvalidArgument) = false", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("invalid argument must not match ErrNotFound")
	}
}
