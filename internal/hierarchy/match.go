package hierarchy

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"asset-hierarchy/internal/platform/apperr"
)

// sameType compares a path segment with a type name case-insensitively.
// Both sides are NFC-normalized and case-folded; an empty type never matches.
func sameType(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return foldType(a) == foldType(b)
}

// foldType builds a fresh Caser per call: a Caser is stateful and must not be shared between goroutines.
func foldType(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// splitPath splits a dot-separated path into trimmed segments.
func splitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is empty: %w", apperr.ErrInvalidPath)
	}
	parts := strings.Split(path, ".")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("path %q has an empty segment at position %d: %w", path, i, apperr.ErrInvalidPath)
		}
		parts[i] = p
	}
	return parts, nil
}

// NormalizeType returns the stored form of a type name: trimmed, NFC-normalized and case-folded,
// so that a stored type always matches the path segments that sameType accepts for it.
func NormalizeType(s string) string {
	return foldType(strings.TrimSpace(s))
}
