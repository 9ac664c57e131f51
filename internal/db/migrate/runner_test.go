package migrate

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		err := Run(dsn, DirectionUp)
		if !errors.Is(err, ErrNoDSN) {
			t.Errorf("Run(%q) = %v, want ErrNoDSN", dsn, err)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	testCases := []struct {
		name      string
		direction string
	}{
		{"empty", ""},
		{"sideways", "sideways"},
		{"upcase", "UP"},
		{"mixed", "Down"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Run("postgres://localhost/assets", tc.direction)
			if err == nil {
				t.Fatalf("Run with direction %q should return error", tc.direction)
			}
			if !strings.Contains(err.Error(), "direction") {
				t.Errorf("error = %q, should mention direction", err.Error())
			}
		})
	}
}

func TestRun_InvalidDSN(t *testing.T) {
	testCases := []struct {
		name string
		dsn  string
	}{
		{"invalid format", "invalid-dsn"},
		{"missing driver", "://localhost/assets"},
		{"spaces in host", "postgres://localhost with spaces/assets"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Run(tc.dsn, DirectionUp)
			if err == nil {
				t.Errorf("Run with invalid DSN %q should return error", tc.dsn)
			}
			if errors.Is(err, ErrNoChange) {
				t.Error("Run should never surface ErrNoChange")
			}
		})
	}
}

func TestRun_UpDownUp(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	if err := Run(dsn, DirectionUp); err != nil {
		t.Skipf("migrate up failed (expected without a reachable database): %v", err)
	}
	if err := Run(dsn, DirectionUp); err != nil {
		t.Errorf("second up should be a no-op, got %v", err)
	}
	if err := Run(dsn, DirectionDown); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := Run(dsn, DirectionUp); err != nil {
		t.Fatalf("up after down: %v", err)
	}
}
