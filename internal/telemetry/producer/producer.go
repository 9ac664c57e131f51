// Package producer publishes hierarchy events to a message broker (Kafka).
package producer

import (
	"context"

	"asset-hierarchy/internal/telemetry"
)

// Producer emits hierarchy events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Emit sends a single event. Implementations may block briefly; call from a goroutine if needed.
	Emit(ctx context.Context, event *telemetry.Event) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
