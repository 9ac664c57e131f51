package telemetry

import (
	"context"
	"errors"
)

// EventEmitter emits hierarchy events (e.g. to OTel Logs or Kafka). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}

// Fanout sends each event to every emitter in order.
type Fanout []EventEmitter

// NewFanout returns a Fanout over the non-nil emitters.
func NewFanout(emitters ...EventEmitter) Fanout {
	out := make(Fanout, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Emit calls every emitter even when one fails, and returns the joined errors.
func (f Fanout) Emit(ctx context.Context, event *Event) error {
	var errs []error
	for _, e := range f {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
