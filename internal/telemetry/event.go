// Package telemetry carries hierarchy change events from the service to best-effort sinks
// (OTel log records, Kafka) without blocking requests.
package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the asset service.
const (
	EventObjectCreated        = "object.created"
	EventObjectUpdated        = "object.updated"
	EventObjectDeleted        = "object.deleted"
	EventDatapointCreated     = "datapoint.created"
	EventDatapointUpdated     = "datapoint.updated"
	EventDatapointDeleted     = "datapoint.deleted"
	EventDatapointAssociated  = "datapoint.associated"
	EventDatapointDissociated = "datapoint.dissociated"

	// EventGRPCRequest is emitted by the server interceptor after each RPC.
	EventGRPCRequest = "grpc.request"
)

// Event is one hierarchy change. It is serialized as JSON on the Kafka topic.
type Event struct {
	ID          string         `json:"id"`
	Type        string         `json:"event_type"`
	Source      string         `json:"source"`
	ObjectID    *int64         `json:"object_id,omitempty"`
	DatapointID *int64         `json:"datapoint_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewEvent returns an event with a fresh id and the current UTC time.
func NewEvent(eventType, source string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// WithObject sets the object the event is about and returns e.
func (e *Event) WithObject(id int64) *Event {
	e.ObjectID = &id
	return e
}

// WithDatapoint sets the datapoint the event is about and returns e.
func (e *Event) WithDatapoint(id int64) *Event {
	e.DatapointID = &id
	return e
}

// With adds a metadata entry and returns e.
func (e *Event) With(key string, value any) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}
