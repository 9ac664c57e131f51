// Package relay forwards hierarchy events from the events topic to a log sink such as Loki.
package relay

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultPushTimeout = 10 * time.Second
	fetchRetryDelay    = time.Second
	unknownEventType   = "unknown"
)

// MessageReader is the part of *kafka.Reader the relay uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Sink receives the raw event JSON (e.g. *loki.Client).
type Sink interface {
	PushEventJSON(ctx context.Context, rawJSON []byte) error
}

// Relay moves events from reader to sink one at a time and counts them by event type.
type Relay struct {
	reader      MessageReader
	sink        Sink
	pushTimeout time.Duration

	mu      sync.Mutex
	relayed map[string]int
	failed  map[string]int
}

// New returns a relay from reader to sink.
func New(reader MessageReader, sink Sink) *Relay {
	return &Relay{
		reader:      reader,
		sink:        sink,
		pushTimeout: defaultPushTimeout,
		relayed:     map[string]int{},
		failed:      map[string]int{},
	}
}

// EventType returns the event_type header the producer sets on every message, or "unknown".
func EventType(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event_type" && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return unknownEventType
}

// Run relays until ctx is done, then logs the per-type totals and returns nil.
// Every fetched message is committed, including those the sink rejected: delivery to the sink is best-effort.
func (r *Relay) Run(ctx context.Context) error {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("relay: stopped; %s", r.summary())
				return nil
			}
			log.Printf("relay: fetch: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(fetchRetryDelay):
			}
			continue
		}
		r.Forward(ctx, msg)
		if err := r.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Printf("relay: commit offset %d: %v", msg.Offset, err)
		}
	}
}

// Forward pushes one message to the sink and returns its event type.
func (r *Relay) Forward(ctx context.Context, msg kafka.Message) string {
	eventType := EventType(msg)
	pushCtx, cancel := context.WithTimeout(ctx, r.pushTimeout)
	defer cancel()
	err := r.sink.PushEventJSON(pushCtx, msg.Value)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failed[eventType]++
		log.Printf("relay: push %s event (key %s): %v", eventType, msg.Key, err)
		return eventType
	}
	r.relayed[eventType]++
	return eventType
}

// Relayed returns how many events of each type reached the sink.
func (r *Relay) Relayed() map[string]int {
	return r.snapshot(r.relayed)
}

// Failed returns how many events of each type the sink rejected.
func (r *Relay) Failed() map[string]int {
	return r.snapshot(r.failed)
}

func (r *Relay) snapshot(m map[string]int) map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *Relay) summary() string {
	relayed, failed := r.Relayed(), r.Failed()
	types := make([]string, 0, len(relayed)+len(failed))
	for t := range relayed {
		types = append(types, t)
	}
	for t := range failed {
		if _, ok := relayed[t]; !ok {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return "no events relayed"
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t + "=" + strconv.Itoa(relayed[t])
		if failed[t] > 0 {
			parts[i] += " (failed " + strconv.Itoa(failed[t]) + ")"
		}
	}
	return strings.Join(parts, ", ")
}
