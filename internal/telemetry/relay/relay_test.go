package relay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves msgs in order, then cancels the run and blocks until ctx is done.
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	fetchErrs []error
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) == 0 {
		r.mu.Unlock()
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	r.mu.Unlock()
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeSink struct {
	pushed [][]byte
	reject map[string]bool
}

func (s *fakeSink) PushEventJSON(ctx context.Context, raw []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("push without deadline")
	}
	if s.reject[string(raw)] {
		return errors.New("loki: push returned 500 Internal Server Error")
	}
	s.pushed = append(s.pushed, raw)
	return nil
}

func event(offset int64, eventType, body string) kafka.Message {
	msg := kafka.Message{Offset: offset, Key: []byte("object:1"), Value: []byte(body)}
	if eventType != "" {
		msg.Headers = []kafka.Header{{Key: "event_type", Value: []byte(eventType)}}
	}
	return msg
}

func TestEventType(t *testing.T) {
	assert.Equal(t, "object.created", EventType(event(0, "object.created", "{}")))
	assert.Equal(t, "unknown", EventType(event(0, "", "{}")))
	assert.Equal(t, "unknown", EventType(kafka.Message{Headers: []kafka.Header{{Key: "event_type"}}}))
}

func TestRelay_RunForwardsAndCommitsEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			event(1, "object.created", `{"event_type":"object.created"}`),
			event(2, "datapoint.associated", `{"event_type":"datapoint.associated"}`),
			event(3, "object.created", `{"event_type":"object.created","object_id":2}`),
			event(4, "", `not json`),
			event(5, "object.deleted", `{"event_type":"object.deleted"}`),
		},
	}
	sink := &fakeSink{reject: map[string]bool{`{"event_type":"object.deleted"}`: true}}
	r := New(reader, sink)

	require.NoError(t, r.Run(ctx))

	assert.Len(t, sink.pushed, 4)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, reader.committed, "rejected events are committed too")
	assert.Equal(t, map[string]int{"object.created": 2, "datapoint.associated": 1, "unknown": 1}, r.Relayed())
	assert.Equal(t, map[string]int{"object.deleted": 1}, r.Failed())
	assert.Equal(t, "datapoint.associated=1, object.created=2, object.deleted=0 (failed 1), unknown=1", r.summary())
}

func TestRelay_RunRetriesFetchErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &fakeReader{
		cancel:    cancel,
		fetchErrs: []error{errors.New("broker not available")},
		msgs:      []kafka.Message{event(7, "object.updated", `{}`)},
	}
	sink := &fakeSink{}
	r := New(reader, sink)

	require.NoError(t, r.Run(ctx))
	assert.Equal(t, []int64{7}, reader.committed)
	assert.Equal(t, map[string]int{"object.updated": 1}, r.Relayed())
}

func TestRelay_SummaryWhenIdle(t *testing.T) {
	r := New(&fakeReader{}, &fakeSink{})
	assert.Equal(t, "no events relayed", r.summary())
}
