package loki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lokiStub records push bodies and answers with status.
func lokiStub(t *testing.T, status int) (*httptest.Server, *[]PushRequest) {
	t.Helper()
	var got []PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body PushRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, body)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	assert.Error(t, err)
}

func TestPushEventJSON_LabelsAndTimestamp(t *testing.T) {
	srv, got := lokiStub(t, http.StatusNoContent)
	c, err := NewClient(srv.URL+"/", nil)
	require.NoError(t, err)

	raw := []byte(`{"id":"e1","event_type":"datapoint.associated","source":"asset service","created_at":"2024-05-01T12:00:00.5Z","object_id":4}`)
	require.NoError(t, c.PushEventJSON(context.Background(), raw))

	require.Len(t, *got, 1)
	stream := (*got)[0].Streams[0]
	assert.Equal(t, map[string]string{
		"job":        "asset-hierarchy",
		"event_type": "datapoint.associated",
		"source":     "asset_service",
	}, stream.Stream)
	want := time.Date(2024, 5, 1, 12, 0, 0, 5e8, time.UTC).UnixNano()
	assert.Equal(t, [][]string{{strconv.FormatInt(want, 10), string(raw)}}, stream.Values)
}

func TestPushEventJSON_UnparseableLine(t *testing.T) {
	srv, got := lokiStub(t, http.StatusNoContent)
	c, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	before := time.Now().UnixNano()
	require.NoError(t, c.PushEventJSON(context.Background(), []byte("not json")))

	stream := (*got)[0].Streams[0]
	assert.Equal(t, map[string]string{"job": "asset-hierarchy"}, stream.Stream)
	ts, err := strconv.ParseInt(stream.Values[0][0], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ts, before)
	assert.Equal(t, "not json", stream.Values[0][1])
}

func TestPush_Non2xx(t *testing.T) {
	srv, _ := lokiStub(t, http.StatusBadRequest)
	c, err := NewClient(srv.URL, nil)
	require.NoError(t, err)
	err = c.Push(context.Background(), time.Now(), "line", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
