// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	fail   int
	done   chan struct{}
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail > 0 {
		r.fail--
		return errors.New("unavailable")
	}
	r.events = append(r.events, ev)
	if r.done != nil {
		r.done <- struct{}{}
	}
	return nil
}

func TestPublishDropsWhenFull(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{}, 1)

	assert.True(t, d.Publish(Event{Type: VoteChanged, EventID: "e1"}))
	assert.False(t, d.Publish(Event{Type: VoteChanged, EventID: "e2"}))
}

func TestRunDeliversWithRetry(t *testing.T) {
	n := &recordingNotifier{fail: 1, done: make(chan struct{}, 1)}
	d := NewDispatcher(n, 4)
	d.baseDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.True(t, d.Publish(Event{Type: OptionDeleted, EventID: "e1", OptionID: "o1"}))

	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	require.Len(t, n.events, 1)
	assert.Equal(t, "o1", n.events[0].OptionID)
	assert.False(t, n.events[0].At.IsZero())
}

func TestWebhookNotifier(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Notify(context.Background(), Event{Type: ResultsFinalized, EventID: "e9"})

	require.NoError(t, err)
	assert.Equal(t, ResultsFinalized, got.Type)
	assert.Equal(t, "e9", got.EventID)
}

func TestWebhookNotifierRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL).Notify(context.Background(), Event{Type: VoteChanged})
	assert.ErrorContains(t, err, "502")
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), Event{Type: VoteChanged}))
}
