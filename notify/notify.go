// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-plan/metrics"
	"github.com/danielhkuo/quickly-plan/retry"
)

type EventType string

const (
	VoteChanged      EventType = "vote_changed"
	OptionDeleted    EventType = "option_deleted"
	ResultsFinalized EventType = "results_finalized"
)

// Event describes a change participants may want to hear about.
type Event struct {
	Type     EventType `json:"type"`
	EventID  string    `json:"eventId"`
	Category string    `json:"category,omitempty"`
	OptionID string    `json:"optionId,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier delivers a single event.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Dispatcher queues events and delivers them on a background goroutine,
// so publishing never blocks the caller.
type Dispatcher struct {
	ch        chan Event
	notifier  Notifier
	attempts  int
	baseDelay time.Duration
}

func NewDispatcher(n Notifier, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		ch:        make(chan Event, queueSize),
		notifier:  n,
		attempts:  3,
		baseDelay: 200 * time.Millisecond,
	}
}

// Publish enqueues ev. When the queue is full the event is dropped and
// false is returned.
func (d *Dispatcher) Publish(ev Event) bool {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case d.ch <- ev:
		metrics.IncNotification(string(ev.Type), "queued")
		return true
	default:
		metrics.IncNotification(string(ev.Type), "dropped")
		slog.Warn("notification queue full, dropping event", "type", ev.Type, "event_id", ev.EventID)
		return false
	}
}

// Run delivers queued events until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("notification dispatcher stopped", "pending", len(d.ch))
			return
		case ev := <-d.ch:
			d.deliver(ctx, ev)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	err := retry.DoWithRetry(ctx, d.attempts, d.baseDelay, func() error {
		return d.notifier.Notify(ctx, ev)
	})
	if err != nil {
		metrics.IncNotification(string(ev.Type), "failed")
		slog.Error("failed to deliver notification", "type", ev.Type, "event_id", ev.EventID, "error", err)
		return
	}
	metrics.IncNotification(string(ev.Type), "delivered")
}

// LogNotifier writes events to the structured log. It is used when no
// webhook is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev Event) error {
	slog.Info("notification",
		"type", ev.Type,
		"event_id", ev.EventID,
		"category", ev.Category,
		"option_id", ev.OptionID,
	)
	return nil
}
