// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for requests, ballots,
// tallies and notifications.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quickly_plan"

var (
	httpRequestsTotal    *prometheus.CounterVec
	preferencesTotal     *prometheus.CounterVec
	resultsTotal         *prometheus.CounterVec
	tieBreaksTotal       prometheus.Counter
	notificationsTotal   *prometheus.CounterVec
	tallyDurationSeconds prometheus.Histogram
	registerOnce         sync.Once
)

// Register initializes the metrics on the default registry. Until it is
// called every helper is a no-op.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the API.",
		}, []string{"method", "path", "status"})

		preferencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preferences_submitted_total",
			Help:      "Ranked ballots stored, by voting mode.",
		}, []string{"mode"})

		resultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_computed_total",
			Help:      "Category results computed, by whether a winner was resolved.",
		}, []string{"finalize"})

		tieBreaksTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tie_breaks_total",
			Help:      "Finalized categories whose top Borda score was shared.",
		})

		notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification outcomes by event type.",
		}, []string{"type", "outcome"})

		tallyDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tally_duration_seconds",
			Help:      "Time spent loading ballots and computing results for an event.",
			Buckets:   prometheus.DefBuckets,
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncPreference(quickPoll bool) {
	if preferencesTotal == nil {
		return
	}
	mode := "standard"
	if quickPoll {
		mode = "quick_poll"
	}
	preferencesTotal.WithLabelValues(mode).Inc()
}

func IncResults(finalize bool) {
	if resultsTotal == nil {
		return
	}
	resultsTotal.WithLabelValues(strconv.FormatBool(finalize)).Inc()
}

func IncTieBreak() {
	if tieBreaksTotal == nil {
		return
	}
	tieBreaksTotal.Inc()
}

// IncNotification records a notification outcome: queued, dropped,
// delivered or failed.
func IncNotification(eventType, outcome string) {
	if notificationsTotal == nil {
		return
	}
	notificationsTotal.WithLabelValues(eventType, outcome).Inc()
}

func ObserveTally(d time.Duration) {
	if tallyDurationSeconds == nil {
		return
	}
	tallyDurationSeconds.Observe(d.Seconds())
}
