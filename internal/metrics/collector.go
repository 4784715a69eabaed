package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	LinesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edjournal_lines_consumed_total",
			Help: "Complete journal lines consumed by the poll loop",
		},
	)
	MalformedLines = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edjournal_lines_malformed_total",
			Help: "Journal lines dropped because they failed to decode",
		},
	)

	// File lifecycle metrics
	Rotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edjournal_rotations_total",
			Help: "Journal rotations observed (a newer file became active)",
		},
	)
	Truncations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edjournal_truncations_total",
			Help: "Active journal truncations observed (size dropped below offset)",
		},
	)

	// Poll loop metrics
	PollErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edjournal_poll_errors_total",
			Help: "Poll ticks skipped due to transient I/O failures",
		},
	)
	StateVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edjournal_state_version",
			Help: "Current version counter of the derived snapshot",
		},
	)

	// Dispatch metrics
	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edjournal_events_dispatched_total",
			Help: "Notifications delivered to subscribers",
		},
		[]string{"kind"},
	)
	SubscriberPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edjournal_subscriber_panics_total",
			Help: "Subscriber callbacks that panicked and were isolated",
		},
	)
)
