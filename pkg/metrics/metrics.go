// Package metrics provides Prometheus metrics for the fern engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionCallsTotal tracks triggered events by outcome
	ActionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "actions",
			Name:      "calls_total",
			Help:      "Total number of action calls by outcome",
		},
		[]string{"event", "status"},
	)

	// ActionCallDuration tracks how long a whole action chain takes
	ActionCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "actions",
			Name:      "call_duration_seconds",
			Help:      "Duration of action calls in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"event"},
	)

	// ActionStepsTotal tracks steps by action type and status
	ActionStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "actions",
			Name:      "steps_total",
			Help:      "Total number of action steps by type and status",
		},
		[]string{"type", "status"},
	)

	// ContextUpdatesTotal tracks update passes over page contexts
	ContextUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "context",
			Name:      "updates_total",
			Help:      "Total number of context update passes",
		},
		[]string{"page_id"},
	)

	// BlockErrorsTotal tracks blocks whose expressions failed to resolve during an update
	BlockErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "context",
			Name:      "block_errors_total",
			Help:      "Total number of block resolution failures",
		},
		[]string{"page_id"},
	)

	// ContextsActive tracks live page contexts
	ContextsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fern",
			Subsystem: "context",
			Name:      "active",
			Help:      "Number of live page contexts",
		},
	)

	// RequestsTotal tracks connection requests by connection type and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "requests",
			Name:      "total",
			Help:      "Total number of connection requests",
		},
		[]string{"connection_type", "request_type", "status"},
	)

	// RequestDuration tracks connection request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "requests",
			Name:      "duration_seconds",
			Help:      "Duration of connection requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"connection_type"},
	)
)

// RecordActionCall records one finished action call
func RecordActionCall(event, status string, durationSeconds float64) {
	ActionCallsTotal.WithLabelValues(event, status).Inc()
	ActionCallDuration.WithLabelValues(event).Observe(durationSeconds)
}

// RecordActionStep records one action step outcome
func RecordActionStep(actionType, status string) {
	ActionStepsTotal.WithLabelValues(actionType, status).Inc()
}

// RecordUpdate records one context update pass and the blocks that failed in it
func RecordUpdate(pageID string, blockErrors int) {
	ContextUpdatesTotal.WithLabelValues(pageID).Inc()
	if blockErrors > 0 {
		BlockErrorsTotal.WithLabelValues(pageID).Add(float64(blockErrors))
	}
}

// RecordRequest records a connection request
func RecordRequest(connectionType, requestType, status string, durationSeconds float64) {
	RequestsTotal.WithLabelValues(connectionType, requestType, status).Inc()
	RequestDuration.WithLabelValues(connectionType).Observe(durationSeconds)
}
