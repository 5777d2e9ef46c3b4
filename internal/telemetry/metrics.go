// Package telemetry holds the process metrics of the dispatch service.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values used with the counters below.
const (
	ResultApplied  = "applied"
	ResultRepeated = "repeated"
	ResultRejected = "rejected"
	ResultBusy     = "busy"
	ResultFailed   = "failed"
	ResultSkipped  = "skipped"
	ResultDisabled = "disabled"
	ResultTimedOut = "timed_out"

	ActionCreated      = "created"
	ActionReminded     = "reminded"
	ActionAcknowledged = "acknowledged"
	ActionCleared      = "cleared"
	ActionPurged       = "purged"
)

var (
	once sync.Once

	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetwise_transitions_total",
		Help: "Job status transition requests by result",
	}, []string{"result"})

	Alerts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetwise_alerts_total",
		Help: "Monitoring alert lifecycle events by action",
	}, []string{"action"})

	MonitorCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetwise_monitor_cycles_total",
		Help: "Overdue monitor cycles by result",
	}, []string{"result"})

	MonitorCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetwise_monitor_cycle_duration_seconds",
		Help:    "Wall-clock duration of overdue monitor cycles",
		Buckets: prometheus.DefBuckets,
	})

	NotificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetwise_notification_failures_total",
		Help: "Driver notifications that could not be handed to the push channel",
	})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			Transitions,
			Alerts,
			MonitorCycles,
			MonitorCycleDuration,
			NotificationFailures,
		)
	})
	return promhttp.Handler()
}
