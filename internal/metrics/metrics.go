// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UnknownTable labels backend calls made for a table outside the schema.
const UnknownTable = "unknown"

var (
	// ActionRequestsTotal counts handled requests by action and response status.
	ActionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_action_requests_total",
			Help: "Total number of action requests by action kind and HTTP status",
		},
		[]string{"action", "status"},
	)

	// BackendDuration observes MediaStore call latency.
	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediashelf_backend_duration_seconds",
			Help:    "Duration of backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action", "table"},
	)

	// BackendErrors counts failed MediaStore calls.
	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediashelf_backend_errors_total",
			Help: "Total number of failed backend calls",
		},
		[]string{"action", "table"},
	)
)

// RecordRequest records the outcome of one action request.
func RecordRequest(action string, status int) {
	ActionRequestsTotal.WithLabelValues(action, strconv.Itoa(status)).Inc()
}

// RecordBackendCall records one MediaStore call.
func RecordBackendCall(action, table string, duration time.Duration, err error) {
	BackendDuration.WithLabelValues(action, table).Observe(duration.Seconds())
	if err != nil {
		BackendErrors.WithLabelValues(action, table).Inc()
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
