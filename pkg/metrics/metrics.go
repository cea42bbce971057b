// Package metrics records per-invocation Prometheus metrics for obbutil and
// writes them to a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusAbsent  = "absent"
)

// Metrics holds the Prometheus metrics for one obbutil invocation
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	footerBytes       prometheus.Gauge
}

// NewMetrics creates the metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "obbutil_operations_total",
				Help: "Total number of obbutil operations",
			},
			[]string{"command", "status"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "obbutil_operation_duration_seconds",
				Help:    "obbutil operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		footerBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "obbutil_footer_bytes",
				Help: "Size in bytes of the last footer written or removed",
			},
		),
	}
}

// RecordOperation records the outcome of a command. absent marks a
// command that found no footer, which is reported apart from failures.
func (m *Metrics) RecordOperation(command string, duration time.Duration, err error, absent bool) {
	status := statusSuccess
	switch {
	case absent:
		status = statusAbsent
	case err != nil:
		status = statusError
	}

	m.operationsTotal.WithLabelValues(command, status).Inc()
	m.operationDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// SetFooterBytes records the size of the footer a command wrote or removed
func (m *Metrics) SetFooterBytes(size int) {
	m.footerBytes.Set(float64(size))
}

// WriteTextfile writes the current metric values to path in the text
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
