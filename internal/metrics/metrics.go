package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/richinsley/mailbox"
)

// Metrics holds the prometheus metrics of one mailbox run. Each instance owns
// its registry, so a run's export contains only its own series.
type Metrics struct {
	registry *prometheus.Registry

	Transfers        *prometheus.CounterVec
	TransferBytes    *prometheus.CounterVec
	TransferDuration *prometheus.HistogramVec
	Errors           *prometheus.CounterVec
	IPCSeconds       *prometheus.GaugeVec
}

// New creates a metrics collector with a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailbox_transfers_total",
				Help: "Total number of completed transfers",
			},
			[]string{"backend", "role"},
		),
		TransferBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailbox_transfer_bytes_total",
				Help: "Total text bytes transferred",
			},
			[]string{"backend", "role"},
		),
		TransferDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailbox_transfer_duration_seconds",
				Help:    "IPC-only duration of a single transfer in seconds",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"backend", "role"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailbox_errors_total",
				Help: "Total number of failed IPC operations",
			},
			[]string{"backend", "op"},
		),
		IPCSeconds: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mailbox_ipc_seconds",
				Help: "Cumulative IPC-only time of the run in seconds",
			},
			[]string{"backend", "role"},
		),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observer returns a function suitable for mailbox.Stats.Observe that feeds
// every transfer into the counters and the duration histogram.
func (m *Metrics) Observer(kind mailbox.Kind, role mailbox.Role) func(time.Duration, int) {
	labels := prometheus.Labels{"backend": kind.String(), "role": role.String()}
	transfers := m.Transfers.With(labels)
	bytes := m.TransferBytes.With(labels)
	duration := m.TransferDuration.With(labels)
	total := m.IPCSeconds.With(labels)

	return func(elapsed time.Duration, size int) {
		transfers.Inc()
		bytes.Add(float64(size))
		duration.Observe(elapsed.Seconds())
		total.Add(elapsed.Seconds())
	}
}

// RecordError counts a failed operation. Errors that are not *mailbox.OpError
// are counted under op "other".
func (m *Metrics) RecordError(kind mailbox.Kind, err error) {
	if err == nil {
		return
	}
	op := "other"
	if opErr, ok := asOpError(err); ok {
		op = opErr.Op
	}
	m.Errors.WithLabelValues(kind.String(), op).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
