// Package metrics exposes Prometheus collectors for generation runs and
// object-store traffic. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	rowsGenerated *prometheus.CounterVec
	gatewayOps    *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rowsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datagen",
			Name:      "rows_generated_total",
			Help:      "Rows generated per table.",
		}, []string{"table"}),
		gatewayOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datagen",
			Name:      "gateway_operations_total",
			Help:      "Object store operations by operation and result kind.",
		}, []string{"op", "result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "datagen",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of dataset generation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"variant"}),
	}
	reg.MustRegister(m.rowsGenerated, m.gatewayOps, m.runDuration)
	return m
}

func (m *Metrics) AddRows(table string, n int) {
	if m == nil {
		return
	}
	m.rowsGenerated.WithLabelValues(table).Add(float64(n))
}

// GatewayOp counts one object store call; result is "ok" or an error kind.
func (m *Metrics) GatewayOp(op, result string) {
	if m == nil {
		return
	}
	m.gatewayOps.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ObserveRun(variant string, d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(variant).Observe(d.Seconds())
}
