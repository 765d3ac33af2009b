package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics instruments calls to the upstream GraphQL service
type UpstreamMetrics struct {
	operations *prometheus.CounterVec
	latencies  *prometheus.HistogramVec
}

// NewDefaultUpstreamMetrics creates counters and latency histograms of upstream operations
func NewDefaultUpstreamMetrics(pkg string) UpstreamMetrics {
	m := UpstreamMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_upstream_operations", pkg),
				Help: "How many upstream GraphQL operations occur, partitioned by operation and status.",
			},
			[]string{"operation", "status"},
		),
		latencies: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: fmt.Sprintf("%s_upstream_latencies", pkg),
				Help: "How long upstream GraphQL operations take, partitioned by operation.",
			},
			[]string{"operation"},
		),
	}
	m.operations = registerOnce(m.operations).(*prometheus.CounterVec)
	m.latencies = registerOnce(m.latencies).(*prometheus.HistogramVec)
	return m
}

// Operations returns the counter for an operation and status
func (m *UpstreamMetrics) Operations(operation, status string) prometheus.Counter {
	return m.operations.WithLabelValues(operation, status)
}

// Latency returns a new latency timer for an operation
func (m *UpstreamMetrics) Latency(operation string) *prometheus.Timer {
	return prometheus.NewTimer(m.latencies.WithLabelValues(operation))
}
