package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// BacktrackingMetrics instruments the backtracking loop
type BacktrackingMetrics struct {
	contracts  *prometheus.CounterVec
	records    *prometheus.CounterVec
	latencies  *prometheus.HistogramVec
	queueDepth prometheus.Gauge
}

// NewDefaultBacktrackingMetrics creates the backtracking instrumentation:
//
// 1. Processed contracts, partitioned by status.
// 2. Records produced, partitioned by kind (events, decoded, transfers, holders).
// 3. Latencies of each processing step.
// 4. Size of the last polled queue batch.
func NewDefaultBacktrackingMetrics(pkg string) BacktrackingMetrics {
	m := BacktrackingMetrics{
		contracts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_backtracking_contracts", pkg),
				Help: "How many queued contracts were processed, partitioned by status.",
			},
			[]string{"status"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_backtracking_records", pkg),
				Help: "How many records the backtracking pipeline produced, partitioned by kind.",
			},
			[]string{"kind"},
		),
		latencies: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: fmt.Sprintf("%s_backtracking_step_latencies", pkg),
				Help: "How long each backtracking step takes, partitioned by step.",
			},
			[]string{"step"},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%s_backtracking_queue_batch", pkg),
				Help: "How many work items the last poll returned.",
			},
		),
	}
	m.contracts = registerOnce(m.contracts).(*prometheus.CounterVec)
	m.records = registerOnce(m.records).(*prometheus.CounterVec)
	m.latencies = registerOnce(m.latencies).(*prometheus.HistogramVec)
	m.queueDepth = registerOnce(m.queueDepth).(prometheus.Gauge)
	return m
}

// Contracts returns the counter of processed contracts with the given status
func (m *BacktrackingMetrics) Contracts(status string) prometheus.Counter {
	return m.contracts.WithLabelValues(status)
}

// Records returns the counter of produced records of a kind
func (m *BacktrackingMetrics) Records(kind string) prometheus.Counter {
	return m.records.WithLabelValues(kind)
}

// StepLatency returns a new latency timer for a processing step
func (m *BacktrackingMetrics) StepLatency(step string) *prometheus.Timer {
	return prometheus.NewTimer(m.latencies.WithLabelValues(step))
}

// QueueBatch records the size of the last polled batch
func (m *BacktrackingMetrics) QueueBatch(n int) {
	m.queueDepth.Set(float64(n))
}
