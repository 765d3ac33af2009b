package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics instruments the HTTP API
type RequestMetrics struct {
	requests  *prometheus.CounterVec
	latencies *prometheus.HistogramVec
}

// NewDefaultRequestMetrics creates request counters and latency histograms
func NewDefaultRequestMetrics(pkg string) RequestMetrics {
	m := RequestMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_http_requests", pkg),
				Help: "How many HTTP requests are served, partitioned by route and status code.",
			},
			[]string{"route", "status"},
		),
		latencies: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: fmt.Sprintf("%s_http_latencies", pkg),
				Help: "How long HTTP requests take, partitioned by route.",
			},
			[]string{"route"},
		),
	}
	m.requests = registerOnce(m.requests).(*prometheus.CounterVec)
	m.latencies = registerOnce(m.latencies).(*prometheus.HistogramVec)
	return m
}

// Requests returns the counter for a route and status code
func (m *RequestMetrics) Requests(route string, status int) prometheus.Counter {
	return m.requests.WithLabelValues(route, fmt.Sprint(status))
}

// Latencies returns the latency histogram of a route
func (m *RequestMetrics) Latencies(route string) prometheus.Observer {
	return m.latencies.WithLabelValues(route)
}
