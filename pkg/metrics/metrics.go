// Package metrics exposes Prometheus metrics for the gateway and its connector.
//
// Metrics:
//   - ollamagw_connector_calls_total: connector calls by operation and outcome
//   - ollamagw_connector_call_duration_seconds: connector call latency by operation
//   - ollamagw_http_requests_total: inbound requests by method, route and status
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "ollamagw"

// OutcomeOK labels successful connector calls. Failures are labeled with the
// connector error kind.
const OutcomeOK = "ok"

// Collector owns a private registry and the gateway's metric vectors.
type Collector struct {
	registry *prometheus.Registry

	connectorCalls    *prometheus.CounterVec
	connectorDuration *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
}

// NewCollector creates and registers all metrics under namespace
// (DefaultNamespace when empty) on a fresh registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),

		connectorCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "connector",
				Name:      "calls_total",
				Help:      "Total number of inference backend calls",
			},
			[]string{"operation", "outcome"},
		),

		connectorDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "connector",
				Name:      "call_duration_seconds",
				Help:      "Duration of inference backend calls in seconds",
				// LLM latencies: 50ms health checks up to the 120s chat budget
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of inbound gateway requests",
			},
			[]string{"method", "route", "status"},
		),
	}

	c.registry.MustRegister(
		c.connectorCalls,
		c.connectorDuration,
		c.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the Prometheus exposition handler for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ObserveRequest counts one inbound request.
func (c *Collector) ObserveRequest(method, route string, status int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveConnectorCall records one connector call.
func (c *Collector) ObserveConnectorCall(operation, outcome string, seconds float64) {
	c.connectorCalls.WithLabelValues(operation, outcome).Inc()
	c.connectorDuration.WithLabelValues(operation).Observe(seconds)
}
