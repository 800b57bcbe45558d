// Package metrics exposes Prometheus metrics for decision points and the
// HTTP surface.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Collector counts decision events and records HTTP request metrics.
// It is also an event sink for the linking engine.
type Collector struct {
	decisions    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountlinking_decision_points_total",
			Help: "Decision points reached by the linking engine.",
		}, []string{"point"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountlinking_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accountlinking_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(c.decisions, c.httpRequests, c.httpLatency)
	return c
}

// Emit counts ev by decision point.
func (c *Collector) Emit(_ context.Context, ev domain.DecisionEvent) {
	c.decisions.WithLabelValues(ev.Point.String()).Inc()
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
