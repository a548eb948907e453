// Package metrics exposes execution events as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/mediagrid/internal/executor"
	"github.com/specialistvlad/mediagrid/internal/node"
)

// Collector implements executor.Observer by updating Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry
	nodes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	inFlight prometheus.Gauge

	started sync.Map // Key: *node.Node
}

var _ executor.Observer = (*Collector)(nil)

// NewCollector creates a Collector registered on its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagrid_nodes_total",
			Help: "Nodes that reached a terminal status, by task kind and status.",
		}, []string{"kind", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediagrid_node_duration_seconds",
			Help:    "Wall time of node invocations, by task kind.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagrid_runs_total",
			Help: "Completed graph executions, by outcome.",
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mediagrid_nodes_in_flight",
			Help: "Nodes currently being invoked.",
		}),
	}
	c.registry.MustRegister(c.nodes, c.duration, c.runs, c.inFlight)
	return c
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// NodeStarted implements executor.Observer.
func (c *Collector) NodeStarted(_ context.Context, n *node.Node) {
	c.started.Store(n, struct{}{})
	c.inFlight.Inc()
}

// NodeFinished implements executor.Observer.
func (c *Collector) NodeFinished(_ context.Context, n *node.Node, res node.Result) {
	// Blocked and cancelled nodes finish without ever starting.
	if _, ok := c.started.LoadAndDelete(n); ok {
		c.inFlight.Dec()
	}
	c.nodes.WithLabelValues(n.Kind, res.Status.String()).Inc()
	if d := res.Duration(); d > 0 {
		c.duration.WithLabelValues(n.Kind).Observe(d.Seconds())
	}
}

// RunFinished implements executor.Observer.
func (c *Collector) RunFinished(_ context.Context, r *executor.Report) {
	c.runs.WithLabelValues(r.Outcome()).Inc()
}
