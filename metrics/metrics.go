package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry at init through promauto.

var (
	// Operations counts collaborator calls, labeled by operation and outcome
	// ("ok" or "error").
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_operations_total",
			Help: "Total number of editor operations processed",
		},
		[]string{"op", "result"},
	)

	// Nodes tracks the current node count.
	Nodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flow_nodes",
			Help: "Number of nodes in the graph",
		},
	)

	// Edges tracks the current edge count.
	Edges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flow_edges",
			Help: "Number of edges in the graph",
		},
	)

	// DocumentBytes observes the size of saved and exported documents.
	DocumentBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flow_document_bytes",
			Help:    "Size of serialized documents in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"op"},
	)

	// HTTPRequests counts requests served by the HTTP surface.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
)

// Observe records the outcome of op.
func Observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Operations.WithLabelValues(op, result).Inc()
}

// SetSize updates the graph size gauges.
func SetSize(nodes, edges int) {
	Nodes.Set(float64(nodes))
	Edges.Set(float64(edges))
}
