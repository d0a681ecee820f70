package api

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts relationship creation outcomes.
type Metrics struct {
	registry *prometheus.Registry
	created  prometheus.Counter
	failures *prometheus.CounterVec
}

// NewMetrics registers the API collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphrel",
			Name:      "relationships_created_total",
			Help:      "Relationships created through POST /createRel.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphrel",
			Name:      "create_rel_failures_total",
			Help:      "Failed POST /createRel calls by reason.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(m.created, m.failures)
	return m
}

// Registry returns the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) relationshipCreated() {
	m.created.Inc()
}

func (m *Metrics) createFailed(reason string) {
	m.failures.WithLabelValues(reason).Inc()
}
