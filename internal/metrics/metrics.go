// Package metrics exposes one synthesis run's progress as Prometheus
// collectors, grounded on metrics/metrics.go's thin Registerer wrapper.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics owns the collectors one pipeline run registers: frontier
// size, decided-node throughput, and solver pass counts, the
// observability surface spec.md §10's ambient stack calls for.
type Metrics struct {
	Registry prometheus.Registerer

	FrontierSize   prometheus.Gauge
	EnvNodesTotal  prometheus.Gauge
	SysNodesTotal  prometheus.Gauge
	NodesDecided   prometheus.Counter
	SolvePasses    prometheus.Counter
	BuildDuration  prometheus.Histogram
	SolveDuration  prometheus.Histogram
}

// New registers every collector against reg and returns the bundle.
// A nil reg is replaced with a fresh, unregistered prometheus.Registry
// so callers that only want in-process observation (tests, one-shot
// CLI runs with no /metrics endpoint) don't need a real registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Registry: reg,
		FrontierSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strix",
			Subsystem: "arena",
			Name:      "frontier_size",
			Help:      "Number of product states queued for exploration.",
		}),
		EnvNodesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strix",
			Subsystem: "arena",
			Name:      "env_nodes",
			Help:      "Number of materialized environment nodes.",
		}),
		SysNodesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strix",
			Subsystem: "arena",
			Name:      "sys_nodes",
			Help:      "Number of materialized system nodes.",
		}),
		NodesDecided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strix",
			Subsystem: "solver",
			Name:      "nodes_decided_total",
			Help:      "Number of nodes the solver has assigned a winner.",
		}),
		SolvePasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strix",
			Subsystem: "solver",
			Name:      "passes_total",
			Help:      "Number of on-the-fly solve attempts run so far.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "strix",
			Subsystem: "arena",
			Name:      "build_seconds",
			Help:      "Wall-clock time spent exploring the arena.",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "strix",
			Subsystem: "solver",
			Name:      "solve_seconds",
			Help:      "Wall-clock time spent in the solver.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.FrontierSize, m.EnvNodesTotal, m.SysNodesTotal,
		m.NodesDecided, m.SolvePasses, m.BuildDuration, m.SolveDuration,
	} {
		// Registration failure (duplicate collector) is not fatal to a
		// one-shot CLI run; callers sharing a registry across repeated
		// runs are expected to pass one Metrics instance through.
		_ = m.Registry.Register(c)
	}
	return m
}

// Register registers an additional collector against m's registry.
func (m *Metrics) Register(c prometheus.Collector) error {
	return m.Registry.Register(c)
}
