// Package metrics holds the Prometheus collectors for ledger edits and
// optimizer runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grades"

type Recorder struct {
	registry *prometheus.Registry

	mutations  *prometheus.CounterVec
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	enumerated prometheus.Counter
	poolSize   prometheus.Histogram
}

// New registers the collectors on a private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Course ledger mutations by operation.",
		}, []string{"op"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizer_runs_total",
			Help:      "Optimizer runs by outcome (match, fallback, error).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimizer_duration_seconds",
			Help:      "Wall time of optimizer runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		enumerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizer_subsets_enumerated_total",
			Help:      "Elective subsets examined by the optimizer.",
		}),
		poolSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimizer_pool_size",
			Help:      "Number of electives in optimized pools.",
			Buckets:   prometheus.LinearBuckets(0, 4, 8),
		}),
	}
	r.registry.MustRegister(r.mutations, r.runs, r.duration, r.enumerated, r.poolSize)
	return r
}

// Mutation counts one ledger change. A nil Recorder is a no-op.
func (r *Recorder) Mutation(op string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op).Inc()
}

func (r *Recorder) OptimizerRun(outcome string, pool, enumerated int, took time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(took.Seconds())
	r.poolSize.Observe(float64(pool))
	r.enumerated.Add(float64(enumerated))
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }
