package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by run hooks.
type Metrics struct {
	runs     *prometheus.CounterVec
	moves    *prometheus.CounterVec
	runSteps prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"outcome"},
		),
		moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_steps_total",
				Help: "Total number of executed steps by head movement",
			},
			[]string{"direction"},
		),
		runSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Steps taken per run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.moves, m.runSteps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns observers that record every step and halt.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e domain.StepEvent) {
			if e.Transition != nil {
				m.moves.WithLabelValues(e.Transition.Move.String()).Inc()
			}
		},
		OnHalt: func(_ context.Context, r domain.Result) {
			m.runs.WithLabelValues(string(r.Outcome)).Inc()
			m.runSteps.Observe(float64(r.Steps))
		},
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
