// Package metrics records grid batch statistics in a private Prometheus
// registry and dumps them to a node_exporter style textfile.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/contactkeval/black-scholes/pricing"
	"github.com/contactkeval/black-scholes/rootfind"
)

const namespace = "bsgrid"

// Metrics implements grid.Observer.
type Metrics struct {
	Registry *prometheus.Registry

	EvaluationsTotal prometheus.Counter
	SolvesTotal      *prometheus.CounterVec
	SolveIterations  prometheus.Histogram
	BatchDuration    *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		EvaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Points priced with all Greeks.",
		}),
		SolvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iv_solves_total",
			Help:      "Implied volatility solves by outcome.",
		}, []string{"outcome"}),
		SolveIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iv_iterations",
			Help:      "Newton iterations per implied volatility solve.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 1000, 10000},
		}),
		BatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of a grid batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(m.EvaluationsTotal, m.SolvesTotal, m.SolveIterations, m.BatchDuration)
	return m
}

func (m *Metrics) ObserveEvaluations(n int) {
	m.EvaluationsTotal.Add(float64(n))
}

func (m *Metrics) ObserveSolve(iterations int, err error) {
	m.SolvesTotal.WithLabelValues(Outcome(err)).Inc()
	if err == nil {
		m.SolveIterations.Observe(float64(iterations))
	}
}

func (m *Metrics) ObserveBatch(kind string, elapsed time.Duration) {
	m.BatchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Outcome maps a solver error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, pricing.ErrBelowIntrinsic):
		return "below_intrinsic"
	case errors.Is(err, pricing.ErrAboveUpperBound):
		return "above_upper_bound"
	case errors.Is(err, rootfind.ErrMaxIterations):
		return "max_iterations"
	case errors.Is(err, rootfind.ErrZeroDerivative):
		return "zero_derivative"
	case errors.Is(err, rootfind.ErrNotFinite):
		return "not_finite"
	case errors.Is(err, pricing.ErrRational):
		return "rational"
	default:
		return "other"
	}
}

// WriteTextfile writes the registry to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
