package training

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/veritas/pkg/metrics"
)

// Metrics contains the Prometheus collectors for training runs.
// A nil *Metrics records nothing.
type Metrics struct {
	Runs               *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	PredictionsApplied prometheus.Counter
	PredictionsDropped prometheus.Counter
}

// NewMetrics creates the training collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "training",
				Name:      "runs_total",
				Help:      "Training runs partitioned by split ratio and outcome.",
			},
			[]string{"split_ratio", "outcome"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metrics.Namespace,
				Subsystem: "training",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of training runs.",
				Buckets:   prometheus.ExponentialBuckets(30, 2, 10),
			},
		),
		PredictionsApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "training",
				Name:      "predictions_applied_total",
				Help:      "Image rows updated with a prediction.",
			},
		),
		PredictionsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "training",
				Name:      "predictions_dropped_total",
				Help:      "Prediction entries rejected during output parsing.",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.Runs,
		m.RunDuration,
		m.PredictionsApplied,
		m.PredictionsDropped,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register training metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) run(splitRatio int, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(fmt.Sprint(splitRatio), outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) predictions(applied, dropped int) {
	if m == nil {
		return
	}
	m.PredictionsApplied.Add(float64(applied))
	m.PredictionsDropped.Add(float64(dropped))
}
