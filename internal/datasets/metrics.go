package datasets

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/metrics"
)

// Metrics contains the Prometheus collectors for dataset ingestion.
// A nil *Metrics records nothing.
type Metrics struct {
	Ingestions        *prometheus.CounterVec
	IngestionDuration prometheus.Histogram
	ImagesPersisted   *prometheus.CounterVec
	FilesSkipped      *prometheus.CounterVec
	BulkInserts       prometheus.Counter
}

// NewMetrics creates the ingestion collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Ingestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "datasets",
				Name:      "ingestions_total",
				Help:      "Dataset ingestions partitioned by final state.",
			},
			[]string{"state"},
		),
		IngestionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metrics.Namespace,
				Subsystem: "datasets",
				Name:      "ingestion_duration_seconds",
				Help:      "Wall-clock duration of dataset ingestions.",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
			},
		),
		ImagesPersisted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "datasets",
				Name:      "images_persisted_total",
				Help:      "Image rows written partitioned by class and split.",
			},
			[]string{"class", "split"},
		),
		FilesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "datasets",
				Name:      "files_skipped_total",
				Help:      "Candidate files left out of ingestion partitioned by reason.",
			},
			[]string{"reason"},
		),
		BulkInserts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "datasets",
				Name:      "bulk_inserts_total",
				Help:      "Chunked metadata insert statements executed.",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.Ingestions,
		m.IngestionDuration,
		m.ImagesPersisted,
		m.FilesSkipped,
		m.BulkInserts,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register dataset metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) ingested(state State, d time.Duration) {
	if m == nil {
		return
	}
	m.Ingestions.WithLabelValues(string(state)).Inc()
	m.IngestionDuration.Observe(d.Seconds())
}

func (m *Metrics) persisted(class images.Class, split images.Split, rows int) {
	if m == nil {
		return
	}
	m.ImagesPersisted.WithLabelValues(string(class), string(split)).Add(float64(rows))
	m.BulkInserts.Inc()
}

func (m *Metrics) skipped(reason string) {
	if m == nil {
		return
	}
	m.FilesSkipped.WithLabelValues(reason).Inc()
}
