package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/veritas/pkg/metrics"
)

// HTTPMetrics holds request collectors shared by every module.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates the HTTP request collectors and registers them with reg.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests partitioned by module, method, and status code.",
			},
			[]string{"module", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metrics.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency partitioned by module and method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"module", "method"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Instrument returns middleware recording requests under the module label.
// The label is the module prefix rather than the path to bound cardinality.
func (m *HTTPMetrics) Instrument(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newRecorder(w)
			next.ServeHTTP(rec, r)

			m.requests.WithLabelValues(module, r.Method, strconv.Itoa(rec.status)).Inc()
			m.duration.WithLabelValues(module, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
