// Package metrics provides the Prometheus registry shared by all subsystems.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name exported by the service.
const Namespace = "veritas"

// Registry wraps a prometheus.Registry preloaded with process and Go
// runtime collectors.
type Registry struct {
	*prometheus.Registry
}

// NewRegistry creates a Registry with the default runtime collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{Registry: reg}
}

// Handler returns an HTTP handler exposing the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{
		Registry: r.Registry,
	})
}
