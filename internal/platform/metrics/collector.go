// Package metrics provides the Prometheus-backed Metrics sink the
// Metadata Manager reports poll outcomes to.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and exposes a fixed set of control-plane metrics
// under its own registry, so the process never pollutes the default
// global one.
type Collector struct {
	registry *prometheus.Registry

	pollSuccessTotal *prometheus.CounterVec
	pollFailureTotal *prometheus.CounterVec
	pollDuration     *prometheus.HistogramVec
	cacheSize        prometheus.Gauge
}

// NewCollector builds and registers the control-plane metric set.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	c := &Collector{
		registry: registry,
		pollSuccessTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seekr",
			Subsystem: "metadata_manager",
			Name:      "poll_success_total",
			Help:      "Successful metadata polls per cluster.",
		}, []string{"cluster_id"}),
		pollFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seekr",
			Subsystem: "metadata_manager",
			Name:      "poll_failure_total",
			Help:      "Failed metadata polls per cluster.",
		}, []string{"cluster_id"}),
		pollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "seekr",
			Subsystem: "metadata_manager",
			Name:      "poll_duration_seconds",
			Help:      "Metadata fetch duration per cluster.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"cluster_id", "outcome"}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seekr",
			Subsystem: "metadata_manager",
			Name:      "cache_size",
			Help:      "Number of entries currently held in the metadata cache.",
		}),
	}

	registry.MustRegister(c.pollSuccessTotal, c.pollFailureTotal, c.pollDuration, c.cacheSize)
	return c
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
