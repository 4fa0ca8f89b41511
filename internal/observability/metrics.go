// Package observability holds the Prometheus metrics of the service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "postcard"

// Metrics groups the collectors recorded by the service and transport.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequests counts handled requests.
	// Labels: method, route, status
	HTTPRequests *prometheus.CounterVec

	// ActiveStreams is the number of chat streams currently open.
	ActiveStreams prometheus.Gauge

	// StreamEvents counts emitted stream events.
	// Labels: type
	StreamEvents *prometheus.CounterVec

	// StreamErrors counts streams that ended without done.
	// Labels: kind (agent, emit, canceled)
	StreamErrors *prometheus.CounterVec

	// ScrapeDuration measures image scrape calls.
	// Labels: status (ok, error, empty)
	ScrapeDuration *prometheus.HistogramVec

	// FeedbackSent counts feedback emails.
	// Labels: status
	FeedbackSent *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		ActiveStreams: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "active_streams",
			Help:      "Chat streams currently open",
		}),
		StreamEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "stream_events_total",
			Help:      "Stream events emitted by type",
		}, []string{"type"}),
		StreamErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "stream_errors_total",
			Help:      "Streams aborted before done by failure kind",
		}, []string{"kind"}),
		ScrapeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of og:image scrape calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"status"}),
		FeedbackSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "emails_total",
			Help:      "Feedback emails by outcome",
		}, []string{"status"}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
