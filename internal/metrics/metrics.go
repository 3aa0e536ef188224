// Package metrics exports the service's Prometheus metrics.
package metrics

import (
	"github.com/gizahealth/inspector/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

const namespace = "inspector"

// Collector owns a private registry so that several servers can run in one process, as they do in tests.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	reportsSubmitted *prometheus.CounterVec
	summaryRequests  *prometheus.CounterVec
	summaryDuration  prometheus.Histogram
	facilitiesAdded  prometheus.Counter
	openSessions     prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // defaults
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"code", "method"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"code", "method"},
		),
		reportsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "reports_submitted_total",
				Help:      "Submitted inspection reports by compliance classification",
			},
			[]string{"classification"},
		),
		summaryRequests: factory.NewCounterVec(
			prometheus.CounterOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "summary_requests_total",
				Help:      "Finished summary requests by outcome",
			},
			[]string{"outcome"},
		),
		summaryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "summary_duration_seconds",
				Help:      "Time spent generating summaries",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
		facilitiesAdded: factory.NewCounter(
			prometheus.CounterOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "facilities_added_total",
				Help:      "Facilities registered through the add-facility flow",
			},
		),
		openSessions: factory.NewGauge(
			prometheus.GaugeOpts{ //nolint:exhaustruct // optional fields
				Namespace: namespace,
				Name:      "open_inspection_sessions",
				Help:      "Inspection sessions started but not yet submitted",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}) //nolint:exhaustruct // defaults
}

// Instrument counts and times the requests served by next.
func (c *Collector) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(c.requestDuration,
		promhttp.InstrumentHandlerCounter(c.requestsTotal, next))
}

func (c *Collector) ReportSubmitted(classification models.ComplianceStatus) {
	c.reportsSubmitted.WithLabelValues(string(classification)).Inc()
}

// SummaryFinished records one call to the summarizer and its outcome.
func (c *Collector) SummaryFinished(outcome string, took time.Duration) {
	c.summaryRequests.WithLabelValues(outcome).Inc()
	c.summaryDuration.Observe(took.Seconds())
}

func (c *Collector) FacilityAdded() {
	c.facilitiesAdded.Inc()
}

func (c *Collector) SessionOpened() {
	c.openSessions.Inc()
}

func (c *Collector) SessionClosed() {
	c.openSessions.Dec()
}
