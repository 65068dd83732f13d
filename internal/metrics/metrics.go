// Package metrics exposes Prometheus collectors for document inspection and
// the HTTP upload API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"
)

const namespace = "pdf_inspector"

// Metrics owns a private registry so tests and multiple servers never share
// collectors through the global one.
type Metrics struct {
	registry *prometheus.Registry

	documentsInspected *prometheus.CounterVec
	extractionFailures *prometheus.CounterVec
	datesPerDocument   prometheus.Histogram
	pagesPerDocument   prometheus.Histogram

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
}

// New creates the collectors and registers them with a new registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		documentsInspected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "inspected_total",
				Help:      "Documents inspected successfully, by document type.",
			},
			[]string{"document_type"},
		),
		extractionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "extraction_failures_total",
				Help:      "Documents that could not be read, by failure kind.",
			},
			[]string{"kind"},
		),
		datesPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "dates",
				Help:      "Normalized dates found per inspected document.",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
		pagesPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "pages",
				Help:      "Pages per inspected document.",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Number of in-flight HTTP requests.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.documentsInspected,
		m.extractionFailures,
		m.datesPerDocument,
		m.pagesPerDocument,
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
	)

	return m
}

// Registry returns the registry holding every collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveInspection records a successful inspection
func (m *Metrics) ObserveInspection(documentType string, pageCount, dateCount int) {
	m.documentsInspected.WithLabelValues(documentType).Inc()
	m.pagesPerDocument.Observe(float64(pageCount))
	m.datesPerDocument.Observe(float64(dateCount))
}

// ObserveFailure records a document that could not be read
func (m *Metrics) ObserveFailure(kind string) {
	m.extractionFailures.WithLabelValues(kind).Inc()
}

// Middleware records request counts and durations. It is meant for
// mux.Router.Use so that the matched route template is known; requests that
// match no route are labelled "unmatched".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeTemplate(r)
		rw := negroni.NewResponseWriter(w)

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(rw, r)

		status := rw.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if current := mux.CurrentRoute(r); current != nil {
		if tmpl, err := current.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
