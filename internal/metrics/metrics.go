// Package metrics exposes Prometheus metrics for the cycle room API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cycleroom"

// Metrics holds every collector on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	readingsIngested    *prometheus.CounterVec
	readingErrors       prometheus.Counter
	liveSubscribers     prometheus.GaugeFunc
}

// New registers the collectors. subscribers is sampled on scrape and may be nil.
func New(subscribers func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	auto := promauto.With(reg)

	m := &Metrics{registry: reg}
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.readingsIngested = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "telemetry",
		Name:      "readings_ingested_total",
		Help:      "Bike readings accepted, by ingestion source",
	}, []string{"source"})

	m.readingErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "telemetry",
		Name:      "reading_errors_total",
		Help:      "Bike readings rejected or failed to store",
	})

	if subscribers != nil {
		m.liveSubscribers = auto.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "subscribers",
			Help:      "Connected live-feed subscribers",
		}, func() float64 { return float64(subscribers()) })
	}
	return m
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ReadingIngested counts an accepted reading from source ("http" or "mqtt").
func (m *Metrics) ReadingIngested(source string) {
	m.readingsIngested.WithLabelValues(source).Inc()
}

// ReadingFailed counts a rejected reading.
func (m *Metrics) ReadingFailed() {
	m.readingErrors.Inc()
}
