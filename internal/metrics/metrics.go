// Package metrics defines the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prefix is prepended to every metric name.
const Prefix = "mfdash_"

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics records dashboard activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	viewLoads       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: Prefix + "http_requests_total",
				Help: "Number of HTTP requests served, by handler, method and status code",
			},
			[]string{"handler", "method", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    Prefix + "http_request_duration_seconds",
				Help:    "Time taken to serve HTTP requests",
				Buckets: durationBuckets,
			},
			[]string{"handler"},
		),
		backendCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: Prefix + "backend_calls_total",
				Help: "Number of calls made to the Model Factory frontend service",
			},
			[]string{"call", "outcome"},
		),
		backendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    Prefix + "backend_call_duration_seconds",
				Help:    "Latency of calls to the Model Factory frontend service",
				Buckets: durationBuckets,
			},
			[]string{"call"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: Prefix + "cache_lookups_total",
				Help: "Backend read cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		viewLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: Prefix + "view_loads_total",
				Help: "Lazy view template loads by view and outcome",
			},
			[]string{"view", "outcome"},
		),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(handler, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(handler, method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(handler).Observe(d.Seconds())
}

// ObserveBackendCall records one call to the backend.
func (m *Metrics) ObserveBackendCall(call string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.backendCalls.WithLabelValues(call, outcome(err)).Inc()
	m.backendDuration.WithLabelValues(call).Observe(d.Seconds())
}

// CacheLookup records a cache hit or miss.
func (m *Metrics) CacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}

// ViewLoaded records a lazy view load.
func (m *Metrics) ViewLoaded(view string, err error) {
	if m == nil {
		return
	}
	m.viewLoads.WithLabelValues(view, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
