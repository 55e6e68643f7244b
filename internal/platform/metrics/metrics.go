// Package metrics holds the prometheus instrumentation shared by the api
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Instrumentation holds the fleetdash metrics
type Instrumentation struct {
	// Count of HTTP requests by method, route pattern and status
	Requests *prometheus.CounterVec

	// Seconds spent serving HTTP requests by method and route pattern
	RequestSeconds *prometheus.HistogramVec

	// Seconds spent in warehouse queries by dialect and operation
	WarehouseSeconds *prometheus.HistogramVec

	// Result cache lookups by operation and result ("hit" or "miss")
	CacheLookups *prometheus.CounterVec
}

// New returns unregistered instrumentation under namespace
func New(namespace string) *Instrumentation {
	return &Instrumentation{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		RequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Seconds spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WarehouseSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "warehouse_query_duration_seconds",
			Help:      "Seconds spent waiting on warehouse queries.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"dialect", "op"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warehouse_cache_lookups_total",
			Help:      "Count of fleet result cache lookups.",
		}, []string{"op", "result"}),
	}
}

// Describe implements the prometheus.Collector interface
func (m *Instrumentation) Describe(c chan<- *prometheus.Desc) {
	m.Requests.Describe(c)
	m.RequestSeconds.Describe(c)
	m.WarehouseSeconds.Describe(c)
	m.CacheLookups.Describe(c)
}

// Collect implements the prometheus.Collector interface
func (m *Instrumentation) Collect(c chan<- prometheus.Metric) {
	m.Requests.Collect(c)
	m.RequestSeconds.Collect(c)
	m.WarehouseSeconds.Collect(c)
	m.CacheLookups.Collect(c)
}

// ObserveRequest records one served request; nil receivers are ignored
func (m *Instrumentation) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery records one warehouse query; nil receivers are ignored
func (m *Instrumentation) ObserveQuery(dialect, op string, d time.Duration) {
	if m == nil {
		return
	}
	m.WarehouseSeconds.WithLabelValues(dialect, op).Observe(d.Seconds())
}

// CacheHit counts a result cache hit or miss; nil receivers are ignored
func (m *Instrumentation) CacheHit(op string, hit bool) {
	if m == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	m.CacheLookups.WithLabelValues(op, res).Inc()
}

// Handler serves the gatherer in the prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
