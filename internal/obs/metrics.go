package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	WorkflowsStarted   prometheus.Counter
	WorkflowsCompleted prometheus.Counter
	LocationCacheHits  prometheus.Counter
	RateLimitDrops     prometheus.Counter

	StageResults        *prometheus.CounterVec
	SupplierErrors      *prometheus.CounterVec
	SupplierLatency     *prometheus.HistogramVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	Registry            *prometheus.Registry
}

// Create Prometheus collectors and register them
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		WorkflowsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_workflows_started_total",
			Help: "Booking workflow instances created",
		}),
		WorkflowsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_workflows_completed_total",
			Help: "Booking workflow instances that reached a confirmation",
		}),
		LocationCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_location_cache_hits_total",
			Help: "Location lookups served from the fragment cache",
		}),
		RateLimitDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_ratelimit_drops_total",
			Help: "Workflow creations dropped due to rate limiting",
		}),
		StageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_stage_results_total",
			Help: "Stage outcomes by stage name",
		}, []string{"stage", "outcome"},
		),
		SupplierErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supplier_errors_total",
			Help: "Errors returned by each supplier capability",
		}, []string{"capability"},
		),
		SupplierLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "supplier_latency_seconds",
				Help:    "Latency of supplier API calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"capability"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Registry: p,
	}

	// Register metrics with Prometheus
	p.MustRegister(
		m.WorkflowsStarted,
		m.WorkflowsCompleted,
		m.LocationCacheHits,
		m.RateLimitDrops,
		m.StageResults,
		m.SupplierErrors,
		m.SupplierLatency,
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
	)

	return m
}

func (m *Metrics) IncWorkflowsStarted()   { m.WorkflowsStarted.Inc() }
func (m *Metrics) IncWorkflowsCompleted() { m.WorkflowsCompleted.Inc() }
func (m *Metrics) IncLocationCacheHits()  { m.LocationCacheHits.Inc() }
func (m *Metrics) IncRateLimitDrops()     { m.RateLimitDrops.Inc() }

func (m *Metrics) IncStageResult(stage, outcome string) {
	m.StageResults.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) ObserveSupplierLatency(capability string, seconds float64) {
	m.SupplierLatency.WithLabelValues(capability).Observe(seconds)
}

func (m *Metrics) IncSupplierFailure(capability string) {
	m.SupplierErrors.WithLabelValues(capability).Inc()
}

func (m *Metrics) ObserveHTTPRequestDuration(method string, path string, status string, seconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func (m *Metrics) IncHTTPRequestsTotal(method string, path string, status string) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
