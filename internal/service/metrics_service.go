package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Best-effort steps reported through RecordBestEffortFailure.
const (
	StepCounterIncrement = "counter_increment"
	StepPaymentCreate    = "payment_create"
	StepPaymentRetry     = "payment_retry"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLatency      prometheus.Observer
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	bestEffortFailure *prometheus.CounterVec
	salesCreated      *prometheus.CounterVec
	deletesBlocked    *prometheus.CounterVec
	workflowAborts    *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	bestEffortFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "best_effort_failures_total",
		Help: "Side writes that failed after their parent write committed",
	}, []string{"step"})

	salesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_created_total",
		Help: "Sales created by type",
	}, []string{"type"})

	deletesBlocked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deletes_blocked_total",
		Help: "Deletions rejected because dependent records exist",
	}, []string{"entity"})

	workflowAborts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_aborts_total",
		Help: "Multi-step workflows rolled back",
	}, []string{"workflow"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses,
		bestEffortFailure, salesCreated, deletesBlocked, workflowAborts, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		bestEffortFailure: bestEffortFailure,
		salesCreated:      salesCreated,
		deletesBlocked:    deletesBlocked,
		workflowAborts:    workflowAborts,
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// RecordBestEffortFailure counts a swallowed side-write failure.
func (m *MetricsService) RecordBestEffortFailure(step string) {
	if m == nil {
		return
	}
	m.bestEffortFailure.WithLabelValues(step).Inc()
}

func (m *MetricsService) RecordSaleCreated(saleType string) {
	if m == nil {
		return
	}
	m.salesCreated.WithLabelValues(saleType).Inc()
}

func (m *MetricsService) RecordDeleteBlocked(entity string) {
	if m == nil {
		return
	}
	m.deletesBlocked.WithLabelValues(entity).Inc()
}

func (m *MetricsService) RecordWorkflowAbort(workflow string) {
	if m == nil {
		return
	}
	m.workflowAborts.WithLabelValues(workflow).Inc()
}
