package observability

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

// Metrics holds the service collectors. All methods are safe on a nil receiver so callers
// never need to check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	generations     *prometheus.CounterVec
	stageLatency    *prometheus.HistogramVec
	variationFailed *prometheus.CounterVec
	contentCache    *prometheus.CounterVec
	backgroundTasks *prometheus.CounterVec
	dataQuality     *prometheus.CounterVec
}

var (
	initOnce sync.Once
	current  atomic.Pointer[Metrics]
)

// Init creates the process-wide metrics once and returns them.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		m := NewMetrics()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		current.Store(m)
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return current.Load()
}

// Current returns the process-wide metrics or nil before Init.
func Current() *Metrics { return current.Load() }

// NewMetrics builds a Metrics on its own registry.
func NewMetrics() *Metrics {
	secs := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pinforge_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: secs,
		}, []string{"method", "route"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_provider_calls_total",
			Help: "Outbound provider calls by provider, operation and status.",
		}, []string{"provider", "op", "status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pinforge_provider_call_duration_seconds",
			Help:    "Outbound provider call latency.",
			Buckets: secs,
		}, []string{"provider", "op"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_generations_total",
			Help: "Pin generation requests by terminal outcome.",
		}, []string{"outcome"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pinforge_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage latency by stage and status.",
			Buckets: secs,
		}, []string{"stage", "status"}),
		variationFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_variation_failures_total",
			Help: "Per-variation failures by stage.",
		}, []string{"stage"}),
		contentCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_content_cache_total",
			Help: "Content analysis cache lookups and writes.",
		}, []string{"result"}),
		backgroundTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_background_tasks_total",
			Help: "Background task executions by task and status.",
		}, []string{"task", "status"}),
		dataQuality: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinforge_data_quality_issues_total",
			Help: "Data quality issues by stage and issue.",
		}, []string{"stage", "issue"}),
	}
	m.registry.MustRegister(
		m.httpRequests, m.httpLatency,
		m.providerCalls, m.providerLatency,
		m.generations, m.stageLatency, m.variationFailed,
		m.contentCache, m.backgroundTasks, m.dataQuality,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObserveProviderCall(provider, op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, op, status).Inc()
	m.providerLatency.WithLabelValues(provider, op).Observe(dur.Seconds())
}

func (m *Metrics) IncGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStage(stage, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage, status).Observe(dur.Seconds())
}

func (m *Metrics) IncVariationFailure(stage string) {
	if m == nil {
		return
	}
	m.variationFailed.WithLabelValues(stage).Inc()
}

func (m *Metrics) IncContentCache(result string) {
	if m == nil {
		return
	}
	m.contentCache.WithLabelValues(result).Inc()
}

func (m *Metrics) IncBackgroundTask(task, status string) {
	if m == nil {
		return
	}
	m.backgroundTasks.WithLabelValues(task, status).Inc()
}

func (m *Metrics) IncDataQuality(stage, issue string) {
	if m == nil {
		return
	}
	m.dataQuality.WithLabelValues(stage, issue).Inc()
}
