package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"msver/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncHarvestRuns(harvester string, outcome string)
	ObserveHarvestDuration(harvester string, duration time.Duration)
	SetRecordsTotal(artifact string, count int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	harvestRuns     *prometheus.CounterVec
	harvestDuration *prometheus.HistogramVec
	recordsTotal    *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncHarvestRuns(harvester string, outcome string) {
	m.harvestRuns.WithLabelValues(harvester, outcome).Inc()
}

func (m *MetricsProvider) ObserveHarvestDuration(harvester string, duration time.Duration) {
	m.harvestDuration.WithLabelValues(harvester).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetRecordsTotal(artifact string, count int) {
	m.recordsTotal.WithLabelValues(artifact).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "msver_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "msver_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msver_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msver_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		harvestRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "msver_harvest_runs_total",
			Help: "Harvester runs by outcome",
		}, []string{"harvester", "outcome"}),

		harvestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "msver_harvest_duration_seconds",
			Help:    "Duration of harvester runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}, []string{"harvester"}),

		recordsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "msver_records_total",
			Help: "Records written per artifact on the last harvest",
		}, []string{"artifact"}),
	}
}

// NewNoopMetrics returns the disabled implementation; used by tests and
// by callers that only need the interface satisfied.
func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncHarvestRuns(_ string, _ string)                 {}
func (n *noopMetrics) ObserveHarvestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) SetRecordsTotal(_ string, _ int)                   {}
