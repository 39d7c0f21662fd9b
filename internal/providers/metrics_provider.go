package providers

import (
	"calsurf/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetLogsTotal(count int)
	IncTimeSourceResult(source string, ok bool)
	SetClockOffset(offset time.Duration, trusted bool)
	SetClockReady(ready bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	logsTotal           prometheus.Gauge
	timeSourceResults   *prometheus.CounterVec
	clockOffset         prometheus.Gauge
	clockTrusted        prometheus.Gauge
	clockReady          prometheus.Gauge
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetLogsTotal(count int) {
	m.logsTotal.Set(float64(count))
}

func (m *MetricsProvider) IncTimeSourceResult(source string, ok bool) {
	result := "fail"
	if ok {
		result = "ok"
	}
	m.timeSourceResults.WithLabelValues(source, result).Inc()
}

func (m *MetricsProvider) SetClockOffset(offset time.Duration, trusted bool) {
	m.clockOffset.Set(offset.Seconds())
	m.clockTrusted.Set(boolToFloat(trusted))
}

func (m *MetricsProvider) SetClockReady(ready bool) {
	m.clockReady.Set(boolToFloat(ready))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
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
			Name: "calsurf_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calsurf_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calsurf_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calsurf_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "calsurf_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		logsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "calsurf_logs_total",
			Help: "Total number of food log entries held in memory",
		}),

		timeSourceResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calsurf_time_source_requests_total",
			Help: "Trusted time source attempts by outcome",
		}, []string{"source", "result"}),

		clockOffset: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "calsurf_clock_offset_seconds",
			Help: "Applied offset between trusted time and the local clock",
		}),

		clockTrusted: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "calsurf_clock_trusted",
			Help: "1 when the last reconciliation reached a trusted time source",
		}),

		clockReady: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "calsurf_clock_ready",
			Help: "1 once the first clock reconciliation attempt has finished",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetLogsTotal(_ int)                               {}
func (n *noopMetrics) IncTimeSourceResult(_ string, _ bool)             {}
func (n *noopMetrics) SetClockOffset(_ time.Duration, _ bool)           {}
func (n *noopMetrics) SetClockReady(_ bool)                             {}
