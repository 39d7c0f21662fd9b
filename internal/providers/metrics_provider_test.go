package providers

import (
	"calsurf/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRegistry(t *testing.T) {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGather := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGather
	})
}

func enabledMetrics(t *testing.T) *MetricsProvider {
	t.Helper()
	withTestRegistry(t)
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m, ok := NewMetricsProvider(conf).(*MetricsProvider)
	require.True(t, ok, "should return MetricsProvider when enabled")
	return m
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/time", 200)
	m.ObserveRequestDuration("/time", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetLogsTotal(10)
	m.IncTimeSourceResult("worldtimeapi", true)
	m.SetClockOffset(time.Second, true)
	m.SetClockReady(true)
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	m := enabledMetrics(t)

	m.IncRequestsTotal("/logs", 200)
	m.IncRequestsTotal("/logs", 201)
	m.IncRequestsTotal("/logs", 503)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncCacheMisses()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/logs", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/logs", "5xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
}

func TestMetricsProvider_LogsTotal(t *testing.T) {
	m := enabledMetrics(t)

	m.SetLogsTotal(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(m.logsTotal))
	m.SetLogsTotal(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.logsTotal))
}

func TestMetricsProvider_TimeSourceResults(t *testing.T) {
	m := enabledMetrics(t)

	m.IncTimeSourceResult("worldtimeapi", false)
	m.IncTimeSourceResult("timeapi", true)
	m.IncTimeSourceResult("timeapi", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.timeSourceResults.WithLabelValues("worldtimeapi", "fail")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.timeSourceResults.WithLabelValues("timeapi", "ok")))
}

func TestMetricsProvider_ClockGauges(t *testing.T) {
	m := enabledMetrics(t)

	m.SetClockOffset(-90*time.Second, true)
	m.SetClockReady(true)
	assert.Equal(t, -90.0, testutil.ToFloat64(m.clockOffset))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clockTrusted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clockReady))

	m.SetClockOffset(0, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.clockOffset))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.clockTrusted))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
