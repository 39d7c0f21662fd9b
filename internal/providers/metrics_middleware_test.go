package providers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *mockMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *mockMetrics) IncCacheHits()                                    {}
func (m *mockMetrics) IncCacheMisses()                                  {}
func (m *mockMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *mockMetrics) SetLogsTotal(_ int)                               {}
func (m *mockMetrics) IncTimeSourceResult(_ string, _ bool)             {}
func (m *mockMetrics) SetClockOffset(_ time.Duration, _ bool)           {}
func (m *mockMetrics) SetClockReady(_ bool)                             {}

type accessLogRecorder struct {
	errors []string
	debugs []string
	types  []TypeEnum
}

func (l *accessLogRecorder) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.types = append(l.types, t)
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}
func (l *accessLogRecorder) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.types = append(l.types, t)
	l.debugs = append(l.debugs, fmt.Sprintf(format, args...))
}
func (l *accessLogRecorder) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (l *accessLogRecorder) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (l *accessLogRecorder) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (l *accessLogRecorder) Close()                                        {}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &mockMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/logs", metrics.requestEndpoint)
	assert.Equal(t, http.StatusCreated, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &mockMetrics{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mw := MetricsMiddleware(metrics, handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, sw.status)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAccessLogMiddleware_GetGoesToGetLog(t *testing.T) {
	logger := &accessLogRecorder{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/stats?view=week", nil)
	AccessLogMiddleware(logger, handler).ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, logger.debugs, 1)
	assert.Empty(t, logger.errors)
	assert.Equal(t, []TypeEnum{TypeGet}, logger.types)
	assert.Contains(t, logger.debugs[0], "GET /stats?view=week -> 200")
}

func TestAccessLogMiddleware_ServerErrorLoggedAsError(t *testing.T) {
	logger := &accessLogRecorder{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodPost, "/logs", nil)
	AccessLogMiddleware(logger, handler).ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, logger.errors, 1)
	assert.Equal(t, []TypeEnum{TypePost}, logger.types)
	assert.Contains(t, logger.errors[0], "POST /logs -> 503")
}
