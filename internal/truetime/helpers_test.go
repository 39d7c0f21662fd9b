package truetime

import (
	"calsurf/internal/providers"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// local mocks to avoid an import cycle with testutil

type testLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *testLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *testLogger) Warnf(_ providers.TypeEnum, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *testLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *testLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (l *testLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *testLogger) Close()                                                  {}

func (l *testLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

type testMetrics struct {
	mu      sync.Mutex
	sources map[string][]bool
	offset  time.Duration
	trusted bool
	ready   bool
}

func newTestMetrics() *testMetrics {
	return &testMetrics{sources: make(map[string][]bool)}
}

func (m *testMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *testMetrics) IncCacheHits()                                    {}
func (m *testMetrics) IncCacheMisses()                                  {}
func (m *testMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *testMetrics) SetLogsTotal(_ int)                               {}
func (m *testMetrics) IncTimeSourceResult(source string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source] = append(m.sources[source], ok)
}
func (m *testMetrics) SetClockOffset(offset time.Duration, trusted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = offset
	m.trusted = trusted
}
func (m *testMetrics) SetClockReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
}

// stubSource answers with a fixed time or error after an optional delay.
// With ignoreCtx set it keeps sleeping even after its context is done.
type stubSource struct {
	name      string
	t         time.Time
	err       error
	delay     time.Duration
	ignoreCtx bool
	panics    bool
	calls     atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchTime(ctx context.Context) (time.Time, error) {
	s.calls.Inc()
	if s.panics {
		panic("boom")
	}
	if s.delay > 0 {
		if s.ignoreCtx {
			time.Sleep(s.delay)
		} else {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return time.Time{}, ctx.Err()
			}
		}
	}
	return s.t, s.err
}

type fetcherFunc func(ctx context.Context) Result

func (f fetcherFunc) Fetch(ctx context.Context) Result { return f(ctx) }

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
