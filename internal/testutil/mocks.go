package testutil

import (
	"calsurf/internal/models"
	"calsurf/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogRecord
}

type LogRecord struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogRecord{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many records were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockLogService implements the persistence-facing part of services.LogServiceInterface.
type MockLogService struct {
	mu       sync.Mutex
	Snapshot *models.Storage
	PutCalls []PutUserCall
}

type PutUserCall struct {
	User    string
	Entries []*models.LogEntry
}

func (m *MockLogService) GetSnapshot() *models.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot != nil {
		return m.Snapshot
	}
	return &models.Storage{
		Version: models.StorageVersion,
		Users:   make(map[string][]*models.LogEntry),
	}
}

func (m *MockLogService) PutUserData(user string, entries []*models.LogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, PutUserCall{User: user, Entries: entries})
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            map[string]int
	CacheHits           int
	CacheMisses         int
	PersistenceObserved int
	LogsTotal           int
	SourceResults       map[string][2]int
	ClockOffset         time.Duration
	ClockTrusted        bool
	ClockReady          bool
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Requests == nil {
		m.Requests = make(map[string]int)
	}
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceObserved++
}

func (m *MockMetrics) SetLogsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogsTotal = count
}

// IncTimeSourceResult counts [ok, failed] per source.
func (m *MockMetrics) IncTimeSourceResult(source string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SourceResults == nil {
		m.SourceResults = make(map[string][2]int)
	}
	r := m.SourceResults[source]
	if ok {
		r[0]++
	} else {
		r[1]++
	}
	m.SourceResults[source] = r
}

func (m *MockMetrics) SetClockOffset(offset time.Duration, trusted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClockOffset = offset
	m.ClockTrusted = trusted
}

func (m *MockMetrics) SetClockReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClockReady = ready
}

// StubClock is a settable truetime.Clock.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock(now time.Time) *StubClock {
	return &StubClock{now: now}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *StubClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
