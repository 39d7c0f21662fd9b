package controllers

import (
	"calsurf/internal/truetime"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type countingFetcher struct {
	trusted time.Time
	calls   atomic.Int32
}

func (f *countingFetcher) Fetch(context.Context) truetime.Result {
	f.calls.Add(1)
	return truetime.Available(f.trusted, "test-source")
}

type mockMetricsNoop struct{}

func (m *mockMetricsNoop) IncRequestsTotal(_ string, _ int)                 {}
func (m *mockMetricsNoop) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *mockMetricsNoop) IncCacheHits()                                    {}
func (m *mockMetricsNoop) IncCacheMisses()                                  {}
func (m *mockMetricsNoop) ObservePersistenceDuration(_ time.Duration)       {}
func (m *mockMetricsNoop) SetLogsTotal(_ int)                               {}
func (m *mockMetricsNoop) IncTimeSourceResult(_ string, _ bool)             {}
func (m *mockMetricsNoop) SetClockOffset(_ time.Duration, _ bool)           {}
func (m *mockMetricsNoop) SetClockReady(_ bool)                             {}

// device is five days ahead of trusted time.
var (
	trusted = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	device  = trusted.Add(5 * 24 * time.Hour)
)

func newTestKeeper() (*truetime.Keeper, *countingFetcher) {
	clock := fixedClock(device)
	fetcher := &countingFetcher{trusted: trusted}
	k := truetime.NewKeeper(fetcher, truetime.NewEstimator(clock, truetime.DefaultDeadZone), clock, truetime.UTCZone(), &mockLogger{}, &mockMetricsNoop{})
	return k, fetcher
}

func TestTimeNow_BeforeReconcile(t *testing.T) {
	k, _ := newTestKeeper()
	tc := NewTimeController(k, &mockLogger{})

	rr := httptest.NewRecorder()
	tc.Now(rr, httptest.NewRequest(http.MethodGet, "/time", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["ready"])
	assert.Equal(t, "2024-03-06", resp["today"])
}

func TestTimeNow_AfterReconcile(t *testing.T) {
	k, _ := newTestKeeper()
	k.Reconcile(context.Background())
	tc := NewTimeController(k, &mockLogger{})

	rr := httptest.NewRecorder()
	tc.Now(rr, httptest.NewRequest(http.MethodGet, "/time", nil))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ready"])
	assert.Equal(t, true, resp["trusted"])
	assert.Equal(t, "2024-03-01", resp["today"])
	assert.Equal(t, float64(-5*24*time.Hour/time.Millisecond), resp["offsetMs"])
	assert.Equal(t, "test-source", resp["source"])
	assert.Equal(t, "UTC", resp["timezone"])
}

func TestTimeResync(t *testing.T) {
	k, fetcher := newTestKeeper()
	tc := NewTimeController(k, &mockLogger{})

	rr := httptest.NewRecorder()
	tc.Resync(rr, httptest.NewRequest(http.MethodPost, "/time/resync", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.True(t, k.Ready())
	assert.Contains(t, rr.Body.String(), `"today":"2024-03-01"`)
}

func TestTimeLabel(t *testing.T) {
	k, _ := newTestKeeper()
	k.Reconcile(context.Background())
	tc := NewTimeController(k, &mockLogger{})

	tests := []struct {
		key   string
		label string
	}{
		{"2024-02-28", "Feb 28"},
		{"2023-11-30", "Nov 30, 2023"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.Label(rr, httptest.NewRequest(http.MethodGet, "/time/label?key="+tt.key, nil))
			require.Equal(t, http.StatusOK, rr.Code)

			var resp labelResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.key, resp.Key)
			assert.Equal(t, tt.label, resp.Label)
		})
	}
}

func TestTimeLabel_InvalidKey(t *testing.T) {
	k, _ := newTestKeeper()
	tc := NewTimeController(k, &mockLogger{})

	for _, key := range []string{"", "not-a-date", "2024-13-01"} {
		rr := httptest.NewRecorder()
		tc.Label(rr, httptest.NewRequest(http.MethodGet, "/time/label?key="+key, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, key)
	}
}
