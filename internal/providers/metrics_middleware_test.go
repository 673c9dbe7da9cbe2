package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMetrics struct {
	requests  []requestRecord
	durations []string
}

type requestRecord struct {
	endpoint string
	status   int
}

func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requests = append(m.requests, requestRecord{endpoint, status})
}

func (m *mockMetrics) ObserveRequestDuration(endpoint string, _ time.Duration) {
	m.durations = append(m.durations, endpoint)
}

func (m *mockMetrics) IncCacheHits()                                    {}
func (m *mockMetrics) IncCacheMisses()                                  {}
func (m *mockMetrics) IncHarvestRuns(_ string, _ string)                {}
func (m *mockMetrics) ObserveHarvestDuration(_ string, _ time.Duration) {}
func (m *mockMetrics) SetRecordsTotal(_ string, _ int)                  {}

func TestMetricsMiddleware_RecordsEndpointAndStatus(t *testing.T) {
	metrics := &mockMetrics{}
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/windows/versions", nil))

	require.Len(t, metrics.requests, 1)
	assert.Equal(t, "/api/windows/versions", metrics.requests[0].endpoint)
	assert.Equal(t, http.StatusNotFound, metrics.requests[0].status)

	require.Len(t, metrics.durations, 1)
	assert.Equal(t, "/api/windows/versions", metrics.durations[0])
}

func TestMetricsMiddleware_DefaultsTo200(t *testing.T) {
	metrics := &mockMetrics{}
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Write without an explicit WriteHeader.
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, metrics.requests, 1)
	assert.Equal(t, http.StatusOK, metrics.requests[0].status)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	sw.WriteHeader(http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, sw.status)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, rr, sw.Unwrap())
}
