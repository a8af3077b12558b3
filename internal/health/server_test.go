package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/metrics"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubSchedule struct{ next time.Time }

func (s stubSchedule) GetNextRun() time.Time { return s.next }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "paddock", Version: "test", Port: "0"})
	h := s.Handler()

	for _, path := range []string{"/health", "/live"} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "paddock", body.Service)
	}
}

func TestReadyReflectsStateAndDatabase(t *testing.T) {
	next := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	s := NewServer(Config{ServiceName: "paddock", Port: "0", DB: stubPinger{}, Schedule: stubSchedule{next: next}})

	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = get(t, s.Handler(), "/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "2026-01-02T15:00:00Z", body.NextRace)

	s.db = stubPinger{err: errors.New("database is locked")}
	rec = get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database is locked")
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordRace("Standard", 80, 39.5, 0.01)

	s := NewServer(Config{ServiceName: "paddock", Port: "0", MetricsPath: "/metrics"})
	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "paddock_races_run_total")

	bare := NewServer(Config{ServiceName: "paddock", Port: "0"})
	assert.Equal(t, http.StatusNotFound, get(t, bare.Handler(), "/metrics").Code)
}

type stubStable struct {
	n   int
	err error
}

func (s stubStable) Count(context.Context) (int, error) { return s.n, s.err }

func TestReadyRequiresHorses(t *testing.T) {
	s := NewServer(Config{ServiceName: "paddock", Port: "0", Stable: stubStable{}})
	s.SetReady(true)

	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty")

	s.stable = stubStable{n: 5}
	rec = get(t, s.Handler(), "/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "5 horses", body.Checks["stable"])
	assert.Empty(t, body.NextRace)
}
