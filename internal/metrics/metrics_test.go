package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordBetPlaced(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(BetsPlacedTotal.WithLabelValues("WIN"))

	RecordBetPlaced("WIN")

	assert.Equal(t, before+1, testutil.ToFloat64(BetsPlacedTotal.WithLabelValues("WIN")))
}

func TestRecordBetSettled(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBetSettled("EXACTA", "lost")
		RecordBetSettled("PLACE", "won")
	})
}

func TestUpdateWallet(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		amount float64
	}{
		{name: "positive balance", amount: 1000},
		{name: "zero balance", amount: 0},
		{name: "negative balance", amount: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateWallet(tt.amount)
			assert.Equal(t, tt.amount, testutil.ToFloat64(WalletBalance))
		})
	}
}

func TestRecordOddsCalculation(t *testing.T) {
	InitRegistry()

	RecordOddsCalculation(0.001, 1.1)
	assert.InDelta(t, 1.1, testutil.ToFloat64(BookOverround), 1e-9)
}

func TestRecordOddsCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(OddsCacheLookupsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(OddsCacheLookupsTotal.WithLabelValues("miss"))

	RecordOddsCacheLookup(true)
	RecordOddsCacheLookup(false)
	RecordOddsCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(OddsCacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(OddsCacheLookupsTotal.WithLabelValues("miss")))
}

func TestRaceMetrics(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(RacesRunTotal.WithLabelValues("Standard"))

	assert.NotPanics(t, func() {
		RecordRace("Standard", 120, 58.5, 0.01)
		RecordInjury("Standard")
		RecordRetirement()
	})

	assert.Equal(t, before+1, testutil.ToFloat64(RacesRunTotal.WithLabelValues("Standard")))
}

func TestCalibrationMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCalibrationRun("success")
		RecordCalibrationDuration(2.5)
		UpdateWinDeviation("Thunder", -0.012)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordBetPlaced("WIN")

	handler := Handler()
	require.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "paddock_bets_placed_total")
}

func BenchmarkRecordBetPlaced(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordBetPlaced("WIN")
	}
}

func BenchmarkRecordRace(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordRace("Standard", 100, 55.0, 0.001)
	}
}
