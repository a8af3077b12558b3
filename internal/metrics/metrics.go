// Package metrics provides the centralized Prometheus metrics registry for the simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetsPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "bets_placed_total",
		Help:      "Total number of bets placed by market",
	}, []string{"market"})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled by market and result",
	}, []string{"market", "result"})
	OddsCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "odds_cache_lookups_total",
		Help:      "Odds board lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	WalletBalance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock",
		Name:      "wallet_balance",
		Help:      "Current bettor wallet balance",
	})
	ActiveHorses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock",
		Name:      "active_horses",
		Help:      "Number of non-retired horses in the stable",
	})
	BookOverround = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "paddock",
		Name:      "book_overround",
		Help:      "Sum of implied WIN probabilities of the latest quoted book",
	})
)

// Histogram metrics
var (
	OddsCalculationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paddock",
		Name:      "odds_calculation_duration_seconds",
		Help:      "Duration of odds book calculation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	CalibrationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paddock",
		Name:      "calibration_duration_seconds",
		Help:      "Duration of calibration runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(OddsCacheLookupsTotal)

		// Register gauge metrics
		registry.MustRegister(WalletBalance)
		registry.MustRegister(ActiveHorses)
		registry.MustRegister(BookOverround)

		// Register histogram metrics
		registry.MustRegister(OddsCalculationDuration)
		registry.MustRegister(CalibrationDuration)

		// Register race metrics
		registry.MustRegister(RacesRunTotal)
		registry.MustRegister(RaceTicksTotal)
		registry.MustRegister(InjuriesTotal)
		registry.MustRegister(RetirementsTotal)
		registry.MustRegister(RaceDuration)
		registry.MustRegister(WinnerFinishTime)

		// Register calibration metrics
		registry.MustRegister(CalibrationRunsTotal)
		registry.MustRegister(CalibrationWinDeviation)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBetPlaced records a bet placement event.
func RecordBetPlaced(market string) {
	BetsPlacedTotal.WithLabelValues(market).Inc()
}

// RecordBetSettled records a bet settlement; result is "won" or "lost".
func RecordBetSettled(market, result string) {
	BetsSettledTotal.WithLabelValues(market, result).Inc()
}

// RecordOddsCacheLookup records an odds board hit or miss.
func RecordOddsCacheLookup(hit bool) {
	if hit {
		OddsCacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	OddsCacheLookupsTotal.WithLabelValues("miss").Inc()
}

// UpdateWallet updates the wallet balance gauge.
func UpdateWallet(amount float64) {
	WalletBalance.Set(amount)
}

// UpdateActiveHorses updates the active horses gauge.
func UpdateActiveHorses(count float64) {
	ActiveHorses.Set(count)
}

// RecordOddsCalculation records one book calculation and its overround.
func RecordOddsCalculation(durationSeconds, overround float64) {
	OddsCalculationDuration.Observe(durationSeconds)
	BookOverround.Set(overround)
}

// RecordCalibrationDuration records calibration duration.
func RecordCalibrationDuration(durationSeconds float64) {
	CalibrationDuration.Observe(durationSeconds)
}
