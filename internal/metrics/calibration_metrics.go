// Package metrics defines calibration-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Calibration counter vectors
var (
	CalibrationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "calibration_runs_total",
		Help:      "Total number of calibration runs by status",
	}, []string{"status"})
)

// Calibration gauge vectors
var (
	CalibrationWinDeviation = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "paddock",
		Name:      "calibration_win_deviation",
		Help:      "Observed win frequency minus fair probability per horse",
	}, []string{"horse"})
)

// RecordCalibrationRun records a calibration run.
// status should be one of: "success", "failure", "cancelled"
func RecordCalibrationRun(status string) {
	CalibrationRunsTotal.WithLabelValues(status).Inc()
}

// UpdateWinDeviation updates the calibration deviation for a horse.
func UpdateWinDeviation(horse string, deviation float64) {
	CalibrationWinDeviation.WithLabelValues(horse).Set(deviation)
}
