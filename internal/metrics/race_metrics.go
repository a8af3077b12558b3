// Package metrics defines race-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Race counter vectors
var (
	RacesRunTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "races_run_total",
		Help:      "Total number of races run by race type",
	}, []string{"race_type"})

	RaceTicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "race_ticks_total",
		Help:      "Total number of simulation ticks by race type",
	}, []string{"race_type"})

	InjuriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "injuries_total",
		Help:      "Total number of in-race injuries by race type",
	}, []string{"race_type"})

	RetirementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "paddock",
		Name:      "retirements_total",
		Help:      "Total number of horses retired",
	})
)

// Race histogram vectors
var (
	RaceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "paddock",
		Name:      "race_duration_seconds",
		Help:      "Wall-clock duration of a race run including pacing",
		Buckets:   prometheus.DefBuckets,
	}, []string{"race_type"})

	WinnerFinishTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "paddock",
		Name:      "winner_finish_time_seconds",
		Help:      "Simulated finish time of race winners",
		Buckets:   []float64{20, 30, 40, 50, 60, 80, 100, 150},
	}, []string{"race_type"})
)

// RecordRace records a completed race.
func RecordRace(raceType string, ticks int, winnerTime, durationSeconds float64) {
	RacesRunTotal.WithLabelValues(raceType).Inc()
	RaceTicksTotal.WithLabelValues(raceType).Add(float64(ticks))
	WinnerFinishTime.WithLabelValues(raceType).Observe(winnerTime)
	RaceDuration.WithLabelValues(raceType).Observe(durationSeconds)
}

// RecordInjury records an in-race injury.
func RecordInjury(raceType string) {
	InjuriesTotal.WithLabelValues(raceType).Inc()
}

// RecordRetirement records a retirement.
func RecordRetirement() {
	RetirementsTotal.Inc()
}
