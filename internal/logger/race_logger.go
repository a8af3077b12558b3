// Package logger provides race-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RaceLogger provides dedicated logging for race operations.
type RaceLogger struct {
	*logrus.Entry
}

// NewRaceLogger creates a new race logger.
func NewRaceLogger(baseLogger *logrus.Logger) *RaceLogger {
	return &RaceLogger{
		Entry: baseLogger.WithField("component", "race"),
	}
}

// LogRaceStart logs the start of a race.
func (rl *RaceLogger) LogRaceStart(raceID string, seed int64, raceType string, fieldSize int, terrain []string) {
	rl.WithFields(logrus.Fields{
		"race_id":    raceID,
		"seed":       seed,
		"race_type":  raceType,
		"field_size": fieldSize,
		"terrain":    terrain,
	}).Info("Race started")
}

// LogOddsQuoted logs a priced book.
func (rl *RaceLogger) LogOddsQuoted(raceID string, overround float64, favourite string, favouriteOdds float64) {
	rl.WithFields(logrus.Fields{
		"race_id":        raceID,
		"overround":      overround,
		"favourite":      favourite,
		"favourite_odds": favouriteOdds,
	}).Debug("Odds quoted")
}

// LogInjury logs an in-race injury.
func (rl *RaceLogger) LogInjury(raceID, horseName string, position, clock float64) {
	rl.WithFields(logrus.Fields{
		"race_id":  raceID,
		"horse":    horseName,
		"position": position,
		"clock":    clock,
	}).Warn("Horse injured during race")
}

// LogRaceFinish logs a completed race.
func (rl *RaceLogger) LogRaceFinish(raceID, winner string, winnerTime float64, ticks int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"race_id":     raceID,
		"winner":      winner,
		"winner_time": winnerTime,
		"ticks":       ticks,
		"duration_ms": durationMs,
	}).Info("Race finished")
}

// LogRetirement logs a retirement and the rookie replacing the horse.
func (rl *RaceLogger) LogRetirement(horseName string, age int, replacement string) {
	rl.WithFields(logrus.Fields{
		"horse":       horseName,
		"age":         age,
		"replacement": replacement,
	}).Info("Horse retired")
}

// LogCalibration logs one horse's observed win rate against its fair price.
func (rl *RaceLogger) LogCalibration(horseName string, fairProbability, observed float64, runs int) {
	rl.WithFields(logrus.Fields{
		"horse":            horseName,
		"fair_probability": fairProbability,
		"observed":         observed,
		"deviation":        observed - fairProbability,
		"runs":             runs,
	}).Info("Calibration result")
}
