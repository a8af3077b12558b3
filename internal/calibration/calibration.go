// Package calibration runs many seeded races over one roster and compares
// observed win frequencies with the odds engine's fair probabilities.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/odds"
	"github.com/yourusername/paddock/internal/simulation"
	"golang.org/x/sync/errgroup"
)

// Config configures a calibration run
type Config struct {
	Runs     int
	BaseSeed int64
	Workers  int
	RaceType models.RaceType
}

// HorseReport is the calibration result for one entrant
type HorseReport struct {
	HorseID         uuid.UUID `json:"horse_id"`
	Name            string    `json:"name"`
	FairProbability float64   `json:"fair_probability"`
	Wins            int       `json:"wins"`
	WinRate         float64   `json:"win_rate"`
	Deviation       float64   `json:"deviation"`
	MeanFinishTime  float64   `json:"mean_finish_time"`
	StdFinishTime   float64   `json:"std_finish_time"`
	Injuries        int       `json:"injuries"`
}

// Report summarises a calibration run
type Report struct {
	Runs          int           `json:"runs"`
	BaseSeed      int64         `json:"base_seed"`
	Horses        []HorseReport `json:"horses"`
	InjuryRate    float64       `json:"injury_rate"`
	MaxDeviation  float64       `json:"max_deviation"`
	MeanTicks     float64       `json:"mean_ticks"`
	ElapsedMillis int64         `json:"elapsed_ms"`
}

type raceSample struct {
	fair        []float64
	finishTimes []float64
	injured     []bool
	winner      int
	ticks       int
}

// Run simulates cfg.Runs races with seeds BaseSeed, BaseSeed+1, ... Each race
// gets its own engine, so the report does not depend on worker count.
func Run(ctx context.Context, sim config.SimulationConfig, roster []models.Entrant, cfg Config) (*Report, error) {
	if len(roster) == 0 {
		return nil, models.ErrEmptyRoster
	}
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("calibration needs a positive run count, got %d", cfg.Runs)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.RaceType == "" {
		cfg.RaceType = models.RaceTypeStandard
	}

	start := time.Now()
	engine := odds.NewEngine(sim.Betting)
	samples := make([]raceSample, cfg.Runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Runs; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sample, err := runOne(sim, engine, roster, cfg.BaseSeed+int64(i), cfg.RaceType)
			if err != nil {
				return err
			}
			samples[i] = sample
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		status := "failure"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = "cancelled"
		}
		metrics.RecordCalibrationRun(status)
		return nil, err
	}

	report := aggregate(roster, samples)
	report.BaseSeed = cfg.BaseSeed
	report.ElapsedMillis = time.Since(start).Milliseconds()

	metrics.RecordCalibrationRun("success")
	metrics.RecordCalibrationDuration(time.Since(start).Seconds())
	for _, h := range report.Horses {
		metrics.UpdateWinDeviation(h.Name, h.Deviation)
	}
	return report, nil
}

func runOne(sim config.SimulationConfig, engine *odds.Engine, roster []models.Entrant, seed int64, raceType models.RaceType) (raceSample, error) {
	race, err := simulation.NewEngine(sim, roster, simulation.Options{Seed: seed, RaceType: raceType})
	if err != nil {
		return raceSample{}, err
	}
	if !race.Run(sim.Track.MaxTicks) {
		return raceSample{}, fmt.Errorf("seed %d did not finish within %d ticks", seed, sim.Track.MaxTicks)
	}

	pack := engine.Calculate(roster, race.Terrain().Segments)
	index := make(map[uuid.UUID]int, len(roster))
	sample := raceSample{
		fair:        make([]float64, len(roster)),
		finishTimes: make([]float64, len(roster)),
		injured:     make([]bool, len(roster)),
		ticks:       race.Ticks(),
	}
	for i, e := range roster {
		index[e.HorseID] = i
		sample.fair[i] = pack.FairProbability(e.HorseID)
	}
	for _, r := range race.Results() {
		i := index[r.HorseID]
		sample.finishTimes[i] = r.FinishTime
		sample.injured[i] = r.Injured
		if r.Position == 1 {
			sample.winner = i
		}
	}
	return sample, nil
}

func aggregate(roster []models.Entrant, samples []raceSample) *Report {
	runs := len(samples)
	report := &Report{Runs: runs, Horses: make([]HorseReport, len(roster))}

	var injuries, ticks int
	for i, e := range roster {
		h := HorseReport{HorseID: e.HorseID, Name: e.Name}
		times := make([]float64, runs)
		for r, s := range samples {
			h.FairProbability += s.fair[i]
			times[r] = s.finishTimes[i]
			if s.winner == i {
				h.Wins++
			}
			if s.injured[i] {
				h.Injuries++
			}
		}
		h.FairProbability /= float64(runs)
		h.WinRate = float64(h.Wins) / float64(runs)
		h.Deviation = h.WinRate - h.FairProbability
		h.MeanFinishTime, h.StdFinishTime = meanStd(times)

		if d := math.Abs(h.Deviation); d > report.MaxDeviation {
			report.MaxDeviation = d
		}
		injuries += h.Injuries
		report.Horses[i] = h
	}
	for _, s := range samples {
		ticks += s.ticks
	}

	report.InjuryRate = float64(injuries) / float64(runs*len(roster))
	report.MeanTicks = float64(ticks) / float64(runs)
	return report
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
