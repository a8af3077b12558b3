// Package simulation runs a single race tick by tick over seeded terrain.
//
// An Engine owns all per-race state. Callers drive it with Step until it
// reports the race finished, then read Results and Outcomes. The engine does
// no I/O and holds no shared state, so independent races can run in parallel
// with their own engines.
package simulation

import (
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/stable"
	"github.com/yourusername/paddock/internal/terrain"
)

// Options configures one race
type Options struct {
	Seed     int64
	RaceType models.RaceType
	// StartingStamina overrides the opening stamina per horse. Values are
	// capped at the horse's effective maximum.
	StartingStamina map[uuid.UUID]float64
}

// Engine simulates one race
type Engine struct {
	cfg      config.SimulationConfig
	seed     int64
	raceType models.RaceType
	raceMult float64
	rng      *rand.Rand
	track    terrain.Track

	roster []models.Entrant
	index  map[uuid.UUID]int
	states []RunnerState

	clock    float64
	ticks    int
	detected []int
	results  []models.FinisherResult
	outcomes []models.RaceOutcome
	finished bool
}

// NewEngine builds an engine and generates the race terrain from the seed.
func NewEngine(cfg config.SimulationConfig, roster []models.Entrant, opts Options) (*Engine, error) {
	if len(roster) == 0 {
		return nil, models.ErrEmptyRoster
	}
	if opts.RaceType == "" {
		opts.RaceType = models.RaceTypeStandard
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	e := &Engine{
		cfg:      cfg,
		seed:     opts.Seed,
		raceType: opts.RaceType,
		raceMult: cfg.Injury.RaceTypeMultiplier(string(opts.RaceType)),
		rng:      rng,
		track:    terrain.GenerateFrom(rng, cfg.Track, cfg.Terrain),
		roster:   append([]models.Entrant(nil), roster...),
		index:    make(map[uuid.UUID]int, len(roster)),
		states:   make([]RunnerState, len(roster)),
	}

	for i, entrant := range e.roster {
		e.index[entrant.HorseID] = i

		maxStamina := math.Max(entrant.Stats.Stamina, cfg.Stamina.Floor)
		stamina := maxStamina
		if override, ok := opts.StartingStamina[entrant.HorseID]; ok {
			stamina = math.Max(0, math.Min(override, maxStamina))
		}

		e.states[i] = RunnerState{
			HorseID:           entrant.HorseID,
			Stamina:           stamina,
			MaxStamina:        maxStamina,
			Exhausted:         stamina <= 0,
			NextSplitBoundary: cfg.Track.SegmentLength,
			Terrain:           e.track.SegmentAt(0).Type,
		}
	}

	return e, nil
}

// Seed returns the race seed
func (e *Engine) Seed() int64 { return e.seed }

// RaceType returns the race type tag
func (e *Engine) RaceType() models.RaceType { return e.raceType }

// Terrain returns the generated track
func (e *Engine) Terrain() terrain.Track { return e.track }

// Clock returns the simulated race time in seconds
func (e *Engine) Clock() float64 { return e.clock }

// Ticks returns the number of ticks simulated
func (e *Engine) Ticks() int { return e.ticks }

// Finished reports whether every entrant has finished
func (e *Engine) Finished() bool { return e.finished }

// Roster returns the entrants in roster order
func (e *Engine) Roster() []models.Entrant {
	return append([]models.Entrant(nil), e.roster...)
}

// State returns a copy of one entrant's state
func (e *Engine) State(horseID uuid.UUID) (RunnerState, error) {
	i, ok := e.index[horseID]
	if !ok {
		return RunnerState{}, models.ErrRunnerNotFound
	}
	return e.states[i].clone(), nil
}

// States returns a copy of every entrant's state in roster order
func (e *Engine) States() []RunnerState {
	out := make([]RunnerState, len(e.states))
	for i, s := range e.states {
		out[i] = s.clone()
	}
	return out
}

// Results returns the ranked finishers once the race is finished
func (e *Engine) Results() []models.FinisherResult {
	out := make([]models.FinisherResult, len(e.results))
	for i, r := range e.results {
		r.Splits = append([]float64(nil), r.Splits...)
		out[i] = r
	}
	return out
}

// Outcomes returns the lifecycle effects per entrant in finishing order
func (e *Engine) Outcomes() []models.RaceOutcome {
	return append([]models.RaceOutcome(nil), e.outcomes...)
}

// Step advances the race by one time step and reports whether the race is
// finished. Calling Step on a finished race is a no-op.
func (e *Engine) Step() bool {
	if e.finished {
		return true
	}

	for i := range e.states {
		if e.states[i].Finished {
			continue
		}
		e.advance(i)
	}

	e.clock += e.cfg.Track.TimeStep
	e.ticks++

	if len(e.detected) == len(e.states) {
		e.finalize()
	}
	return e.finished
}

// Run steps the race to completion or until maxTicks have elapsed.
func (e *Engine) Run(maxTicks int) bool {
	for e.ticks < maxTicks {
		if e.Step() {
			return true
		}
	}
	return e.finished
}

func (e *Engine) advance(i int) {
	s := &e.states[i]
	stats := e.roster[i].Stats
	dt := e.cfg.Track.TimeStep
	trackLength := e.cfg.Track.Length

	segment := e.track.SegmentAt(s.Position)
	s.Terrain = segment.Type
	target := stats.Speed * segment.Modifiers.SpeedMult
	target = e.applyStamina(s, stats, segment, target)

	// Acceleration is symmetric: speeding up and slowing down share one limit.
	maxDelta := stats.Acceleration * dt
	delta := target - s.CurrentSpeed
	if delta > maxDelta {
		delta = maxDelta
	} else if delta < -maxDelta {
		delta = -maxDelta
	}
	s.CurrentSpeed += delta

	s.Position += s.CurrentSpeed * dt

	for s.NextSplitBoundary < trackLength && s.Position >= s.NextSplitBoundary {
		s.Splits = append(s.Splits, e.clock-s.SegmentStartTime)
		s.SegmentStartTime = e.clock
		s.NextSplitBoundary += e.cfg.Track.SegmentLength
	}

	if !s.Injured {
		threshold := e.injuryThreshold(s, e.roster[i].Age, segment)
		if e.rng.Float64() < threshold {
			s.Injured = true
			s.CurrentSpeed *= e.cfg.Injury.SpeedPenalty
		}
	}

	if s.Position >= trackLength {
		s.Position = trackLength
		s.Splits = append(s.Splits, e.clock-s.SegmentStartTime)
		s.SegmentStartTime = e.clock
		s.FinishTime = e.clock
		s.Finished = true
		e.detected = append(e.detected, i)
	}
}

// applyStamina runs the exhaustion state machine and returns the adjusted
// target speed. Exhaustion sets only at zero stamina and clears only at the
// effective maximum.
func (e *Engine) applyStamina(s *RunnerState, stats models.EffectiveStats, segment terrain.Segment, target float64) float64 {
	sc := e.cfg.Stamina
	dt := e.cfg.Track.TimeStep

	if !s.Exhausted && s.Stamina > 0 {
		target *= sc.BoostMultiplier
		drain := sc.DrainBase * segment.Modifiers.StaminaDrainMult * dt
		if sc.EffortScaling {
			drain *= clamp(s.CurrentSpeed/stats.Speed, sc.EffortMin, sc.EffortMax)
		}
		s.Stamina -= drain
		if s.Stamina <= 0 {
			s.Stamina = 0
			s.Exhausted = true
		}
		return target
	}

	target *= sc.DepletedMultiplier
	s.Stamina += sc.RecoveryRate * dt
	if s.Stamina >= s.MaxStamina {
		s.Stamina = s.MaxStamina
		s.Exhausted = false
	}
	return target
}

// injuryThreshold is the probability of injury during this tick
func (e *Engine) injuryThreshold(s *RunnerState, age int, segment terrain.Segment) float64 {
	ic := e.cfg.Injury

	staminaRisk := 1.0
	if ratio := s.StaminaRatio(); ratio < ic.LowStaminaThreshold {
		staminaRisk = 1 + (ic.LowStaminaThreshold-ratio)/ic.LowStaminaThreshold*(ic.StaminaRiskMax-1)
	}

	ageRisk := 1.0
	peak := e.cfg.Aging.PeakAge
	if age > peak {
		ageRisk += float64(age-peak) * ic.AgeRiskPerYearOverPeak
	} else if age < peak {
		ageRisk += float64(peak-age) * ic.AgeRiskPerYearUnderPeak
	}

	return segment.Modifiers.InjuryChanceBase * staminaRisk * ageRisk * e.raceMult * e.cfg.Track.TimeStep
}

// finalize ranks finishers and rolls post-race effects. It runs once, on the
// tick the last entrant finishes.
func (e *Engine) finalize() {
	order := append([]int(nil), e.detected...)
	// Ties on finish time keep detection order, which within a tick is roster
	// order.
	sort.SliceStable(order, func(a, b int) bool {
		return e.states[order[a]].FinishTime < e.states[order[b]].FinishTime
	})

	e.results = make([]models.FinisherResult, len(order))
	e.outcomes = make([]models.RaceOutcome, len(order))
	for rank, i := range order {
		s := e.states[i]
		e.results[rank] = models.FinisherResult{
			HorseID:    s.HorseID,
			Position:   rank + 1,
			FinishTime: s.FinishTime,
			Splits:     append([]float64(nil), s.Splits...),
			Injured:    s.Injured,
		}
		e.outcomes[rank] = e.outcome(i, rank+1)
	}

	e.finished = true
}

func (e *Engine) outcome(i, position int) models.RaceOutcome {
	entrant := e.roster[i]
	ic := e.cfg.Injury
	rc := e.cfg.Retirement

	o := models.RaceOutcome{
		HorseID:  entrant.HorseID,
		Position: position,
		Won:      position == 1,
		NewAge:   entrant.Age,
	}

	if e.states[i].Injured {
		o.NewInjury = &models.Injury{
			Type:           ic.InjuryType,
			Severity:       ic.SeverityMin + e.rng.Intn(ic.SeverityMax-ic.SeverityMin+1),
			RacesRemaining: ic.DurationMin + e.rng.Intn(ic.DurationMax-ic.DurationMin+1),
		}
	}

	if (entrant.RacesRun+1)%rc.RacesPerYear == 0 {
		o.Aged = true
		o.NewAge = entrant.Age + 1
	}

	switch {
	case entrant.Retired:
		// already replaced when it retired
	case o.NewAge >= rc.ForcedRetireAge:
		o.Retired = true
	case o.Aged && o.NewAge >= rc.MinRetireAge:
		o.Retired = e.rng.Float64() < rc.RetireChancePerYear
	}

	if o.Retired {
		o.Replacement = stable.NewRookie(e.rng, e.cfg.Rookie)
	}
	return o
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
