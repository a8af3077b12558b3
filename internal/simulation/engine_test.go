package simulation

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/performance"
	"github.com/yourusername/paddock/internal/stable"
)

func defaultRoster(t *testing.T, cfg config.SimulationConfig) []models.Entrant {
	t.Helper()
	model := performance.NewModel(cfg)
	var roster []models.Entrant
	for _, h := range stable.DefaultRoster() {
		roster = append(roster, model.Entrant(h, nil))
	}
	return roster
}

func injuryFree(cfg config.SimulationConfig) config.SimulationConfig {
	mods := make(map[string]config.TerrainModifier, len(cfg.Terrain.Modifiers))
	for k, m := range cfg.Terrain.Modifiers {
		m.InjuryChance = 0
		mods[k] = m
	}
	cfg.Terrain.Modifiers = mods
	return cfg
}

func runToEnd(t *testing.T, e *Engine) {
	t.Helper()
	require.True(t, e.Run(10_000), "race did not finish")
}

func TestNewEngineRejectsEmptyRoster(t *testing.T) {
	_, err := NewEngine(config.DefaultSimulation(), nil, Options{Seed: 1})
	assert.ErrorIs(t, err, models.ErrEmptyRoster)
}

func TestRaceIsDeterministic(t *testing.T) {
	cfg := config.DefaultSimulation()
	roster := defaultRoster(t, cfg)

	for _, seed := range []int64{1, 42, 2024} {
		a, err := NewEngine(cfg, roster, Options{Seed: seed})
		require.NoError(t, err)
		b, err := NewEngine(cfg, roster, Options{Seed: seed})
		require.NoError(t, err)

		assert.Equal(t, a.Terrain().Types(), b.Terrain().Types())
		for !a.Finished() {
			a.Step()
			b.Step()
			require.Equal(t, a.States(), b.States(), "seed %d tick %d", seed, a.Ticks())
		}
		assert.True(t, b.Finished())
		assert.Equal(t, a.Results(), b.Results())
		assert.Equal(t, a.Outcomes(), b.Outcomes())
	}
}

func TestStateInvariantsHoldEveryTick(t *testing.T) {
	cfg := config.DefaultSimulation()
	roster := defaultRoster(t, cfg)

	for seed := int64(0); seed < 10; seed++ {
		e, err := NewEngine(cfg, roster, Options{Seed: seed, RaceType: models.RaceTypeChampionship})
		require.NoError(t, err)

		prev := e.States()
		for !e.Finished() {
			e.Step()
			cur := e.States()
			for i, s := range cur {
				p := prev[i]
				assert.GreaterOrEqual(t, s.Position, 0.0)
				assert.LessOrEqual(t, s.Position, cfg.Track.Length)
				assert.GreaterOrEqual(t, s.Stamina, 0.0)
				assert.LessOrEqual(t, s.Stamina, s.MaxStamina)

				if !p.Exhausted && s.Exhausted {
					assert.Equal(t, 0.0, s.Stamina, "exhaustion set above zero")
				}
				if p.Exhausted && !s.Exhausted {
					assert.Equal(t, s.MaxStamina, s.Stamina, "exhaustion cleared below max")
				}
				if p.Finished {
					assert.Equal(t, p, s, "finished state mutated")
				}
				if s.Finished {
					assert.Equal(t, cfg.Track.Length, s.Position)
				}
				if p.Injured {
					assert.True(t, s.Injured, "injury is sticky")
				}
			}
			prev = cur
		}
	}
}

func TestExhaustionHysteresis(t *testing.T) {
	cfg := injuryFree(config.DefaultSimulation())
	cfg.Terrain.Patches = 0

	horse := models.Entrant{
		HorseID: uuid.New(),
		Age:     4,
		Stats:   models.EffectiveStats{Speed: 1.0, Stamina: 10.0, Acceleration: 1.0},
	}
	e, err := NewEngine(cfg, []models.Entrant{horse}, Options{
		Seed:            7,
		StartingStamina: map[uuid.UUID]float64{horse.HorseID: 0.1},
	})
	require.NoError(t, err)

	e.Step()
	s, err := e.State(horse.HorseID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Stamina)
	assert.True(t, s.Exhausted)

	previous := s.Stamina
	for {
		e.Step()
		s, err = e.State(horse.HorseID)
		require.NoError(t, err)
		assert.Greater(t, s.Stamina, previous)
		if s.Stamina < 10.0 {
			assert.True(t, s.Exhausted, "cleared early at stamina %.2f", s.Stamina)
			previous = s.Stamina
			continue
		}
		assert.Equal(t, 10.0, s.Stamina)
		assert.False(t, s.Exhausted)
		break
	}
	// 0.25 recovered per tick from zero
	assert.Equal(t, 41, e.Ticks())

	// Full again, so the next tick boosts and drains
	e.Step()
	s, _ = e.State(horse.HorseID)
	assert.Equal(t, 9.5, s.Stamina)
	assert.False(t, s.Exhausted)
}

func TestStartingStaminaIsCapped(t *testing.T) {
	cfg := config.DefaultSimulation()
	roster := defaultRoster(t, cfg)

	e, err := NewEngine(cfg, roster, Options{
		Seed: 3,
		StartingStamina: map[uuid.UUID]float64{
			roster[0].HorseID: 1000,
			roster[1].HorseID: 2.5,
			roster[2].HorseID: -4,
		},
	})
	require.NoError(t, err)

	states := e.States()
	assert.Equal(t, roster[0].Stats.Stamina, states[0].Stamina)
	assert.Equal(t, 2.5, states[1].Stamina)
	assert.False(t, states[1].Exhausted)
	assert.Equal(t, 0.0, states[2].Stamina)
	assert.True(t, states[2].Exhausted)
	assert.Equal(t, roster[3].Stats.Stamina, states[3].Stamina)
}

func TestAccelerationIsLimited(t *testing.T) {
	cfg := injuryFree(config.DefaultSimulation())
	roster := defaultRoster(t, cfg)

	e, err := NewEngine(cfg, roster, Options{Seed: 9})
	require.NoError(t, err)
	e.Step()

	for i, s := range e.States() {
		assert.LessOrEqual(t, s.CurrentSpeed, roster[i].Stats.Acceleration*cfg.Track.TimeStep+1e-9)
		assert.Greater(t, s.CurrentSpeed, 0.0)
	}
}

func TestResultsAreRankedWithSplits(t *testing.T) {
	cfg := config.DefaultSimulation()
	roster := defaultRoster(t, cfg)

	e, err := NewEngine(cfg, roster, Options{Seed: 42})
	require.NoError(t, err)
	runToEnd(t, e)

	results := e.Results()
	require.Len(t, results, len(roster))
	for i, r := range results {
		assert.Equal(t, i+1, r.Position)
		if i > 0 {
			assert.GreaterOrEqual(t, r.FinishTime, results[i-1].FinishTime)
		}
		require.Len(t, r.Splits, cfg.Track.SegmentCount())

		var total float64
		for _, split := range r.Splits {
			assert.GreaterOrEqual(t, split, 0.0)
			total += split
		}
		assert.InDelta(t, r.FinishTime, total, 1e-9)
	}

	outcomes := e.Outcomes()
	require.Len(t, outcomes, len(roster))
	assert.True(t, outcomes[0].Won)
	assert.Equal(t, results[0].HorseID, outcomes[0].HorseID)
	for _, o := range outcomes[1:] {
		assert.False(t, o.Won)
	}
}

func TestFinishTimeIsClockBeforeTheTick(t *testing.T) {
	cfg := config.DefaultSimulation()
	e, err := NewEngine(cfg, defaultRoster(t, cfg), Options{Seed: 42})
	require.NoError(t, err)
	runToEnd(t, e)

	dt := cfg.Track.TimeStep
	results := e.Results()
	for _, r := range results {
		steps := r.FinishTime / dt
		assert.InDelta(t, math.Round(steps), steps, 1e-6, "finish time falls on a tick boundary")
	}
	// the race ends on the tick the last runner crosses the line
	last := results[len(results)-1]
	assert.InDelta(t, e.Clock()-dt, last.FinishTime, 1e-9)
	assert.InDelta(t, float64(e.Ticks()-1)*dt, last.FinishTime, 1e-6)
}

func TestTiesBreakByRosterOrder(t *testing.T) {
	cfg := injuryFree(config.DefaultSimulation())
	stats := models.EffectiveStats{Speed: 8, Stamina: 7, Acceleration: 6}
	a := models.Entrant{HorseID: uuid.New(), Age: 4, Stats: stats}
	b := models.Entrant{HorseID: uuid.New(), Age: 4, Stats: stats}

	e, err := NewEngine(cfg, []models.Entrant{a, b}, Options{Seed: 5})
	require.NoError(t, err)
	runToEnd(t, e)
	results := e.Results()
	assert.Equal(t, results[0].FinishTime, results[1].FinishTime)
	assert.Equal(t, a.HorseID, results[0].HorseID)

	e, err = NewEngine(cfg, []models.Entrant{b, a}, Options{Seed: 5})
	require.NoError(t, err)
	runToEnd(t, e)
	assert.Equal(t, b.HorseID, e.Results()[0].HorseID)
}

func TestStepAfterFinishIsNoop(t *testing.T) {
	cfg := config.DefaultSimulation()
	e, err := NewEngine(cfg, defaultRoster(t, cfg), Options{Seed: 11})
	require.NoError(t, err)
	runToEnd(t, e)

	ticks := e.Ticks()
	clock := e.Clock()
	results := e.Results()
	outcomes := e.Outcomes()

	assert.True(t, e.Step())
	assert.Equal(t, ticks, e.Ticks())
	assert.Equal(t, clock, e.Clock())
	assert.Equal(t, results, e.Results())
	assert.Equal(t, outcomes, e.Outcomes())
}

func TestInjuriesRollSeverityAndDuration(t *testing.T) {
	cfg := config.DefaultSimulation()
	mods := make(map[string]config.TerrainModifier)
	for k, m := range cfg.Terrain.Modifiers {
		m.InjuryChance = 1
		mods[k] = m
	}
	cfg.Terrain.Modifiers = mods

	roster := defaultRoster(t, cfg)
	e, err := NewEngine(cfg, roster, Options{Seed: 21})
	require.NoError(t, err)
	runToEnd(t, e)

	for i, r := range e.Results() {
		assert.True(t, r.Injured)
		injury := e.Outcomes()[i].NewInjury
		require.NotNil(t, injury)
		assert.Equal(t, "Strain", injury.Type)
		assert.GreaterOrEqual(t, injury.Severity, 1)
		assert.LessOrEqual(t, injury.Severity, 3)
		assert.GreaterOrEqual(t, injury.RacesRemaining, 2)
		assert.LessOrEqual(t, injury.RacesRemaining, 5)
	}
}

func TestAgingAndRetirement(t *testing.T) {
	cfg := injuryFree(config.DefaultSimulation())
	stats := models.EffectiveStats{Speed: 8, Stamina: 7, Acceleration: 6}
	young := models.Entrant{HorseID: uuid.New(), Age: 3, RacesRun: 0, Stats: stats}
	birthday := models.Entrant{HorseID: uuid.New(), Age: 3, RacesRun: 4, Stats: stats}
	veteran := models.Entrant{HorseID: uuid.New(), Age: 10, RacesRun: 1, Stats: stats}

	e, err := NewEngine(cfg, []models.Entrant{young, birthday, veteran}, Options{Seed: 8})
	require.NoError(t, err)
	runToEnd(t, e)

	byID := map[uuid.UUID]models.RaceOutcome{}
	for _, o := range e.Outcomes() {
		byID[o.HorseID] = o
	}

	assert.False(t, byID[young.HorseID].Aged)
	assert.Equal(t, 3, byID[young.HorseID].NewAge)
	assert.False(t, byID[young.HorseID].Retired)
	assert.Nil(t, byID[young.HorseID].Replacement)

	assert.True(t, byID[birthday.HorseID].Aged)
	assert.Equal(t, 4, byID[birthday.HorseID].NewAge)
	assert.False(t, byID[birthday.HorseID].Retired)

	old := byID[veteran.HorseID]
	assert.True(t, old.Retired)
	require.NotNil(t, old.Replacement)
	assert.Equal(t, 2, old.Replacement.Age)
	assert.NotEqual(t, veteran.HorseID, old.Replacement.ID)
}

func TestRetiredEntrantIsNotRetiredAgain(t *testing.T) {
	cfg := injuryFree(config.DefaultSimulation())
	stats := models.EffectiveStats{Speed: 8, Stamina: 7, Acceleration: 6}
	retired := models.Entrant{HorseID: uuid.New(), Age: 10, RacesRun: 5, Retired: true, Stats: stats}
	veteran := models.Entrant{HorseID: uuid.New(), Age: 10, RacesRun: 5, Stats: stats}

	e, err := NewEngine(cfg, []models.Entrant{retired, veteran}, Options{Seed: 3})
	require.NoError(t, err)
	runToEnd(t, e)

	for _, o := range e.Outcomes() {
		if o.HorseID == retired.HorseID {
			assert.False(t, o.Retired)
			assert.Nil(t, o.Replacement)
		} else {
			assert.True(t, o.Retired)
			assert.NotNil(t, o.Replacement)
		}
	}
}

func TestProbabilisticRetirementOnlyOnAging(t *testing.T) {
	cfg := injuryFree(config.DefaultSimulation())
	cfg.Retirement.RetireChancePerYear = 1
	stats := models.EffectiveStats{Speed: 8, Stamina: 7, Acceleration: 6}
	mid := models.Entrant{HorseID: uuid.New(), Age: 8, RacesRun: 1, Stats: stats}
	aging := models.Entrant{HorseID: uuid.New(), Age: 8, RacesRun: 9, Stats: stats}

	e, err := NewEngine(cfg, []models.Entrant{mid, aging}, Options{Seed: 8})
	require.NoError(t, err)
	runToEnd(t, e)

	for _, o := range e.Outcomes() {
		if o.HorseID == mid.HorseID {
			assert.False(t, o.Retired)
		} else {
			assert.True(t, o.Retired)
			assert.Equal(t, 9, o.NewAge)
		}
	}
}

func TestInjuryThresholdMultipliers(t *testing.T) {
	cfg := config.DefaultSimulation()
	roster := defaultRoster(t, cfg)

	standard, err := NewEngine(cfg, roster, Options{Seed: 1, RaceType: models.RaceTypeStandard})
	require.NoError(t, err)
	championship, err := NewEngine(cfg, roster, Options{Seed: 1, RaceType: models.RaceTypeChampionship})
	require.NoError(t, err)

	segment := standard.Terrain().SegmentAt(0)
	fresh := &RunnerState{Stamina: 10, MaxStamina: 10}
	tired := &RunnerState{Stamina: 0, MaxStamina: 10}

	base := standard.injuryThreshold(fresh, 4, segment)
	assert.InDelta(t, segment.Modifiers.InjuryChanceBase*cfg.Track.TimeStep, base, 1e-12)
	assert.InDelta(t, base*1.15, championship.injuryThreshold(fresh, 4, segment), 1e-12)
	assert.InDelta(t, base*2.0, standard.injuryThreshold(tired, 4, segment), 1e-12)
	assert.InDelta(t, base*1.24, standard.injuryThreshold(fresh, 6, segment), 1e-12)
	assert.InDelta(t, base*1.12, standard.injuryThreshold(fresh, 2, segment), 1e-12)
}

func TestStateUnknownRunner(t *testing.T) {
	cfg := config.DefaultSimulation()
	e, err := NewEngine(cfg, defaultRoster(t, cfg), Options{Seed: 1})
	require.NoError(t, err)

	_, err = e.State(uuid.New())
	assert.ErrorIs(t, err, models.ErrRunnerNotFound)
}
