package championship

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/performance"
	"github.com/yourusername/paddock/internal/stable"
)

// MockRunner mocks a round runner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) RunRound(ctx context.Context, number int, field []*models.Horse, startingStamina map[uuid.UUID]float64) (*Round, error) {
	args := m.Called(ctx, number, field, startingStamina)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Round), args.Error(1)
}

func fixedRound(number int, order []*models.Horse, end float64) *Round {
	round := &Round{
		Number:     number,
		EndStamina: map[uuid.UUID]float64{},
		MaxStamina: map[uuid.UUID]float64{},
	}
	for i, h := range order {
		round.Results = append(round.Results, models.FinisherResult{HorseID: h.ID, Position: i + 1})
		round.EndStamina[h.ID] = end
		round.MaxStamina[h.ID] = 10
	}
	return round
}

func TestSeriesAwardsPoints(t *testing.T) {
	cfg := config.DefaultSimulation().Championship
	field := stable.DefaultRoster()[:4]
	a, b, c, d := field[0], field[1], field[2], field[3]

	runner := new(MockRunner)
	runner.On("RunRound", mock.Anything, 1, field, map[uuid.UUID]float64(nil)).
		Return(fixedRound(1, []*models.Horse{a, b, c, d}, 0), nil).Once()
	runner.On("RunRound", mock.Anything, 2, field, mock.Anything).
		Return(fixedRound(2, []*models.Horse{b, a, c, d}, 2), nil).Once()
	runner.On("RunRound", mock.Anything, 3, field, mock.Anything).
		Return(fixedRound(3, []*models.Horse{c, a, b, d}, 4), nil).Once()

	series, err := NewSeries(cfg, field, runner)
	require.NoError(t, err)

	standings, err := series.Run(context.Background())
	require.NoError(t, err)
	runner.AssertExpectations(t)

	require.Len(t, standings, 4)
	// a: 5+3+3, b: 3+5+1, c: 1+1+5, d: 0
	assert.Equal(t, a.ID, standings[0].HorseID)
	assert.Equal(t, 11, standings[0].Points)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, b.ID, standings[1].HorseID)
	assert.Equal(t, 9, standings[1].Points)
	assert.Equal(t, c.ID, standings[2].HorseID)
	assert.Equal(t, 7, standings[2].Points)
	assert.Equal(t, 0, standings[3].Points)
	assert.True(t, series.Complete())
	assert.Equal(t, a.ID, series.Champion().HorseID)
}

func TestSeriesCarriesFatigue(t *testing.T) {
	cfg := config.DefaultSimulation().Championship
	cfg.Rounds = 2
	field := stable.DefaultRoster()[:2]

	runner := new(MockRunner)
	runner.On("RunRound", mock.Anything, 1, field, map[uuid.UUID]float64(nil)).
		Return(fixedRound(1, field, 0), nil).Once()
	runner.On("RunRound", mock.Anything, 2, field, mock.MatchedBy(func(carried map[uuid.UUID]float64) bool {
		return math.Abs(carried[field[0].ID]-3.5) < 1e-9 && math.Abs(carried[field[1].ID]-3.5) < 1e-9
	})).Return(fixedRound(2, field, 0), nil).Once()

	series, err := NewSeries(cfg, field, runner)
	require.NoError(t, err)
	_, err = series.Run(context.Background())
	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestSeriesTiesKeepFieldOrder(t *testing.T) {
	cfg := config.DefaultSimulation().Championship
	cfg.Rounds = 2
	field := stable.DefaultRoster()[:2]
	a, b := field[0], field[1]

	runner := new(MockRunner)
	runner.On("RunRound", mock.Anything, 1, field, mock.Anything).Return(fixedRound(1, []*models.Horse{b, a}, 0), nil).Once()
	runner.On("RunRound", mock.Anything, 2, field, mock.Anything).Return(fixedRound(2, []*models.Horse{a, b}, 0), nil).Once()

	series, err := NewSeries(cfg, field, runner)
	require.NoError(t, err)
	standings, err := series.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, standings[0].Points, standings[1].Points)
	assert.Equal(t, a.ID, standings[0].HorseID)
}

func TestSeriesPropagatesRunnerError(t *testing.T) {
	cfg := config.DefaultSimulation().Championship
	field := stable.DefaultRoster()[:4]
	boom := errors.New("storage offline")

	runner := new(MockRunner)
	runner.On("RunRound", mock.Anything, 1, field, mock.Anything).Return(nil, boom).Once()

	series, err := NewSeries(cfg, field, runner)
	require.NoError(t, err)
	_, err = series.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, series.Rounds())
}

func TestSeriesHonoursCancellation(t *testing.T) {
	cfg := config.DefaultSimulation().Championship
	field := stable.DefaultRoster()[:4]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series, err := NewSeries(cfg, field, new(MockRunner))
	require.NoError(t, err)
	_, err = series.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSeriesNeedsTwoHorses(t *testing.T) {
	_, err := NewSeries(config.DefaultSimulation().Championship, stable.DefaultRoster()[:1], new(MockRunner))
	assert.ErrorIs(t, err, models.ErrEmptyRoster)
}

func TestPoints(t *testing.T) {
	table := []int{5, 3, 1, 0}
	assert.Equal(t, 5, Points(table, 1))
	assert.Equal(t, 1, Points(table, 3))
	assert.Equal(t, 0, Points(table, 4))
	assert.Equal(t, 0, Points(table, 9))
	assert.Equal(t, 0, Points(table, 0))
}

func TestCarryOverStamina(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	carried := CarryOverStamina(
		map[uuid.UUID]float64{a: 0, b: 6, c: 4},
		map[uuid.UUID]float64{a: 10, b: 6},
		0.35,
	)

	assert.InDelta(t, 3.5, carried[a], 1e-9)
	assert.Equal(t, 6.0, carried[b])
	assert.Equal(t, 4.0, carried[c])
}

func TestEngineRunnerPlaysFullSeries(t *testing.T) {
	sim := config.DefaultSimulation()
	field := stable.DefaultRoster()[:4]
	runner := &EngineRunner{Sim: sim, Model: performance.NewModel(sim), BaseSeed: 100}

	series, err := NewSeries(sim.Championship, field, runner)
	require.NoError(t, err)
	standings, err := series.Run(context.Background())
	require.NoError(t, err)

	total := 0
	for _, s := range standings {
		total += s.Points
	}
	assert.Equal(t, 3*(5+3+1), total)

	rounds := series.Rounds()
	require.Len(t, rounds, 3)
	for _, id := range []uuid.UUID{field[0].ID, field[1].ID} {
		assert.LessOrEqual(t, rounds[0].EndStamina[id], rounds[0].MaxStamina[id])
	}
}
