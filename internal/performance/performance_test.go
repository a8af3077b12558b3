package performance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
)

func newModel() *Model {
	return NewModel(config.DefaultSimulation())
}

func TestAgeMultiplier(t *testing.T) {
	m := newModel()

	tests := []struct {
		age  int
		want float64
	}{
		{age: 2, want: 0.8},
		{age: 3, want: 0.9},
		{age: 4, want: 1.0},
		{age: 5, want: 0.9},
		{age: 7, want: 0.7},
		{age: 9, want: 0.5},
		{age: 12, want: 0.5},
		{age: 30, want: 0.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, m.AgeMultiplier(tt.age), 1e-9, "age %d", tt.age)
	}
}

func TestAgeMultiplierClampedToMinimum(t *testing.T) {
	sim := config.DefaultSimulation()
	sim.Aging.DeclineCapYears = 20
	m := NewModel(sim)

	assert.Equal(t, 0.4, m.AgeMultiplier(20))
}

func TestInjuryMultiplier(t *testing.T) {
	m := newModel()

	assert.Equal(t, 1.0, m.InjuryMultiplier(nil))
	assert.Equal(t, 1.0, m.InjuryMultiplier(&models.Injury{Severity: 3, RacesRemaining: 0}))
	assert.InDelta(t, 0.9, m.InjuryMultiplier(&models.Injury{Severity: 1, RacesRemaining: 2}), 1e-9)
	assert.InDelta(t, 0.7, m.InjuryMultiplier(&models.Injury{Severity: 3, RacesRemaining: 2}), 1e-9)

	sim := config.DefaultSimulation()
	sim.Injury.SeverityPenalty = 0.5
	assert.Equal(t, 0.1, NewModel(sim).InjuryMultiplier(&models.Injury{Severity: 3, RacesRemaining: 1}))
}

func TestFormMultiplier(t *testing.T) {
	m := newModel()

	t.Run("no history is neutral", func(t *testing.T) {
		assert.Equal(t, 1.0, m.FormMultiplier(nil))
	})

	t.Run("all wins", func(t *testing.T) {
		assert.InDelta(t, 1.2, m.FormMultiplier([]int{1, 1, 1, 1, 1}), 1e-9)
	})

	t.Run("all unplaced", func(t *testing.T) {
		assert.InDelta(t, 0.88, m.FormMultiplier([]int{5, 6, 7, 8, 9}), 1e-9)
	})

	t.Run("partial history renormalises", func(t *testing.T) {
		// (1.0*0.35 + 0.5*0.25) / 0.60 = 0.7917
		assert.InDelta(t, 1.1167, m.FormMultiplier([]int{1, 3}), 1e-9)
	})

	t.Run("extra history is ignored", func(t *testing.T) {
		assert.Equal(t, m.FormMultiplier([]int{2, 2, 2, 2, 2}), m.FormMultiplier([]int{2, 2, 2, 2, 2, 1, 1}))
	})

	t.Run("recent races weigh more", func(t *testing.T) {
		assert.Greater(t, m.FormMultiplier([]int{1, 5}), m.FormMultiplier([]int{5, 1}))
	})
}

func TestComputeIsPure(t *testing.T) {
	m := newModel()
	horse := &models.Horse{
		ID:               uuid.New(),
		Name:             "Thunder",
		Symbol:           "T",
		BaseSpeed:        8.0,
		BaseStamina:      7.0,
		BaseAcceleration: 6.0,
		Age:              3,
	}

	first := m.Compute(horse, []int{1, 2})
	second := m.Compute(horse, []int{1, 2})
	assert.Equal(t, first, second)

	assert.InDelta(t, 8.0*first.AgeMod*first.FormMod, first.Speed, 1e-9)
	assert.InDelta(t, 7.0*first.AgeMod*first.FormMod, first.Stamina, 1e-9)
	// Form never touches acceleration
	assert.InDelta(t, 6.0*first.AgeMod, first.Acceleration, 1e-9)
}

func TestComputeAppliesFloor(t *testing.T) {
	m := newModel()
	horse := &models.Horse{ID: uuid.New(), BaseSpeed: 0, BaseStamina: 0.001, BaseAcceleration: 0, Age: 40}

	stats := m.Compute(horse, nil)
	assert.Greater(t, stats.Speed, 0.0)
	assert.Greater(t, stats.Stamina, 0.0)
	assert.Greater(t, stats.Acceleration, 0.0)
}

func TestEntrant(t *testing.T) {
	m := newModel()
	horse := &models.Horse{ID: uuid.New(), Name: "Bolt", Symbol: "B", BaseSpeed: 8.5, BaseStamina: 6, BaseAcceleration: 9, Age: 2, RacesRun: 4}

	e := m.Entrant(horse, nil)
	require.Equal(t, horse.ID, e.HorseID)
	assert.Equal(t, "B", e.Symbol)
	assert.Equal(t, 4, e.RacesRun)
	assert.InDelta(t, 8.5*0.8, e.Stats.Speed, 1e-9)
}
