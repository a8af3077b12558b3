package stable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
)

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()
	require.Len(t, roster, 5)

	seen := map[string]bool{}
	for _, h := range roster {
		assert.False(t, seen[h.Symbol], "duplicate symbol %s", h.Symbol)
		seen[h.Symbol] = true
		assert.GreaterOrEqual(t, h.Age, 2)
		assert.True(t, h.IsAvailable())
	}
	assert.Equal(t, "Flash", roster[4].Name)
	assert.Equal(t, 9.5, roster[4].BaseSpeed)
}

func TestLoadRoster(t *testing.T) {
	roster, err := LoadRoster("testdata/roster.yaml")
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, "Comet", roster[0].Name)
	assert.Equal(t, 8.4, roster[1].BaseStamina)
	assert.Equal(t, 7, roster[1].RacesRun)
	assert.NotEqual(t, roster[0].ID, roster[1].ID)
}

func TestLoadRosterRejectsInvalid(t *testing.T) {
	_, err := LoadRoster("testdata/bad_roster.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age")

	_, err = LoadRoster("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestNewRookieIsReproducible(t *testing.T) {
	cfg := config.DefaultSimulation().Rookie

	a := NewRookie(rand.New(rand.NewSource(11)), cfg)
	b := NewRookie(rand.New(rand.NewSource(11)), cfg)
	assert.Equal(t, a, b)

	for seed := int64(0); seed < 100; seed++ {
		r := NewRookie(rand.New(rand.NewSource(seed)), cfg)
		assert.Equal(t, 2, r.Age)
		assert.Regexp(t, `^Rookie\d{4}$`, r.Name)
		assert.Regexp(t, `^[A-Z]$`, r.Symbol)
		assert.GreaterOrEqual(t, r.BaseSpeed, 6.5)
		assert.LessOrEqual(t, r.BaseSpeed, 8.5)
		assert.GreaterOrEqual(t, r.BaseStamina, 6.0)
		assert.LessOrEqual(t, r.BaseStamina, 8.5)
		assert.GreaterOrEqual(t, r.BaseAcceleration, 6.0)
		assert.LessOrEqual(t, r.BaseAcceleration, 8.5)
	}
}

func TestApplyOutcome(t *testing.T) {
	h := DefaultRoster()[0]

	ApplyOutcome(h, models.RaceOutcome{HorseID: h.ID, Position: 1, Won: true, NewAge: h.Age})
	assert.Equal(t, 1, h.RacesRun)
	assert.Equal(t, 1, h.Wins)
	assert.Nil(t, h.Injury)

	ApplyOutcome(h, models.RaceOutcome{
		HorseID:   h.ID,
		Position:  3,
		NewInjury: &models.Injury{Type: "Strain", Severity: 2, RacesRemaining: 3},
		Aged:      true,
		NewAge:    4,
		Retired:   true,
	})
	assert.Equal(t, 2, h.RacesRun)
	assert.Equal(t, 1, h.Wins)
	require.NotNil(t, h.Injury)
	assert.Equal(t, 2, h.Injury.Severity)
	assert.Equal(t, 4, h.Age)
	assert.True(t, h.Retired)
	assert.False(t, h.IsAvailable())
}

func TestRecoverAll(t *testing.T) {
	roster := DefaultRoster()
	roster[0].Injury = &models.Injury{Type: "Strain", Severity: 1, RacesRemaining: 2}
	roster[1].Injury = &models.Injury{Type: "Strain", Severity: 3, RacesRemaining: 1}

	changed := RecoverAll(roster)
	assert.Len(t, changed, 2)
	require.NotNil(t, roster[0].Injury)
	assert.Equal(t, 1, roster[0].Injury.RacesRemaining)
	assert.Nil(t, roster[1].Injury)
	assert.True(t, roster[1].IsAvailable())
}

func TestSelectField(t *testing.T) {
	roster := DefaultRoster()
	roster[2].Injury = &models.Injury{Type: "Strain", Severity: 1, RacesRemaining: 2}
	roster[4].Retired = true

	field, err := SelectField(rand.New(rand.NewSource(5)), roster, 10)
	require.NoError(t, err)
	assert.Len(t, field, 3)

	first, err := SelectField(rand.New(rand.NewSource(5)), append(roster, DefaultRoster()...), 4)
	require.NoError(t, err)
	second, err := SelectField(rand.New(rand.NewSource(5)), append(roster, DefaultRoster()...), 4)
	require.NoError(t, err)
	require.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.True(t, first[i].IsAvailable())
	}

	_, err = SelectField(rand.New(rand.NewSource(5)), nil, 4)
	assert.ErrorIs(t, err, models.ErrEmptyRoster)
}

func TestActive(t *testing.T) {
	roster := DefaultRoster()
	roster[1].Retired = true
	roster[2].Injury = &models.Injury{Type: "Strain", Severity: 1, RacesRemaining: 2}

	assert.Len(t, Active(roster), 4)
	assert.Len(t, Available(roster), 3)
}
