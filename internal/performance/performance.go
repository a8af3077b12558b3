// Package performance derives race-day effective stats from a horse's base
// ability, age, injury and recent form.
package performance

import (
	"math"

	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
)

// statFloor keeps every effective stat strictly positive
const statFloor = 0.01

// Model composes age, injury and form multipliers. It holds no state besides
// its parameters and is safe for concurrent use.
type Model struct {
	aging  config.AgingConfig
	form   config.FormConfig
	injury config.InjuryConfig
}

// NewModel creates a performance model from simulation parameters
func NewModel(cfg config.SimulationConfig) *Model {
	return &Model{
		aging:  cfg.Aging,
		form:   cfg.Form,
		injury: cfg.Injury,
	}
}

// AgeMultiplier ramps linearly from the youth floor up to 1.0 at peak age, then
// declines per year past peak up to a capped number of years.
func (m *Model) AgeMultiplier(age int) float64 {
	peak := float64(m.aging.PeakAge)
	a := float64(age)

	var mult float64
	switch {
	case a < peak:
		mult = m.aging.YouthFloor + (a/peak)*(1-m.aging.YouthFloor)
	case a > peak:
		years := math.Min(a-peak, m.aging.DeclineCapYears)
		mult = 1 - years*m.aging.DeclinePerYear
	default:
		mult = 1
	}

	return clamp(mult, m.aging.MinMultiplier, m.aging.MaxMultiplier)
}

// InjuryMultiplier returns 1.0 for a healthy horse, otherwise a penalty per
// severity level floored at the configured minimum.
func (m *Model) InjuryMultiplier(injury *models.Injury) float64 {
	if !injury.Active() {
		return 1.0
	}
	mult := 1.0 - float64(injury.Severity)*m.injury.SeverityPenalty
	return math.Max(mult, m.injury.MinMultiplier)
}

// PositionScore maps a finishing position to its form score
func (m *Model) PositionScore(position int) float64 {
	if position >= 1 && position <= len(m.form.PositionScores) {
		return m.form.PositionScores[position-1]
	}
	return m.form.DefaultScore
}

// FormMultiplier weights the most recent finishing positions (most recent
// first) and re-centres the weighted score around 1.0. Weights are
// renormalised over however many races are available.
func (m *Model) FormMultiplier(recent []int) float64 {
	n := len(recent)
	if n > m.form.Depth {
		n = m.form.Depth
	}
	if n > len(m.form.Weights) {
		n = len(m.form.Weights)
	}
	if n == 0 {
		return 1.0
	}

	var weighted, total float64
	for i := 0; i < n; i++ {
		w := m.form.Weights[i]
		weighted += m.PositionScore(recent[i]) * w
		total += w
	}
	if total <= 0 {
		return 1.0
	}

	score := weighted / total
	return round4(1 + (score-0.5)*2*m.form.Impact)
}

// Compute returns the effective stats for one race. Acceleration ignores form.
func (m *Model) Compute(horse *models.Horse, recent []int) models.EffectiveStats {
	ageMod := m.AgeMultiplier(horse.Age)
	injuryMod := m.InjuryMultiplier(horse.Injury)
	formMod := m.FormMultiplier(recent)

	return models.EffectiveStats{
		Speed:        floor(horse.BaseSpeed * ageMod * injuryMod * formMod),
		Stamina:      floor(horse.BaseStamina * ageMod * injuryMod * formMod),
		Acceleration: floor(horse.BaseAcceleration * ageMod * injuryMod),
		AgeMod:       ageMod,
		InjuryMod:    injuryMod,
		FormMod:      formMod,
	}
}

// Entrant resolves a horse into a roster row
func (m *Model) Entrant(horse *models.Horse, recent []int) models.Entrant {
	return models.Entrant{
		HorseID:  horse.ID,
		Name:     horse.Name,
		Symbol:   horse.Symbol,
		Age:      horse.Age,
		RacesRun: horse.RacesRun,
		Retired:  horse.Retired,
		Stats:    m.Compute(horse, recent),
	}
}

func floor(v float64) float64 {
	if math.IsNaN(v) || v < statFloor {
		return statFloor
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
