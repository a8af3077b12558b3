package models

import (
	"time"

	"github.com/google/uuid"
)

// Injury represents an active injury carried by a horse between races
type Injury struct {
	Type           string `db:"injury_type" json:"type" validate:"required"`
	Severity       int    `db:"severity" json:"severity" validate:"gte=1,lte=3"`
	RacesRemaining int    `db:"races_remaining" json:"races_remaining" validate:"gte=0"`
}

// Active reports whether the injury still affects the horse
func (i *Injury) Active() bool {
	return i != nil && i.RacesRemaining > 0
}

// Horse is the persisted competitor record. Engines never mutate it; lifecycle
// changes are applied by the caller from a RaceOutcome.
type Horse struct {
	ID               uuid.UUID `db:"id" json:"id" yaml:"-" validate:"required"`
	Name             string    `db:"name" json:"name" yaml:"name" validate:"required"`
	Symbol           string    `db:"symbol" json:"symbol" yaml:"symbol" validate:"required,len=1"`
	BaseSpeed        float64   `db:"base_speed" json:"base_speed" yaml:"base_speed" validate:"gt=0"`
	BaseStamina      float64   `db:"base_stamina" json:"base_stamina" yaml:"base_stamina" validate:"gt=0"`
	BaseAcceleration float64   `db:"base_acceleration" json:"base_acceleration" yaml:"base_acceleration" validate:"gt=0"`
	Age              int       `db:"age" json:"age" yaml:"age" validate:"gte=2"`
	RacesRun         int       `db:"races_run" json:"races_run" yaml:"races_run"`
	Wins             int       `db:"wins" json:"wins" yaml:"wins"`
	Injury           *Injury   `db:"-" json:"injury,omitempty" yaml:"-"`
	Retired          bool      `db:"retired" json:"retired" yaml:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at" yaml:"-"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at" yaml:"-"`
}

// IsInjured checks if the horse has an active injury
func (h *Horse) IsInjured() bool {
	return h.Injury.Active()
}

// IsAvailable checks if the horse can be entered in a race
func (h *Horse) IsAvailable() bool {
	return !h.Retired && !h.IsInjured()
}

// WinRate returns wins over races run, or 0 for an unraced horse
func (h *Horse) WinRate() float64 {
	if h.RacesRun == 0 {
		return 0
	}
	return float64(h.Wins) / float64(h.RacesRun)
}
