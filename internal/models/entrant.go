package models

import "github.com/google/uuid"

// EffectiveStats is a horse's base ability scaled by age, injury and form for
// one race. It is always derived, never stored.
type EffectiveStats struct {
	Speed        float64 `json:"speed"`
	Stamina      float64 `json:"stamina"`
	Acceleration float64 `json:"acceleration"`
	AgeMod       float64 `json:"age_mod"`
	InjuryMod    float64 `json:"injury_mod"`
	FormMod      float64 `json:"form_mod"`
}

// Entrant is one roster row handed to the odds and simulation engines.
type Entrant struct {
	HorseID  uuid.UUID      `json:"horse_id"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Age      int            `json:"age"`
	RacesRun int            `json:"races_run"`
	Retired  bool           `json:"retired,omitempty"`
	Stats    EffectiveStats `json:"stats"`
}
