package simulation

import (
	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/terrain"
)

// RunnerState is the mutable per-race state of one entrant. It is frozen once
// Finished is set.
type RunnerState struct {
	HorseID           uuid.UUID    `json:"horse_id"`
	Position          float64      `json:"position"`
	Stamina           float64      `json:"stamina"`
	MaxStamina        float64      `json:"max_stamina"`
	CurrentSpeed      float64      `json:"current_speed"`
	Exhausted         bool         `json:"exhausted"`
	Injured           bool         `json:"injured"`
	Finished          bool         `json:"finished"`
	FinishTime        float64      `json:"finish_time"`
	Splits            []float64    `json:"splits"`
	NextSplitBoundary float64      `json:"next_split_boundary"`
	SegmentStartTime  float64      `json:"segment_start_time"`
	Terrain           terrain.Type `json:"terrain"`
}

func (s RunnerState) clone() RunnerState {
	s.Splits = append([]float64(nil), s.Splits...)
	return s
}

// StaminaRatio returns stamina over its effective maximum
func (s RunnerState) StaminaRatio() float64 {
	if s.MaxStamina <= 0 {
		return 0
	}
	return s.Stamina / s.MaxStamina
}
