package models

import (
	"time"

	"github.com/google/uuid"
)

// RaceType tags a race and selects its injury-risk multiplier
type RaceType string

const (
	RaceTypeStandard     RaceType = "Standard"
	RaceTypeChampionship RaceType = "Championship"
)

// Race represents a completed race event
type Race struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required"`
	Seed        int64     `db:"terrain_seed" json:"terrain_seed"`
	RaceType    RaceType  `db:"race_type" json:"race_type" validate:"required,oneof=Standard Championship"`
	TrackLength float64   `db:"track_length" json:"track_length" validate:"gt=0"`
	WinnerID    uuid.UUID `db:"winner_id" json:"winner_id"`
	RunAt       time.Time `db:"run_at" json:"run_at"`
}
