package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// FinisherResult is the immutable record of one finisher. Position is the
// 1-based rank after sorting by finish time.
type FinisherResult struct {
	HorseID    uuid.UUID `db:"horse_id" json:"horse_id"`
	Position   int       `db:"position" json:"position"`
	FinishTime float64   `db:"finish_time" json:"finish_time"`
	Splits     []float64 `db:"segment_times" json:"splits"`
	Injured    bool      `db:"injured" json:"injured"`
}

// SplitsJSON encodes the ordered splits for storage
func (r *FinisherResult) SplitsJSON() ([]byte, error) {
	if r.Splits == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Splits)
}

// ParseSplits decodes stored splits
func ParseSplits(data []byte) ([]float64, error) {
	if len(data) == 0 {
		return nil, ErrInvalidRaceResult
	}
	var splits []float64
	if err := json.Unmarshal(data, &splits); err != nil {
		return nil, err
	}
	return splits, nil
}

// RaceOutcome lists the lifecycle side effects a caller must apply to a horse
// after a race.
type RaceOutcome struct {
	HorseID     uuid.UUID `json:"horse_id"`
	Position    int       `json:"position"`
	Won         bool      `json:"won"`
	NewInjury   *Injury   `json:"new_injury,omitempty"`
	Aged        bool      `json:"aged"`
	NewAge      int       `json:"new_age"`
	Retired     bool      `json:"retired"`
	Replacement *Horse    `json:"replacement,omitempty"`
}

// Errors
var (
	ErrRaceResultNotFound  = NewValidationError("race_result_not_found", "race result not found")
	ErrInvalidRaceResult   = NewValidationError("invalid_race_result", "invalid race result data")
	ErrRaceResultDuplicate = NewValidationError("race_result_duplicate", "race result already exists for this race")
)
