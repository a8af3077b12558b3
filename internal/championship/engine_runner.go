package championship

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/performance"
	"github.com/yourusername/paddock/internal/simulation"
)

// EngineRunner runs rounds directly on the simulation engine without
// persistence. Round n uses seed BaseSeed+n.
type EngineRunner struct {
	Sim      config.SimulationConfig
	Model    *performance.Model
	BaseSeed int64
}

// RunRound implements Runner
func (r *EngineRunner) RunRound(ctx context.Context, number int, field []*models.Horse, startingStamina map[uuid.UUID]float64) (*Round, error) {
	roster := make([]models.Entrant, len(field))
	for i, h := range field {
		roster[i] = r.Model.Entrant(h, nil)
	}

	engine, err := simulation.NewEngine(r.Sim, roster, simulation.Options{
		Seed:            r.BaseSeed + int64(number),
		RaceType:        models.RaceTypeChampionship,
		StartingStamina: startingStamina,
	})
	if err != nil {
		return nil, err
	}

	for !engine.Step() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return RoundFromEngine(number, uuid.Nil, engine), nil
}

// RoundFromEngine collects a finished engine into a Round
func RoundFromEngine(number int, raceID uuid.UUID, engine *simulation.Engine) *Round {
	round := &Round{
		Number:     number,
		RaceID:     raceID,
		Results:    engine.Results(),
		EndStamina: make(map[uuid.UUID]float64),
		MaxStamina: make(map[uuid.UUID]float64),
	}
	for _, s := range engine.States() {
		round.EndStamina[s.HorseID] = s.Stamina
		round.MaxStamina[s.HorseID] = s.MaxStamina
	}
	return round
}
