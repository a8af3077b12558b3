// Package championship runs a multi-round series over a fixed field, carrying
// fatigue between rounds and awarding points by finishing position.
package championship

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
)

// Round is what a runner reports back for one race of the series
type Round struct {
	Number     int                     `json:"number"`
	RaceID     uuid.UUID               `json:"race_id"`
	Results    []models.FinisherResult `json:"results"`
	EndStamina map[uuid.UUID]float64   `json:"end_stamina"`
	MaxStamina map[uuid.UUID]float64   `json:"max_stamina"`
}

// Runner runs one round of a series. startingStamina is nil for the opening
// round.
type Runner interface {
	RunRound(ctx context.Context, number int, field []*models.Horse, startingStamina map[uuid.UUID]float64) (*Round, error)
}

// Standing is one row of the points table
type Standing struct {
	HorseID uuid.UUID `json:"horse_id"`
	Name    string    `json:"name"`
	Points  int       `json:"points"`
	Wins    int       `json:"wins"`
}

// Series is a championship in progress
type Series struct {
	cfg    config.ChampionshipConfig
	field  []*models.Horse
	runner Runner

	points  map[uuid.UUID]int
	wins    map[uuid.UUID]int
	rounds  []*Round
	carried map[uuid.UUID]float64
}

// NewSeries creates a series for a field
func NewSeries(cfg config.ChampionshipConfig, field []*models.Horse, runner Runner) (*Series, error) {
	if len(field) < 2 {
		return nil, fmt.Errorf("championship needs at least 2 horses, got %d: %w", len(field), models.ErrEmptyRoster)
	}
	return &Series{
		cfg:    cfg,
		field:  field,
		runner: runner,
		points: make(map[uuid.UUID]int, len(field)),
		wins:   make(map[uuid.UUID]int, len(field)),
	}, nil
}

// Run plays every remaining round and returns the final standings
func (s *Series) Run(ctx context.Context) ([]Standing, error) {
	for len(s.rounds) < s.cfg.Rounds {
		if _, err := s.Next(ctx); err != nil {
			return nil, err
		}
	}
	return s.Standings(), nil
}

// Next plays one round
func (s *Series) Next(ctx context.Context) (*Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	number := len(s.rounds) + 1
	if number > s.cfg.Rounds {
		return nil, fmt.Errorf("championship already completed %d rounds", s.cfg.Rounds)
	}

	round, err := s.runner.RunRound(ctx, number, s.field, s.carried)
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", number, err)
	}

	for _, r := range round.Results {
		s.points[r.HorseID] += Points(s.cfg.Points, r.Position)
		if r.Position == 1 {
			s.wins[r.HorseID]++
		}
	}
	s.carried = CarryOverStamina(round.EndStamina, round.MaxStamina, s.cfg.StaminaRecovery)
	s.rounds = append(s.rounds, round)
	return round, nil
}

// Rounds returns the rounds played so far
func (s *Series) Rounds() []*Round {
	return append([]*Round(nil), s.rounds...)
}

// Complete reports whether every round has been played
func (s *Series) Complete() bool {
	return len(s.rounds) >= s.cfg.Rounds
}

// Standings returns the points table, highest first. Equal points keep field
// order.
func (s *Series) Standings() []Standing {
	table := make([]Standing, len(s.field))
	for i, h := range s.field {
		table[i] = Standing{
			HorseID: h.ID,
			Name:    h.Name,
			Points:  s.points[h.ID],
			Wins:    s.wins[h.ID],
		}
	}
	sort.SliceStable(table, func(a, b int) bool {
		return table[a].Points > table[b].Points
	})
	return table
}

// Champion returns the leader of the points table
func (s *Series) Champion() Standing {
	return s.Standings()[0]
}

// Points returns the points for a 1-based finishing position
func Points(table []int, position int) int {
	if position < 1 || position > len(table) {
		return 0
	}
	return table[position-1]
}

// CarryOverStamina recovers a fraction of each horse's missing stamina. The
// result feeds the next round as starting stamina.
func CarryOverStamina(end, maxStamina map[uuid.UUID]float64, recovery float64) map[uuid.UUID]float64 {
	carried := make(map[uuid.UUID]float64, len(end))
	for id, stamina := range end {
		full, ok := maxStamina[id]
		if !ok {
			carried[id] = stamina
			continue
		}
		next := stamina + (full-stamina)*recovery
		if next > full {
			next = full
		}
		carried[id] = next
	}
	return carried
}
