// Package stable manages the horse pool between races: applying race outcomes,
// injury recovery, rookie generation and field selection.
package stable

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
	"gopkg.in/yaml.v3"
)

const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultRoster returns the stock five-horse stable
func DefaultRoster() []*models.Horse {
	return []*models.Horse{
		newHorse("Thunder", "T", 8.0, 7.0, 6.0, 3),
		newHorse("Lightning", "L", 9.0, 5.0, 8.0, 3),
		newHorse("Storm", "S", 7.5, 8.0, 5.5, 4),
		newHorse("Bolt", "B", 8.5, 6.0, 9.0, 2),
		newHorse("Flash", "F", 9.5, 4.0, 9.5, 3),
	}
}

func newHorse(name, symbol string, speed, stamina, accel float64, age int) *models.Horse {
	return &models.Horse{
		ID:               uuid.New(),
		Name:             name,
		Symbol:           symbol,
		BaseSpeed:        speed,
		BaseStamina:      stamina,
		BaseAcceleration: accel,
		Age:              age,
	}
}

type rosterFile struct {
	Horses []*models.Horse `yaml:"horses"`
}

// LoadRoster reads a stable definition from a YAML file. Every horse gets a
// fresh id.
func LoadRoster(path string) ([]*models.Horse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if len(file.Horses) == 0 {
		return nil, models.ErrEmptyRoster
	}

	for i, h := range file.Horses {
		if h.Name == "" || len(h.Symbol) != 1 {
			return nil, fmt.Errorf("roster entry %d: name and single-letter symbol are required", i)
		}
		if h.BaseSpeed <= 0 || h.BaseStamina <= 0 || h.BaseAcceleration <= 0 {
			return nil, fmt.Errorf("roster entry %d (%s): base stats must be positive", i, h.Name)
		}
		if h.Age < 2 {
			return nil, fmt.Errorf("roster entry %d (%s): age must be at least 2", i, h.Name)
		}
		h.ID = uuid.New()
	}
	return file.Horses, nil
}

// NewRookie generates a replacement horse from the race stream so that
// replenishment replays with the race seed.
func NewRookie(rng *rand.Rand, cfg config.RookieConfig) *models.Horse {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.New()
	}
	return &models.Horse{
		ID:               id,
		Name:             fmt.Sprintf("Rookie%d", 1000+rng.Intn(9000)),
		Symbol:           string(symbols[rng.Intn(len(symbols))]),
		BaseSpeed:        uniform(rng, cfg.SpeedMin, cfg.SpeedMax),
		BaseStamina:      uniform(rng, cfg.StaminaMin, cfg.StaminaMax),
		BaseAcceleration: uniform(rng, cfg.AccelerationMin, cfg.AccelerationMax),
		Age:              cfg.StartingAge,
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return math.Round((lo+rng.Float64()*(hi-lo))*100) / 100
}

// ApplyOutcome applies one race's lifecycle effects to a horse
func ApplyOutcome(h *models.Horse, o models.RaceOutcome) {
	h.RacesRun++
	if o.Won {
		h.Wins++
	}
	if o.NewInjury != nil {
		injury := *o.NewInjury
		h.Injury = &injury
	}
	if o.Aged {
		h.Age = o.NewAge
	}
	if o.Retired {
		h.Retired = true
	}
}

// RecoverAll advances every active injury by one race and clears the healed
// ones. It returns the horses whose injury changed.
func RecoverAll(horses []*models.Horse) []*models.Horse {
	var changed []*models.Horse
	for _, h := range horses {
		if h.Injury == nil {
			continue
		}
		if h.Injury.RacesRemaining > 0 {
			h.Injury.RacesRemaining--
		}
		if h.Injury.RacesRemaining == 0 {
			h.Injury = nil
		}
		changed = append(changed, h)
	}
	return changed
}

// Available returns the horses that are neither retired nor injured, in their
// original order.
func Available(horses []*models.Horse) []*models.Horse {
	out := make([]*models.Horse, 0, len(horses))
	for _, h := range horses {
		if h.IsAvailable() {
			out = append(out, h)
		}
	}
	return out
}

// Active returns the non-retired horses
func Active(horses []*models.Horse) []*models.Horse {
	out := make([]*models.Horse, 0, len(horses))
	for _, h := range horses {
		if !h.Retired {
			out = append(out, h)
		}
	}
	return out
}

// SelectField draws up to n available horses. The draw depends only on the
// stream, so a seeded stream gives a repeatable field. Horses keep their
// stable order in the result.
func SelectField(rng *rand.Rand, horses []*models.Horse, n int) ([]*models.Horse, error) {
	pool := Available(horses)
	if len(pool) == 0 || n <= 0 {
		return nil, models.ErrEmptyRoster
	}
	if n >= len(pool) {
		return pool, nil
	}

	picked := rng.Perm(len(pool))[:n]
	sort.Ints(picked)

	field := make([]*models.Horse, n)
	for i, idx := range picked {
		field[i] = pool[idx]
	}
	return field, nil
}
