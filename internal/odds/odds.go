// Package odds converts a roster's effective stats and the race terrain into
// fair probabilities and overround-adjusted decimal odds.
package odds

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/terrain"
)

const (
	// epsilon floors ratings and normalising sums
	epsilon = 0.0001
	// staminaWeight scales effective stamina into the rating
	staminaWeight = 0.10
	// placeTrials is the number of independent trials behind PLACE
	placeTrials = 3
	// maxStaminaBias caps how far heavy terrain shifts weight onto stamina
	maxStaminaBias = 0.5
)

// Engine prices WIN, PLACE and EXACTA markets
type Engine struct {
	cfg config.BettingConfig
}

// NewEngine creates an odds engine
func NewEngine(cfg config.BettingConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Rating scores one entrant on the given terrain averages. The result is
// always strictly positive.
func Rating(stats models.EffectiveStats, avgSpeed, avgDrain float64) float64 {
	bias := math.Max(0, math.Min(maxStaminaBias, (avgDrain-1)*0.5))
	speedComponent := stats.Speed
	staminaComponent := stats.Stamina * staminaWeight

	rating := (speedComponent*(1-bias) + staminaComponent*(1+bias)) * avgSpeed
	if math.IsNaN(rating) || rating <= 0 {
		return epsilon
	}
	return rating
}

// Calculate prices a roster over a terrain. An empty roster yields an empty
// pack whose lookups report ErrRunnerNotFound.
func (e *Engine) Calculate(entrants []models.Entrant, segments []terrain.Segment) *Pack {
	avgSpeed, avgDrain := terrain.Averages(segments)

	ratings := make([]float64, len(entrants))
	var total float64
	for i, entrant := range entrants {
		ratings[i] = Rating(entrant.Stats, avgSpeed, avgDrain)
		total += ratings[i]
	}
	if total <= 0 {
		total = epsilon
	}

	fair := make(map[uuid.UUID]float64, len(entrants))
	order := make([]uuid.UUID, 0, len(entrants))
	for i, entrant := range entrants {
		fair[entrant.HorseID] = ratings[i] / total
		order = append(order, entrant.HorseID)
	}

	return NewPack(e.cfg, order, fair)
}

// Pack is the priced book for one race
type Pack struct {
	Odds                 map[uuid.UUID]float64 `json:"odds"`
	FairProbabilities    map[uuid.UUID]float64 `json:"fair_probabilities"`
	ImpliedProbabilities map[uuid.UUID]float64 `json:"implied_probabilities"`
	HouseEdge            float64               `json:"house_edge"`

	order        []uuid.UUID
	placeCap     float64
	placeMinOdds float64
	sentinel     float64
	exactaTotal  float64
}

// NewPack builds a pack from fair probabilities already known to the caller.
// order fixes the roster order used when iterating runners.
func NewPack(cfg config.BettingConfig, order []uuid.UUID, fair map[uuid.UUID]float64) *Pack {
	p := &Pack{
		Odds:                 make(map[uuid.UUID]float64, len(order)),
		FairProbabilities:    make(map[uuid.UUID]float64, len(order)),
		ImpliedProbabilities: make(map[uuid.UUID]float64, len(order)),
		HouseEdge:            cfg.HouseEdge,
		order:                append([]uuid.UUID(nil), order...),
		placeCap:             cfg.PlaceCap,
		placeMinOdds:         cfg.PlaceMinOdds,
		sentinel:             cfg.SentinelOdds,
	}

	for _, id := range order {
		prob := fair[id]
		implied := prob * (1 + cfg.HouseEdge)
		p.FairProbabilities[id] = prob
		p.ImpliedProbabilities[id] = implied
		p.Odds[id] = p.invert(implied)
	}

	for _, first := range order {
		for _, second := range order {
			if first != second {
				p.exactaTotal += p.exactaWeight(first, second)
			}
		}
	}

	return p
}

// Runners returns the horse ids in roster order
func (p *Pack) Runners() []uuid.UUID {
	return append([]uuid.UUID(nil), p.order...)
}

// FairProbability returns a runner's normalized win probability, zero for an
// unknown runner
func (p *Pack) FairProbability(horseID uuid.UUID) float64 {
	return p.FairProbabilities[horseID]
}

// Overround returns the sum of implied WIN probabilities
func (p *Pack) Overround() float64 {
	var sum float64
	for _, id := range p.order {
		sum += p.ImpliedProbabilities[id]
	}
	return sum
}

// Win returns the decimal WIN odds for a horse
func (p *Pack) Win(horseID uuid.UUID) (float64, error) {
	odds, ok := p.Odds[horseID]
	if !ok {
		return 0, models.ErrRunnerNotFound
	}
	return odds, nil
}

// Place returns the decimal odds that a horse finishes in the top three
func (p *Pack) Place(horseID uuid.UUID) (float64, error) {
	prob, ok := p.FairProbabilities[horseID]
	if !ok {
		return 0, models.ErrRunnerNotFound
	}
	if prob <= 0 {
		return p.sentinel, nil
	}

	placeProb := 1 - math.Pow(1-prob, placeTrials)
	if placeProb > p.placeCap {
		placeProb = p.placeCap
	}

	odds := p.invert(placeProb * (1 + p.HouseEdge))
	if odds < p.placeMinOdds {
		odds = p.placeMinOdds
	}
	return odds, nil
}

// Exacta returns the decimal odds for first and second finishing in order
func (p *Pack) Exacta(first, second uuid.UUID) (float64, error) {
	if _, ok := p.FairProbabilities[first]; !ok {
		return 0, models.ErrRunnerNotFound
	}
	if _, ok := p.FairProbabilities[second]; !ok {
		return 0, models.ErrRunnerNotFound
	}
	if first == second || p.exactaTotal <= 0 {
		return p.sentinel, nil
	}

	weight := p.exactaWeight(first, second)
	if weight <= 0 {
		return p.sentinel, nil
	}
	return p.invert(weight / p.exactaTotal * (1 + p.HouseEdge)), nil
}

// Quote prices any market. second is only read for EXACTA.
func (p *Pack) Quote(market models.MarketType, horseID uuid.UUID, second *uuid.UUID) (float64, error) {
	switch market {
	case models.MarketTypeWin:
		return p.Win(horseID)
	case models.MarketTypePlace:
		return p.Place(horseID)
	case models.MarketTypeExacta:
		if second == nil {
			return 0, models.ErrInvalidBet
		}
		return p.Exacta(horseID, *second)
	default:
		return 0, models.ErrInvalidBet
	}
}

// exactaWeight is the unnormalised probability of first then second, zero when
// either probability is unusable.
func (p *Pack) exactaWeight(first, second uuid.UUID) float64 {
	pa := p.FairProbabilities[first]
	pb := p.FairProbabilities[second]
	if pa <= 0 || pb <= 0 || pa >= 1 {
		return 0
	}
	return pa * pb / (1 - pa)
}

func (p *Pack) invert(implied float64) float64 {
	if implied <= 0 || math.IsNaN(implied) {
		return p.sentinel
	}
	odds, _ := decimal.NewFromFloat(1 / implied).Round(2).Float64()
	return odds
}
