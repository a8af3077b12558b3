// Package service orchestrates races over the stable: field selection, odds,
// betting, running the simulation and recording its effects.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/paddock/internal/betting"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/odds"
	"github.com/yourusername/paddock/internal/performance"
	"github.com/yourusername/paddock/internal/repository"
	"github.com/yourusername/paddock/internal/simulation"
	"github.com/yourusername/paddock/internal/stable"
	"github.com/yourusername/paddock/internal/terrain"
)

// ErrRaceStalled is returned when a race exceeds the tick guard without every
// horse finishing.
var ErrRaceStalled = errors.New("race did not finish within the tick limit")

// Observer receives the arena after every tick. It must not retain states.
type Observer func(tick int, clock float64, states []simulation.RunnerState)

// CardOptions selects how a race is set up
type CardOptions struct {
	Seed     int64
	RaceType models.RaceType
	// FieldSize caps the number of runners drawn from the available horses.
	// Zero uses the configured track field size.
	FieldSize int
	// Field fixes the runners instead of drawing them
	Field           []*models.Horse
	StartingStamina map[uuid.UUID]float64
}

// Card is a race ready to run: its field, terrain and priced book
type Card struct {
	RaceID          uuid.UUID
	Seed            int64
	RaceType        models.RaceType
	Field           []*models.Horse
	Entrants        []models.Entrant
	Track           terrain.Track
	Pack            *odds.Pack
	StartingStamina map[uuid.UUID]float64
}

// RaceReport is everything a completed race changed
type RaceReport struct {
	Race     *models.Race
	Results  []models.FinisherResult
	Outcomes []models.RaceOutcome
	States   []simulation.RunnerState
	Rookies  []*models.Horse
	Retired  []*models.Horse
	Bets     []*models.Bet
	Ticks    int
}

// RaceService runs races against persisted horses
type RaceService struct {
	store   repository.Store
	sim     config.SimulationConfig
	model   *performance.Model
	odds    *odds.Engine
	board   *odds.Board
	book    *betting.Book
	wallet  *betting.Wallet
	pace    *rate.Limiter
	logger  *logrus.Logger
	raceLog *logger.RaceLogger
	audit   *logger.AuditLogger
}

// NewRaceService creates a race service. The wallet opens at the configured
// balance; call RestoreWallet to replay stored bets onto it.
func NewRaceService(store repository.Store, sim config.SimulationConfig, log *logrus.Logger) *RaceService {
	return &RaceService{
		store:   store,
		sim:     sim,
		model:   performance.NewModel(sim),
		odds:    odds.NewEngine(sim.Betting),
		board:   odds.NewBoard(time.Duration(sim.Betting.OddsCacheTTL) * time.Second),
		book:    betting.NewBook(sim.Betting, log),
		wallet:  betting.NewWallet(decimal.NewFromFloat(sim.Betting.StartingWallet)),
		logger:  log,
		raceLog: logger.NewRaceLogger(log),
		audit:   logger.NewAuditLogger(log),
	}
}

// SetPace limits RunRace to ticksPerSecond. Zero removes the limit. Pacing
// only delays ticks; it never changes a race.
func (s *RaceService) SetPace(ticksPerSecond float64) {
	if ticksPerSecond <= 0 {
		s.pace = nil
		return
	}
	s.pace = rate.NewLimiter(rate.Limit(ticksPerSecond), 1)
}

// Wallet returns the bettor's wallet
func (s *RaceService) Wallet() *betting.Wallet {
	return s.wallet
}

// Board returns the odds board
func (s *RaceService) Board() *odds.Board {
	return s.board
}

// Model returns the performance model
func (s *RaceService) Model() *performance.Model {
	return s.model
}

// RestoreWallet rebuilds the balance from settled profit, organiser prizes
// and open stakes
func (s *RaceService) RestoreWallet(ctx context.Context) error {
	profit, err := s.store.Bets().NetProfit(ctx)
	if err != nil {
		return fmt.Errorf("failed to load betting profit: %w", err)
	}
	prizes, err := s.store.Championships().PrizeTotal(ctx)
	if err != nil {
		return fmt.Errorf("failed to load organiser prizes: %w", err)
	}
	pending, err := s.store.Bets().GetPendingBets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending bets: %w", err)
	}

	wallet := betting.NewWallet(decimal.NewFromFloat(s.sim.Betting.StartingWallet).Add(profit).Add(prizes))
	for _, bet := range pending {
		if err := wallet.Debit(bet.Stake); err != nil {
			return fmt.Errorf("pending bet %s: %w", bet.ID, err)
		}
	}
	s.wallet = wallet
	metrics.UpdateWallet(wallet.Balance().InexactFloat64())
	return nil
}

// SeedStable stores horses when the stable is empty. It returns the number of
// horses created.
func (s *RaceService) SeedStable(ctx context.Context, horses []*models.Horse) (int, error) {
	n, err := s.store.Horses().Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, h := range horses {
		if err := s.store.Horses().Create(ctx, h); err != nil {
			return 0, fmt.Errorf("failed to seed %s: %w", h.Name, err)
		}
		s.audit.LogStableChange(h, "seeded", nil)
	}
	return len(horses), nil
}

// LoadStable returns every horse with its active injury
func (s *RaceService) LoadStable(ctx context.Context) ([]*models.Horse, error) {
	horses, err := s.store.Horses().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stable: %w", err)
	}
	if len(horses) == 0 {
		return nil, models.ErrEmptyRoster
	}
	metrics.UpdateActiveHorses(float64(len(stable.Active(horses))))
	return horses, nil
}

// HorseForm looks a horse up by name and returns its recent finishing
// positions, newest first
func (s *RaceService) HorseForm(ctx context.Context, name string) (*models.Horse, []int, error) {
	horse, err := s.store.Horses().GetByName(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("horse %q: %w", name, err)
	}
	form, err := s.store.Races().RecentPositions(ctx, horse.ID, s.sim.Form.Depth)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load form for %s: %w", horse.Name, err)
	}
	return horse, form, nil
}

// Entrants derives race-day stats for the field from each horse's recent form
func (s *RaceService) Entrants(ctx context.Context, field []*models.Horse) ([]models.Entrant, error) {
	entrants := make([]models.Entrant, len(field))
	for i, h := range field {
		recent, err := s.store.Races().RecentPositions(ctx, h.ID, s.sim.Form.Depth)
		if err != nil {
			return nil, fmt.Errorf("failed to load form for %s: %w", h.Name, err)
		}
		entrants[i] = s.model.Entrant(h, recent)
	}
	return entrants, nil
}

// BuildField draws up to n available horses and derives their entrants. The
// draw uses rng so a seeded stream repeats the field.
func (s *RaceService) BuildField(ctx context.Context, rng *rand.Rand, n int) ([]*models.Horse, []models.Entrant, error) {
	horses, err := s.LoadStable(ctx)
	if err != nil {
		return nil, nil, err
	}
	field, err := stable.SelectField(rng, horses, n)
	if err != nil {
		return nil, nil, err
	}
	entrants, err := s.Entrants(ctx, field)
	if err != nil {
		return nil, nil, err
	}
	return field, entrants, nil
}

// PrepareCard selects the field, lays the terrain for the seed and prices the
// book. The pack is posted on the odds board under the new race id.
func (s *RaceService) PrepareCard(ctx context.Context, opts CardOptions) (*Card, error) {
	if opts.RaceType == "" {
		opts.RaceType = models.RaceTypeStandard
	}

	field := opts.Field
	var (
		entrants []models.Entrant
		err      error
	)
	if len(field) == 0 {
		n := opts.FieldSize
		if n <= 0 {
			n = s.sim.Track.FieldSize
		}
		// the draw must not consume the race stream, so it gets its own
		field, entrants, err = s.BuildField(ctx, rand.New(rand.NewSource(opts.Seed^0x5eed)), n)
	} else {
		entrants, err = s.Entrants(ctx, field)
	}
	if err != nil {
		return nil, err
	}

	// same seed as the engine, so the priced terrain is the raced terrain
	track := terrain.Generate(opts.Seed, s.sim.Track, s.sim.Terrain)

	started := time.Now()
	pack := s.odds.Calculate(entrants, track.Segments)
	metrics.RecordOddsCalculation(time.Since(started).Seconds(), pack.Overround())

	card := &Card{
		RaceID:          uuid.New(),
		Seed:            opts.Seed,
		RaceType:        opts.RaceType,
		Field:           field,
		Entrants:        entrants,
		Track:           track,
		Pack:            pack,
		StartingStamina: opts.StartingStamina,
	}
	s.board.Put(card.RaceID, pack)
	s.logOdds(card)
	return card, nil
}

func (s *RaceService) logOdds(card *Card) {
	var (
		favourite string
		best      float64
	)
	for _, e := range card.Entrants {
		price, err := card.Pack.Win(e.HorseID)
		if err != nil {
			continue
		}
		if favourite == "" || price < best {
			favourite, best = e.Name, price
		}
	}
	s.raceLog.LogOddsQuoted(card.RaceID.String(), card.Pack.Overround(), favourite, best)
}

// Quote returns the pack posted for a race
func (s *RaceService) Quote(raceID uuid.UUID) (*odds.Pack, error) {
	pack, ok := s.board.Get(raceID)
	if !ok {
		return nil, fmt.Errorf("no odds posted for race %s: %w", raceID, models.ErrNotFound)
	}
	return pack, nil
}

// PlaceBet prices a slip at the posted odds, debits the wallet and stores the
// pending bet.
func (s *RaceService) PlaceBet(ctx context.Context, raceID uuid.UUID, slip betting.Slip) (*models.Bet, error) {
	pack, err := s.Quote(raceID)
	if err != nil {
		return nil, err
	}

	bet, err := s.book.Place(raceID, pack, slip, s.wallet)
	if err != nil {
		return nil, err
	}
	if err := s.store.Bets().Create(ctx, bet); err != nil {
		s.wallet.Release(bet.Stake, bet.Stake)
		return nil, fmt.Errorf("failed to store bet: %w", err)
	}
	metrics.UpdateWallet(s.wallet.Balance().InexactFloat64())
	return bet, nil
}

// RunRace simulates the card to completion and records its effects: the race
// and results, injury recovery, lifecycle outcomes, rookies and bet
// settlement. The observer, if any, sees every tick.
func (s *RaceService) RunRace(ctx context.Context, card *Card, observer Observer) (*RaceReport, error) {
	engine, err := simulation.NewEngine(s.sim, card.Entrants, simulation.Options{
		Seed:            card.Seed,
		RaceType:        card.RaceType,
		StartingStamina: card.StartingStamina,
	})
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(card.Entrants))
	for _, e := range card.Entrants {
		names[e.HorseID] = e.Name
	}

	types := make([]string, 0, len(card.Track.Segments))
	for _, t := range card.Track.Types() {
		types = append(types, string(t))
	}
	s.raceLog.LogRaceStart(card.RaceID.String(), card.Seed, string(card.RaceType), len(card.Entrants), types)

	started := time.Now()
	injured := make(map[uuid.UUID]bool)
	maxTicks := s.sim.Track.MaxTicks

	for !engine.Finished() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if maxTicks > 0 && engine.Ticks() >= maxTicks {
			return nil, fmt.Errorf("%w: %d ticks", ErrRaceStalled, maxTicks)
		}
		if s.pace != nil {
			if err := s.pace.Wait(ctx); err != nil {
				return nil, err
			}
		}

		engine.Step()

		states := engine.States()
		for _, st := range states {
			if st.Injured && !injured[st.HorseID] {
				injured[st.HorseID] = true
				s.raceLog.LogInjury(card.RaceID.String(), names[st.HorseID], st.Position, engine.Clock())
				metrics.RecordInjury(string(card.RaceType))
			}
		}
		if observer != nil {
			observer(engine.Ticks(), engine.Clock(), states)
		}
	}

	results := engine.Results()
	report := &RaceReport{
		Race: &models.Race{
			ID:          card.RaceID,
			Seed:        card.Seed,
			RaceType:    card.RaceType,
			TrackLength: s.sim.Track.Length,
			WinnerID:    results[0].HorseID,
			RunAt:       time.Now().UTC(),
		},
		Results:  results,
		Outcomes: engine.Outcomes(),
		States:   engine.States(),
		Ticks:    engine.Ticks(),
	}

	settling := false
	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.Races().Record(ctx, report.Race, results); err != nil {
			return fmt.Errorf("failed to record race: %w", err)
		}
		if err := s.applyOutcomes(ctx, report); err != nil {
			return err
		}
		settling = true
		return s.settle(ctx, report)
	})
	if err != nil {
		// settlement may have credited the wallet before the rollback
		if settling {
			if rerr := s.RestoreWallet(ctx); rerr != nil {
				s.logger.WithError(rerr).Error("Failed to restore wallet after rollback")
			}
		}
		return nil, err
	}
	s.board.Invalidate(card.RaceID)

	elapsed := time.Since(started)
	metrics.RecordRace(string(card.RaceType), report.Ticks, results[0].FinishTime, elapsed.Seconds())
	s.raceLog.LogRaceFinish(card.RaceID.String(), names[results[0].HorseID], results[0].FinishTime,
		report.Ticks, float64(elapsed.Microseconds())/1000)

	return report, nil
}

// applyOutcomes advances every stable injury by one race, then applies this
// race's outcomes and stores the changed horses and rookies.
func (s *RaceService) applyOutcomes(ctx context.Context, report *RaceReport) error {
	horses, err := s.store.Horses().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stable: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Horse, len(horses))
	for _, h := range horses {
		byID[h.ID] = h
	}

	changed := make(map[uuid.UUID]*models.Horse)
	for _, h := range stable.RecoverAll(horses) {
		changed[h.ID] = h
	}

	for _, o := range report.Outcomes {
		h, ok := byID[o.HorseID]
		if !ok {
			return fmt.Errorf("runner %s: %w", o.HorseID, models.ErrNotFound)
		}
		wasRetired := h.Retired
		stable.ApplyOutcome(h, o)
		changed[h.ID] = h

		if o.NewInjury != nil {
			s.audit.LogStableChange(h, "injured", map[string]interface{}{
				"severity":        o.NewInjury.Severity,
				"races_remaining": o.NewInjury.RacesRemaining,
			})
		}
		if o.Retired && !wasRetired {
			report.Retired = append(report.Retired, h)
			metrics.RecordRetirement()
			replacement := ""
			if o.Replacement != nil {
				replacement = o.Replacement.Name
				report.Rookies = append(report.Rookies, o.Replacement)
			}
			s.raceLog.LogRetirement(h.Name, h.Age, replacement)
		}
	}

	// stable order keeps writes deterministic
	for _, h := range horses {
		if c, ok := changed[h.ID]; ok {
			if err := s.store.Horses().Update(ctx, c); err != nil {
				return fmt.Errorf("failed to update %s: %w", c.Name, err)
			}
		}
	}
	for _, rookie := range report.Rookies {
		if err := s.store.Horses().Create(ctx, rookie); err != nil {
			return fmt.Errorf("failed to add rookie %s: %w", rookie.Name, err)
		}
		s.audit.LogStableChange(rookie, "joined", nil)
	}

	metrics.UpdateActiveHorses(float64(len(stable.Active(horses)) + len(report.Rookies)))
	return nil
}

func (s *RaceService) settle(ctx context.Context, report *RaceReport) error {
	bets, err := s.store.Bets().GetByRaceID(ctx, report.Race.ID)
	if err != nil {
		return fmt.Errorf("failed to load bets: %w", err)
	}
	for _, bet := range bets {
		if bet.Status != models.BetStatusPending {
			continue
		}
		s.book.Settle(bet, report.Results, s.wallet)
		if err := s.store.Bets().Update(ctx, bet); err != nil {
			return fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
		}
		report.Bets = append(report.Bets, bet)
	}
	if len(bets) > 0 {
		metrics.UpdateWallet(s.wallet.Balance().InexactFloat64())
	}
	return nil
}

// RunMeeting prepares and runs one race over a drawn field
func (s *RaceService) RunMeeting(ctx context.Context, raceType models.RaceType, seed int64) (*RaceReport, error) {
	card, err := s.PrepareCard(ctx, CardOptions{Seed: seed, RaceType: raceType})
	if err != nil {
		return nil, err
	}
	return s.RunRace(ctx, card, nil)
}
