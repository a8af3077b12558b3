package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/championship"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/stable"
)

// ChampionshipRunner runs series rounds through the service so each round is
// priced, recorded and settled like any other race. Round n uses seed
// BaseSeed+n.
type ChampionshipRunner struct {
	svc      *RaceService
	BaseSeed int64
	// BeforeRound sees each priced card before it runs, e.g. to place bets
	BeforeRound func(ctx context.Context, card *Card) error
	Observer    Observer
	Reports     []*RaceReport
}

// NewChampionshipRunner creates a runner bound to the service
func (s *RaceService) NewChampionshipRunner(baseSeed int64) *ChampionshipRunner {
	return &ChampionshipRunner{svc: s, BaseSeed: baseSeed}
}

// ChampionshipField draws the series field from the available horses
func (s *RaceService) ChampionshipField(ctx context.Context, seed int64) ([]*models.Horse, error) {
	horses, err := s.LoadStable(ctx)
	if err != nil {
		return nil, err
	}
	field, err := stable.SelectField(rand.New(rand.NewSource(seed)), horses, s.sim.Championship.FieldSize)
	if err != nil {
		return nil, err
	}
	if len(field) < s.sim.Championship.FieldSize {
		return nil, fmt.Errorf("championship needs %d healthy horses, %d available: %w",
			s.sim.Championship.FieldSize, len(field), models.ErrEmptyRoster)
	}
	return field, nil
}

// CompleteChampionship records a finished series and credits the organiser
// prize to the wallet
func (s *RaceService) CompleteChampionship(ctx context.Context, series *championship.Series, baseSeed int64) (*models.ChampionshipResult, error) {
	if !series.Complete() {
		return nil, fmt.Errorf("championship has %d of %d rounds played", len(series.Rounds()), s.sim.Championship.Rounds)
	}

	champion := series.Champion()
	result := &models.ChampionshipResult{
		ID:          uuid.New(),
		ChampionID:  champion.HorseID,
		Points:      champion.Points,
		Rounds:      len(series.Rounds()),
		BaseSeed:    baseSeed,
		Prize:       decimal.NewFromFloat(s.sim.Championship.OrganiserPrize),
		CompletedAt: time.Now().UTC(),
	}
	if err := s.store.Championships().Record(ctx, result); err != nil {
		return nil, err
	}

	old := s.wallet.Balance()
	s.wallet.Credit(result.Prize)
	metrics.UpdateWallet(s.wallet.Balance().InexactFloat64())
	s.audit.LogWalletChange(old.StringFixed(2), s.wallet.Balance().StringFixed(2), "organiser prize")

	s.logger.WithFields(logrus.Fields{
		"champion": champion.Name,
		"points":   champion.Points,
		"prize":    result.Prize.StringFixed(2),
	}).Info("Championship complete")
	return result, nil
}

// NewSeries creates a championship series over field
func (s *RaceService) NewSeries(field []*models.Horse, runner championship.Runner) (*championship.Series, error) {
	return championship.NewSeries(s.sim.Championship, field, runner)
}

// RunRound implements championship.Runner
func (r *ChampionshipRunner) RunRound(ctx context.Context, number int, field []*models.Horse, startingStamina map[uuid.UUID]float64) (*championship.Round, error) {
	// reload so injuries and form from earlier rounds count; a horse that
	// retired in an earlier round sits the rest of the series out
	current := make([]*models.Horse, 0, len(field))
	for _, h := range field {
		fresh, err := r.svc.store.Horses().GetByID(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload %s: %w", h.Name, err)
		}
		if !fresh.Retired {
			current = append(current, fresh)
		}
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("every horse in round %d has retired: %w", number, models.ErrEmptyRoster)
	}

	card, err := r.svc.PrepareCard(ctx, CardOptions{
		Seed:            r.BaseSeed + int64(number),
		RaceType:        models.RaceTypeChampionship,
		Field:           current,
		StartingStamina: startingStamina,
	})
	if err != nil {
		return nil, err
	}
	if r.BeforeRound != nil {
		if err := r.BeforeRound(ctx, card); err != nil {
			return nil, err
		}
	}

	report, err := r.svc.RunRace(ctx, card, r.Observer)
	if err != nil {
		return nil, err
	}
	r.Reports = append(r.Reports, report)

	round := &championship.Round{
		Number:     number,
		RaceID:     card.RaceID,
		Results:    report.Results,
		EndStamina: make(map[uuid.UUID]float64, len(report.States)),
		MaxStamina: make(map[uuid.UUID]float64, len(report.States)),
	}
	for _, st := range report.States {
		round.EndStamina[st.HorseID] = st.Stamina
		round.MaxStamina[st.HorseID] = st.MaxStamina
	}
	return round, nil
}
