// Package betting places and settles WIN, PLACE and EXACTA bets against a
// priced odds pack.
package betting

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/odds"
)

// placeDepth is how many finishers a PLACE bet covers
const placeDepth = 3

// ErrMarketNotOffered is returned when a selection is priced at the sentinel
var ErrMarketNotOffered = errors.New("market not offered for this selection")

// Slip is a bettor's request before it is priced
type Slip struct {
	Market        models.MarketType
	HorseID       uuid.UUID
	SecondHorseID *uuid.UUID
	Stake         decimal.Decimal
}

// Book prices, places and settles bets
type Book struct {
	cfg      config.BettingConfig
	validate *validator.Validate
	audit    *logger.AuditLogger
	markets  map[models.MarketType]bool
}

// NewBook creates a book
func NewBook(cfg config.BettingConfig, log *logrus.Logger) *Book {
	markets := make(map[models.MarketType]bool, len(cfg.Markets))
	for _, m := range cfg.Markets {
		markets[models.MarketType(m)] = true
	}
	return &Book{
		cfg:      cfg,
		validate: validator.New(),
		audit:    logger.NewAuditLogger(log),
		markets:  markets,
	}
}

// Place prices a slip from the pack, debits the wallet and returns the pending
// bet.
func (b *Book) Place(raceID uuid.UUID, pack *odds.Pack, slip Slip, wallet *Wallet) (*models.Bet, error) {
	if !b.markets[slip.Market] {
		return nil, fmt.Errorf("%w: market %q is disabled", models.ErrInvalidBet, slip.Market)
	}
	if !slip.Stake.IsPositive() {
		return nil, fmt.Errorf("%w: stake must be positive", models.ErrInvalidBet)
	}
	if slip.Market == models.MarketTypeExacta && slip.SecondHorseID != nil && *slip.SecondHorseID == slip.HorseID {
		return nil, fmt.Errorf("%w: exacta needs two different horses", models.ErrInvalidBet)
	}

	bet := &models.Bet{
		ID:            uuid.New(),
		RaceID:        raceID,
		Market:        slip.Market,
		HorseID:       slip.HorseID,
		SecondHorseID: slip.SecondHorseID,
		Stake:         slip.Stake,
		Status:        models.BetStatusPending,
		PlacedAt:      time.Now().UTC(),
	}
	if slip.Market != models.MarketTypeExacta {
		bet.SecondHorseID = nil
	}
	if err := b.validate.Struct(bet); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidBet, err)
	}

	quoted, err := pack.Quote(slip.Market, slip.HorseID, bet.SecondHorseID)
	if err != nil {
		return nil, err
	}
	if quoted >= b.cfg.SentinelOdds {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidBet, ErrMarketNotOffered)
	}
	bet.Odds = decimal.NewFromFloat(quoted)

	if err := wallet.Debit(bet.Stake); err != nil {
		return nil, err
	}

	metrics.RecordBetPlaced(string(bet.Market))
	b.audit.LogBetPlacement(bet)
	return bet, nil
}

// Settle resolves a pending bet against ranked results and credits the wallet.
// Settling an already settled bet is a no-op.
func (b *Book) Settle(bet *models.Bet, results []models.FinisherResult, wallet *Wallet) {
	if bet.Status != models.BetStatusPending {
		return
	}

	payout := decimal.Zero
	if Wins(bet, results) {
		payout = bet.Stake.Mul(bet.Odds).Round(2)
	}

	now := time.Now().UTC()
	bet.Payout = payout
	bet.Status = models.BetStatusSettled
	bet.SettledAt = &now

	if wallet != nil {
		wallet.Release(bet.Stake, payout)
	}

	result := "lost"
	if payout.IsPositive() {
		result = "won"
	}
	metrics.RecordBetSettled(string(bet.Market), result)
	b.audit.LogBetSettlement(bet)
}

// Wins reports whether a bet's selection is satisfied by the results
func Wins(bet *models.Bet, results []models.FinisherResult) bool {
	position := func(id uuid.UUID) int {
		for _, r := range results {
			if r.HorseID == id {
				return r.Position
			}
		}
		return 0
	}

	switch bet.Market {
	case models.MarketTypeWin:
		return position(bet.HorseID) == 1
	case models.MarketTypePlace:
		p := position(bet.HorseID)
		return p >= 1 && p <= placeDepth
	case models.MarketTypeExacta:
		if bet.SecondHorseID == nil {
			return false
		}
		return position(bet.HorseID) == 1 && position(*bet.SecondHorseID) == 2
	default:
		return false
	}
}
