package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketType represents the type of market (WIN, PLACE or EXACTA)
type MarketType string

const (
	MarketTypeWin    MarketType = "WIN"
	MarketTypePlace  MarketType = "PLACE"
	MarketTypeExacta MarketType = "EXACTA"
)

// BetStatus represents the status of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusSettled   BetStatus = "settled"
	BetStatusCancelled BetStatus = "cancelled"
)

// Bet represents a wager on a simulated race
type Bet struct {
	ID            uuid.UUID       `db:"id" json:"id" validate:"required"`
	RaceID        uuid.UUID       `db:"race_id" json:"race_id" validate:"required"`
	Market        MarketType      `db:"bet_type" json:"market" validate:"required,oneof=WIN PLACE EXACTA"`
	HorseID       uuid.UUID       `db:"horse_id" json:"horse_id" validate:"required"`
	SecondHorseID *uuid.UUID      `db:"horse2_id" json:"second_horse_id,omitempty" validate:"required_if=Market EXACTA"`
	Stake         decimal.Decimal `db:"amount" json:"stake"`
	Odds          decimal.Decimal `db:"odds" json:"odds"`
	Payout        decimal.Decimal `db:"payout" json:"payout"`
	Status        BetStatus       `db:"status" json:"status" validate:"required"`
	PlacedAt      time.Time       `db:"placed_at" json:"placed_at"`
	SettledAt     *time.Time      `db:"settled_at" json:"settled_at"`
}

// IsSettled checks if the bet has been settled
func (b *Bet) IsSettled() bool {
	return b.Status == BetStatusSettled && b.SettledAt != nil
}

// ProfitLoss returns payout minus stake for a settled bet
func (b *Bet) ProfitLoss() decimal.Decimal {
	if !b.IsSettled() {
		return decimal.Zero
	}
	return b.Payout.Sub(b.Stake)
}

// Won reports whether a settled bet paid out
func (b *Bet) Won() bool {
	return b.IsSettled() && b.Payout.IsPositive()
}
