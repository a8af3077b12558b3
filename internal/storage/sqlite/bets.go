package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/paddock/internal/models"
)

const selectBet = `
	SELECT id, race_id, bet_type, horse_id, horse2_id, amount, odds, payout, status, placed_at, settled_at
	FROM bets`

// BetStore implements repository.BetRepository
type BetStore struct {
	s *Storage
}

// Create inserts a bet
func (r *BetStore) Create(ctx context.Context, bet *models.Bet) error {
	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO bets (id, race_id, bet_type, horse_id, horse2_id, amount, odds, payout, status, placed_at, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bet.ID.String(), bet.RaceID.String(), string(bet.Market), bet.HorseID.String(), nullableID(bet.SecondHorseID),
		bet.Stake.StringFixed(2), bet.Odds.StringFixed(2), bet.Payout.StringFixed(2),
		string(bet.Status), bet.PlacedAt.UTC(), nullableTime(bet.SettledAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite.CreateBet: %w", err)
	}
	return nil
}

// GetByID retrieves a bet by ID
func (r *BetStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	bet, err := scanBet(r.s.q(ctx).QueryRowContext(ctx, selectBet+` WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.GetBet: %w", err)
	}
	return bet, nil
}

// GetByRaceID retrieves the bets on a race in placement order
func (r *BetStore) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Bet, error) {
	return r.list(ctx, selectBet+` WHERE race_id = ? ORDER BY placed_at, rowid`, raceID.String())
}

// GetPendingBets retrieves the bets awaiting settlement
func (r *BetStore) GetPendingBets(ctx context.Context) ([]*models.Bet, error) {
	return r.list(ctx, selectBet+` WHERE status = ? ORDER BY placed_at, rowid`, string(models.BetStatusPending))
}

func (r *BetStore) list(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite.ListBets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite.ListBets: scan: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// Update writes a bet's settlement fields
func (r *BetStore) Update(ctx context.Context, bet *models.Bet) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `
		UPDATE bets SET odds = ?, payout = ?, status = ?, settled_at = ? WHERE id = ?`,
		bet.Odds.StringFixed(2), bet.Payout.StringFixed(2), string(bet.Status), nullableTime(bet.SettledAt), bet.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("sqlite.UpdateBet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// NetProfit sums payout minus stake over settled bets. Amounts are summed
// as decimals since the columns hold text.
func (r *BetStore) NetProfit(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx,
		`SELECT amount, payout FROM bets WHERE status = ?`, string(models.BetStatusSettled))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sqlite.NetProfit: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var stake, payout decimal.Decimal
		if err := rows.Scan(&stake, &payout); err != nil {
			return decimal.Zero, fmt.Errorf("sqlite.NetProfit: scan: %w", err)
		}
		total = total.Add(payout.Sub(stake))
	}
	return total, rows.Err()
}

func scanBet(row scanner) (*models.Bet, error) {
	bet := &models.Bet{}
	var (
		market, status string
		second         sql.NullString
		settled        sql.NullTime
	)
	err := row.Scan(
		&bet.ID, &bet.RaceID, &market, &bet.HorseID, &second,
		&bet.Stake, &bet.Odds, &bet.Payout, &status, &bet.PlacedAt, &settled,
	)
	if err != nil {
		return nil, err
	}
	bet.Market = models.MarketType(market)
	bet.Status = models.BetStatus(status)
	if second.Valid {
		id, err := uuid.Parse(second.String)
		if err != nil {
			return nil, fmt.Errorf("bad second horse id %q: %w", second.String, err)
		}
		bet.SecondHorseID = &id
	}
	if settled.Valid {
		t := settled.Time
		bet.SettledAt = &t
	}
	return bet, nil
}

func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
