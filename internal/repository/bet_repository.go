package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/models"
)

const betColumns = `id, race_id, bet_type, horse_id, horse2_id, amount, odds, payout, status, placed_at, settled_at`

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Create inserts a new bet
func (b *PostgresBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (` + betColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := b.db.Querier(ctx).Exec(ctx, query,
		bet.ID, bet.RaceID, string(bet.Market), bet.HorseID, bet.SecondHorseID,
		bet.Stake, bet.Odds, bet.Payout, string(bet.Status), bet.PlacedAt, bet.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by ID
func (b *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(b.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// GetByRaceID retrieves all bets for a specific race
func (b *PostgresBetRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE race_id = $1 ORDER BY placed_at`
	return b.list(ctx, query, raceID)
}

// GetPendingBets retrieves all bets awaiting settlement
func (b *PostgresBetRepository) GetPendingBets(ctx context.Context) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE status = $1 ORDER BY placed_at`
	return b.list(ctx, query, string(models.BetStatusPending))
}

func (b *PostgresBetRepository) list(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := b.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

// Update updates an existing bet
func (b *PostgresBetRepository) Update(ctx context.Context, bet *models.Bet) error {
	query := `
		UPDATE bets SET
			odds = $2, payout = $3, status = $4, settled_at = $5
		WHERE id = $1
	`

	tag, err := b.db.Querier(ctx).Exec(ctx, query,
		bet.ID, bet.Odds, bet.Payout, string(bet.Status), bet.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// NetProfit sums payout minus stake over settled bets
func (b *PostgresBetRepository) NetProfit(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(payout - amount), 0) FROM bets WHERE status = $1`

	var total decimal.Decimal
	if err := b.db.Querier(ctx).QueryRow(ctx, query, string(models.BetStatusSettled)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum profit: %w", err)
	}
	return total, nil
}

func scanBet(row pgx.Row) (*models.Bet, error) {
	bet := &models.Bet{}
	var market, status string
	err := row.Scan(
		&bet.ID, &bet.RaceID, &market, &bet.HorseID, &bet.SecondHorseID,
		&bet.Stake, &bet.Odds, &bet.Payout, &status, &bet.PlacedAt, &bet.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	bet.Market = models.MarketType(market)
	bet.Status = models.BetStatus(status)
	return bet, nil
}
