package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/paddock/internal/models"
)

// ChampionshipStore implements repository.ChampionshipRepository
type ChampionshipStore struct {
	s *Storage
}

// Record inserts a completed series
func (r *ChampionshipStore) Record(ctx context.Context, result *models.ChampionshipResult) error {
	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO championships (id, champion_id, points, rounds, base_seed, prize, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID.String(), result.ChampionID.String(), result.Points, result.Rounds, result.BaseSeed,
		result.Prize.StringFixed(2), result.CompletedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite.RecordChampionship: %w", err)
	}
	return nil
}

// PrizeTotal sums the organiser prizes as decimals
func (r *ChampionshipStore) PrizeTotal(ctx context.Context) (decimal.Decimal, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `SELECT prize FROM championships`)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sqlite.PrizeTotal: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var prize decimal.Decimal
		if err := rows.Scan(&prize); err != nil {
			return decimal.Zero, fmt.Errorf("sqlite.PrizeTotal: scan: %w", err)
		}
		total = total.Add(prize)
	}
	return total, rows.Err()
}
