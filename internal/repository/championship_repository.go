package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/models"
)

// PostgresChampionshipRepository implements ChampionshipRepository for PostgreSQL
type PostgresChampionshipRepository struct {
	db *database.DB
}

// NewPostgresChampionshipRepository creates a new championship repository
func NewPostgresChampionshipRepository(db *database.DB) ChampionshipRepository {
	return &PostgresChampionshipRepository{db: db}
}

// Record inserts a completed series
func (c *PostgresChampionshipRepository) Record(ctx context.Context, result *models.ChampionshipResult) error {
	query := `
		INSERT INTO championships (id, champion_id, points, rounds, base_seed, prize, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := c.db.Querier(ctx).Exec(ctx, query,
		result.ID, result.ChampionID, result.Points, result.Rounds, result.BaseSeed,
		result.Prize, result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record championship: %w", err)
	}
	return nil
}

// PrizeTotal sums the organiser prizes
func (c *PostgresChampionshipRepository) PrizeTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := c.db.Querier(ctx).QueryRow(ctx, `SELECT COALESCE(SUM(prize), 0) FROM championships`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum prizes: %w", err)
	}
	return total, nil
}
