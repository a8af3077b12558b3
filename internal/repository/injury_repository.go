package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/models"
)

// PostgresInjuryRepository implements InjuryRepository for PostgreSQL
type PostgresInjuryRepository struct {
	db *database.DB
}

// NewPostgresInjuryRepository creates a new injury repository
func NewPostgresInjuryRepository(db *database.DB) InjuryRepository {
	return &PostgresInjuryRepository{db: db}
}

// Set stores or clears a horse's injury
func (r *PostgresInjuryRepository) Set(ctx context.Context, horseID uuid.UUID, injury *models.Injury) error {
	return setInjury(ctx, r.db.Querier(ctx), horseID, injury)
}

// Get returns the horse's active injury, or models.ErrNotFound
func (r *PostgresInjuryRepository) Get(ctx context.Context, horseID uuid.UUID) (*models.Injury, error) {
	query := `SELECT injury_type, severity, races_remaining FROM injuries WHERE horse_id = $1`

	injury := &models.Injury{}
	err := r.db.Querier(ctx).QueryRow(ctx, query, horseID).Scan(&injury.Type, &injury.Severity, &injury.RacesRemaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get injury: %w", err)
	}
	return injury, nil
}

// ActiveByHorse returns every stored injury keyed by horse
func (r *PostgresInjuryRepository) ActiveByHorse(ctx context.Context) (map[uuid.UUID]*models.Injury, error) {
	query := `SELECT horse_id, injury_type, severity, races_remaining FROM injuries WHERE races_remaining > 0`

	rows, err := r.db.Querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query injuries: %w", err)
	}
	defer rows.Close()

	injuries := make(map[uuid.UUID]*models.Injury)
	for rows.Next() {
		var horseID uuid.UUID
		injury := &models.Injury{}
		if err := rows.Scan(&horseID, &injury.Type, &injury.Severity, &injury.RacesRemaining); err != nil {
			return nil, fmt.Errorf("failed to scan injury: %w", err)
		}
		injuries[horseID] = injury
	}

	return injuries, rows.Err()
}

func setInjury(ctx context.Context, q database.Querier, horseID uuid.UUID, injury *models.Injury) error {
	if !injury.Active() {
		if _, err := q.Exec(ctx, `DELETE FROM injuries WHERE horse_id = $1`, horseID); err != nil {
			return fmt.Errorf("failed to clear injury: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO injuries (horse_id, injury_type, severity, races_remaining)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (horse_id) DO UPDATE SET
			injury_type = EXCLUDED.injury_type,
			severity = EXCLUDED.severity,
			races_remaining = EXCLUDED.races_remaining
	`
	if _, err := q.Exec(ctx, query, horseID, injury.Type, injury.Severity, injury.RacesRemaining); err != nil {
		return fmt.Errorf("failed to record injury: %w", err)
	}
	return nil
}
