package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/models"
)

const horseColumns = `
	h.id, h.name, h.symbol, h.base_speed, h.base_stamina, h.base_acceleration,
	h.age, h.races_run, h.wins, h.retired, h.created_at, h.updated_at,
	i.injury_type, i.severity, i.races_remaining`

const horseFrom = `FROM horses h LEFT JOIN injuries i ON i.horse_id = h.id`

// PostgresHorseRepository implements HorseRepository for PostgreSQL
type PostgresHorseRepository struct {
	db *database.DB
}

// NewPostgresHorseRepository creates a new horse repository
func NewPostgresHorseRepository(db *database.DB) HorseRepository {
	return &PostgresHorseRepository{db: db}
}

// Create inserts a new horse and its injury, if any
func (r *PostgresHorseRepository) Create(ctx context.Context, horse *models.Horse) error {
	if horse.ID == uuid.Nil {
		horse.ID = uuid.New()
	}
	now := time.Now().UTC()
	horse.CreatedAt, horse.UpdatedAt = now, now

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO horses (id, name, symbol, base_speed, base_stamina, base_acceleration,
			                    age, races_run, wins, retired, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err := r.db.Querier(ctx).Exec(ctx, query,
			horse.ID, horse.Name, horse.Symbol, horse.BaseSpeed, horse.BaseStamina, horse.BaseAcceleration,
			horse.Age, horse.RacesRun, horse.Wins, horse.Retired, horse.CreatedAt, horse.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create horse: %w", err)
		}
		return setInjury(ctx, r.db.Querier(ctx), horse.ID, horse.Injury)
	})
}

// GetByID retrieves a horse by ID
func (r *PostgresHorseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Horse, error) {
	query := `SELECT ` + horseColumns + ` ` + horseFrom + ` WHERE h.id = $1`

	horse, err := scanHorse(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get horse: %w", err)
	}
	return horse, nil
}

// GetByName retrieves a horse by name
func (r *PostgresHorseRepository) GetByName(ctx context.Context, name string) (*models.Horse, error) {
	query := `SELECT ` + horseColumns + ` ` + horseFrom + ` WHERE h.name = $1 ORDER BY h.created_at LIMIT 1`

	horse, err := scanHorse(r.db.Querier(ctx).QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get horse by name: %w", err)
	}
	return horse, nil
}

// List retrieves every horse in stable order
func (r *PostgresHorseRepository) List(ctx context.Context) ([]*models.Horse, error) {
	return r.list(ctx, `SELECT `+horseColumns+` `+horseFrom+` ORDER BY h.created_at, h.name`)
}

// ListActive retrieves the horses that have not retired
func (r *PostgresHorseRepository) ListActive(ctx context.Context) ([]*models.Horse, error) {
	return r.list(ctx, `SELECT `+horseColumns+` `+horseFrom+` WHERE NOT h.retired ORDER BY h.created_at, h.name`)
}

func (r *PostgresHorseRepository) list(ctx context.Context, query string) ([]*models.Horse, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query horses: %w", err)
	}
	defer rows.Close()

	var horses []*models.Horse
	for rows.Next() {
		horse, err := scanHorse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan horse: %w", err)
		}
		horses = append(horses, horse)
	}

	return horses, rows.Err()
}

// Update writes the horse's career fields and syncs its injury
func (r *PostgresHorseRepository) Update(ctx context.Context, horse *models.Horse) error {
	horse.UpdatedAt = time.Now().UTC()

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			UPDATE horses SET
				name = $2, symbol = $3, base_speed = $4, base_stamina = $5, base_acceleration = $6,
				age = $7, races_run = $8, wins = $9, retired = $10, updated_at = $11
			WHERE id = $1
		`
		tag, err := r.db.Querier(ctx).Exec(ctx, query,
			horse.ID, horse.Name, horse.Symbol, horse.BaseSpeed, horse.BaseStamina, horse.BaseAcceleration,
			horse.Age, horse.RacesRun, horse.Wins, horse.Retired, horse.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update horse: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return setInjury(ctx, r.db.Querier(ctx), horse.ID, horse.Injury)
	})
}

// Count returns the number of stored horses
func (r *PostgresHorseRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Querier(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM horses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count horses: %w", err)
	}
	return n, nil
}

func scanHorse(row pgx.Row) (*models.Horse, error) {
	horse := &models.Horse{}
	var (
		injuryType *string
		severity   *int
		remaining  *int
	)
	err := row.Scan(
		&horse.ID, &horse.Name, &horse.Symbol, &horse.BaseSpeed, &horse.BaseStamina, &horse.BaseAcceleration,
		&horse.Age, &horse.RacesRun, &horse.Wins, &horse.Retired, &horse.CreatedAt, &horse.UpdatedAt,
		&injuryType, &severity, &remaining,
	)
	if err != nil {
		return nil, err
	}
	if injuryType != nil && severity != nil && remaining != nil {
		horse.Injury = &models.Injury{Type: *injuryType, Severity: *severity, RacesRemaining: *remaining}
	}
	return horse, nil
}
