package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/models"
)

const selectHorse = `
	SELECT h.id, h.name, h.symbol, h.base_speed, h.base_stamina, h.base_acceleration,
	       h.age, h.races_run, h.wins, h.retired, h.created_at, h.updated_at,
	       i.injury_type, i.severity, i.races_remaining
	FROM horses h LEFT JOIN injuries i ON i.horse_id = h.id`

// HorseStore implements repository.HorseRepository
type HorseStore struct {
	s *Storage
}

// Create inserts a horse and its injury, if any
func (r *HorseStore) Create(ctx context.Context, horse *models.Horse) error {
	if horse.ID == uuid.Nil {
		horse.ID = uuid.New()
	}
	now := time.Now().UTC()
	horse.CreatedAt, horse.UpdatedAt = now, now

	return r.s.WithTx(ctx, func(ctx context.Context) error {
		_, err := r.s.q(ctx).ExecContext(ctx, `
			INSERT INTO horses (id, name, symbol, base_speed, base_stamina, base_acceleration,
			                    age, races_run, wins, retired, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			horse.ID.String(), horse.Name, horse.Symbol, horse.BaseSpeed, horse.BaseStamina, horse.BaseAcceleration,
			horse.Age, horse.RacesRun, horse.Wins, horse.Retired, horse.CreatedAt, horse.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite.CreateHorse: %w", err)
		}
		return r.s.injuries.Set(ctx, horse.ID, horse.Injury)
	})
}

// GetByID retrieves a horse by ID
func (r *HorseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Horse, error) {
	horse, err := scanHorse(r.s.q(ctx).QueryRowContext(ctx, selectHorse+` WHERE h.id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.GetHorse: %w", err)
	}
	return horse, nil
}

// GetByName retrieves the oldest horse with the given name
func (r *HorseStore) GetByName(ctx context.Context, name string) (*models.Horse, error) {
	row := r.s.q(ctx).QueryRowContext(ctx, selectHorse+` WHERE h.name = ? ORDER BY h.created_at LIMIT 1`, name)
	horse, err := scanHorse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.GetHorseByName: %w", err)
	}
	return horse, nil
}

// List returns every horse in the order they joined the stable
func (r *HorseStore) List(ctx context.Context) ([]*models.Horse, error) {
	return r.list(ctx, selectHorse+` ORDER BY h.created_at, h.rowid`)
}

// ListActive returns the horses that have not retired
func (r *HorseStore) ListActive(ctx context.Context) ([]*models.Horse, error) {
	return r.list(ctx, selectHorse+` WHERE h.retired = 0 ORDER BY h.created_at, h.rowid`)
}

func (r *HorseStore) list(ctx context.Context, query string) ([]*models.Horse, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite.ListHorses: %w", err)
	}
	defer rows.Close()

	var horses []*models.Horse
	for rows.Next() {
		horse, err := scanHorse(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite.ListHorses: scan: %w", err)
		}
		horses = append(horses, horse)
	}
	return horses, rows.Err()
}

// Update writes the horse's career fields and syncs its injury
func (r *HorseStore) Update(ctx context.Context, horse *models.Horse) error {
	horse.UpdatedAt = time.Now().UTC()

	return r.s.WithTx(ctx, func(ctx context.Context) error {
		res, err := r.s.q(ctx).ExecContext(ctx, `
			UPDATE horses SET
				name = ?, symbol = ?, base_speed = ?, base_stamina = ?, base_acceleration = ?,
				age = ?, races_run = ?, wins = ?, retired = ?, updated_at = ?
			WHERE id = ?`,
			horse.Name, horse.Symbol, horse.BaseSpeed, horse.BaseStamina, horse.BaseAcceleration,
			horse.Age, horse.RacesRun, horse.Wins, horse.Retired, horse.UpdatedAt, horse.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("sqlite.UpdateHorse: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrNotFound
		}
		return r.s.injuries.Set(ctx, horse.ID, horse.Injury)
	})
}

// Count returns the number of stored horses
func (r *HorseStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.s.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM horses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite.CountHorses: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHorse(row scanner) (*models.Horse, error) {
	horse := &models.Horse{}
	var (
		injuryType sql.NullString
		severity   sql.NullInt64
		remaining  sql.NullInt64
	)
	err := row.Scan(
		&horse.ID, &horse.Name, &horse.Symbol, &horse.BaseSpeed, &horse.BaseStamina, &horse.BaseAcceleration,
		&horse.Age, &horse.RacesRun, &horse.Wins, &horse.Retired, &horse.CreatedAt, &horse.UpdatedAt,
		&injuryType, &severity, &remaining,
	)
	if err != nil {
		return nil, err
	}
	if injuryType.Valid {
		horse.Injury = &models.Injury{
			Type:           injuryType.String,
			Severity:       int(severity.Int64),
			RacesRemaining: int(remaining.Int64),
		}
	}
	return horse, nil
}
