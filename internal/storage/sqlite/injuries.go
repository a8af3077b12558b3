package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/models"
)

// InjuryStore implements repository.InjuryRepository
type InjuryStore struct {
	s *Storage
}

// Set upserts the injury, deleting the row once it has healed
func (r *InjuryStore) Set(ctx context.Context, horseID uuid.UUID, injury *models.Injury) error {
	if !injury.Active() {
		if _, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM injuries WHERE horse_id = ?`, horseID.String()); err != nil {
			return fmt.Errorf("sqlite.ClearInjury: %w", err)
		}
		return nil
	}

	_, err := r.s.q(ctx).ExecContext(ctx, `
		INSERT INTO injuries (horse_id, injury_type, severity, races_remaining)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(horse_id) DO UPDATE SET
			injury_type     = excluded.injury_type,
			severity        = excluded.severity,
			races_remaining = excluded.races_remaining`,
		horseID.String(), injury.Type, injury.Severity, injury.RacesRemaining,
	)
	if err != nil {
		return fmt.Errorf("sqlite.SetInjury: %w", err)
	}
	return nil
}

// Get returns a horse's active injury, or models.ErrNotFound
func (r *InjuryStore) Get(ctx context.Context, horseID uuid.UUID) (*models.Injury, error) {
	injury := &models.Injury{}
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT injury_type, severity, races_remaining FROM injuries WHERE horse_id = ?`, horseID.String(),
	).Scan(&injury.Type, &injury.Severity, &injury.RacesRemaining)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.GetInjury: %w", err)
	}
	return injury, nil
}

// ActiveByHorse returns every active injury keyed by horse
func (r *InjuryStore) ActiveByHorse(ctx context.Context) (map[uuid.UUID]*models.Injury, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx,
		`SELECT horse_id, injury_type, severity, races_remaining FROM injuries WHERE races_remaining > 0`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.ActiveInjuries: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*models.Injury)
	for rows.Next() {
		var horseID uuid.UUID
		injury := &models.Injury{}
		if err := rows.Scan(&horseID, &injury.Type, &injury.Severity, &injury.RacesRemaining); err != nil {
			return nil, fmt.Errorf("sqlite.ActiveInjuries: scan: %w", err)
		}
		out[horseID] = injury
	}
	return out, rows.Err()
}
