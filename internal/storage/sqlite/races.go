package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/paddock/internal/models"
)

// RaceStore implements repository.RaceRepository
type RaceStore struct {
	s *Storage
}

// Record stores a race with its finishers in one transaction
func (r *RaceStore) Record(ctx context.Context, race *models.Race, results []models.FinisherResult) error {
	return r.s.WithTx(ctx, func(ctx context.Context) error {
		var winner any
		if race.WinnerID != uuid.Nil {
			winner = race.WinnerID.String()
		}
		_, err := r.s.q(ctx).ExecContext(ctx, `
			INSERT INTO races (id, terrain_seed, race_type, track_length, winner_id, run_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			race.ID.String(), race.Seed, string(race.RaceType), race.TrackLength, winner, race.RunAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("sqlite.RecordRace: %w", err)
		}

		for i := range results {
			splits, err := results[i].SplitsJSON()
			if err != nil {
				return fmt.Errorf("sqlite.RecordRace: encode splits: %w", err)
			}
			_, err = r.s.q(ctx).ExecContext(ctx, `
				INSERT INTO race_results (race_id, horse_id, position, finish_time, segment_times, injured)
				VALUES (?, ?, ?, ?, ?, ?)`,
				race.ID.String(), results[i].HorseID.String(), results[i].Position,
				results[i].FinishTime, string(splits), results[i].Injured,
			)
			if err != nil {
				return fmt.Errorf("sqlite.RecordRace: insert result: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a race by ID
func (r *RaceStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	race, err := scanRace(r.s.q(ctx).QueryRowContext(ctx, `
		SELECT id, terrain_seed, race_type, track_length, winner_id, run_at
		FROM races WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite.GetRace: %w", err)
	}
	return race, nil
}

// GetResults returns a race's finishers by position
func (r *RaceStore) GetResults(ctx context.Context, raceID uuid.UUID) ([]models.FinisherResult, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT horse_id, position, finish_time, segment_times, injured
		FROM race_results WHERE race_id = ? ORDER BY position`, raceID.String())
	if err != nil {
		return nil, fmt.Errorf("sqlite.GetResults: %w", err)
	}
	defer rows.Close()

	var results []models.FinisherResult
	for rows.Next() {
		var (
			res    models.FinisherResult
			splits []byte
		)
		if err := rows.Scan(&res.HorseID, &res.Position, &res.FinishTime, &splits, &res.Injured); err != nil {
			return nil, fmt.Errorf("sqlite.GetResults: scan: %w", err)
		}
		if res.Splits, err = models.ParseSplits(splits); err != nil {
			return nil, fmt.Errorf("sqlite.GetResults: decode splits: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, models.ErrRaceResultNotFound
	}
	return results, nil
}

// Recent returns the latest races, newest first
func (r *RaceStore) Recent(ctx context.Context, limit int) ([]*models.Race, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT id, terrain_seed, race_type, track_length, winner_id, run_at
		FROM races ORDER BY run_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite.RecentRaces: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite.RecentRaces: scan: %w", err)
		}
		races = append(races, race)
	}
	return races, rows.Err()
}

// RecentPositions returns the horse's latest finishing positions, newest first
func (r *RaceStore) RecentPositions(ctx context.Context, horseID uuid.UUID, limit int) ([]int, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, `
		SELECT rr.position
		FROM race_results rr JOIN races ra ON ra.id = rr.race_id
		WHERE rr.horse_id = ?
		ORDER BY ra.run_at DESC, ra.rowid DESC
		LIMIT ?`, horseID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite.RecentPositions: %w", err)
	}
	defer rows.Close()

	positions := make([]int, 0, limit)
	for rows.Next() {
		var pos int
		if err := rows.Scan(&pos); err != nil {
			return nil, fmt.Errorf("sqlite.RecentPositions: scan: %w", err)
		}
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

func scanRace(row scanner) (*models.Race, error) {
	race := &models.Race{}
	var (
		raceType string
		winner   sql.NullString
	)
	if err := row.Scan(&race.ID, &race.Seed, &raceType, &race.TrackLength, &winner, &race.RunAt); err != nil {
		return nil, err
	}
	race.RaceType = models.RaceType(raceType)
	if winner.Valid {
		id, err := uuid.Parse(winner.String)
		if err != nil {
			return nil, fmt.Errorf("bad winner id %q: %w", winner.String, err)
		}
		race.WinnerID = id
	}
	return race, nil
}
