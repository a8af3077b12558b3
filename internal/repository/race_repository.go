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

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// Record inserts the race and its finishers in one transaction
func (r *PostgresRaceRepository) Record(ctx context.Context, race *models.Race, results []models.FinisherResult) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)

		var winner *uuid.UUID
		if race.WinnerID != uuid.Nil {
			winner = &race.WinnerID
		}
		_, err := q.Exec(ctx, `
			INSERT INTO races (id, terrain_seed, race_type, track_length, winner_id, run_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, race.ID, race.Seed, string(race.RaceType), race.TrackLength, winner, race.RunAt)
		if err != nil {
			return fmt.Errorf("failed to create race: %w", err)
		}

		for i := range results {
			splits, err := results[i].SplitsJSON()
			if err != nil {
				return fmt.Errorf("failed to encode splits: %w", err)
			}
			_, err = q.Exec(ctx, `
				INSERT INTO race_results (race_id, horse_id, position, finish_time, segment_times, injured)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, race.ID, results[i].HorseID, results[i].Position, results[i].FinishTime, splits, results[i].Injured)
			if err != nil {
				return fmt.Errorf("failed to create race result: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	query := `
		SELECT id, terrain_seed, race_type, track_length, winner_id, run_at
		FROM races WHERE id = $1
	`

	race, err := scanRace(r.db.Querier(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}
	return race, nil
}

// GetResults retrieves the finishers of a race ordered by position
func (r *PostgresRaceRepository) GetResults(ctx context.Context, raceID uuid.UUID) ([]models.FinisherResult, error) {
	query := `
		SELECT horse_id, position, finish_time, segment_times, injured
		FROM race_results
		WHERE race_id = $1
		ORDER BY position
	`

	rows, err := r.db.Querier(ctx).Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query race results: %w", err)
	}
	defer rows.Close()

	var results []models.FinisherResult
	for rows.Next() {
		var (
			res    models.FinisherResult
			splits []byte
		)
		if err := rows.Scan(&res.HorseID, &res.Position, &res.FinishTime, &splits, &res.Injured); err != nil {
			return nil, fmt.Errorf("failed to scan race result: %w", err)
		}
		if res.Splits, err = models.ParseSplits(splits); err != nil {
			return nil, fmt.Errorf("failed to decode splits: %w", err)
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

// Recent retrieves the latest races, newest first
func (r *PostgresRaceRepository) Recent(ctx context.Context, limit int) ([]*models.Race, error) {
	query := `
		SELECT id, terrain_seed, race_type, track_length, winner_id, run_at
		FROM races
		ORDER BY run_at DESC
		LIMIT $1
	`

	rows, err := r.db.Querier(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent races: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race: %w", err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}

// RecentPositions returns the horse's latest finishing positions, newest first
func (r *PostgresRaceRepository) RecentPositions(ctx context.Context, horseID uuid.UUID, limit int) ([]int, error) {
	query := `
		SELECT rr.position
		FROM race_results rr
		JOIN races ra ON ra.id = rr.race_id
		WHERE rr.horse_id = $1
		ORDER BY ra.run_at DESC
		LIMIT $2
	`

	rows, err := r.db.Querier(ctx).Query(ctx, query, horseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent positions: %w", err)
	}
	defer rows.Close()

	positions := make([]int, 0, limit)
	for rows.Next() {
		var pos int
		if err := rows.Scan(&pos); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	return positions, rows.Err()
}

func scanRace(row pgx.Row) (*models.Race, error) {
	race := &models.Race{}
	var (
		raceType string
		winner   *uuid.UUID
	)
	if err := row.Scan(&race.ID, &race.Seed, &raceType, &race.TrackLength, &winner, &race.RunAt); err != nil {
		return nil, err
	}
	race.RaceType = models.RaceType(raceType)
	if winner != nil {
		race.WinnerID = *winner
	}
	return race, nil
}
