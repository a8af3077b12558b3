// Package sqlite stores the stable, races and bets in an embedded SQLite
// database (pure Go driver, no CGo). It implements the same repository
// interfaces as the PostgreSQL backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourusername/paddock/internal/repository"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS horses (
    id                TEXT PRIMARY KEY,
    name              TEXT     NOT NULL,
    symbol            TEXT     NOT NULL,
    base_speed        REAL     NOT NULL,
    base_stamina      REAL     NOT NULL,
    base_acceleration REAL     NOT NULL,
    age               INTEGER  NOT NULL,
    races_run         INTEGER  NOT NULL DEFAULT 0,
    wins              INTEGER  NOT NULL DEFAULT 0,
    retired           INTEGER  NOT NULL DEFAULT 0,
    created_at        DATETIME NOT NULL,
    updated_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS injuries (
    horse_id        TEXT PRIMARY KEY REFERENCES horses(id) ON DELETE CASCADE,
    injury_type     TEXT    NOT NULL,
    severity        INTEGER NOT NULL,
    races_remaining INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS races (
    id           TEXT PRIMARY KEY,
    terrain_seed INTEGER  NOT NULL,
    race_type    TEXT     NOT NULL,
    track_length REAL     NOT NULL,
    winner_id    TEXT,
    run_at       DATETIME NOT NULL
);

-- splits are stored as a JSON array of seconds per segment
CREATE TABLE IF NOT EXISTS race_results (
    race_id       TEXT    NOT NULL REFERENCES races(id) ON DELETE CASCADE,
    horse_id      TEXT    NOT NULL,
    position      INTEGER NOT NULL,
    finish_time   REAL    NOT NULL,
    segment_times TEXT    NOT NULL DEFAULT '[]',
    injured       INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (race_id, horse_id)
);

-- money columns are TEXT so decimal strings round-trip exactly
CREATE TABLE IF NOT EXISTS bets (
    id         TEXT PRIMARY KEY,
    race_id    TEXT     NOT NULL,
    bet_type   TEXT     NOT NULL,
    horse_id   TEXT     NOT NULL,
    horse2_id  TEXT,
    amount     TEXT     NOT NULL,
    odds       TEXT     NOT NULL,
    payout     TEXT     NOT NULL DEFAULT '0',
    status     TEXT     NOT NULL,
    placed_at  DATETIME NOT NULL,
    settled_at DATETIME
);

CREATE TABLE IF NOT EXISTS championships (
    id           TEXT PRIMARY KEY,
    champion_id  TEXT     NOT NULL REFERENCES horses(id),
    points       INTEGER  NOT NULL,
    rounds       INTEGER  NOT NULL,
    base_seed    INTEGER  NOT NULL,
    prize        TEXT     NOT NULL DEFAULT '0',
    completed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_races_run_at   ON races(run_at DESC);
CREATE INDEX IF NOT EXISTS idx_results_horse  ON race_results(horse_id);
CREATE INDEX IF NOT EXISTS idx_bets_race      ON bets(race_id);
CREATE INDEX IF NOT EXISTS idx_bets_status    ON bets(status);
`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Storage implements repository.Store on SQLite
type Storage struct {
	db       *sql.DB
	horses   *HorseStore
	injuries *InjuryStore
	races    *RaceStore
	bets     *BetStore
	series   *ChampionshipStore
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a throwaway database.
func Open(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open %q: %w", path, err)
	}
	// single writer; also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: apply schema: %w", err)
	}

	s := &Storage{db: db}
	s.horses = &HorseStore{s: s}
	s.injuries = &InjuryStore{s: s}
	s.races = &RaceStore{s: s}
	s.bets = &BetStore{s: s}
	s.series = &ChampionshipStore{s: s}
	return s, nil
}

var _ repository.Store = (*Storage)(nil)

func (s *Storage) Horses() repository.HorseRepository { return s.horses }
func (s *Storage) Injuries() repository.InjuryRepository { return s.injuries }
func (s *Storage) Races() repository.RaceRepository { return s.races }
func (s *Storage) Bets() repository.BetRepository { return s.bets }
func (s *Storage) Championships() repository.ChampionshipRepository { return s.series }

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithTx runs fn in a transaction, joining an outer one when present
func (s *Storage) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
