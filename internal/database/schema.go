package database

import (
	"context"
	"fmt"
)

// Schema is the PostgreSQL layout shared by the repositories. Every statement
// is idempotent so Migrate can run on each start.
const Schema = `
CREATE TABLE IF NOT EXISTS horses (
    id                UUID PRIMARY KEY,
    name              TEXT NOT NULL,
    symbol            TEXT NOT NULL,
    base_speed        DOUBLE PRECISION NOT NULL,
    base_stamina      DOUBLE PRECISION NOT NULL,
    base_acceleration DOUBLE PRECISION NOT NULL,
    age               INTEGER NOT NULL,
    races_run         INTEGER NOT NULL DEFAULT 0,
    wins              INTEGER NOT NULL DEFAULT 0,
    retired           BOOLEAN NOT NULL DEFAULT FALSE,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS injuries (
    horse_id        UUID PRIMARY KEY REFERENCES horses(id) ON DELETE CASCADE,
    injury_type     TEXT NOT NULL,
    severity        INTEGER NOT NULL,
    races_remaining INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS races (
    id           UUID PRIMARY KEY,
    terrain_seed BIGINT NOT NULL,
    race_type    TEXT NOT NULL,
    track_length DOUBLE PRECISION NOT NULL,
    winner_id    UUID,
    run_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS race_results (
    race_id       UUID NOT NULL REFERENCES races(id) ON DELETE CASCADE,
    horse_id      UUID NOT NULL REFERENCES horses(id),
    position      INTEGER NOT NULL,
    finish_time   DOUBLE PRECISION NOT NULL,
    segment_times JSONB NOT NULL DEFAULT '[]',
    injured       BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (race_id, horse_id)
);

CREATE TABLE IF NOT EXISTS bets (
    id         UUID PRIMARY KEY,
    race_id    UUID NOT NULL,
    bet_type   TEXT NOT NULL,
    horse_id   UUID NOT NULL,
    horse2_id  UUID,
    amount     NUMERIC(14, 2) NOT NULL,
    odds       NUMERIC(10, 2) NOT NULL,
    payout     NUMERIC(14, 2) NOT NULL DEFAULT 0,
    status     TEXT NOT NULL,
    placed_at  TIMESTAMPTZ NOT NULL,
    settled_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS championships (
    id           UUID PRIMARY KEY,
    champion_id  UUID NOT NULL REFERENCES horses(id),
    points       INTEGER NOT NULL,
    rounds       INTEGER NOT NULL,
    base_seed    BIGINT NOT NULL,
    prize        NUMERIC(14, 2) NOT NULL DEFAULT 0,
    completed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_races_run_at ON races(run_at DESC);
CREATE INDEX IF NOT EXISTS idx_results_horse ON race_results(horse_id);
CREATE INDEX IF NOT EXISTS idx_bets_race ON bets(race_id);
CREATE INDEX IF NOT EXISTS idx_bets_status ON bets(status);
`

// Migrate applies Schema
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
