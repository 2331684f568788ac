package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS pitchers (
	key            TEXT PRIMARY KEY,
	mlbam_id       INTEGER,
	name           TEXT NOT NULL,
	team           TEXT NOT NULL DEFAULT '',
	throws         TEXT NOT NULL DEFAULT '',
	season         INTEGER NOT NULL,
	segment        TEXT NOT NULL,
	total_pitches  INTEGER NOT NULL DEFAULT 0,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pitch_arsenal (
	pitcher_key  TEXT NOT NULL REFERENCES pitchers(key) ON DELETE CASCADE,
	pitch_code   TEXT NOT NULL,
	pitch_name   TEXT NOT NULL,
	family       TEXT NOT NULL,
	usage_pct    DOUBLE PRECISION,
	velocity_mph DOUBLE PRECISION,
	spin_rpm     DOUBLE PRECISION,
	whiff_pct    DOUBLE PRECISION,
	xwoba        DOUBLE PRECISION,
	metrics      JSONB NOT NULL,
	sources      JSONB NOT NULL,
	PRIMARY KEY (pitcher_key, pitch_code)
);

CREATE TABLE IF NOT EXISTS build_log (
	id              BIGSERIAL PRIMARY KEY,
	kind            TEXT NOT NULL,
	season          INTEGER NOT NULL,
	combined_season INTEGER NOT NULL DEFAULT 0,
	pitchers        INTEGER NOT NULL DEFAULT 0,
	pitches         INTEGER NOT NULL DEFAULT 0,
	warnings        INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL,
	error_message   TEXT NOT NULL DEFAULT '',
	started_at      TIMESTAMPTZ NOT NULL,
	finished_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS build_log_started_at_idx ON build_log (started_at DESC);
`

// EnsureSchema creates the mirror tables if they don't exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
