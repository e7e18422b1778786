package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/podium-picks/internal/config"
)

// schemaStatements creates the tables read by the result repository
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		season      INTEGER NOT NULL,
		driver_id   TEXT NOT NULL,
		driver_name TEXT NOT NULL,
		team        TEXT NOT NULL,
		PRIMARY KEY (season, driver_id)
	)`,
	`CREATE TABLE IF NOT EXISTS race_events (
		season    INTEGER NOT NULL,
		round     INTEGER NOT NULL,
		race_name TEXT NOT NULL,
		race_date TIMESTAMPTZ,
		track_id  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (season, round)
	)`,
	`CREATE TABLE IF NOT EXISTS qualifying_results (
		season    INTEGER NOT NULL,
		round     INTEGER NOT NULL,
		driver_id TEXT NOT NULL,
		position  INTEGER,
		PRIMARY KEY (season, round, driver_id)
	)`,
	`CREATE TABLE IF NOT EXISTS race_results (
		season           INTEGER NOT NULL,
		round            INTEGER NOT NULL,
		driver_id        TEXT NOT NULL,
		grid             INTEGER,
		lap_one_position INTEGER,
		position         INTEGER,
		points           NUMERIC(6,2) NOT NULL DEFAULT 0,
		fastest_lap_rank INTEGER,
		PRIMARY KEY (season, round, driver_id)
	)`,
	`CREATE TABLE IF NOT EXISTS race_actuals (
		season           INTEGER NOT NULL,
		round            INTEGER NOT NULL,
		pole             TEXT NOT NULL DEFAULT '',
		p1               TEXT NOT NULL DEFAULT '',
		p2               TEXT NOT NULL DEFAULT '',
		p3               TEXT NOT NULL DEFAULT '',
		fastest_lap      TEXT NOT NULL DEFAULT '',
		pole_converts    BOOLEAN,
		front_row_winner BOOLEAN,
		any_dnf          BOOLEAN,
		red_flag         BOOLEAN,
		big_mover        BOOLEAN,
		other7_podium    BOOLEAN,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (season, round)
	)`,
	`CREATE TABLE IF NOT EXISTS actual_overrides (
		season INTEGER NOT NULL,
		round  INTEGER NOT NULL,
		field  TEXT NOT NULL,
		value  BOOLEAN NOT NULL,
		PRIMARY KEY (season, round, field)
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id              UUID PRIMARY KEY,
		user_name       TEXT NOT NULL,
		season          INTEGER NOT NULL,
		round           INTEGER NOT NULL,
		p1              TEXT NOT NULL DEFAULT '',
		p2              TEXT NOT NULL DEFAULT '',
		p3              TEXT NOT NULL DEFAULT '',
		pole            TEXT NOT NULL DEFAULT '',
		fastest_lap     TEXT NOT NULL DEFAULT '',
		wildcard_driver TEXT NOT NULL DEFAULT '',
		wildcard_text   TEXT NOT NULL DEFAULT '',
		lock_field      TEXT NOT NULL DEFAULT '',
		side_bets       JSONB NOT NULL DEFAULT '{}',
		submitted_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_name, season, round)
	)`,
	`CREATE TABLE IF NOT EXISTS season_picks (
		user_name  TEXT NOT NULL,
		season     INTEGER NOT NULL,
		wdc        TEXT[] NOT NULL DEFAULT '{}',
		wcc        TEXT[] NOT NULL DEFAULT '{}',
		categories JSONB NOT NULL DEFAULT '[]',
		PRIMARY KEY (user_name, season)
	)`,
	`CREATE TABLE IF NOT EXISTS adjudications (
		user_name TEXT NOT NULL,
		season    INTEGER NOT NULL,
		field     TEXT NOT NULL,
		status    TEXT NOT NULL CHECK (status IN ('hit', 'miss', 'pending')),
		PRIMARY KEY (user_name, season, field)
	)`,
	`CREATE TABLE IF NOT EXISTS track_profiles (
		track_id    TEXT PRIMARY KEY,
		high_speed  DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		downforce   DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		traction    DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		degradation DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		braking     DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		street      DOUBLE PRECISION NOT NULL DEFAULT 0,
		tyre_soft   DOUBLE PRECISION NOT NULL DEFAULT 0,
		tyre_medium DOUBLE PRECISION NOT NULL DEFAULT 0,
		tyre_hard   DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
}

// Initialize creates a database connection pool and bootstraps the schema when configured
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if !cfg.Database.BootstrapSchema {
		return db, nil
	}

	if err := BootstrapSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// BootstrapSchema creates any missing tables in a single transaction
func BootstrapSchema(ctx context.Context, db *DB) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}
