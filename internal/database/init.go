package database

import (
	"context"
	"fmt"

	"github.com/yourusername/propedge/internal/config"
)

// schema contains the DDL for all tables. Statements are idempotent so
// Initialize can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		league_id BIGINT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		team TEXT,
		position TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		league_id BIGINT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		abbreviation TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS team_defensive_profiles (
		id UUID PRIMARY KEY,
		team_id UUID NOT NULL UNIQUE REFERENCES teams(id),
		team_name TEXT NOT NULL,
		def_rating DOUBLE PRECISION,
		def_rating_vs_guards DOUBLE PRECISION,
		def_rating_vs_forwards DOUBLE PRECISION,
		def_rating_vs_centers DOUBLE PRECISION,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS game_records (
		id UUID PRIMARY KEY,
		player_id UUID NOT NULL REFERENCES players(id),
		game_date DATE NOT NULL,
		opponent TEXT NOT NULL DEFAULT '',
		is_home BOOLEAN NOT NULL DEFAULT FALSE,
		days_rest INTEGER,
		is_back_to_back BOOLEAN NOT NULL DEFAULT FALSE,
		points DOUBLE PRECISION,
		rebounds DOUBLE PRECISION,
		assists DOUBLE PRECISION,
		steals DOUBLE PRECISION,
		blocks DOUBLE PRECISION,
		turnovers DOUBLE PRECISION,
		minutes DOUBLE PRECISION,
		field_goals_made INTEGER,
		field_goals_attempted INTEGER,
		three_pointers_made INTEGER,
		three_pointers_attempted INTEGER,
		free_throws_made INTEGER,
		free_throws_attempted INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (player_id, game_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_game_records_player_date
		ON game_records (player_id, game_date DESC)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		starting_bankroll NUMERIC(12,2) NOT NULL,
		current_bankroll NUMERIC(12,2) NOT NULL,
		total_bets_placed INTEGER NOT NULL DEFAULT 0,
		total_bets_won INTEGER NOT NULL DEFAULT 0,
		total_bets_lost INTEGER NOT NULL DEFAULT 0,
		total_bets_void INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS single_bets (
		id UUID PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id),
		player_id UUID NOT NULL REFERENCES players(id),
		player_name TEXT NOT NULL,
		stat TEXT NOT NULL,
		line DOUBLE PRECISION NOT NULL,
		direction TEXT NOT NULL,
		stake NUMERIC(12,2) NOT NULL,
		odds DOUBLE PRECISION NOT NULL,
		potential_payout NUMERIC(12,2) NOT NULL,
		prediction DOUBLE PRECISION NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		expected_value NUMERIC(12,4) NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		std_dev DOUBLE PRECISION,
		opponent TEXT,
		days_rest INTEGER,
		game_date DATE,
		status TEXT NOT NULL DEFAULT 'pending',
		actual_result DOUBLE PRECISION,
		profit_loss NUMERIC(12,2) NOT NULL DEFAULT 0,
		placed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_single_bets_status ON single_bets (status)`,
	`CREATE TABLE IF NOT EXISTS parlay_bets (
		id UUID PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id),
		stake NUMERIC(12,2) NOT NULL,
		payout_multiplier DOUBLE PRECISION NOT NULL,
		potential_payout NUMERIC(12,2) NOT NULL,
		parlay_probability DOUBLE PRECISION NOT NULL,
		expected_value NUMERIC(12,4) NOT NULL,
		num_picks INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		profit_loss NUMERIC(12,2) NOT NULL DEFAULT 0,
		placed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_parlay_bets_status ON parlay_bets (status)`,
	`CREATE TABLE IF NOT EXISTS parlay_legs (
		id UUID PRIMARY KEY,
		parlay_id UUID NOT NULL REFERENCES parlay_bets(id) ON DELETE CASCADE,
		player_id UUID NOT NULL REFERENCES players(id),
		player_name TEXT NOT NULL,
		stat TEXT NOT NULL,
		line DOUBLE PRECISION NOT NULL,
		direction TEXT NOT NULL,
		prediction DOUBLE PRECISION NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		opponent TEXT,
		days_rest INTEGER,
		game_date DATE,
		status TEXT NOT NULL DEFAULT 'pending',
		actual_result DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_parlay_legs_parlay ON parlay_legs (parlay_id)`,
	`CREATE TABLE IF NOT EXISTS bankroll_snapshots (
		id UUID PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id),
		bankroll NUMERIC(12,2) NOT NULL,
		total_profit NUMERIC(12,2) NOT NULL,
		total_bets INTEGER NOT NULL,
		win_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bankroll_snapshots_account_time
		ON bankroll_snapshots (account_id, timestamp)`,
}

// Initialize creates the schema if it does not exist and returns a ready DB
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema DDL
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
