package database

import (
	"context"
	"fmt"

	"github.com/yourusername/hellraiser/internal/config"
)

// Schema statements for the prediction archive. Applied idempotently at startup
// so ad-hoc environments work without a separate migration step.
const (
	createPredictionsTable = `
CREATE TABLE IF NOT EXISTS home_run_predictions (
    id UUID PRIMARY KEY,
    player_name TEXT NOT NULL,
    team TEXT NOT NULL,
    game_date DATE NOT NULL,
    confidence DOUBLE PRECISION NOT NULL,
    confidence_lower DOUBLE PRECISION NOT NULL,
    confidence_upper DOUBLE PRECISION NOT NULL,
    total_variance DOUBLE PRECISION NOT NULL,
    dominant_signal TEXT NOT NULL,
    signal_scores JSONB NOT NULL,
    classification TEXT NOT NULL,
    pathway TEXT NOT NULL,
    reasoning TEXT,
    odds_american TEXT,
    market_value TEXT,
    data_quality DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    run_type TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	createPredictionsSlateIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_hr_predictions_slate
    ON home_run_predictions (player_name, game_date, run_type)`

	createPredictionsDateIndex = `
CREATE INDEX IF NOT EXISTS idx_hr_predictions_game_date
    ON home_run_predictions (game_date)`

	createPredictionsRunIndex = `
CREATE INDEX IF NOT EXISTS idx_hr_predictions_run
    ON home_run_predictions (run_type, created_at)`

	createGameLogsTable = `
CREATE TABLE IF NOT EXISTS player_game_logs (
    player_name TEXT NOT NULL,
    team TEXT NOT NULL,
    game_date DATE NOT NULL,
    at_bats INTEGER NOT NULL,
    hits INTEGER NOT NULL,
    home_runs INTEGER NOT NULL,
    batting_average DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (player_name, game_date)
)`

	createGameLogsTeamIndex = `
CREATE INDEX IF NOT EXISTS idx_game_logs_team
    ON player_game_logs (team, game_date)`
)

// Initialize creates a database connection pool and ensures the archive schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the archive schema statements idempotently
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		createPredictionsTable,
		createPredictionsSlateIndex,
		createPredictionsDateIndex,
		createPredictionsRunIndex,
		createGameLogsTable,
		createGameLogsTeamIndex,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
