package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hellraiser/internal/database"
	"github.com/yourusername/hellraiser/internal/models"
)

const errScanGameLog = "failed to scan game log: %w"

const upsertGameLogQuery = `
	INSERT INTO player_game_logs (player_name, team, game_date, at_bats, hits, home_runs, batting_average)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (player_name, game_date) DO UPDATE SET
		team = EXCLUDED.team,
		at_bats = EXCLUDED.at_bats,
		hits = EXCLUDED.hits,
		home_runs = EXCLUDED.home_runs,
		batting_average = EXCLUDED.batting_average`

// PostgresObservationRepository implements ObservationRepository for PostgreSQL
type PostgresObservationRepository struct {
	db *database.DB
}

// NewPostgresObservationRepository creates a new game log repository
func NewPostgresObservationRepository(db *database.DB) ObservationRepository {
	return &PostgresObservationRepository{db: db}
}

// UpsertGameLogs writes a player's game lines, replacing same-date entries
func (r *PostgresObservationRepository) UpsertGameLogs(ctx context.Context, playerName, team string, observations []models.GameObservation) error {
	if len(observations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, obs := range observations {
		batch.Queue(upsertGameLogQuery,
			playerName, team, obs.Date, obs.AtBats, obs.Hits, obs.HomeRuns, obs.BattingAverage,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range observations {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert game logs: %w", err)
		}
	}

	return nil
}

// GetRecentGameLogs retrieves a player's most recent game lines, newest first
func (r *PostgresObservationRepository) GetRecentGameLogs(ctx context.Context, playerName string, limit int) ([]models.GameObservation, error) {
	query := `
		SELECT game_date, at_bats, hits, home_runs, batting_average
		FROM player_game_logs
		WHERE player_name = $1
		ORDER BY game_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	var observations []models.GameObservation
	for rows.Next() {
		var obs models.GameObservation
		err := rows.Scan(&obs.Date, &obs.AtBats, &obs.Hits, &obs.HomeRuns, &obs.BattingAverage)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		observations = append(observations, obs)
	}

	return observations, rows.Err()
}

// GetPlayerRecord assembles a full player record for estimation: the recent
// window of game lines plus the season-level scalars the analyzers read.
// Only logs dated before the game date are used, so replaying a past slate
// sees exactly what was known at the time.
func (r *PostgresObservationRepository) GetPlayerRecord(ctx context.Context, playerName, team string, gameDate time.Time, window int) (*models.PlayerRecord, error) {
	var gamesPlayed int
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT COUNT(*) FROM player_game_logs WHERE player_name = $1 AND game_date < $2",
		playerName, gameDate,
	).Scan(&gamesPlayed)
	if err != nil {
		return nil, fmt.Errorf("failed to count game logs: %w", err)
	}
	if gamesPlayed == 0 {
		return nil, models.ErrNotFound
	}

	windowQuery := `
		SELECT game_date, at_bats, hits, home_runs, batting_average
		FROM player_game_logs
		WHERE player_name = $1 AND game_date < $2
		ORDER BY game_date DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, windowQuery, playerName, gameDate, window)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	var observations []models.GameObservation
	for rows.Next() {
		var obs models.GameObservation
		err := rows.Scan(&obs.Date, &obs.AtBats, &obs.Hits, &obs.HomeRuns, &obs.BattingAverage)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	record := &models.PlayerRecord{
		PlayerName:        playerName,
		Team:              team,
		GameDate:          gameDate,
		Observations:      observations,
		RecentGamesPlayed: gamesPlayed,
	}
	for _, obs := range observations {
		record.RecentHomeRunCount += obs.HomeRuns
	}

	return record, nil
}

// ListPlayers retrieves the distinct player/team pairs for a team, or for
// the whole log when team is empty
func (r *PostgresObservationRepository) ListPlayers(ctx context.Context, team string) ([]models.PlayerIdentity, error) {
	query := `
		SELECT DISTINCT player_name, team
		FROM player_game_logs
		WHERE $1 = '' OR team = $1
		ORDER BY player_name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.PlayerIdentity
	for rows.Next() {
		var player models.PlayerIdentity
		if err := rows.Scan(&player.PlayerName, &player.Team); err != nil {
			return nil, fmt.Errorf("failed to scan player identity: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// DeleteOlderThan removes game logs older than the cutoff date
func (r *PostgresObservationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "DELETE FROM player_game_logs WHERE game_date < $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge game logs: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
