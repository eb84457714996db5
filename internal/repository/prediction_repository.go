package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/hellraiser/internal/database"
	"github.com/yourusername/hellraiser/internal/metrics"
	"github.com/yourusername/hellraiser/internal/models"
)

const (
	errScanPrediction     = "failed to scan prediction: %w"
	errEncodeSignalScores = "failed to encode signal scores: %w"
)

const predictionColumns = `
	id, player_name, team, game_date, confidence, confidence_lower, confidence_upper,
	total_variance, dominant_signal, signal_scores, classification, pathway,
	COALESCE(reasoning, ''), odds_american, COALESCE(market_value, ''),
	data_quality, run_type, created_at`

const insertPredictionQuery = `
	INSERT INTO home_run_predictions (
		id, player_name, team, game_date, confidence, confidence_lower, confidence_upper,
		total_variance, dominant_signal, signal_scores, classification, pathway,
		reasoning, odds_american, market_value, data_quality, run_type, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	ON CONFLICT (player_name, game_date, run_type) DO UPDATE SET
		confidence = EXCLUDED.confidence,
		confidence_lower = EXCLUDED.confidence_lower,
		confidence_upper = EXCLUDED.confidence_upper,
		total_variance = EXCLUDED.total_variance,
		dominant_signal = EXCLUDED.dominant_signal,
		signal_scores = EXCLUDED.signal_scores,
		classification = EXCLUDED.classification,
		pathway = EXCLUDED.pathway,
		reasoning = EXCLUDED.reasoning,
		odds_american = EXCLUDED.odds_american,
		market_value = EXCLUDED.market_value,
		data_quality = EXCLUDED.data_quality,
		created_at = EXCLUDED.created_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction archive repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// insertArgs flattens a prediction into the insert parameter list
func insertArgs(p *models.Prediction) ([]interface{}, error) {
	scores, err := json.Marshal(p.SignalScores)
	if err != nil {
		return nil, fmt.Errorf(errEncodeSignalScores, err)
	}

	return []interface{}{
		p.ID, p.PlayerName, p.Team, p.GameDate, p.Confidence, p.ConfidenceLower,
		p.ConfidenceUpper, p.TotalVariance, p.DominantSignal, scores, p.Classification,
		p.Pathway, p.Reasoning, p.OddsAmerican, p.MarketValue, p.DataQuality,
		p.RunType, p.CreatedAt,
	}, nil
}

// Insert archives a single prediction, replacing any previous result for the
// same player, game date and run type
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.Prediction) error {
	start := time.Now()

	args, err := insertArgs(prediction)
	if err != nil {
		return err
	}

	if _, err := r.db.GetPool().Exec(ctx, insertPredictionQuery, args...); err != nil {
		return fmt.Errorf("failed to archive prediction: %w", err)
	}

	metrics.ObserveArchiveQuery("insert", time.Since(start).Seconds())
	return nil
}

// InsertBatch archives a full slate in one round trip
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	start := time.Now()

	batch := &pgx.Batch{}
	for _, p := range predictions {
		args, err := insertArgs(p)
		if err != nil {
			return err
		}
		batch.Queue(insertPredictionQuery, args...)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range predictions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch archive predictions: %w", err)
		}
	}

	metrics.ObserveArchiveQuery("insert_batch", time.Since(start).Seconds())
	return nil
}

// GetByID retrieves an archived prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := `SELECT` + predictionColumns + `
		FROM home_run_predictions WHERE id = $1`

	row := r.db.GetPool().QueryRow(ctx, query, id)
	prediction, err := scanPrediction(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// GetByGameDate retrieves all predictions archived for a game date
func (r *PostgresPredictionRepository) GetByGameDate(ctx context.Context, gameDate time.Time) ([]*models.Prediction, error) {
	start := time.Now()

	query := `SELECT` + predictionColumns + `
		FROM home_run_predictions
		WHERE game_date = $1
		ORDER BY confidence DESC`

	rows, err := r.db.GetPool().Query(ctx, query, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by game date: %w", err)
	}
	defer rows.Close()

	predictions, err := collectPredictions(rows)
	if err != nil {
		return nil, err
	}

	metrics.ObserveArchiveQuery("by_game_date", time.Since(start).Seconds())
	return predictions, nil
}

// GetByPlayer retrieves the most recent archived predictions for a player
func (r *PostgresPredictionRepository) GetByPlayer(ctx context.Context, playerName string, limit int) ([]*models.Prediction, error) {
	query := `SELECT` + predictionColumns + `
		FROM home_run_predictions
		WHERE player_name = $1
		ORDER BY game_date DESC, created_at DESC
		LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by player: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetByRunType retrieves predictions for a run type within a created-at range
func (r *PostgresPredictionRepository) GetByRunType(ctx context.Context, runType string, start, end time.Time) ([]*models.Prediction, error) {
	query := `SELECT` + predictionColumns + `
		FROM home_run_predictions
		WHERE run_type = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query, runType, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by run type: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetSince retrieves every prediction archived at or after the given time,
// ordered oldest first for drift analysis
func (r *PostgresPredictionRepository) GetSince(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	start := time.Now()

	query := `SELECT` + predictionColumns + `
		FROM home_run_predictions
		WHERE created_at >= $1
		ORDER BY created_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions since: %w", err)
	}
	defer rows.Close()

	predictions, err := collectPredictions(rows)
	if err != nil {
		return nil, err
	}

	metrics.ObserveArchiveQuery("since", time.Since(start).Seconds())
	return predictions, nil
}

// GetTopByConfidence retrieves the highest-confidence predictions for a game date
func (r *PostgresPredictionRepository) GetTopByConfidence(ctx context.Context, gameDate time.Time, limit int) ([]*models.Prediction, error) {
	query := `SELECT` + predictionColumns + `
		FROM home_run_predictions
		WHERE game_date = $1
		ORDER BY confidence DESC, player_name ASC
		LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, gameDate, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// DeleteOlderThan removes archived predictions created before the cutoff
func (r *PostgresPredictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "DELETE FROM home_run_predictions WHERE created_at < $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge prediction archive: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

// scanPrediction scans a single prediction row
func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	prediction := &models.Prediction{}
	var scoresJSON []byte

	err := row.Scan(
		&prediction.ID, &prediction.PlayerName, &prediction.Team, &prediction.GameDate,
		&prediction.Confidence, &prediction.ConfidenceLower, &prediction.ConfidenceUpper,
		&prediction.TotalVariance, &prediction.DominantSignal, &scoresJSON,
		&prediction.Classification, &prediction.Pathway, &prediction.Reasoning,
		&prediction.OddsAmerican, &prediction.MarketValue, &prediction.DataQuality,
		&prediction.RunType, &prediction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &prediction.SignalScores); err != nil {
			return nil, fmt.Errorf("failed to decode signal scores: %w", err)
		}
	}

	return prediction, nil
}

// collectPredictions scans all rows from a prediction query
func collectPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}
