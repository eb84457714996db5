package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/hellraiser/internal/models"
)

// PredictionRepository defines the interface for prediction archive access
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	InsertBatch(ctx context.Context, predictions []*models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetByGameDate(ctx context.Context, gameDate time.Time) ([]*models.Prediction, error)
	GetByPlayer(ctx context.Context, playerName string, limit int) ([]*models.Prediction, error)
	GetByRunType(ctx context.Context, runType string, start, end time.Time) ([]*models.Prediction, error)
	GetSince(ctx context.Context, since time.Time) ([]*models.Prediction, error)
	GetTopByConfidence(ctx context.Context, gameDate time.Time, limit int) ([]*models.Prediction, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ObservationRepository defines the interface for player game log access
type ObservationRepository interface {
	UpsertGameLogs(ctx context.Context, playerName, team string, observations []models.GameObservation) error
	GetRecentGameLogs(ctx context.Context, playerName string, limit int) ([]models.GameObservation, error)
	GetPlayerRecord(ctx context.Context, playerName, team string, gameDate time.Time, window int) (*models.PlayerRecord, error)
	ListPlayers(ctx context.Context, team string) ([]models.PlayerIdentity, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
