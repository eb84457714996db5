package datasource

import (
	"context"
	"errors"
	"time"
)

// PlayerSource defines the interface for loading player slates from a data provider
type PlayerSource interface {
	// FetchSlate retrieves every player entry for the given game date
	FetchSlate(ctx context.Context, gameDate time.Time) ([]PlayerData, error)

	// FetchPlayer retrieves a single player's entry for the given game date
	FetchPlayer(ctx context.Context, playerName string, gameDate time.Time) (*PlayerData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// PlayerData represents normalized player data from any data source
type PlayerData struct {
	SourceID          string         `json:"source_id"`           // Provider's unique player ID
	PlayerName        string         `json:"player_name"`         // Player's full name
	Team              string         `json:"team"`                // Team code (e.g., "NYY")
	GameDate          time.Time      `json:"game_date"`           // Slate date UTC
	SeasonGamesPlayed int            `json:"season_games_played"` // Games played this season
	GameLines         []GameLineData `json:"game_lines"`          // Recent games, newest first
	OddsAmerican      *string        `json:"odds_american"`       // Raw home-run odds if available
	FetchedAt         time.Time      `json:"fetched_at"`          // When data was fetched
}

// GameLineData represents a single raw game line from any data source
type GameLineData struct {
	Date           time.Time `json:"date"`            // Game date UTC
	AtBats         int       `json:"at_bats"`         // Official at-bats
	Hits           int       `json:"hits"`            // Hits recorded
	HomeRuns       int       `json:"home_runs"`       // Home-run indicator for the game
	BattingAverage *float64  `json:"batting_average"` // Per-game average if the provider reports it
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "invalid_data")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeReadFailed  = "read_failed"
	ErrCodeDisabled    = "source_disabled"
	ErrCodeUnknown     = "unknown"
)

// Error constructors
var (
	ErrNotFound       = errors.New("player data not found")
	ErrInvalidData    = errors.New("invalid slate data format")
	ErrSourceDisabled = errors.New("data source is disabled")
)

const sourceDisabledMsg = "data source is disabled"

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
