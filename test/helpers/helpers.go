// Package helpers provides shared utilities for integration and e2e tests.
package helpers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SlatePlayer is one player entry in a slate fixture file. It mirrors the
// on-disk format the file data source reads.
type SlatePlayer struct {
	PlayerName        string      `json:"player_name"`
	Team              string      `json:"team"`
	GameDate          string      `json:"game_date"`
	SeasonGamesPlayed int         `json:"season_games_played"`
	OddsAmerican      *string     `json:"odds_american,omitempty"`
	GameLines         []SlateLine `json:"game_lines"`
}

// SlateLine is one game line in a slate fixture file. Dates are YYYY-MM-DD.
type SlateLine struct {
	Date           string   `json:"date"`
	AtBats         int      `json:"at_bats"`
	Hits           int      `json:"hits"`
	HomeRuns       int      `json:"home_runs"`
	BattingAverage *float64 `json:"batting_average,omitempty"`
}

// WriteSlateFixture writes a slate file under dir and returns its path.
func WriteSlateFixture(t *testing.T, dir string, players []SlatePlayer) string {
	t.Helper()

	payload := struct {
		Players []SlatePlayer `json:"players"`
	}{Players: players}

	data, err := json.MarshalIndent(payload, "", "  ")
	require.NoError(t, err, "failed to marshal slate fixture")

	path := filepath.Join(dir, "slate.json")
	err = os.WriteFile(path, data, 0o644)
	require.NoError(t, err, "failed to write slate fixture")

	return path
}

// BattingLines builds n consecutive game lines ending the day before gameDate.
// The first homeRunGames lines carry a home run, so recent history reads hot.
func BattingLines(gameDate time.Time, n, hitsPerGame, homeRunGames int) []SlateLine {
	lines := make([]SlateLine, 0, n)
	for i := 0; i < n; i++ {
		hits := hitsPerGame
		homeRuns := 0
		if i < homeRunGames {
			homeRuns = 1
			if hits < 1 {
				hits = 1
			}
		}

		average := float64(hits) / 4.0
		lines = append(lines, SlateLine{
			Date:           gameDate.AddDate(0, 0, -(i + 1)).Format("2006-01-02"),
			AtBats:         4,
			Hits:           hits,
			HomeRuns:       homeRuns,
			BattingAverage: &average,
		})
	}
	return lines
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
