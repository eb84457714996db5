package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/datasource"
	"github.com/yourusername/hellraiser/internal/models"
)

// DataNormalizer converts raw source slates to the internal record format:
// trimmed names, uppercase team codes, newest-first observations, derived
// batting averages, season scalars and stamped decay weights.
type DataNormalizer struct {
	decayFactor float64
	logger      *logrus.Entry
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(decayFactor float64, log *logrus.Logger) *DataNormalizer {
	return &DataNormalizer{
		decayFactor: decayFactor,
		logger:      log.WithField("component", "normalizer"),
	}
}

// NormalizePlayer converts PlayerData from any source to a PlayerRecord
func (n *DataNormalizer) NormalizePlayer(source *datasource.PlayerData) (*models.PlayerRecord, error) {
	if source == nil {
		return nil, fmt.Errorf("source player is nil")
	}

	name := n.NormalizePlayerName(source.PlayerName)
	if name == "" {
		return nil, models.ErrPlayerNameRequired
	}

	lines := make([]datasource.GameLineData, len(source.GameLines))
	copy(lines, source.GameLines)
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.After(lines[j].Date)
	})

	observations := make([]models.GameObservation, len(lines))
	homeRunGames := 0
	for i, line := range lines {
		average := deriveAverage(line.Hits, line.AtBats)
		if line.BattingAverage != nil {
			average = *line.BattingAverage
		}

		observations[i] = models.GameObservation{
			Date:           line.Date.UTC(),
			AtBats:         line.AtBats,
			Hits:           line.Hits,
			HomeRuns:       line.HomeRuns,
			BattingAverage: average,
		}
		homeRunGames += line.HomeRuns
	}

	gamesPlayed := source.SeasonGamesPlayed
	if gamesPlayed < len(observations) {
		gamesPlayed = len(observations)
	}

	record := &models.PlayerRecord{
		PlayerName:         name,
		Team:               n.NormalizeTeam(source.Team),
		GameDate:           n.NormalizeGameDate(source.GameDate),
		Observations:       observations,
		RecentHomeRunCount: homeRunGames,
		RecentGamesPlayed:  gamesPlayed,
	}
	record.ApplyDecayWeights(n.decayFactor)

	if source.OddsAmerican != nil {
		odds, err := models.NewHomeRunOdds(name, *source.OddsAmerican)
		if err != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"player": name,
				"odds":   *source.OddsAmerican,
			}).Warn("Dropping unparseable odds")
		} else {
			record.Odds = odds
		}
	}

	return record, nil
}

// NormalizePlayerName collapses runs of whitespace without touching case
func (n *DataNormalizer) NormalizePlayerName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeTeam converts a team code to the canonical uppercase form
func (n *DataNormalizer) NormalizeTeam(team string) string {
	return strings.ToUpper(strings.TrimSpace(team))
}

// NormalizeGameDate truncates a slate date to midnight UTC
func (n *DataNormalizer) NormalizeGameDate(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// deriveAverage computes a per-game batting average rounded to three places
func deriveAverage(hits, atBats int) float64 {
	if atBats <= 0 {
		return 0
	}
	return math.Round(float64(hits)/float64(atBats)*1000) / 1000
}
