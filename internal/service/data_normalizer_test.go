package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hellraiser/internal/datasource"
	"github.com/yourusername/hellraiser/internal/models"
)

func newTestNormalizer() *DataNormalizer {
	return NewDataNormalizer(0.85, testServiceLogger())
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func TestNormalizePlayerFullConversion(t *testing.T) {
	normalizer := newTestNormalizer()
	slateDay := time.Date(2025, 7, 15, 14, 30, 0, 0, time.FixedZone("EDT", -4*3600))

	// game lines deliberately oldest first; the middle line has no
	// published average
	source := &datasource.PlayerData{
		SourceID:          "file-001",
		PlayerName:        "  Ace   Delgado ",
		Team:              " nyy ",
		GameDate:          slateDay,
		SeasonGamesPlayed: 40,
		OddsAmerican:      strPtr("+320"),
		GameLines: []datasource.GameLineData{
			{Date: time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC), AtBats: 4, Hits: 0, HomeRuns: 0, BattingAverage: floatPtr(0.220)},
			{Date: time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC), AtBats: 3, Hits: 1, HomeRuns: 0},
			{Date: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), AtBats: 4, Hits: 2, HomeRuns: 1, BattingAverage: floatPtr(0.310)},
		},
	}

	record, err := normalizer.NormalizePlayer(source)
	require.NoError(t, err)

	assert.Equal(t, "Ace Delgado", record.PlayerName)
	assert.Equal(t, "NYY", record.Team)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), record.GameDate)

	require.Len(t, record.Observations, 3)
	assert.Equal(t, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), record.Observations[0].Date, "observations must be newest first")
	assert.Equal(t, 0.310, record.Observations[0].BattingAverage)
	assert.InDelta(t, 0.333, record.Observations[1].BattingAverage, 1e-9, "missing average must be derived from hits over at-bats")
	assert.Equal(t, 0.220, record.Observations[2].BattingAverage)

	assert.Equal(t, 1.0, record.Observations[0].DecayWeight)
	assert.InDelta(t, 0.85, record.Observations[1].DecayWeight, 1e-12)
	assert.InDelta(t, 0.7225, record.Observations[2].DecayWeight, 1e-12)

	assert.Equal(t, 1, record.RecentHomeRunCount)
	assert.Equal(t, 40, record.RecentGamesPlayed)

	require.NotNil(t, record.Odds)
	assert.Equal(t, "320", record.Odds.American.String())
	assert.Equal(t, "Ace Delgado", record.Odds.PlayerName)
}

func TestNormalizePlayerLiftsGamesPlayedToObservationCount(t *testing.T) {
	normalizer := newTestNormalizer()

	source := &datasource.PlayerData{
		PlayerName:        "Buck Stanton",
		Team:              "LAD",
		GameDate:          time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		SeasonGamesPlayed: 1,
		GameLines: []datasource.GameLineData{
			{Date: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), AtBats: 4, Hits: 1},
			{Date: time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC), AtBats: 4, Hits: 2},
		},
	}

	record, err := normalizer.NormalizePlayer(source)
	require.NoError(t, err)
	assert.Equal(t, 2, record.RecentGamesPlayed)
}

func TestNormalizePlayerDropsUnparseableOdds(t *testing.T) {
	normalizer := newTestNormalizer()

	source := &datasource.PlayerData{
		PlayerName:   "Cyrus Whitfield",
		Team:         "ATL",
		GameDate:     time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		OddsAmerican: strPtr("evens"),
	}

	record, err := normalizer.NormalizePlayer(source)
	require.NoError(t, err)
	assert.Nil(t, record.Odds, "unparseable odds must be dropped, not fatal")
}

func TestNormalizePlayerRejectsMissingName(t *testing.T) {
	normalizer := newTestNormalizer()

	_, err := normalizer.NormalizePlayer(&datasource.PlayerData{PlayerName: "   ", Team: "NYY"})
	assert.ErrorIs(t, err, models.ErrPlayerNameRequired)

	_, err = normalizer.NormalizePlayer(nil)
	assert.Error(t, err)
}

func TestNormalizeHelpers(t *testing.T) {
	normalizer := newTestNormalizer()

	assert.Equal(t, "Byron Buxton", normalizer.NormalizePlayerName("  Byron   Buxton "))
	assert.Equal(t, "SEA", normalizer.NormalizeTeam(" sea "))

	stamped := normalizer.NormalizeGameDate(time.Date(2025, 7, 15, 23, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), stamped)
}

func TestDeriveAverage(t *testing.T) {
	assert.Equal(t, 0.0, deriveAverage(0, 0))
	assert.Equal(t, 0.5, deriveAverage(2, 4))
	assert.InDelta(t, 0.333, deriveAverage(1, 3), 1e-9)
}
