package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hellraiser/internal/ensemble"
	"github.com/yourusername/hellraiser/internal/models"
)

func cachedPrediction(name string) *models.Prediction {
	odds := "320"
	return &models.Prediction{
		PlayerName:      name,
		Team:            "NYY",
		GameDate:        time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Confidence:      72.5,
		ConfidenceLower: 65.1,
		ConfidenceUpper: 79.9,
		TotalVariance:   14.2,
		DominantSignal:  models.SignalBayesian,
		SignalScores:    map[string]float64{models.SignalBayesian: 84.0, models.SignalTrend: 70.0},
		OddsAmerican:    &odds,
	}
}

func testCacheKey(name string) CacheKey {
	return CacheKey{PlayerName: name, Team: "NYY", GameDate: "2025-07-15", Fingerprint: "abc123"}
}

func TestCacheRoundTrip(t *testing.T) {
	predictionCache := NewPredictionCache(time.Minute, time.Minute)

	key := testCacheKey("Ace Delgado")
	predictionCache.Set(key, cachedPrediction("Ace Delgado"))

	got := predictionCache.Get(key)
	require.NotNil(t, got)
	assert.Equal(t, "Ace Delgado", got.PlayerName)
	assert.Equal(t, 72.5, got.Confidence)
	assert.Equal(t, 84.0, got.SignalScores[models.SignalBayesian])

	hits, misses, ratio := predictionCache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(0), misses)
	assert.Equal(t, 1.0, ratio)
}

func TestCacheMiss(t *testing.T) {
	predictionCache := NewPredictionCache(time.Minute, time.Minute)

	assert.Nil(t, predictionCache.Get(testCacheKey("Nobody")))

	hits, misses, _ := predictionCache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheReturnsIsolatedCopies(t *testing.T) {
	predictionCache := NewPredictionCache(time.Minute, time.Minute)

	key := testCacheKey("Ace Delgado")
	original := cachedPrediction("Ace Delgado")
	predictionCache.Set(key, original)

	// mutating either the original or a returned copy must not leak into
	// later reads: run stamping rewrites these fields on every slate
	original.RunType = "morning"
	first := predictionCache.Get(key)
	first.Confidence = 1.0
	first.SignalScores[models.SignalBayesian] = -50.0
	*first.OddsAmerican = "999"

	second := predictionCache.Get(key)
	assert.Empty(t, second.RunType)
	assert.Equal(t, 72.5, second.Confidence)
	assert.Equal(t, 84.0, second.SignalScores[models.SignalBayesian])
	assert.Equal(t, "320", *second.OddsAmerican)
}

func TestCacheClearResetsCounters(t *testing.T) {
	predictionCache := NewPredictionCache(time.Minute, time.Minute)

	key := testCacheKey("Ace Delgado")
	predictionCache.Set(key, cachedPrediction("Ace Delgado"))
	require.NotNil(t, predictionCache.Get(key))
	require.Equal(t, 1, predictionCache.ItemCount())

	predictionCache.Clear()

	assert.Equal(t, 0, predictionCache.ItemCount())
	assert.Nil(t, predictionCache.Get(key))
	hits, misses, _ := predictionCache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheKeyString(t *testing.T) {
	key := CacheKey{PlayerName: "Ace Delgado", Team: "NYY", GameDate: "2025-07-15", Fingerprint: "deadbeef"}
	assert.Equal(t, "Ace Delgado:NYY:2025-07-15:deadbeef", key.String())
}

func TestConfigFingerprintTracksTuning(t *testing.T) {
	base := ensemble.DefaultConfig()
	same := ensemble.DefaultConfig()
	changed := ensemble.DefaultConfig()
	changed.Bayesian.PowerBonusCap = 30.0

	assert.Equal(t, ConfigFingerprint(base), ConfigFingerprint(same))
	assert.NotEqual(t, ConfigFingerprint(base), ConfigFingerprint(changed))
	assert.Len(t, ConfigFingerprint(base), 16)
}
