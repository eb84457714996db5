package service

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/hellraiser/internal/ensemble"
	"github.com/yourusername/hellraiser/internal/metrics"
	"github.com/yourusername/hellraiser/internal/models"
)

// CacheKey identifies one player's prediction for a slate date under a
// specific estimator configuration fingerprint.
type CacheKey struct {
	PlayerName  string
	Team        string
	GameDate    string
	Fingerprint string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.PlayerName, k.Team, k.GameDate, k.Fingerprint)
}

// PredictionCache provides in-memory caching for slate predictions. Entries
// are stored and returned as copies so run stamping never dirties the cache.
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl, cleanupInterval time.Duration) *PredictionCache {
	return &PredictionCache{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get retrieves a cached prediction, or nil on a miss
func (pc *PredictionCache) Get(key CacheKey) *models.Prediction {
	if result, found := pc.cache.Get(key.String()); found {
		if prediction, ok := result.(*models.Prediction); ok {
			pc.hitCount.Add(1)
			metrics.RecordCacheHit()
			return clonePrediction(prediction)
		}
	}

	pc.missCount.Add(1)
	metrics.RecordCacheMiss()
	return nil
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(key CacheKey, prediction *models.Prediction) {
	pc.cache.Set(key.String(), clonePrediction(prediction), pc.ttl)
}

// Clear flushes the entire cache and resets counters
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ConfigFingerprint hashes an estimator configuration so cached predictions
// are keyed to the exact tuning that produced them.
func ConfigFingerprint(cfg ensemble.Config) string {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return "unhashed"
	}
	h := fnv.New64a()
	h.Write(payload)
	return fmt.Sprintf("%016x", h.Sum64())
}

// clonePrediction deep-copies the mutable parts of a prediction
func clonePrediction(p *models.Prediction) *models.Prediction {
	clone := *p
	if p.SignalScores != nil {
		clone.SignalScores = make(map[string]float64, len(p.SignalScores))
		for signal, score := range p.SignalScores {
			clone.SignalScores[signal] = score
		}
	}
	if p.OddsAmerican != nil {
		odds := *p.OddsAmerican
		clone.OddsAmerican = &odds
	}
	return &clone
}
