package ensemble

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/yourusername/hellraiser/internal/models"
)

// MarketAnalyzer scores what the betting market implies about a player's
// home-run chances. When real odds are attached to the record they are
// banded directly; otherwise recent batting average serves as a proxy for
// market position, with seeded Gaussian jitter standing in for day-to-day
// market movement.
type MarketAnalyzer struct {
	cfg      MarketConfig
	window   int
	baseSeed int64
}

// NewMarketAnalyzer builds the analyzer. A zero seed picks a time-based one,
// so fix the seed for reproducible output.
func NewMarketAnalyzer(cfg MarketConfig, window int, seed int64) *MarketAnalyzer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MarketAnalyzer{cfg: cfg, window: window, baseSeed: seed}
}

// Name implements SignalAnalyzer.
func (a *MarketAnalyzer) Name() string {
	return models.SignalMarket
}

// Evaluate scores the player from attached odds when present, or from the
// batting-average proxy tiers otherwise. Jitter applies only on the proxy
// path: real odds already carry the market's movement.
func (a *MarketAnalyzer) Evaluate(_ context.Context, record *models.PlayerRecord) (SignalResult, error) {
	var score, variance float64

	if record.Odds != nil {
		score, variance = record.Odds.MarketBand()
	} else {
		quality := (record.RecentAverage(a.window) - a.cfg.BaselineAverage) / a.cfg.QualityRange
		tier := a.tierFor(quality)
		score, variance = tier.Score, tier.Variance

		rng := rand.New(rand.NewSource(a.recordSeed(record)))
		score += rng.NormFloat64() * a.cfg.JitterStdDev
	}

	score = clamp(score, a.cfg.ScoreMin, a.cfg.ScoreMax)
	return SignalResult{Signal: a.Name(), Score: score, Variance: variance}, nil
}

func (a *MarketAnalyzer) tierFor(quality float64) MarketTier {
	for _, tier := range a.cfg.Tiers {
		if quality > tier.MinQuality {
			return tier
		}
	}
	return a.cfg.Tiers[len(a.cfg.Tiers)-1]
}

// recordSeed derives a per-record jitter seed so that evaluations are
// deterministic for a given base seed regardless of batch ordering or
// concurrency.
func (a *MarketAnalyzer) recordSeed(record *models.PlayerRecord) int64 {
	h := fnv.New64a()
	h.Write([]byte(record.PlayerName))
	h.Write([]byte{0})
	h.Write([]byte(record.Team))
	h.Write([]byte{0})
	h.Write([]byte(record.GameDate.Format("2006-01-02")))
	return a.baseSeed ^ int64(h.Sum64())
}
