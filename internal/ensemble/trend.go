package ensemble

import (
	"context"
	"math"

	"github.com/yourusername/hellraiser/internal/models"
)

// TrendAnalyzer measures whether a player's combined batting performance is
// improving or declining across the recent window. Each game's performance is
// batting average plus a weighted home-run term; the trend is the correlation
// between performance and a recency weighting that favors the newest games.
type TrendAnalyzer struct {
	cfg    TrendConfig
	window int
}

// NewTrendAnalyzer builds the analyzer over the given recent-games window.
func NewTrendAnalyzer(cfg TrendConfig, window int) *TrendAnalyzer {
	return &TrendAnalyzer{cfg: cfg, window: window}
}

// Name implements SignalAnalyzer.
func (a *TrendAnalyzer) Name() string {
	return models.SignalTrend
}

// Evaluate returns a neutral result when the history is too short or flat to
// support a correlation, otherwise a score driven by the mean performance
// level shifted by the trend's direction and strength. A strong trend in
// either direction shrinks the variance because the pattern is clear.
func (a *TrendAnalyzer) Evaluate(_ context.Context, record *models.PlayerRecord) (SignalResult, error) {
	recent := record.Recent(a.window)
	if len(recent) < a.cfg.MinObservations {
		return a.neutral(), nil
	}

	n := len(recent)
	performances := make([]float64, n)
	recency := make([]float64, n)
	for i, game := range recent {
		performances[i] = game.BattingAverage + float64(game.HomeRuns)*a.cfg.HomeRunWeight
		// observations are newest first, so the first entry gets the
		// largest recency weight
		recency[i] = float64(n - i)
	}

	if allEqual(performances) {
		return a.neutral(), nil
	}

	correlation := pearson(recency, performances)
	strength := math.Abs(correlation)
	direction := 0.0
	if correlation > 0 {
		direction = 1.0
	} else if correlation < 0 {
		direction = -1.0
	}

	score := mean(performances)*a.cfg.PerformanceScale + direction*strength*a.cfg.TrendImpact
	score = clamp(score, a.cfg.ScoreMin, a.cfg.ScoreMax)

	variance := a.cfg.VarianceBase * (1.0 - strength)
	if variance < a.cfg.VarianceFloor {
		variance = a.cfg.VarianceFloor
	}

	return SignalResult{Signal: a.Name(), Score: score, Variance: variance}, nil
}

func (a *TrendAnalyzer) neutral() SignalResult {
	return SignalResult{Signal: a.Name(), Score: a.cfg.NeutralScore, Variance: a.cfg.VarianceFloor}
}
