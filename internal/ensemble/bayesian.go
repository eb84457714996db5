package ensemble

import (
	"context"

	"github.com/yourusername/hellraiser/internal/models"
)

// BayesianAnalyzer scores recent performance with a Beta-Binomial posterior
// over the per-at-bat hit rate, anchored by a heavy prior whose mean sits at
// the league home-run rate. The prior keeps thin samples from producing
// extreme scores: with no at-bats at all the posterior collapses to the
// prior and the score stays near league average.
type BayesianAnalyzer struct {
	cfg    BayesianConfig
	window int
}

// NewBayesianAnalyzer builds the analyzer over the given recent-games window.
func NewBayesianAnalyzer(cfg BayesianConfig, window int) *BayesianAnalyzer {
	return &BayesianAnalyzer{cfg: cfg, window: window}
}

// Name implements SignalAnalyzer.
func (a *BayesianAnalyzer) Name() string {
	return models.SignalBayesian
}

// Evaluate updates the prior with the player's recent at-bats and hits,
// maps the posterior mean onto the score scale relative to the league
// home-run rate, and adds a capped bonus for raw recent power.
func (a *BayesianAnalyzer) Evaluate(_ context.Context, record *models.PlayerRecord) (SignalResult, error) {
	atBats := record.RecentAtBats(a.window)
	hits := record.RecentHits(a.window)

	alpha := a.cfg.PriorAlpha + float64(hits)
	beta := a.cfg.PriorBeta + float64(atBats-hits)

	total := alpha + beta
	posteriorMean := alpha / total
	posteriorVariance := (alpha * beta) / (total * total * (total + 1))

	score := a.cfg.BaseScore + (posteriorMean/a.cfg.LeagueHomeRunRate)*a.cfg.RateScale

	powerBonus := float64(record.RecentHomeRunCount) * a.cfg.PowerBonusPerHR
	if powerBonus > a.cfg.PowerBonusCap {
		powerBonus = a.cfg.PowerBonusCap
	}
	score = clamp(score+powerBonus, a.cfg.ScoreMin, a.cfg.ScoreMax)

	variance := posteriorVariance * a.cfg.VarianceScale
	if variance < a.cfg.VarianceFloor {
		variance = a.cfg.VarianceFloor
	}

	return SignalResult{Signal: a.Name(), Score: score, Variance: variance}, nil
}
