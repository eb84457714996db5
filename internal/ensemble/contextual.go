package ensemble

import (
	"context"

	"github.com/yourusername/hellraiser/internal/models"
)

// ContextualAnalyzer applies additive situational adjustments on top of a
// neutral base: team offensive strength, recent power surges or droughts,
// and batting-average extremes. Unknown teams simply earn no bonus.
type ContextualAnalyzer struct {
	cfg    ContextualConfig
	window int
	strong map[string]struct{}
}

// NewContextualAnalyzer builds the analyzer over the given recent-games window.
func NewContextualAnalyzer(cfg ContextualConfig, window int) *ContextualAnalyzer {
	strong := make(map[string]struct{}, len(cfg.StrongOffenseTeams))
	for _, team := range cfg.StrongOffenseTeams {
		strong[team] = struct{}{}
	}
	return &ContextualAnalyzer{cfg: cfg, window: window, strong: strong}
}

// Name implements SignalAnalyzer.
func (a *ContextualAnalyzer) Name() string {
	return models.SignalContextual
}

// Evaluate sums the situational adjustments and clamps the result. The
// variance is fixed: context shifts expectations without sharpening them.
func (a *ContextualAnalyzer) Evaluate(_ context.Context, record *models.PlayerRecord) (SignalResult, error) {
	score := a.cfg.BaseScore

	if _, ok := a.strong[record.Team]; ok {
		score += a.cfg.StrongOffenseBonus
	}

	switch {
	case record.RecentHomeRunCount >= a.cfg.HotPowerThreshold:
		score += a.cfg.HotPowerBonus
	case record.RecentHomeRunCount == 0:
		score -= a.cfg.ColdPowerPenalty
	}

	average := record.RecentAverage(a.window)
	switch {
	case average >= a.cfg.HighAverage:
		score += a.cfg.HighAverageBonus
	case average <= a.cfg.LowAverage:
		score -= a.cfg.LowAveragePenalty
	}

	score = clamp(score, a.cfg.ScoreMin, a.cfg.ScoreMax)
	return SignalResult{Signal: a.Name(), Score: score, Variance: a.cfg.Variance}, nil
}
