package ensemble

import (
	"context"

	"github.com/yourusername/hellraiser/internal/models"
)

// ConsistencyAnalyzer scores sample-size reliability: the more recent games
// a player has actually played, the more the other signals can be trusted.
// Tier boundaries are inclusive, so exactly VeteranGames lands in the top tier.
type ConsistencyAnalyzer struct {
	cfg ConsistencyConfig
}

// NewConsistencyAnalyzer builds the analyzer.
func NewConsistencyAnalyzer(cfg ConsistencyConfig) *ConsistencyAnalyzer {
	return &ConsistencyAnalyzer{cfg: cfg}
}

// Name implements SignalAnalyzer.
func (a *ConsistencyAnalyzer) Name() string {
	return models.SignalConsistency
}

// Evaluate maps games played onto the configured tier ladder.
func (a *ConsistencyAnalyzer) Evaluate(_ context.Context, record *models.PlayerRecord) (SignalResult, error) {
	var score, variance float64
	switch {
	case record.RecentGamesPlayed >= a.cfg.VeteranGames:
		score, variance = a.cfg.VeteranScore, a.cfg.VeteranVariance
	case record.RecentGamesPlayed >= a.cfg.RegularGames:
		score, variance = a.cfg.RegularScore, a.cfg.RegularVariance
	default:
		score, variance = a.cfg.LimitedScore, a.cfg.LimitedVariance
	}

	return SignalResult{Signal: a.Name(), Score: score, Variance: variance}, nil
}
