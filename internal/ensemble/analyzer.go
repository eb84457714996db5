// Package ensemble implements the statistical core: five independent signal
// analyzers whose scores are blended into a single home-run confidence
// estimate with a variance-propagated confidence interval.
package ensemble

import (
	"context"

	"github.com/yourusername/hellraiser/internal/models"
)

// SignalResult is one analyzer's bounded score together with its variance
// estimate. Higher variance means less trust in the score.
type SignalResult struct {
	Signal   string  `json:"signal"`
	Score    float64 `json:"score"`
	Variance float64 `json:"variance"`
}

// SignalAnalyzer scores one narrow aspect of a player's home-run outlook.
// Implementations degrade to conservative output on thin or missing data
// rather than returning an error; the error return exists for composed
// implementations that can genuinely fail.
type SignalAnalyzer interface {
	// Name returns the stable signal identifier used for weighting and
	// archived score maps.
	Name() string

	// Evaluate produces the signal's score and variance for one player.
	Evaluate(ctx context.Context, record *models.PlayerRecord) (SignalResult, error)
}
