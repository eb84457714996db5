package ensemble

import (
	"fmt"
	"math"
)

// Aggregator blends weighted signal results into a single confidence score
// with a variance-propagated interval. Construction validates the weight
// configuration so a built aggregator can always aggregate.
type Aggregator struct {
	weights          Weights
	minTotalVariance float64
	zScore           float64
	boundsMin        float64
	boundsMax        float64
}

// AggregateResult is the blended outcome across all signals.
type AggregateResult struct {
	Confidence     float64
	Lower          float64
	Upper          float64
	TotalVariance  float64
	DominantSignal string
	SignalScores   map[string]float64
}

// NewAggregator validates the relevant configuration and returns an
// aggregator bound to it.
func NewAggregator(cfg Config) (*Aggregator, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.MinTotalVariance <= 0 {
		return nil, fmt.Errorf("%w: min total variance %v", ErrVarianceFloor, cfg.MinTotalVariance)
	}
	if cfg.IntervalZScore <= 0 {
		return nil, fmt.Errorf("interval z-score must be positive, got %v", cfg.IntervalZScore)
	}
	if cfg.BoundsMin >= cfg.BoundsMax {
		return nil, fmt.Errorf("%w: bounds [%v, %v]", ErrScoreBounds, cfg.BoundsMin, cfg.BoundsMax)
	}

	weights := make(Weights, len(cfg.Weights))
	for name, w := range cfg.Weights {
		weights[name] = w
	}

	return &Aggregator{
		weights:          weights,
		minTotalVariance: cfg.MinTotalVariance,
		zScore:           cfg.IntervalZScore,
		boundsMin:        cfg.BoundsMin,
		boundsMax:        cfg.BoundsMax,
	}, nil
}

// Aggregate computes the weighted confidence, propagates variance under the
// independence assumption, and tracks the dominant signal by raw unweighted
// score. Ties keep the first signal seen, so result order decides.
func (a *Aggregator) Aggregate(results []SignalResult) (*AggregateResult, error) {
	if len(results) == 0 {
		return nil, ErrNoSignals
	}

	confidence := 0.0
	totalVariance := 0.0
	bestScore := math.Inf(-1)
	dominant := ""
	scores := make(map[string]float64, len(results))

	for _, r := range results {
		if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
			return nil, fmt.Errorf("%w: %s scored %v", ErrInvalidScore, r.Signal, r.Score)
		}
		if math.IsNaN(r.Variance) || math.IsInf(r.Variance, 0) || r.Variance < 0 {
			return nil, fmt.Errorf("%w: %s variance %v", ErrInvalidVariance, r.Signal, r.Variance)
		}

		weight, ok := a.weights[r.Signal]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnweightedSignal, r.Signal)
		}

		confidence += weight * r.Score
		totalVariance += weight * weight * r.Variance
		scores[r.Signal] = r.Score

		if r.Score > bestScore {
			bestScore = r.Score
			dominant = r.Signal
		}
	}

	// keep the interval honest even when every signal claims certainty
	if totalVariance < a.minTotalVariance {
		totalVariance = a.minTotalVariance
	}

	lower, upper := a.interval(confidence, totalVariance)

	return &AggregateResult{
		Confidence:     confidence,
		Lower:          lower,
		Upper:          upper,
		TotalVariance:  totalVariance,
		DominantSignal: dominant,
		SignalScores:   scores,
	}, nil
}

// interval returns the z-scaled confidence interval clamped to the
// configured score bounds.
func (a *Aggregator) interval(confidence, variance float64) (float64, float64) {
	stdError := math.Sqrt(variance)
	lower := clamp(confidence-a.zScore*stdError, a.boundsMin, a.boundsMax)
	upper := clamp(confidence+a.zScore*stdError, a.boundsMin, a.boundsMax)
	return lower, upper
}
