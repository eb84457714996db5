package ensemble

import "errors"

var (
	// ErrNoWeights indicates an empty weight configuration.
	ErrNoWeights = errors.New("no analyzer weights configured")

	// ErrNegativeWeight indicates a weight below zero.
	ErrNegativeWeight = errors.New("analyzer weight must be non-negative")

	// ErrInvalidWeight indicates a NaN or infinite weight.
	ErrInvalidWeight = errors.New("analyzer weight must be a finite number")

	// ErrWeightSum indicates weights that do not form a convex combination.
	ErrWeightSum = errors.New("analyzer weights must sum to 1.0")

	// ErrVarianceFloor indicates a non-positive variance floor.
	ErrVarianceFloor = errors.New("variance floor must be positive")

	// ErrScoreBounds indicates an empty or inverted score range.
	ErrScoreBounds = errors.New("score bounds must satisfy min < max")

	// ErrNoSignals indicates an aggregation attempt with no results.
	ErrNoSignals = errors.New("no signal results to aggregate")

	// ErrUnweightedSignal indicates a result whose signal has no configured weight.
	ErrUnweightedSignal = errors.New("signal has no configured weight")

	// ErrInvalidScore indicates a NaN or infinite signal score.
	ErrInvalidScore = errors.New("signal score must be a finite number")

	// ErrInvalidVariance indicates a negative, NaN or infinite signal variance.
	ErrInvalidVariance = errors.New("signal variance must be non-negative and finite")
)
