package ensemble

import (
	"errors"
	"math"
	"testing"
)

func newTestAggregator(t *testing.T, weights Weights) *Aggregator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Weights = weights
	aggregator, err := NewAggregator(cfg)
	if err != nil {
		t.Fatalf("aggregator construction failed: %v", err)
	}
	return aggregator
}

func TestAggregateBlendsWeightedScores(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 0.6, "b": 0.4})

	result, err := aggregator.Aggregate([]SignalResult{
		{Signal: "a", Score: 80, Variance: 10},
		{Signal: "b", Score: 60, Variance: 20},
	})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	if !almostEqual(result.Confidence, 72.0, 1e-9) {
		t.Fatalf("expected confidence 72, got %v", result.Confidence)
	}
	// 0.36*10 + 0.16*20 = 6.8, above the floor
	if !almostEqual(result.TotalVariance, 6.8, 1e-9) {
		t.Fatalf("expected total variance 6.8, got %v", result.TotalVariance)
	}

	stdError := math.Sqrt(6.8)
	if !almostEqual(result.Lower, 72.0-1.96*stdError, 1e-9) {
		t.Fatalf("unexpected lower bound %v", result.Lower)
	}
	if !almostEqual(result.Upper, 72.0+1.96*stdError, 1e-9) {
		t.Fatalf("unexpected upper bound %v", result.Upper)
	}
	if result.DominantSignal != "a" {
		t.Fatalf("expected dominant signal a, got %s", result.DominantSignal)
	}
}

func TestAggregateAppliesVarianceFloor(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 0.5, "b": 0.5})

	result, err := aggregator.Aggregate([]SignalResult{
		{Signal: "a", Score: 50, Variance: 1},
		{Signal: "b", Score: 50, Variance: 1},
	})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	// raw propagated variance is 0.5, clamped up to the floor
	if result.TotalVariance != 4.0 {
		t.Fatalf("expected floored variance 4, got %v", result.TotalVariance)
	}
	if !almostEqual(result.Upper-result.Lower, 2*1.96*2.0, 1e-9) {
		t.Fatalf("expected interval width %v, got %v", 2*1.96*2.0, result.Upper-result.Lower)
	}
}

func TestDominantSignalUsesRawScores(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 0.9, "b": 0.1})

	result, err := aggregator.Aggregate([]SignalResult{
		{Signal: "a", Score: 60, Variance: 5},
		{Signal: "b", Score: 70, Variance: 5},
	})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	// a contributes far more weight, but b has the higher raw score
	if result.DominantSignal != "b" {
		t.Fatalf("expected dominant signal b, got %s", result.DominantSignal)
	}
}

func TestAggregateClampsBounds(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 1.0})

	result, err := aggregator.Aggregate([]SignalResult{
		{Signal: "a", Score: 94, Variance: 400},
	})
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	if result.Upper != 95.0 {
		t.Fatalf("expected upper bound clamped to 95, got %v", result.Upper)
	}
	if result.Lower < 20.0 {
		t.Fatalf("expected lower bound clamped at 20, got %v", result.Lower)
	}
	if result.Lower > result.Confidence || result.Confidence > result.Upper {
		t.Fatalf("confidence %v fell outside [%v, %v]", result.Confidence, result.Lower, result.Upper)
	}
}

func TestAggregateRejectsEmptyResults(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 1.0})

	_, err := aggregator.Aggregate(nil)
	if !errors.Is(err, ErrNoSignals) {
		t.Fatalf("expected no-signals error, got %v", err)
	}
}

func TestAggregateRejectsUnknownSignal(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 1.0})

	_, err := aggregator.Aggregate([]SignalResult{
		{Signal: "mystery", Score: 50, Variance: 5},
	})
	if !errors.Is(err, ErrUnweightedSignal) {
		t.Fatalf("expected unweighted signal error, got %v", err)
	}
}

func TestAggregateRejectsNonFiniteScores(t *testing.T) {
	aggregator := newTestAggregator(t, Weights{"a": 0.5, "b": 0.5})

	_, err := aggregator.Aggregate([]SignalResult{
		{Signal: "a", Score: math.NaN(), Variance: 5},
		{Signal: "b", Score: 50, Variance: 5},
	})
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected invalid score error, got %v", err)
	}

	_, err = aggregator.Aggregate([]SignalResult{
		{Signal: "a", Score: 50, Variance: -1},
		{Signal: "b", Score: 50, Variance: 5},
	})
	if !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("expected invalid variance error, got %v", err)
	}
}

func TestNewAggregatorRejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{"a": 0.5}

	_, err := NewAggregator(cfg)
	if !errors.Is(err, ErrWeightSum) {
		t.Fatalf("expected weight sum error, got %v", err)
	}
}
