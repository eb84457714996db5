package ensemble

import (
	"context"
	"testing"

	"github.com/yourusername/hellraiser/internal/models"
)

func TestMarketProxyTiers(t *testing.T) {
	cfg := DefaultMarketConfig()
	cfg.JitterStdDev = 0 // isolate the tier ladder
	analyzer := NewMarketAnalyzer(cfg, 10, 42)

	tests := []struct {
		avg      float64
		score    float64
		variance float64
	}{
		{0.320, 70.0, 8.0},
		{0.270, 60.0, 12.0},
		{0.230, 50.0, 15.0},
		{0.180, 40.0, 10.0},
	}

	for _, tt := range tests {
		record := testRecord("Tier Case", "TEX", flatObservations(10, 4, 0, tt.avg))
		result, err := analyzer.Evaluate(context.Background(), record)
		if err != nil {
			t.Fatalf("evaluate failed for avg %v: %v", tt.avg, err)
		}
		if !almostEqual(result.Score, tt.score, 1e-9) {
			t.Fatalf("avg=%v: expected score %v, got %v", tt.avg, tt.score, result.Score)
		}
		if result.Variance != tt.variance {
			t.Fatalf("avg=%v: expected variance %v, got %v", tt.avg, tt.variance, result.Variance)
		}
	}
}

func TestMarketJitterIsDeterministicPerSeed(t *testing.T) {
	record := testRecord("Jittered Player", "SDP", flatObservations(10, 4, 0, 0.270))

	first := NewMarketAnalyzer(DefaultMarketConfig(), 10, 42)
	second := NewMarketAnalyzer(DefaultMarketConfig(), 10, 42)

	a, err := first.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	b, err := second.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if a.Score != b.Score {
		t.Fatalf("same seed should reproduce the same jitter, got %v and %v", a.Score, b.Score)
	}

	other := NewMarketAnalyzer(DefaultMarketConfig(), 10, 43)
	c, err := other.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if c.Score == a.Score {
		t.Fatalf("different seeds should move the jitter, both scored %v", a.Score)
	}
}

func TestMarketJitterVariesByPlayer(t *testing.T) {
	analyzer := NewMarketAnalyzer(DefaultMarketConfig(), 10, 42)

	first := testRecord("First Player", "CLE", flatObservations(10, 4, 0, 0.270))
	second := testRecord("Second Player", "CLE", flatObservations(10, 4, 0, 0.270))

	a, err := analyzer.Evaluate(context.Background(), first)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	b, err := analyzer.Evaluate(context.Background(), second)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if a.Score == b.Score {
		t.Fatalf("identical stats for different players should still jitter apart, both scored %v", a.Score)
	}
}

func TestMarketScoresStayInBounds(t *testing.T) {
	analyzer := NewMarketAnalyzer(DefaultMarketConfig(), 10, 99)

	for i, avg := range []float64{0.150, 0.200, 0.250, 0.300, 0.350} {
		record := testRecord("Bounds Case", "WSN", flatObservations(10, 4, 0, avg))
		record.PlayerName = record.PlayerName + string(rune('A'+i))

		result, err := analyzer.Evaluate(context.Background(), record)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if result.Score < 30 || result.Score > 85 {
			t.Fatalf("score %v outside [30, 85]", result.Score)
		}
	}
}

func TestMarketUsesRealOddsWhenAttached(t *testing.T) {
	analyzer := NewMarketAnalyzer(DefaultMarketConfig(), 10, 42)

	record := testRecord("Priced Favorite", "LAD", flatObservations(10, 4, 0, 0.250))
	odds, err := models.NewHomeRunOdds(record.PlayerName, "+120")
	if err != nil {
		t.Fatalf("odds parse failed: %v", err)
	}
	record.Odds = odds

	result, err := analyzer.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	// short odds band scores 75 with tight variance, and no jitter applies
	// on the real-odds path
	if !almostEqual(result.Score, 75.0, 1e-9) {
		t.Fatalf("expected banded score 75, got %v", result.Score)
	}
	if result.Variance != 6.0 {
		t.Fatalf("expected banded variance 6, got %v", result.Variance)
	}
}

func TestMarketLongShotOddsScoreLow(t *testing.T) {
	analyzer := NewMarketAnalyzer(DefaultMarketConfig(), 10, 42)

	record := testRecord("Long Shot", "COL", flatObservations(10, 4, 0, 0.250))
	odds, err := models.NewHomeRunOdds(record.PlayerName, "+900")
	if err != nil {
		t.Fatalf("odds parse failed: %v", err)
	}
	record.Odds = odds

	result, err := analyzer.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !almostEqual(result.Score, 35.0, 1e-9) {
		t.Fatalf("expected long-shot score 35, got %v", result.Score)
	}
	if result.Variance != 6.0 {
		t.Fatalf("expected extreme-odds variance 6, got %v", result.Variance)
	}
}
