package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmericanOdds(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "+450", want: 450},
		{raw: "-120", want: -120},
		{raw: "120", want: 120},
		{raw: " +300 ", want: 300},
		{raw: "100", want: 100},
		{raw: "-100", want: -100},
		{raw: "+99", wantErr: true},
		{raw: "-50", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "+", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAmericanOdds(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected parse error, got %v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.raw, err)
			continue
		}
		if !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("%q: expected %d, got %v", tt.raw, tt.want, got)
		}
	}
}

func TestNewHomeRunOdds(t *testing.T) {
	odds, err := NewHomeRunOdds("Aaron Judge", "+320")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if odds.PlayerName != "Aaron Judge" {
		t.Errorf("expected player name preserved, got %q", odds.PlayerName)
	}
	if !odds.American.Equal(decimal.NewFromInt(320)) {
		t.Errorf("expected parsed odds 320, got %v", odds.American)
	}
	if odds.LastUpdated.IsZero() {
		t.Error("expected LastUpdated to be set")
	}

	_, err = NewHomeRunOdds("Aaron Judge", "+50")
	if !errors.Is(err, ErrInvalidOdds) {
		t.Errorf("expected ErrInvalidOdds, got %v", err)
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		american int64
		want     float64
	}{
		{american: 100, want: 0.5},
		{american: 300, want: 0.25},
		{american: -150, want: 0.6},
		{american: -100, want: 0.5},
		{american: 0, want: 0},
	}

	for _, tt := range tests {
		odds := &HomeRunOdds{American: decimal.NewFromInt(tt.american)}
		if got := odds.ImpliedProbability(); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("odds %d: expected implied probability %v, got %v", tt.american, tt.want, got)
		}
	}
}

func TestMarketBand(t *testing.T) {
	tests := []struct {
		american int64
		score    float64
		variance float64
	}{
		{american: -120, score: 75, variance: 6},
		{american: 120, score: 75, variance: 6},
		{american: 150, score: 75, variance: 6},
		{american: 151, score: 65, variance: 9},
		{american: 200, score: 65, variance: 12},
		{american: 250, score: 65, variance: 12},
		{american: 300, score: 55, variance: 12},
		{american: 400, score: 55, variance: 12},
		{american: 450, score: 45, variance: 12},
		{american: 500, score: 45, variance: 12},
		{american: 501, score: 45, variance: 9},
		{american: 600, score: 45, variance: 9},
		{american: 601, score: 35, variance: 9},
		{american: 800, score: 35, variance: 6},
		{american: 1200, score: 35, variance: 6},
	}

	for _, tt := range tests {
		odds := &HomeRunOdds{American: decimal.NewFromInt(tt.american)}
		score, variance := odds.MarketBand()
		if score != tt.score {
			t.Errorf("odds %d: expected score %v, got %v", tt.american, tt.score, score)
		}
		if variance != tt.variance {
			t.Errorf("odds %d: expected variance %v, got %v", tt.american, tt.variance, variance)
		}
	}
}

func TestIsFavorite(t *testing.T) {
	tests := []struct {
		american int64
		want     bool
	}{
		{american: -120, want: true},
		{american: 120, want: true},
		{american: 160, want: false},
		{american: 800, want: false},
	}

	for _, tt := range tests {
		odds := &HomeRunOdds{American: decimal.NewFromInt(tt.american)}
		if got := odds.IsFavorite(); got != tt.want {
			t.Errorf("odds %d: expected favorite %v, got %v", tt.american, tt.want, got)
		}
	}
}

func TestValueAssessment(t *testing.T) {
	// +300 implies a 25% market probability
	odds := &HomeRunOdds{American: decimal.NewFromInt(300)}

	tests := []struct {
		modelProbability float64
		want             string
	}{
		{modelProbability: 0.31, want: "Positive Expected Value"},
		{modelProbability: 0.28, want: "Slight Edge"},
		{modelProbability: 0.19, want: "Negative Expected Value"},
		{modelProbability: 0.24, want: "Fair Market Value"},
	}

	for _, tt := range tests {
		if got := odds.ValueAssessment(tt.modelProbability); got != tt.want {
			t.Errorf("model probability %v: expected %q, got %q", tt.modelProbability, tt.want, got)
		}
	}

	noMarket := &HomeRunOdds{American: decimal.Zero}
	if got := noMarket.ValueAssessment(0.15); got != "No Market Data" {
		t.Errorf("expected 'No Market Data' for zero odds, got %q", got)
	}
}
