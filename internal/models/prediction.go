package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Signal names attached to archived predictions
const (
	SignalBayesian    = "bayesian_performance"
	SignalTrend       = "trend_analysis"
	SignalMarket      = "market_efficiency"
	SignalContextual  = "contextual_factors"
	SignalConsistency = "consistency"
)

// Classification labels ordered from strongest to weakest
const (
	ClassStrongPick      = "High Confidence Strong Pick"
	ClassGoodPick        = "Medium Confidence Good Pick"
	ClassViablePick      = "Moderate Confidence Viable Pick"
	ClassSpeculativePick = "Low Confidence Speculative Pick"
	ClassAvoid           = "Avoid - Poor Statistical Profile"
)

// Pathway labels derived from the dominant signal
const (
	PathwayHotPerformance  = "Hot Performance Pathway"
	PathwayMarketValue     = "Market Value Pathway"
	PathwayHistoricalTrend = "Historical Trend Pathway"
	PathwaySituational     = "Situational Context Pathway"
	PathwayBalanced        = "Balanced Analysis Pathway"
)

// Prediction represents an ensemble home-run confidence estimate for one player
type Prediction struct {
	ID              uuid.UUID          `db:"id" json:"id"`
	PlayerName      string             `db:"player_name" json:"player_name" validate:"required"`
	Team            string             `db:"team" json:"team" validate:"required"`
	GameDate        time.Time          `db:"game_date" json:"game_date" validate:"required"`
	Confidence      float64            `db:"confidence" json:"confidence" validate:"gte=0,lte=100"`
	ConfidenceLower float64            `db:"confidence_lower" json:"confidence_lower"`
	ConfidenceUpper float64            `db:"confidence_upper" json:"confidence_upper"`
	TotalVariance   float64            `db:"total_variance" json:"total_variance" validate:"gte=0"`
	DominantSignal  string             `db:"dominant_signal" json:"dominant_signal"`
	SignalScores    map[string]float64 `db:"signal_scores" json:"signal_scores"`
	Classification  string             `db:"classification" json:"classification"`
	Pathway         string             `db:"pathway" json:"pathway"`
	Reasoning       string             `db:"reasoning" json:"reasoning"`
	OddsAmerican    *string            `db:"odds_american" json:"odds_american,omitempty"`
	MarketValue     string             `db:"market_value" json:"market_value,omitempty"`
	DataQuality     float64            `db:"data_quality" json:"data_quality"`
	RunType         string             `db:"run_type" json:"run_type"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
}

// IntervalWidth returns the width of the confidence interval
func (p *Prediction) IntervalWidth() float64 {
	return p.ConfidenceUpper - p.ConfidenceLower
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// StdError returns the standard error implied by the propagated variance
func (p *Prediction) StdError() float64 {
	return math.Sqrt(p.TotalVariance)
}

// HomeRunProbability converts the confidence score to a home-run probability.
// Sigmoid with steepness 3 centered at a neutral score of 50, capped to a
// plausible per-game range.
func (p *Prediction) HomeRunProbability() float64 {
	normalized := (p.Confidence - 50.0) / 50.0
	probability := 1.0 / (1.0 + math.Exp(-normalized*3.0))
	return clampFloat(probability, 0.01, 0.20)
}

// HitProbability converts the confidence score to a probability of recording a hit
func (p *Prediction) HitProbability() float64 {
	hitProb := 0.15 + (p.Confidence/100.0)*0.35
	return clampFloat(hitProb, 0.15, 0.50)
}

// Classify maps (confidence, variance) to a recommendation tier
func (p *Prediction) Classify() string {
	switch {
	case p.Confidence >= 75 && p.TotalVariance <= 10:
		return ClassStrongPick
	case p.Confidence >= 65 && p.TotalVariance <= 15:
		return ClassGoodPick
	case p.Confidence >= 55:
		return ClassViablePick
	case p.Confidence >= 45:
		return ClassSpeculativePick
	default:
		return ClassAvoid
	}
}

// PathwayLabel maps the dominant signal to a pathway label
func (p *Prediction) PathwayLabel() string {
	switch p.DominantSignal {
	case SignalBayesian:
		return PathwayHotPerformance
	case SignalMarket:
		return PathwayMarketValue
	case SignalTrend:
		return PathwayHistoricalTrend
	case SignalContextual:
		return PathwaySituational
	default:
		return PathwayBalanced
	}
}

// GenerateReasoning assembles a short explanation from the strongest components
func (p *Prediction) GenerateReasoning() string {
	var parts []string

	switch p.DominantSignal {
	case SignalBayesian:
		parts = append(parts, "Strong recent performance metrics")
	case SignalMarket:
		parts = append(parts, "Favorable betting market position")
	case SignalTrend:
		parts = append(parts, "Positive historical trends")
	case SignalContextual:
		parts = append(parts, "Favorable situational context")
	}

	width := p.IntervalWidth()
	if width < 20 {
		parts = append(parts, "high statistical confidence")
	} else if width > 40 {
		parts = append(parts, "moderate uncertainty")
	}

	if p.Confidence >= 70 {
		parts = append(parts, "above-average probability")
	} else if p.Confidence >= 60 {
		parts = append(parts, "moderate opportunity")
	} else if p.Confidence < 50 {
		parts = append(parts, "below-average expectation")
	}

	return fmt.Sprintf("Statistical analysis indicates %s (CI: %.1f-%.1f%%)",
		strings.Join(parts, ", "), p.ConfidenceLower, p.ConfidenceUpper)
}

// ConfidenceBand returns a coarse band label for report tables
func (p *Prediction) ConfidenceBand() string {
	switch {
	case p.Confidence >= 70:
		return "Very High"
	case p.Confidence >= 55:
		return "High"
	case p.Confidence >= 45:
		return "Medium"
	case p.Confidence >= 35:
		return "Low"
	default:
		return "Very Low"
	}
}

// Finalize fills in the derived label fields from the numeric results
func (p *Prediction) Finalize() {
	p.Classification = p.Classify()
	p.Pathway = p.PathwayLabel()
	p.Reasoning = p.GenerateReasoning()
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
