package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Market band cut points for American home-run odds
var (
	oddsHeavyFavorite = decimal.NewFromInt(150)
	oddsFavorite      = decimal.NewFromInt(250)
	oddsMidRange      = decimal.NewFromInt(400)
	oddsLongShot      = decimal.NewFromInt(600)
	oddsExtreme       = decimal.NewFromInt(800)
	oddsUncertainLow  = decimal.NewFromInt(200)
	oddsUncertainHigh = decimal.NewFromInt(500)
)

// HomeRunOdds represents sportsbook odds for a player hitting a home run
type HomeRunOdds struct {
	PlayerName  string          `db:"player_name" json:"player_name" validate:"required"`
	American    decimal.Decimal `db:"american" json:"american"`
	LastUpdated time.Time       `db:"last_updated" json:"last_updated"`
}

// ParseAmericanOdds parses an American odds string such as "+450" or "-120"
func ParseAmericanOdds(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" {
		return decimal.Zero, ErrInvalidOdds
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrInvalidOdds
	}
	// American odds are never between -100 and 100 exclusive
	if d.Abs().LessThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrInvalidOdds
	}
	return d, nil
}

// NewHomeRunOdds builds a HomeRunOdds from a raw odds string
func NewHomeRunOdds(playerName, raw string) (*HomeRunOdds, error) {
	american, err := ParseAmericanOdds(raw)
	if err != nil {
		return nil, err
	}
	return &HomeRunOdds{
		PlayerName:  playerName,
		American:    american,
		LastUpdated: time.Now(),
	}, nil
}

// ImpliedProbability converts American odds to the market's implied probability
func (o *HomeRunOdds) ImpliedProbability() float64 {
	odds, _ := o.American.Float64()
	if odds > 0 {
		return 1.0 / (odds/100.0 + 1.0)
	}
	if odds < 0 {
		abs := -odds
		return abs / (abs + 100.0)
	}
	return 0
}

// IsFavorite reports whether the market prices this player as a short-odds favorite
func (o *HomeRunOdds) IsFavorite() bool {
	return o.American.LessThanOrEqual(oddsHeavyFavorite) && o.American.GreaterThan(decimal.Zero) ||
		o.American.IsNegative()
}

// MarketBand maps odds into a (base score, variance) pair for market scoring.
// Shorter odds carry higher scores; extreme prices carry lower variance because
// the market consensus is sharper at the ends of the range.
func (o *HomeRunOdds) MarketBand() (score, variance float64) {
	switch {
	case o.American.LessThanOrEqual(oddsHeavyFavorite):
		score = 75
	case o.American.LessThanOrEqual(oddsFavorite):
		score = 65
	case o.American.LessThanOrEqual(oddsMidRange):
		score = 55
	case o.American.LessThanOrEqual(oddsLongShot):
		score = 45
	default:
		score = 35
	}

	switch {
	case o.American.LessThanOrEqual(oddsHeavyFavorite) || o.American.GreaterThanOrEqual(oddsExtreme):
		variance = 6.0
	case o.American.GreaterThanOrEqual(oddsUncertainLow) && o.American.LessThanOrEqual(oddsUncertainHigh):
		variance = 12.0
	default:
		variance = 9.0
	}

	return score, variance
}

// ValueAssessment compares the model probability against the implied market probability
func (o *HomeRunOdds) ValueAssessment(modelProbability float64) string {
	implied := o.ImpliedProbability()
	if implied <= 0 {
		return "No Market Data"
	}

	switch {
	case modelProbability > implied*1.2:
		return "Positive Expected Value"
	case modelProbability > implied*1.1:
		return "Slight Edge"
	case modelProbability < implied*0.8:
		return "Negative Expected Value"
	default:
		return "Fair Market Value"
	}
}
