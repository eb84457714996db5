package models

import (
	"math"
	"time"
)

// GameObservation represents a single game line for a player, most recent games first
type GameObservation struct {
	Date           time.Time `db:"game_date" json:"date" validate:"required"`
	AtBats         int       `db:"at_bats" json:"at_bats" validate:"gte=0"`
	Hits           int       `db:"hits" json:"hits" validate:"gte=0"`
	HomeRuns       int       `db:"home_runs" json:"home_runs" validate:"gte=0,lte=1"`
	BattingAverage float64   `db:"batting_average" json:"batting_average" validate:"gte=0"`
	DecayWeight    float64   `db:"decay_weight" json:"decay_weight" validate:"gte=0,lte=1"`
}

// PlayerIdentity pairs a player name with a team code for listing queries
type PlayerIdentity struct {
	PlayerName string `db:"player_name" json:"player_name"`
	Team       string `db:"team" json:"team"`
}

// PlayerRecord holds a player's identity and recent game history for estimation.
// Observations are ordered most recent first. Odds are optional; when present the
// market analysis scores from the real market instead of the batting-average proxy.
type PlayerRecord struct {
	PlayerName         string            `json:"player_name" validate:"required"`
	Team               string            `json:"team" validate:"required"`
	GameDate           time.Time         `json:"game_date"`
	Observations       []GameObservation `json:"observations"`
	RecentHomeRunCount int               `json:"recent_home_run_count" validate:"gte=0"`
	RecentGamesPlayed  int               `json:"recent_games_played" validate:"gte=0"`
	Odds               *HomeRunOdds      `json:"odds,omitempty"`
}

// Recent returns the most recent n observations (the record is ordered newest first)
func (p *PlayerRecord) Recent(n int) []GameObservation {
	if n >= len(p.Observations) {
		return p.Observations
	}
	return p.Observations[:n]
}

// RecentAverage returns the mean batting average across the most recent n games
func (p *PlayerRecord) RecentAverage(n int) float64 {
	obs := p.Recent(n)
	if len(obs) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range obs {
		sum += o.BattingAverage
	}
	return sum / float64(len(obs))
}

// RecentHits returns total hits across the most recent n games
func (p *PlayerRecord) RecentHits(n int) int {
	hits := 0
	for _, o := range p.Recent(n) {
		hits += o.Hits
	}
	return hits
}

// RecentAtBats returns total at-bats across the most recent n games
func (p *PlayerRecord) RecentAtBats(n int) int {
	atBats := 0
	for _, o := range p.Recent(n) {
		atBats += o.AtBats
	}
	return atBats
}

// RecentHomeRuns returns total home runs across the most recent n games
func (p *PlayerRecord) RecentHomeRuns(n int) int {
	homeRuns := 0
	for _, o := range p.Recent(n) {
		homeRuns += o.HomeRuns
	}
	return homeRuns
}

// HasMinimumHistory reports whether at least min observations are available
func (p *PlayerRecord) HasMinimumHistory(min int) bool {
	return len(p.Observations) >= min
}

// DataQuality scores observation coverage on [0,1] relative to the expected window
func (p *PlayerRecord) DataQuality(expectedGames int) float64 {
	if expectedGames <= 0 {
		return 1.0
	}
	quality := float64(len(p.Observations)) / float64(expectedGames)
	if quality > 1.0 {
		return 1.0
	}
	return quality
}

// DecayWeight returns the temporal discount for an observation daysBack games old
func DecayWeight(decayFactor float64, daysBack int) float64 {
	if decayFactor <= 0 || decayFactor > 1 || daysBack < 0 {
		return 1.0
	}
	return math.Pow(decayFactor, float64(daysBack))
}

// ApplyDecayWeights recomputes decay weights by observation age, newest first
func (p *PlayerRecord) ApplyDecayWeights(decayFactor float64) {
	for i := range p.Observations {
		p.Observations[i].DecayWeight = DecayWeight(decayFactor, i)
	}
}
