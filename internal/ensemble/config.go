package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/hellraiser/internal/models"
)

// weightSumTolerance bounds the accepted drift of the weight sum from 1.0.
const weightSumTolerance = 1e-9

// defaultMaxParallel caps concurrent batch evaluations when the config
// leaves MaxParallel unset.
const defaultMaxParallel = 8

// Weights maps each signal name to its share of the blended confidence.
type Weights map[string]float64

// Sum returns the total of all configured weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate rejects weight sets that are empty, non-finite, negative, or that
// do not sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return ErrNoWeights
	}
	for name, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidWeight, name, v)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s is %v", ErrNegativeWeight, name, v)
		}
	}
	if diff := math.Abs(w.Sum() - 1.0); diff > weightSumTolerance {
		return fmt.Errorf("%w: got %v", ErrWeightSum, w.Sum())
	}
	return nil
}

// BayesianConfig tunes the Beta-Binomial performance analyzer.
type BayesianConfig struct {
	PriorAlpha        float64 `mapstructure:"prior_alpha" json:"prior_alpha" validate:"gt=0"`
	PriorBeta         float64 `mapstructure:"prior_beta" json:"prior_beta" validate:"gt=0"`
	LeagueHomeRunRate float64 `mapstructure:"league_home_run_rate" json:"league_home_run_rate" validate:"gt=0"`
	BaseScore         float64 `mapstructure:"base_score" json:"base_score"`
	RateScale         float64 `mapstructure:"rate_scale" json:"rate_scale"`
	PowerBonusPerHR   float64 `mapstructure:"power_bonus_per_hr" json:"power_bonus_per_hr"`
	PowerBonusCap     float64 `mapstructure:"power_bonus_cap" json:"power_bonus_cap"`
	ScoreMin          float64 `mapstructure:"score_min" json:"score_min"`
	ScoreMax          float64 `mapstructure:"score_max" json:"score_max"`
	VarianceScale     float64 `mapstructure:"variance_scale" json:"variance_scale"`
	VarianceFloor     float64 `mapstructure:"variance_floor" json:"variance_floor" validate:"gt=0"`
}

// TrendConfig tunes the recency-weighted trend analyzer.
type TrendConfig struct {
	MinObservations  int     `mapstructure:"min_observations" json:"min_observations" validate:"gte=2"`
	NeutralScore     float64 `mapstructure:"neutral_score" json:"neutral_score"`
	HomeRunWeight    float64 `mapstructure:"home_run_weight" json:"home_run_weight"`
	PerformanceScale float64 `mapstructure:"performance_scale" json:"performance_scale"`
	TrendImpact      float64 `mapstructure:"trend_impact" json:"trend_impact"`
	ScoreMin         float64 `mapstructure:"score_min" json:"score_min"`
	ScoreMax         float64 `mapstructure:"score_max" json:"score_max"`
	VarianceBase     float64 `mapstructure:"variance_base" json:"variance_base"`
	VarianceFloor    float64 `mapstructure:"variance_floor" json:"variance_floor" validate:"gt=0"`
}

// MarketTier maps a batting-quality cutoff to a market score and variance.
// Tiers are evaluated in order; the first tier whose MinQuality is exceeded
// wins, so they must be sorted from strongest to weakest.
type MarketTier struct {
	MinQuality float64 `mapstructure:"min_quality" json:"min_quality"`
	Score      float64 `mapstructure:"score" json:"score"`
	Variance   float64 `mapstructure:"variance" json:"variance" validate:"gt=0"`
}

// MarketConfig tunes the market-efficiency analyzer.
type MarketConfig struct {
	BaselineAverage float64      `mapstructure:"baseline_average" json:"baseline_average"`
	QualityRange    float64      `mapstructure:"quality_range" json:"quality_range" validate:"gt=0"`
	JitterStdDev    float64      `mapstructure:"jitter_std_dev" json:"jitter_std_dev" validate:"gte=0"`
	Tiers           []MarketTier `mapstructure:"tiers" json:"tiers"`
	ScoreMin        float64      `mapstructure:"score_min" json:"score_min"`
	ScoreMax        float64      `mapstructure:"score_max" json:"score_max"`
}

// ContextualConfig tunes the situational context analyzer.
type ContextualConfig struct {
	BaseScore          float64  `mapstructure:"base_score" json:"base_score"`
	StrongOffenseTeams []string `mapstructure:"strong_offense_teams" json:"strong_offense_teams"`
	StrongOffenseBonus float64  `mapstructure:"strong_offense_bonus" json:"strong_offense_bonus"`
	HotPowerThreshold  int      `mapstructure:"hot_power_threshold" json:"hot_power_threshold"`
	HotPowerBonus      float64  `mapstructure:"hot_power_bonus" json:"hot_power_bonus"`
	ColdPowerPenalty   float64  `mapstructure:"cold_power_penalty" json:"cold_power_penalty"`
	HighAverage        float64  `mapstructure:"high_average" json:"high_average"`
	HighAverageBonus   float64  `mapstructure:"high_average_bonus" json:"high_average_bonus"`
	LowAverage         float64  `mapstructure:"low_average" json:"low_average"`
	LowAveragePenalty  float64  `mapstructure:"low_average_penalty" json:"low_average_penalty"`
	ScoreMin           float64  `mapstructure:"score_min" json:"score_min"`
	ScoreMax           float64  `mapstructure:"score_max" json:"score_max"`
	Variance           float64  `mapstructure:"variance" json:"variance" validate:"gt=0"`
}

// ConsistencyConfig tunes the sample-size reliability analyzer.
type ConsistencyConfig struct {
	VeteranGames    int     `mapstructure:"veteran_games" json:"veteran_games" validate:"gt=0"`
	VeteranScore    float64 `mapstructure:"veteran_score" json:"veteran_score"`
	VeteranVariance float64 `mapstructure:"veteran_variance" json:"veteran_variance" validate:"gt=0"`
	RegularGames    int     `mapstructure:"regular_games" json:"regular_games" validate:"gt=0"`
	RegularScore    float64 `mapstructure:"regular_score" json:"regular_score"`
	RegularVariance float64 `mapstructure:"regular_variance" json:"regular_variance" validate:"gt=0"`
	LimitedScore    float64 `mapstructure:"limited_score" json:"limited_score"`
	LimitedVariance float64 `mapstructure:"limited_variance" json:"limited_variance" validate:"gt=0"`
}

// Config carries every tunable of the estimation pipeline. Zero values are
// not usable; start from DefaultConfig and override.
type Config struct {
	Weights           Weights `mapstructure:"weights" json:"weights"`
	RecentGamesWindow int     `mapstructure:"recent_games_window" json:"recent_games_window" validate:"gt=0"`
	MinTotalVariance  float64 `mapstructure:"min_total_variance" json:"min_total_variance" validate:"gt=0"`
	IntervalZScore    float64 `mapstructure:"interval_z_score" json:"interval_z_score" validate:"gt=0"`
	BoundsMin         float64 `mapstructure:"bounds_min" json:"bounds_min"`
	BoundsMax         float64 `mapstructure:"bounds_max" json:"bounds_max"`
	NeutralConfidence float64 `mapstructure:"neutral_confidence" json:"neutral_confidence"`
	QualityAdjustment bool    `mapstructure:"quality_adjustment" json:"quality_adjustment"`
	TeamPullFraction  float64 `mapstructure:"team_pull_fraction" json:"team_pull_fraction" validate:"gte=0,lte=1"`
	DecayFactor       float64 `mapstructure:"decay_factor" json:"decay_factor" validate:"gt=0,lte=1"`
	Seed              int64   `mapstructure:"seed" json:"seed"`
	MaxParallel       int     `mapstructure:"max_parallel" json:"max_parallel" validate:"gte=0"`

	Bayesian    BayesianConfig    `mapstructure:"bayesian" json:"bayesian"`
	Trend       TrendConfig       `mapstructure:"trend" json:"trend"`
	Market      MarketConfig      `mapstructure:"market" json:"market"`
	Contextual  ContextualConfig  `mapstructure:"contextual" json:"contextual"`
	Consistency ConsistencyConfig `mapstructure:"consistency" json:"consistency"`
}

// DefaultWeights returns the production signal weighting.
func DefaultWeights() Weights {
	return Weights{
		models.SignalBayesian:    0.30,
		models.SignalTrend:       0.25,
		models.SignalMarket:      0.20,
		models.SignalContextual:  0.15,
		models.SignalConsistency: 0.10,
	}
}

// DefaultBayesianConfig returns priors calibrated to the league home-run
// rate of roughly 3.5% per at-bat.
func DefaultBayesianConfig() BayesianConfig {
	return BayesianConfig{
		PriorAlpha:        35.0,
		PriorBeta:         965.0,
		LeagueHomeRunRate: 0.035,
		BaseScore:         25.0,
		RateScale:         35.0,
		PowerBonusPerHR:   4.0,
		PowerBonusCap:     25.0,
		ScoreMin:          20.0,
		ScoreMax:          95.0,
		VarianceScale:     8000.0,
		VarianceFloor:     12.0,
	}
}

// DefaultTrendConfig returns the production trend settings.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		MinObservations:  3,
		NeutralScore:     50.0,
		HomeRunWeight:    0.4,
		PerformanceScale: 90.0,
		TrendImpact:      25.0,
		ScoreMin:         20.0,
		ScoreMax:         90.0,
		VarianceBase:     20.0,
		VarianceFloor:    12.0,
	}
}

// DefaultMarketConfig returns the production market settings. The fallback
// tier has no lower cutoff so every quality value lands somewhere.
func DefaultMarketConfig() MarketConfig {
	return MarketConfig{
		BaselineAverage: 0.200,
		QualityRange:    0.100,
		JitterStdDev:    5.0,
		Tiers: []MarketTier{
			{MinQuality: 0.8, Score: 70.0, Variance: 8.0},
			{MinQuality: 0.5, Score: 60.0, Variance: 12.0},
			{MinQuality: 0.2, Score: 50.0, Variance: 15.0},
			{MinQuality: math.Inf(-1), Score: 40.0, Variance: 10.0},
		},
		ScoreMin: 30.0,
		ScoreMax: 85.0,
	}
}

// DefaultContextualConfig returns the production situational settings.
func DefaultContextualConfig() ContextualConfig {
	return ContextualConfig{
		BaseScore:          50.0,
		StrongOffenseTeams: []string{"NYY", "LAD", "ATL", "HOU"},
		StrongOffenseBonus: 5.0,
		HotPowerThreshold:  3,
		HotPowerBonus:      8.0,
		ColdPowerPenalty:   5.0,
		HighAverage:        0.300,
		HighAverageBonus:   6.0,
		LowAverage:         0.220,
		LowAveragePenalty:  4.0,
		ScoreMin:           30.0,
		ScoreMax:           85.0,
		Variance:           10.0,
	}
}

// DefaultConsistencyConfig returns the production sample-size tiers.
func DefaultConsistencyConfig() ConsistencyConfig {
	return ConsistencyConfig{
		VeteranGames:    20,
		VeteranScore:    65.0,
		VeteranVariance: 6.0,
		RegularGames:    15,
		RegularScore:    55.0,
		RegularVariance: 8.0,
		LimitedScore:    45.0,
		LimitedVariance: 12.0,
	}
}

// DefaultConfig returns the full production configuration. Seed is left at
// zero so each run draws fresh market jitter; fix it for reproducible runs.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		RecentGamesWindow: 10,
		MinTotalVariance:  4.0,
		IntervalZScore:    1.96,
		BoundsMin:         20.0,
		BoundsMax:         95.0,
		NeutralConfidence: 50.0,
		QualityAdjustment: true,
		TeamPullFraction:  0.10,
		DecayFactor:       0.85,
		Seed:              0,
		MaxParallel:       defaultMaxParallel,
		Bayesian:          DefaultBayesianConfig(),
		Trend:             DefaultTrendConfig(),
		Market:            DefaultMarketConfig(),
		Contextual:        DefaultContextualConfig(),
		Consistency:       DefaultConsistencyConfig(),
	}
}

// Validate checks the full configuration and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.RecentGamesWindow <= 0 {
		return fmt.Errorf("recent games window must be positive, got %d", c.RecentGamesWindow)
	}
	if c.MinTotalVariance <= 0 {
		return fmt.Errorf("%w: min total variance %v", ErrVarianceFloor, c.MinTotalVariance)
	}
	if c.IntervalZScore <= 0 {
		return fmt.Errorf("interval z-score must be positive, got %v", c.IntervalZScore)
	}
	if c.BoundsMin >= c.BoundsMax {
		return fmt.Errorf("%w: bounds [%v, %v]", ErrScoreBounds, c.BoundsMin, c.BoundsMax)
	}
	if c.TeamPullFraction < 0 || c.TeamPullFraction > 1 {
		return fmt.Errorf("team pull fraction must be within [0, 1], got %v", c.TeamPullFraction)
	}
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return fmt.Errorf("decay factor must be within (0, 1], got %v", c.DecayFactor)
	}
	if c.MaxParallel < 0 {
		return fmt.Errorf("max parallel must be non-negative, got %d", c.MaxParallel)
	}
	if err := c.Bayesian.validate(); err != nil {
		return fmt.Errorf("bayesian: %w", err)
	}
	if err := c.Trend.validate(); err != nil {
		return fmt.Errorf("trend: %w", err)
	}
	if err := c.Market.validate(); err != nil {
		return fmt.Errorf("market: %w", err)
	}
	if err := c.Contextual.validate(); err != nil {
		return fmt.Errorf("contextual: %w", err)
	}
	if err := c.Consistency.validate(); err != nil {
		return fmt.Errorf("consistency: %w", err)
	}
	return nil
}

func (c *BayesianConfig) validate() error {
	if c.PriorAlpha <= 0 || c.PriorBeta <= 0 {
		return fmt.Errorf("priors must be positive, got alpha=%v beta=%v", c.PriorAlpha, c.PriorBeta)
	}
	if c.LeagueHomeRunRate <= 0 {
		return fmt.Errorf("league home-run rate must be positive, got %v", c.LeagueHomeRunRate)
	}
	if c.VarianceFloor <= 0 {
		return fmt.Errorf("%w: %v", ErrVarianceFloor, c.VarianceFloor)
	}
	if c.ScoreMin >= c.ScoreMax {
		return fmt.Errorf("%w: [%v, %v]", ErrScoreBounds, c.ScoreMin, c.ScoreMax)
	}
	return nil
}

func (c *TrendConfig) validate() error {
	if c.MinObservations < 2 {
		return fmt.Errorf("min observations must be at least 2, got %d", c.MinObservations)
	}
	if c.VarianceFloor <= 0 {
		return fmt.Errorf("%w: %v", ErrVarianceFloor, c.VarianceFloor)
	}
	if c.ScoreMin >= c.ScoreMax {
		return fmt.Errorf("%w: [%v, %v]", ErrScoreBounds, c.ScoreMin, c.ScoreMax)
	}
	return nil
}

func (c *MarketConfig) validate() error {
	if c.QualityRange <= 0 {
		return fmt.Errorf("quality range must be positive, got %v", c.QualityRange)
	}
	if c.JitterStdDev < 0 {
		return fmt.Errorf("jitter std dev must be non-negative, got %v", c.JitterStdDev)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one market tier is required")
	}
	for i, tier := range c.Tiers {
		if tier.Variance <= 0 {
			return fmt.Errorf("%w: tier %d variance %v", ErrVarianceFloor, i, tier.Variance)
		}
	}
	if c.ScoreMin >= c.ScoreMax {
		return fmt.Errorf("%w: [%v, %v]", ErrScoreBounds, c.ScoreMin, c.ScoreMax)
	}
	return nil
}

func (c *ContextualConfig) validate() error {
	if c.Variance <= 0 {
		return fmt.Errorf("%w: %v", ErrVarianceFloor, c.Variance)
	}
	if c.ScoreMin >= c.ScoreMax {
		return fmt.Errorf("%w: [%v, %v]", ErrScoreBounds, c.ScoreMin, c.ScoreMax)
	}
	return nil
}

func (c *ConsistencyConfig) validate() error {
	if c.VeteranGames <= 0 || c.RegularGames <= 0 {
		return fmt.Errorf("tier game counts must be positive, got veteran=%d regular=%d", c.VeteranGames, c.RegularGames)
	}
	if c.VeteranGames <= c.RegularGames {
		return fmt.Errorf("veteran tier %d must require more games than regular tier %d", c.VeteranGames, c.RegularGames)
	}
	if c.VeteranVariance <= 0 || c.RegularVariance <= 0 || c.LimitedVariance <= 0 {
		return fmt.Errorf("%w: tier variances %v/%v/%v", ErrVarianceFloor, c.VeteranVariance, c.RegularVariance, c.LimitedVariance)
	}
	return nil
}
