package ensemble

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/hellraiser/internal/metrics"
	"github.com/yourusername/hellraiser/internal/models"
)

// Estimator runs the full analyzer ensemble over player records. It is safe
// for concurrent use: analyzers are stateless after construction and market
// jitter derives a per-record stream from the base seed.
type Estimator struct {
	cfg        Config
	analyzers  []SignalAnalyzer
	aggregator *Aggregator
	log        *logrus.Entry
}

// NewEstimator validates the configuration, resolves a zero seed to a
// time-based one, and wires the five standard analyzers.
func NewEstimator(cfg Config, log *logrus.Logger) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid estimator config: %w", err)
	}

	aggregator, err := NewAggregator(cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	analyzers := []SignalAnalyzer{
		NewBayesianAnalyzer(cfg.Bayesian, cfg.RecentGamesWindow),
		NewTrendAnalyzer(cfg.Trend, cfg.RecentGamesWindow),
		NewMarketAnalyzer(cfg.Market, cfg.RecentGamesWindow, seed),
		NewContextualAnalyzer(cfg.Contextual, cfg.RecentGamesWindow),
		NewConsistencyAnalyzer(cfg.Consistency),
	}

	return &Estimator{
		cfg:        cfg,
		analyzers:  analyzers,
		aggregator: aggregator,
		log:        log.WithField("component", "ensemble"),
	}, nil
}

// Analyzers returns the wired analyzer set, mainly for introspection.
func (e *Estimator) Analyzers() []SignalAnalyzer {
	return e.analyzers
}

// Evaluate runs every analyzer concurrently, aggregates the results, and
// applies the data-quality adjustment before labeling the prediction.
func (e *Estimator) Evaluate(ctx context.Context, record *models.PlayerRecord) (*models.Prediction, error) {
	start := time.Now()
	results := make([]SignalResult, len(e.analyzers))

	g, gctx := errgroup.WithContext(ctx)
	for i, analyzer := range e.analyzers {
		g.Go(func() error {
			analyzerStart := time.Now()
			result, err := analyzer.Evaluate(gctx, record)
			if err != nil {
				return fmt.Errorf("%s analyzer: %w", analyzer.Name(), err)
			}
			metrics.ObserveAnalyzerDuration(analyzer.Name(), time.Since(analyzerStart).Seconds())
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aggregate, err := e.aggregator.Aggregate(results)
	if err != nil {
		return nil, err
	}

	confidence := aggregate.Confidence
	totalVariance := aggregate.TotalVariance
	lower, upper := aggregate.Lower, aggregate.Upper

	quality := record.DataQuality(e.cfg.RecentGamesWindow)
	if e.cfg.QualityAdjustment && quality > 0 && quality < 1.0 {
		// thin coverage pulls the estimate toward neutral and widens
		// the interval
		confidence = confidence*quality + e.cfg.NeutralConfidence*(1.0-quality)
		totalVariance = totalVariance / quality
		lower, upper = e.aggregator.interval(confidence, totalVariance)
	}

	prediction := &models.Prediction{
		PlayerName:      record.PlayerName,
		Team:            record.Team,
		GameDate:        record.GameDate,
		Confidence:      confidence,
		ConfidenceLower: lower,
		ConfidenceUpper: upper,
		TotalVariance:   totalVariance,
		DominantSignal:  aggregate.DominantSignal,
		SignalScores:    aggregate.SignalScores,
		DataQuality:     quality,
	}

	if record.Odds != nil {
		american := record.Odds.American.String()
		prediction.OddsAmerican = &american
		prediction.MarketValue = record.Odds.ValueAssessment(prediction.HomeRunProbability())
	}

	prediction.Finalize()

	metrics.ObserveEstimationDuration(time.Since(start).Seconds())
	e.log.WithFields(logrus.Fields{
		"player":     record.PlayerName,
		"team":       record.Team,
		"confidence": prediction.Confidence,
		"dominant":   prediction.DominantSignal,
	}).Debug("Prediction computed")

	return prediction, nil
}

// EvaluateBatch evaluates each record with bounded parallelism and then
// damps same-team pile-ups. Output order matches input order.
func (e *Estimator) EvaluateBatch(ctx context.Context, records []*models.PlayerRecord) ([]*models.Prediction, error) {
	if len(records) == 0 {
		return nil, nil
	}

	start := time.Now()
	predictions := make([]*models.Prediction, len(records))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.cfg.MaxParallel
	if limit <= 0 {
		limit = defaultMaxParallel
	}
	g.SetLimit(limit)

	for i, record := range records {
		g.Go(func() error {
			prediction, err := e.Evaluate(gctx, record)
			if err != nil {
				return fmt.Errorf("evaluating %s: %w", record.PlayerName, err)
			}
			predictions[i] = prediction
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.adjustTeams(predictions)

	metrics.ObserveBatch(len(records), time.Since(start).Seconds())
	e.log.WithFields(logrus.Fields{
		"records":  len(records),
		"duration": time.Since(start),
	}).Info("Batch evaluation complete")

	return predictions, nil
}

// adjustTeams pulls teammates' confidence toward their team mean so one hot
// lineup does not sweep the board, then rebuilds intervals and labels from
// the adjusted numbers.
func (e *Estimator) adjustTeams(predictions []*models.Prediction) {
	pull := e.cfg.TeamPullFraction
	if pull <= 0 || len(predictions) < 2 {
		return
	}

	byTeam := make(map[string][]*models.Prediction)
	for _, p := range predictions {
		byTeam[p.Team] = append(byTeam[p.Team], p)
	}

	for _, teammates := range byTeam {
		if len(teammates) < 2 {
			continue
		}

		total := 0.0
		for _, p := range teammates {
			total += p.Confidence
		}
		teamMean := total / float64(len(teammates))

		for _, p := range teammates {
			p.Confidence = p.Confidence*(1.0-pull) + teamMean*pull
			p.ConfidenceLower, p.ConfidenceUpper = e.aggregator.interval(p.Confidence, p.TotalVariance)
			p.Finalize()
		}
	}
}
