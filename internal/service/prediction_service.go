package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/config"
	"github.com/yourusername/hellraiser/internal/datasource"
	"github.com/yourusername/hellraiser/internal/ensemble"
	"github.com/yourusername/hellraiser/internal/logger"
	"github.com/yourusername/hellraiser/internal/metrics"
	"github.com/yourusername/hellraiser/internal/models"
	"github.com/yourusername/hellraiser/internal/repository"
)

// SlateResult summarizes one slate evaluation run
type SlateResult struct {
	GameDate  time.Time
	RunType   string
	Evaluated int
	Rejected  int
	Picks     []*models.Prediction
	CacheHit  bool
	Duration  time.Duration
}

// PredictionService orchestrates the slate workflow: fetch or load player
// records, normalize and validate them, run the ensemble, surface picks over
// the confidence threshold and archive the full run.
type PredictionService struct {
	cfg           *config.Config
	source        datasource.PlayerSource
	estimator     *ensemble.Estimator
	repos         *repository.Repositories
	validator     *DataValidator
	normalizer    *DataNormalizer
	cache         *PredictionCache
	fingerprint   string
	log           *logrus.Entry
	predictionLog *logger.PredictionLogger
	auditLog      *logger.AuditLogger
}

// NewPredictionService creates a new prediction service. A nil repositories
// container disables the archive and stored-slate paths.
func NewPredictionService(
	cfg *config.Config,
	source datasource.PlayerSource,
	estimator *ensemble.Estimator,
	repos *repository.Repositories,
	log *logrus.Logger,
) *PredictionService {
	var predictionCache *PredictionCache
	if cfg.Cache.Enabled {
		predictionCache = NewPredictionCache(
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
		)
	}

	metrics.UpdateActiveAnalyzers(float64(len(estimator.Analyzers())))

	return &PredictionService{
		cfg:           cfg,
		source:        source,
		estimator:     estimator,
		repos:         repos,
		validator:     NewDataValidator(log),
		normalizer:    NewDataNormalizer(cfg.Ensemble.DecayFactor, log),
		cache:         predictionCache,
		fingerprint:   ConfigFingerprint(cfg.Ensemble),
		log:           log.WithField("component", "prediction_service"),
		predictionLog: logger.NewPredictionLogger(log),
		auditLog:      logger.NewAuditLogger(log),
	}
}

// RunSlate fetches the slate for a game date from the configured source,
// evaluates every playable record and returns the surfaced picks.
func (s *PredictionService) RunSlate(ctx context.Context, gameDate time.Time) (*SlateResult, error) {
	start := time.Now()
	runType := s.cfg.Prediction.RunType
	gameDate = s.normalizer.NormalizeGameDate(gameDate)

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.DataSource.TimeoutSeconds)*time.Second)
	defer cancel()

	slate, err := s.source.FetchSlate(fetchCtx, gameDate)
	if err != nil {
		return nil, fmt.Errorf("fetching slate from %s: %w", s.source.Name(), err)
	}

	s.auditLog.LogRunStarted(runType, s.cfg.Ensemble.Seed, len(slate), start)

	records, rejected := s.prepareRecords(slate)
	result, err := s.runEnsemble(ctx, start, gameDate, runType, records, rejected)
	if err != nil {
		return nil, err
	}

	s.persistGameLogs(ctx, records)
	return result, nil
}

// RunStoredSlate evaluates every player already present in the game log
// archive for a game date, optionally filtered to one team. Only logs dated
// before the slate day feed the estimate, so past dates replay faithfully.
func (s *PredictionService) RunStoredSlate(ctx context.Context, gameDate time.Time, team string) (*SlateResult, error) {
	if s.repos == nil {
		return nil, fmt.Errorf("stored slate evaluation requires the archive repositories")
	}

	start := time.Now()
	runType := s.cfg.Prediction.RunType
	gameDate = s.normalizer.NormalizeGameDate(gameDate)

	players, err := s.repos.Observation.ListPlayers(ctx, s.normalizer.NormalizeTeam(team))
	if err != nil {
		return nil, fmt.Errorf("listing archived players: %w", err)
	}

	s.auditLog.LogRunStarted(runType, s.cfg.Ensemble.Seed, len(players), start)

	records := make([]*models.PlayerRecord, 0, len(players))
	rejected := 0
	for _, player := range players {
		record, err := s.repos.Observation.GetPlayerRecord(
			ctx, player.PlayerName, player.Team, gameDate, s.cfg.Ensemble.RecentGamesWindow)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("loading record for %s: %w", player.PlayerName, err)
		}

		record.ApplyDecayWeights(s.cfg.Ensemble.DecayFactor)
		if !s.admitRecord(record) {
			rejected++
			continue
		}
		records = append(records, record)
	}

	return s.runEnsemble(ctx, start, gameDate, runType, records, rejected)
}

// PredictPlayer evaluates a single player fetched from the configured source
func (s *PredictionService) PredictPlayer(ctx context.Context, playerName string, gameDate time.Time) (*models.Prediction, error) {
	name := s.normalizer.NormalizePlayerName(playerName)
	gameDate = s.normalizer.NormalizeGameDate(gameDate)

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.DataSource.TimeoutSeconds)*time.Second)
	defer cancel()

	data, err := s.source.FetchPlayer(fetchCtx, name, gameDate)
	if err != nil {
		return nil, fmt.Errorf("fetching player %s: %w", name, err)
	}

	record, err := s.normalizer.NormalizePlayer(data)
	if err != nil {
		return nil, fmt.Errorf("normalizing player %s: %w", name, err)
	}

	if validationErrors := s.validator.ValidateRecord(record); len(validationErrors) > 0 {
		return nil, fmt.Errorf("player %s failed validation: %s", name, strings.Join(validationErrors, "; "))
	}

	prediction, err := s.estimator.Evaluate(ctx, record)
	if err != nil {
		return nil, err
	}

	stampRun([]*models.Prediction{prediction}, s.cfg.Prediction.RunType)
	return prediction, nil
}

// PurgeArchive removes archived predictions and game logs older than the
// retention window and returns the number of rows removed.
func (s *PredictionService) PurgeArchive(ctx context.Context, olderThanDays int) (int64, error) {
	if s.repos == nil {
		return 0, fmt.Errorf("archive purge requires the archive repositories")
	}
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("retention must be a positive number of days, got %d", olderThanDays)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	removedPredictions, err := s.repos.Prediction.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging predictions: %w", err)
	}

	removedLogs, err := s.repos.Observation.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return removedPredictions, fmt.Errorf("purging game logs: %w", err)
	}

	removed := removedPredictions + removedLogs
	s.auditLog.LogArchivePurge(olderThanDays, removed)
	return removed, nil
}

// CacheStats reports cache hit/miss counts, or zeros when caching is off
func (s *PredictionService) CacheStats() (hits, misses uint64, ratio float64) {
	if s.cache == nil {
		return 0, 0, 0
	}
	return s.cache.Stats()
}

// prepareRecords normalizes and validates a raw slate, logging rejections
func (s *PredictionService) prepareRecords(slate []datasource.PlayerData) ([]*models.PlayerRecord, int) {
	records := make([]*models.PlayerRecord, 0, len(slate))
	rejected := 0

	for i := range slate {
		record, err := s.normalizer.NormalizePlayer(&slate[i])
		if err != nil {
			s.auditLog.LogRecordRejection(slate[i].PlayerName, slate[i].Team, err.Error())
			rejected++
			continue
		}

		if !s.admitRecord(record) {
			rejected++
			continue
		}
		records = append(records, record)
	}

	return records, rejected
}

// admitRecord validates one record and emits the data-quality warning
func (s *PredictionService) admitRecord(record *models.PlayerRecord) bool {
	if validationErrors := s.validator.ValidateRecord(record); len(validationErrors) > 0 {
		s.auditLog.LogRecordRejection(record.PlayerName, record.Team, strings.Join(validationErrors, "; "))
		return false
	}

	window := s.cfg.Ensemble.RecentGamesWindow
	if quality := record.DataQuality(window); quality < 1.0 {
		s.predictionLog.LogDataQualityWarning(record.PlayerName, len(record.Observations), window, quality)
	}
	return true
}

// runEnsemble evaluates prepared records and produces the ranked slate result
func (s *PredictionService) runEnsemble(ctx context.Context, start time.Time, gameDate time.Time, runType string, records []*models.PlayerRecord, rejected int) (*SlateResult, error) {
	if len(records) == 0 {
		duration := time.Since(start)
		s.auditLog.LogRunCompleted(runType, 0, 0, float64(duration.Milliseconds()))
		return &SlateResult{GameDate: gameDate, RunType: runType, Rejected: rejected, Duration: duration}, nil
	}

	predictions, cacheHit, err := s.evaluateRecords(ctx, records)
	if err != nil {
		return nil, err
	}

	stampRun(predictions, runType)
	s.logMarketComparisons(records, predictions)

	slateMean := meanConfidence(predictions)
	metrics.UpdateBatchConfidenceMean(slateMean)

	threshold := s.cfg.Prediction.ConfidenceThreshold
	picks := make([]*models.Prediction, 0, len(predictions))
	for _, prediction := range predictions {
		if prediction.MeetsThreshold(threshold) {
			picks = append(picks, prediction)
		}
	}
	s.predictionLog.LogThresholdFilter(runType, len(predictions), len(picks), threshold)

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Confidence > picks[j].Confidence
	})
	if len(picks) > s.cfg.Prediction.MaxPicks {
		picks = picks[:s.cfg.Prediction.MaxPicks]
	}

	for _, pick := range picks {
		s.predictionLog.LogPick(pick.PlayerName, pick.Team, pick.Classification, pick.Pathway,
			pick.DominantSignal, pick.Confidence, pick.ConfidenceLower, pick.ConfidenceUpper)
		metrics.RecordPredictionOutcome(pick.Classification, pick.DominantSignal, runType, pick.Confidence)
	}

	archived := s.archivePredictions(ctx, runType, predictions)

	duration := time.Since(start)
	s.auditLog.LogRunCompleted(runType, len(picks), archived, float64(duration.Milliseconds()))
	s.predictionLog.LogSlateEvaluation(runType, len(predictions), len(picks), slateMean, float64(duration.Milliseconds()))

	return &SlateResult{
		GameDate:  gameDate,
		RunType:   runType,
		Evaluated: len(predictions),
		Rejected:  rejected,
		Picks:     picks,
		CacheHit:  cacheHit,
		Duration:  duration,
	}, nil
}

// evaluateRecords returns cached predictions when the whole slate is covered,
// otherwise evaluates the full batch and refreshes the cache. Team damping is
// a cross-batch adjustment, so mixing cached and fresh entries would change
// the numbers; the cache is all-or-nothing per slate.
func (s *PredictionService) evaluateRecords(ctx context.Context, records []*models.PlayerRecord) ([]*models.Prediction, bool, error) {
	if s.cache != nil {
		cached := make([]*models.Prediction, len(records))
		complete := true
		for i, record := range records {
			prediction := s.cache.Get(s.cacheKey(record))
			if prediction == nil {
				complete = false
				break
			}
			cached[i] = prediction
		}
		if complete {
			return cached, true, nil
		}
	}

	predictions, err := s.estimator.EvaluateBatch(ctx, records)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		for i, record := range records {
			s.cache.Set(s.cacheKey(record), predictions[i])
		}
	}

	return predictions, false, nil
}

// archivePredictions persists the full evaluated slate when archiving is on
func (s *PredictionService) archivePredictions(ctx context.Context, runType string, predictions []*models.Prediction) int {
	if !s.cfg.Prediction.ArchiveEnabled || s.repos == nil {
		return 0
	}

	if err := s.repos.Prediction.InsertBatch(ctx, predictions); err != nil {
		s.log.WithError(err).Warn("Failed to archive slate predictions")
		s.predictionLog.LogArchiveResult(runType, 0, len(predictions))
		return 0
	}

	for range predictions {
		metrics.RecordPredictionArchived()
	}
	s.predictionLog.LogArchiveResult(runType, len(predictions), 0)
	return len(predictions)
}

// persistGameLogs upserts fetched observations so stored-slate runs and
// replays can rebuild records without the original source.
func (s *PredictionService) persistGameLogs(ctx context.Context, records []*models.PlayerRecord) {
	if s.repos == nil {
		return
	}

	for _, record := range records {
		err := s.repos.Observation.UpsertGameLogs(ctx, record.PlayerName, record.Team, record.Observations)
		if err != nil {
			s.log.WithError(err).WithField("player", record.PlayerName).Warn("Failed to persist game logs")
		}
	}
}

// logMarketComparisons logs model-versus-market lines for priced records
func (s *PredictionService) logMarketComparisons(records []*models.PlayerRecord, predictions []*models.Prediction) {
	for i, prediction := range predictions {
		if records[i].Odds == nil || prediction.OddsAmerican == nil {
			continue
		}
		s.predictionLog.LogMarketComparison(
			prediction.PlayerName,
			*prediction.OddsAmerican,
			records[i].Odds.ImpliedProbability(),
			prediction.HomeRunProbability(),
			prediction.MarketValue,
		)
		metrics.RecordMarketAssessment(prediction.MarketValue)
	}
}

// cacheKey builds the cache key for one record under the active config
func (s *PredictionService) cacheKey(record *models.PlayerRecord) CacheKey {
	return CacheKey{
		PlayerName:  record.PlayerName,
		Team:        record.Team,
		GameDate:    record.GameDate.Format("2006-01-02"),
		Fingerprint: s.fingerprint,
	}
}

// stampRun assigns run identity to freshly evaluated or cached predictions
func stampRun(predictions []*models.Prediction, runType string) {
	now := time.Now().UTC()
	for _, prediction := range predictions {
		prediction.ID = uuid.New()
		prediction.RunType = runType
		prediction.CreatedAt = now
	}
}

// meanConfidence averages confidence across a slate
func meanConfidence(predictions []*models.Prediction) float64 {
	if len(predictions) == 0 {
		return 0
	}
	total := 0.0
	for _, prediction := range predictions {
		total += prediction.Confidence
	}
	return total / float64(len(predictions))
}
