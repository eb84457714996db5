package ensemble

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/models"
)

func testEnsembleLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEstimator(t *testing.T, cfg Config) *Estimator {
	t.Helper()
	estimator, err := NewEstimator(cfg, testEnsembleLogger())
	if err != nil {
		t.Fatalf("estimator construction failed: %v", err)
	}
	return estimator
}

// sluggerRecord is a strong profile: improving averages, recent power,
// a veteran sample size and a strong-offense team.
func sluggerRecord(name string) *models.PlayerRecord {
	record := testRecord(name, "NYY", slidingObservations(10, 0.380, 0.018))
	record.Observations[0].HomeRuns = 1
	record.Observations[1].HomeRuns = 1
	record.Observations[2].HomeRuns = 1
	record.Observations[4].HomeRuns = 1
	record.Observations[6].HomeRuns = 1
	record.RecentHomeRunCount = 5
	record.RecentGamesPlayed = 25
	return record
}

// benchRecord is a weak profile: thin history, no power, low averages.
func benchRecord(name string) *models.PlayerRecord {
	record := testRecord(name, "MIA", slidingObservations(8, 0.180, 0.004))
	record.RecentGamesPlayed = 8
	return record
}

func TestNewEstimatorValidatesConfig(t *testing.T) {
	if _, err := NewEstimator(DefaultConfig(), testEnsembleLogger()); err != nil {
		t.Fatalf("default config should construct, got %v", err)
	}

	broken := DefaultConfig()
	broken.Weights = Weights{"a": 0.5}
	if _, err := NewEstimator(broken, testEnsembleLogger()); err == nil {
		t.Fatalf("expected construction to fail on bad weights")
	}
}

func TestEvaluateIsDeterministicWithFixedSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	first := newTestEstimator(t, cfg)
	second := newTestEstimator(t, cfg)
	record := sluggerRecord("Repeatable Slugger")

	a, err := first.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	b, err := second.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if a.Confidence != b.Confidence {
		t.Fatalf("confidence differs: %v vs %v", a.Confidence, b.Confidence)
	}
	if a.ConfidenceLower != b.ConfidenceLower || a.ConfidenceUpper != b.ConfidenceUpper {
		t.Fatalf("interval differs: [%v, %v] vs [%v, %v]",
			a.ConfidenceLower, a.ConfidenceUpper, b.ConfidenceLower, b.ConfidenceUpper)
	}
	if a.TotalVariance != b.TotalVariance {
		t.Fatalf("variance differs: %v vs %v", a.TotalVariance, b.TotalVariance)
	}
	if a.DominantSignal != b.DominantSignal {
		t.Fatalf("dominant signal differs: %s vs %s", a.DominantSignal, b.DominantSignal)
	}
	for signal, score := range a.SignalScores {
		if b.SignalScores[signal] != score {
			t.Fatalf("signal %s differs: %v vs %v", signal, score, b.SignalScores[signal])
		}
	}
	if a.Reasoning != b.Reasoning {
		t.Fatalf("reasoning differs: %q vs %q", a.Reasoning, b.Reasoning)
	}
}

func TestEvaluateIntervalInvariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	estimator := newTestEstimator(t, cfg)

	records := []*models.PlayerRecord{
		sluggerRecord("Invariant Slugger"),
		benchRecord("Invariant Bench"),
		testRecord("Invariant Empty", "TBR", nil),
		testRecord("Invariant Flat", "STL", flatObservations(10, 4, 0, 0.280)),
	}

	for _, record := range records {
		p, err := estimator.Evaluate(context.Background(), record)
		if err != nil {
			t.Fatalf("evaluate failed for %s: %v", record.PlayerName, err)
		}
		if p.ConfidenceLower < 20 || p.ConfidenceUpper > 95 {
			t.Fatalf("%s: interval [%v, %v] outside [20, 95]", p.PlayerName, p.ConfidenceLower, p.ConfidenceUpper)
		}
		if p.ConfidenceLower > p.Confidence || p.Confidence > p.ConfidenceUpper {
			t.Fatalf("%s: confidence %v outside its own interval [%v, %v]",
				p.PlayerName, p.Confidence, p.ConfidenceLower, p.ConfidenceUpper)
		}
		if p.TotalVariance < cfg.MinTotalVariance {
			t.Fatalf("%s: variance %v below floor %v", p.PlayerName, p.TotalVariance, cfg.MinTotalVariance)
		}
		if len(p.SignalScores) != 5 {
			t.Fatalf("%s: expected 5 signal scores, got %d", p.PlayerName, len(p.SignalScores))
		}
	}
}

func TestEvaluateEmptyHistoryFallsBackToPriors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Market.JitterStdDev = 0
	estimator := newTestEstimator(t, cfg)

	record := testRecord("No History", "TBR", nil)
	p, err := estimator.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if !almostEqual(p.SignalScores[models.SignalBayesian], 60.0, 1e-9) {
		t.Fatalf("expected prior-only bayesian score 60, got %v", p.SignalScores[models.SignalBayesian])
	}
	if !almostEqual(p.SignalScores[models.SignalTrend], 50.0, 1e-9) {
		t.Fatalf("expected neutral trend score 50, got %v", p.SignalScores[models.SignalTrend])
	}

	// 0.3*60 + 0.25*50 + 0.2*40 + 0.15*41 + 0.1*45
	if !almostEqual(p.Confidence, 49.15, 1e-6) {
		t.Fatalf("expected confidence 49.15, got %v", p.Confidence)
	}
	if p.DominantSignal != models.SignalBayesian {
		t.Fatalf("expected bayesian to dominate, got %s", p.DominantSignal)
	}
}

func TestEvaluateQualityAdjustment(t *testing.T) {
	adjusted := DefaultConfig()
	adjusted.Seed = 42

	raw := DefaultConfig()
	raw.Seed = 42
	raw.QualityAdjustment = false

	adjustedEstimator := newTestEstimator(t, adjusted)
	rawEstimator := newTestEstimator(t, raw)

	// five games against a ten game window means quality 0.5
	record := testRecord("Half Sample", "CIN", flatObservations(5, 4, 0, 0.300))

	adjustedPrediction, err := adjustedEstimator.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	rawPrediction, err := rawEstimator.Evaluate(context.Background(), record)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	expected := rawPrediction.Confidence*0.5 + 50.0*0.5
	if !almostEqual(adjustedPrediction.Confidence, expected, 1e-9) {
		t.Fatalf("expected blended confidence %v, got %v", expected, adjustedPrediction.Confidence)
	}
	if !almostEqual(adjustedPrediction.TotalVariance, rawPrediction.TotalVariance*2, 1e-9) {
		t.Fatalf("expected doubled variance %v, got %v", rawPrediction.TotalVariance*2, adjustedPrediction.TotalVariance)
	}
	if adjustedPrediction.DataQuality != 0.5 {
		t.Fatalf("expected data quality 0.5, got %v", adjustedPrediction.DataQuality)
	}
	if adjustedPrediction.ConfidenceLower > adjustedPrediction.Confidence ||
		adjustedPrediction.Confidence > adjustedPrediction.ConfidenceUpper {
		t.Fatalf("adjusted confidence fell outside its interval")
	}
}

func TestEvaluateBatchSpreadsConfidence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	estimator := newTestEstimator(t, cfg)

	teams := []string{"NYY", "LAD", "ATL", "HOU", "SEA", "BOS", "CHC", "PHI", "MIA", "OAK"}
	records := make([]*models.PlayerRecord, 0, 20)
	for i := 0; i < 10; i++ {
		strong := sluggerRecord("Strong " + teams[i])
		strong.Team = teams[i]
		records = append(records, strong)
	}
	for i := 0; i < 10; i++ {
		weak := benchRecord("Weak " + teams[i])
		weak.Team = teams[i]
		records = append(records, weak)
	}

	predictions, err := estimator.EvaluateBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("batch evaluation failed: %v", err)
	}
	if len(predictions) != len(records) {
		t.Fatalf("expected %d predictions, got %d", len(records), len(predictions))
	}

	confidences := make([]float64, len(predictions))
	for i, p := range predictions {
		if p.PlayerName != records[i].PlayerName {
			t.Fatalf("prediction order broken at %d: %s vs %s", i, p.PlayerName, records[i].PlayerName)
		}
		confidences[i] = p.Confidence
	}

	m := mean(confidences)
	sumSquares := 0.0
	for _, c := range confidences {
		sumSquares += (c - m) * (c - m)
	}
	spread := math.Sqrt(sumSquares / float64(len(confidences)))

	// varied inputs must produce a genuinely spread slate, not a flat one
	if spread < 4.0 {
		t.Fatalf("expected confidence spread of at least 4, got %v", spread)
	}
}

func TestEvaluateBatchIsRepeatable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	estimator := newTestEstimator(t, cfg)

	records := []*models.PlayerRecord{
		sluggerRecord("Repeat One"),
		benchRecord("Repeat Two"),
		testRecord("Repeat Three", "STL", flatObservations(10, 4, 0, 0.280)),
	}

	first, err := estimator.EvaluateBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("batch evaluation failed: %v", err)
	}
	second, err := estimator.EvaluateBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("batch evaluation failed: %v", err)
	}

	for i := range first {
		if first[i].Confidence != second[i].Confidence {
			t.Fatalf("record %d: confidence differs across runs: %v vs %v",
				i, first[i].Confidence, second[i].Confidence)
		}
	}
}

func TestEvaluateBatchDampsTeamPileUps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.TeamPullFraction = 0.5

	batchEstimator := newTestEstimator(t, cfg)
	soloEstimator := newTestEstimator(t, cfg)

	records := []*models.PlayerRecord{
		sluggerRecord("Lineup One"),
		testRecord("Lineup Two", "NYY", flatObservations(10, 4, 0, 0.280)),
		testRecord("Lineup Three", "NYY", flatObservations(10, 4, 0, 0.220)),
	}

	raws := make([]float64, len(records))
	for i, record := range records {
		p, err := soloEstimator.Evaluate(context.Background(), record)
		if err != nil {
			t.Fatalf("solo evaluate failed: %v", err)
		}
		raws[i] = p.Confidence
	}
	rawMean := mean(raws)

	predictions, err := batchEstimator.EvaluateBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("batch evaluation failed: %v", err)
	}

	for i, p := range predictions {
		expected := raws[i]*0.5 + rawMean*0.5
		if !almostEqual(p.Confidence, expected, 1e-9) {
			t.Fatalf("record %d: expected damped confidence %v, got %v", i, expected, p.Confidence)
		}
		if p.ConfidenceLower > p.Confidence || p.Confidence > p.ConfidenceUpper {
			t.Fatalf("record %d: damped confidence outside its interval", i)
		}
	}
}

func TestStrongProfileEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Market.JitterStdDev = 0
	estimator := newTestEstimator(t, cfg)

	p, err := estimator.Evaluate(context.Background(), sluggerRecord("Elite Slugger"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if !p.MeetsThreshold(55) {
		t.Fatalf("expected a strong profile to clear 55, got %v", p.Confidence)
	}
	if p.DominantSignal != models.SignalBayesian {
		t.Fatalf("expected recent performance to dominate, got %s", p.DominantSignal)
	}
	if p.Pathway != models.PathwayHotPerformance {
		t.Fatalf("expected hot performance pathway, got %s", p.Pathway)
	}

	switch p.Classification {
	case models.ClassStrongPick, models.ClassGoodPick, models.ClassViablePick:
	default:
		t.Fatalf("expected a playable classification, got %s", p.Classification)
	}

	probability := p.HomeRunProbability()
	if probability < 0.01 || probability > 0.20 {
		t.Fatalf("home-run probability %v outside [0.01, 0.20]", probability)
	}
}

func TestEvaluateBatchEmptyInput(t *testing.T) {
	estimator := newTestEstimator(t, DefaultConfig())

	predictions, err := estimator.EvaluateBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch should not fail: %v", err)
	}
	if predictions != nil {
		t.Fatalf("expected nil predictions for empty batch, got %d", len(predictions))
	}
}
