// Package analysis computes post-hoc statistics over archived prediction
// runs: confidence summaries, interval widths, distribution shape, pathway
// effectiveness, run-hour patterns and same-day confidence drift.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/config"
	"github.com/yourusername/hellraiser/internal/logger"
	"github.com/yourusername/hellraiser/internal/models"
	"github.com/yourusername/hellraiser/internal/repository"
)

// Interval-width bands and the top-heaviness threshold for distribution
// health. A window where more than 30% of predictions land at 80+ means the
// estimator is over-confident, not that the slate is that good.
const (
	narrowIntervalWidth = 20.0
	wideIntervalWidth   = 40.0
	topHeavyConfidence  = 80.0
	topHeavyFraction    = 0.3
)

// SummaryStats summarizes the confidence scores in an analysis window
type SummaryStats struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// IntervalStats summarizes confidence interval widths
type IntervalStats struct {
	MeanWidth   float64
	MedianWidth float64
	NarrowCount int
	WideCount   int
	MeanLower   float64
	MeanUpper   float64
}

// DistributionBin is one fixed-width confidence bucket
type DistributionBin struct {
	Lower      float64
	Upper      float64
	Count      int
	Percentage float64
}

// PathwayStats aggregates archived picks per analysis pathway
type PathwayStats struct {
	Pathway        string
	Count          int
	MeanConfidence float64
	MaxConfidence  float64
	MinConfidence  float64
}

// HourPattern aggregates archived picks by run hour (UTC)
type HourPattern struct {
	Hour           int
	Count          int
	MeanConfidence float64
	TopPathway     string
}

// PlayerDrift tracks one player's confidence across same-day runs
type PlayerDrift struct {
	PlayerName      string
	GameDate        time.Time
	Runs            int
	FirstConfidence float64
	LastConfidence  float64
	Drift           float64
}

// PerformanceReport is the full output of one analysis pass
type PerformanceReport struct {
	GeneratedAt  time.Time
	Since        time.Time
	LookbackDays int
	Total        int
	Summary      SummaryStats
	Intervals    IntervalStats
	Distribution []DistributionBin
	TopHeavy     bool
	Pathways     []PathwayStats
	Hours        []HourPattern
	Drifts       []PlayerDrift
}

// Analyzer loads archived predictions and computes performance reports
type Analyzer struct {
	repo        repository.PredictionRepository
	cfg         config.AnalysisConfig
	logger      *logrus.Entry
	analysisLog *logger.AnalysisLogger
}

// NewAnalyzer creates a new archive analyzer
func NewAnalyzer(repo repository.PredictionRepository, cfg config.AnalysisConfig, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		repo:        repo,
		cfg:         cfg,
		logger:      log.WithField("component", "analysis"),
		analysisLog: logger.NewAnalysisLogger(log),
	}
}

// Analyze loads every prediction archived inside the lookback window and
// computes the full performance report.
func (a *Analyzer) Analyze(ctx context.Context) (*PerformanceReport, error) {
	since := time.Now().UTC().AddDate(0, 0, -a.cfg.LookbackDays)

	predictions, err := a.repo.GetSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("loading archived predictions: %w", err)
	}

	report := BuildReport(predictions, a.cfg.DistributionBinWidth)
	report.Since = since
	report.LookbackDays = a.cfg.LookbackDays

	if report.Total == 0 {
		a.analysisLog.LogEmptyWindow(a.cfg.LookbackDays)
		return report, nil
	}

	for _, pathway := range report.Pathways {
		a.analysisLog.LogPathwayBreakdown(pathway.Pathway, pathway.Count, pathway.MeanConfidence)
	}
	if len(report.Drifts) > 0 {
		firstMean, lastMean := driftRunMeans(report.Drifts)
		a.analysisLog.LogConfidenceDrift(firstMean, lastMean, lastMean-firstMean)
	}

	return report, nil
}

// BuildReport computes a performance report from archived predictions.
// Separated from loading so the statistics are testable on fixtures.
func BuildReport(predictions []*models.Prediction, binWidth float64) *PerformanceReport {
	report := &PerformanceReport{
		GeneratedAt: time.Now().UTC(),
		Total:       len(predictions),
	}
	if len(predictions) == 0 {
		return report
	}

	confidences := make([]float64, len(predictions))
	for i, prediction := range predictions {
		confidences[i] = prediction.Confidence
	}

	report.Summary = computeSummary(confidences)
	report.Intervals = computeIntervals(predictions)
	report.Distribution = computeDistribution(confidences, binWidth)
	report.TopHeavy = countAtLeast(confidences, topHeavyConfidence) > topHeavyFraction*float64(len(confidences))
	report.Pathways = computePathways(predictions)
	report.Hours = computeHours(predictions)
	report.Drifts = computeDrifts(predictions)

	return report
}

func computeSummary(confidences []float64) SummaryStats {
	return SummaryStats{
		Mean:   mean(confidences),
		Median: median(confidences),
		StdDev: stdDev(confidences),
		Min:    minOf(confidences),
		Max:    maxOf(confidences),
	}
}

func computeIntervals(predictions []*models.Prediction) IntervalStats {
	widths := make([]float64, len(predictions))
	lowers := make([]float64, len(predictions))
	uppers := make([]float64, len(predictions))
	narrow, wide := 0, 0

	for i, prediction := range predictions {
		widths[i] = prediction.IntervalWidth()
		lowers[i] = prediction.ConfidenceLower
		uppers[i] = prediction.ConfidenceUpper
		if widths[i] < narrowIntervalWidth {
			narrow++
		}
		if widths[i] > wideIntervalWidth {
			wide++
		}
	}

	return IntervalStats{
		MeanWidth:   mean(widths),
		MedianWidth: median(widths),
		NarrowCount: narrow,
		WideCount:   wide,
		MeanLower:   mean(lowers),
		MeanUpper:   mean(uppers),
	}
}

// computeDistribution buckets confidences into fixed-width bins covering the
// observed range, including empty bins so gaps are visible.
func computeDistribution(confidences []float64, binWidth float64) []DistributionBin {
	if binWidth <= 0 {
		binWidth = 5.0
	}

	low := math.Floor(minOf(confidences)/binWidth) * binWidth
	high := math.Floor(maxOf(confidences)/binWidth) * binWidth
	steps := int(math.Round((high-low)/binWidth)) + 1

	bins := make([]DistributionBin, 0, steps)
	total := float64(len(confidences))
	for i := 0; i < steps; i++ {
		lower := low + float64(i)*binWidth
		upper := lower + binWidth
		count := 0
		for _, confidence := range confidences {
			if confidence >= lower && confidence < upper {
				count++
			}
		}
		bins = append(bins, DistributionBin{
			Lower:      lower,
			Upper:      upper,
			Count:      count,
			Percentage: float64(count) / total * 100,
		})
	}
	return bins
}

func computePathways(predictions []*models.Prediction) []PathwayStats {
	grouped := make(map[string][]float64)
	for _, prediction := range predictions {
		grouped[prediction.Pathway] = append(grouped[prediction.Pathway], prediction.Confidence)
	}

	stats := make([]PathwayStats, 0, len(grouped))
	for pathway, confidences := range grouped {
		stats = append(stats, PathwayStats{
			Pathway:        pathway,
			Count:          len(confidences),
			MeanConfidence: mean(confidences),
			MaxConfidence:  maxOf(confidences),
			MinConfidence:  minOf(confidences),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Pathway < stats[j].Pathway
	})
	return stats
}

func computeHours(predictions []*models.Prediction) []HourPattern {
	type hourAccum struct {
		confidences []float64
		pathways    map[string]int
	}

	grouped := make(map[int]*hourAccum)
	for _, prediction := range predictions {
		hour := prediction.CreatedAt.UTC().Hour()
		accum, ok := grouped[hour]
		if !ok {
			accum = &hourAccum{pathways: make(map[string]int)}
			grouped[hour] = accum
		}
		accum.confidences = append(accum.confidences, prediction.Confidence)
		accum.pathways[prediction.Pathway]++
	}

	patterns := make([]HourPattern, 0, len(grouped))
	for hour, accum := range grouped {
		patterns = append(patterns, HourPattern{
			Hour:           hour,
			Count:          len(accum.confidences),
			MeanConfidence: mean(accum.confidences),
			TopPathway:     topKey(accum.pathways),
		})
	}

	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Hour < patterns[j].Hour })
	return patterns
}

// computeDrifts finds players evaluated more than once for the same game date
// and measures how their confidence moved between the first and last run.
func computeDrifts(predictions []*models.Prediction) []PlayerDrift {
	type slateKey struct {
		player string
		date   string
	}

	grouped := make(map[slateKey][]*models.Prediction)
	for _, prediction := range predictions {
		key := slateKey{prediction.PlayerName, prediction.GameDate.Format("2006-01-02")}
		grouped[key] = append(grouped[key], prediction)
	}

	var drifts []PlayerDrift
	for key, runs := range grouped {
		if len(runs) < 2 {
			continue
		}
		sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })

		first := runs[0].Confidence
		last := runs[len(runs)-1].Confidence
		drifts = append(drifts, PlayerDrift{
			PlayerName:      key.player,
			GameDate:        runs[0].GameDate,
			Runs:            len(runs),
			FirstConfidence: first,
			LastConfidence:  last,
			Drift:           last - first,
		})
	}

	sort.Slice(drifts, func(i, j int) bool {
		if math.Abs(drifts[i].Drift) != math.Abs(drifts[j].Drift) {
			return math.Abs(drifts[i].Drift) > math.Abs(drifts[j].Drift)
		}
		return drifts[i].PlayerName < drifts[j].PlayerName
	})
	return drifts
}

func driftRunMeans(drifts []PlayerDrift) (firstMean, lastMean float64) {
	firsts := make([]float64, len(drifts))
	lasts := make([]float64, len(drifts))
	for i, drift := range drifts {
		firsts[i] = drift.FirstConfidence
		lasts[i] = drift.LastConfidence
	}
	return mean(firsts), mean(lasts)
}

func topKey(counts map[string]int) string {
	top := ""
	best := -1
	for key, count := range counts {
		if count > best || (count == best && key < top) {
			top = key
			best = count
		}
	}
	return top
}

func countAtLeast(values []float64, threshold float64) float64 {
	count := 0
	for _, value := range values {
		if value >= threshold {
			count++
		}
	}
	return float64(count)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, value := range values {
		total += value
	}
	return total / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	sumSquares := 0.0
	for _, value := range values {
		diff := value - avg
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

func minOf(values []float64) float64 {
	lowest := values[0]
	for _, value := range values[1:] {
		if value < lowest {
			lowest = value
		}
	}
	return lowest
}

func maxOf(values []float64) float64 {
	highest := values[0]
	for _, value := range values[1:] {
		if value > highest {
			highest = value
		}
	}
	return highest
}
