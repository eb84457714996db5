package analysis

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hellraiser/internal/config"
	"github.com/yourusername/hellraiser/internal/models"
	"github.com/yourusername/hellraiser/internal/repository"
)

var analysisGameDate = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

// fakePredictionRepo serves a fixed window; only GetSince is implemented
type fakePredictionRepo struct {
	repository.PredictionRepository
	predictions []*models.Prediction
}

func (f *fakePredictionRepo) GetSince(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	return f.predictions, nil
}

func newAnalysisTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func archivedPrediction(player string, confidence, lower, upper float64, pathway string, hour int) *models.Prediction {
	return &models.Prediction{
		PlayerName:      player,
		Team:            "NYY",
		GameDate:        analysisGameDate,
		Confidence:      confidence,
		ConfidenceLower: lower,
		ConfidenceUpper: upper,
		Pathway:         pathway,
		RunType:         "morning",
		CreatedAt:       time.Date(2025, 7, 15, hour, 0, 0, 0, time.UTC),
	}
}

func archivedWindow() []*models.Prediction {
	return []*models.Prediction{
		archivedPrediction("Big Bat", 90, 82, 98, models.PathwayHotPerformance, 9),
		archivedPrediction("Big Bat", 84, 70, 98, models.PathwayHotPerformance, 13),
		archivedPrediction("Mid Bat", 70, 58, 82, models.PathwayMarketValue, 9),
		archivedPrediction("Low Bat", 50, 28, 72, models.PathwayBalanced, 13),
		archivedPrediction("Ice Bat", 40, 30, 50, models.PathwayBalanced, 13),
	}
}

func TestBuildReportSummaryStatistics(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)

	assert.Equal(t, 5, report.Total)
	assert.InDelta(t, 66.8, report.Summary.Mean, 1e-9)
	assert.InDelta(t, 70.0, report.Summary.Median, 1e-9)
	assert.InDelta(t, 21.4755, report.Summary.StdDev, 1e-3)
	assert.Equal(t, 40.0, report.Summary.Min)
	assert.Equal(t, 90.0, report.Summary.Max)
}

func TestBuildReportIntervalWidths(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)

	assert.InDelta(t, 26.4, report.Intervals.MeanWidth, 1e-9)
	assert.InDelta(t, 24.0, report.Intervals.MedianWidth, 1e-9)
	assert.Equal(t, 1, report.Intervals.NarrowCount, "only the 16-wide interval is narrow")
	assert.Equal(t, 1, report.Intervals.WideCount, "only the 44-wide interval is wide")
	assert.InDelta(t, 53.6, report.Intervals.MeanLower, 1e-9)
	assert.InDelta(t, 80.0, report.Intervals.MeanUpper, 1e-9)
}

func TestBuildReportDistributionBins(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)

	require.Len(t, report.Distribution, 6)
	counts := make([]int, len(report.Distribution))
	for i, bin := range report.Distribution {
		counts[i] = bin.Count
	}
	assert.Equal(t, []int{1, 1, 0, 1, 1, 1}, counts)
	assert.Equal(t, 40.0, report.Distribution[0].Lower)
	assert.Equal(t, 100.0, report.Distribution[5].Upper)
	assert.InDelta(t, 20.0, report.Distribution[0].Percentage, 1e-9)

	assert.True(t, report.TopHeavy, "two of five predictions score 80+")
}

func TestBuildReportNotTopHeavy(t *testing.T) {
	report := BuildReport([]*models.Prediction{
		archivedPrediction("A", 50, 40, 60, models.PathwayBalanced, 9),
		archivedPrediction("B", 55, 45, 65, models.PathwayBalanced, 9),
		archivedPrediction("C", 60, 50, 70, models.PathwayBalanced, 9),
		archivedPrediction("D", 85, 75, 95, models.PathwayHotPerformance, 9),
	}, 10)

	assert.False(t, report.TopHeavy, "one of four at 80+ is under the 30% line")
}

func TestBuildReportPathwayEffectiveness(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)

	require.Len(t, report.Pathways, 3)
	assert.Equal(t, models.PathwayBalanced, report.Pathways[0].Pathway, "count ties break alphabetically")
	assert.Equal(t, models.PathwayHotPerformance, report.Pathways[1].Pathway)
	assert.Equal(t, models.PathwayMarketValue, report.Pathways[2].Pathway)

	hot := report.Pathways[1]
	assert.Equal(t, 2, hot.Count)
	assert.InDelta(t, 87.0, hot.MeanConfidence, 1e-9)
	assert.Equal(t, 90.0, hot.MaxConfidence)
	assert.Equal(t, 84.0, hot.MinConfidence)
}

func TestBuildReportHourPatterns(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)

	require.Len(t, report.Hours, 2)
	assert.Equal(t, 9, report.Hours[0].Hour)
	assert.Equal(t, 2, report.Hours[0].Count)
	assert.InDelta(t, 80.0, report.Hours[0].MeanConfidence, 1e-9)

	assert.Equal(t, 13, report.Hours[1].Hour)
	assert.Equal(t, 3, report.Hours[1].Count)
	assert.InDelta(t, 58.0, report.Hours[1].MeanConfidence, 1e-9)
	assert.Equal(t, models.PathwayBalanced, report.Hours[1].TopPathway)
}

func TestBuildReportConfidenceDrift(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)

	require.Len(t, report.Drifts, 1)
	drift := report.Drifts[0]
	assert.Equal(t, "Big Bat", drift.PlayerName)
	assert.Equal(t, 2, drift.Runs)
	assert.Equal(t, 90.0, drift.FirstConfidence)
	assert.Equal(t, 84.0, drift.LastConfidence)
	assert.InDelta(t, -6.0, drift.Drift, 1e-9)
}

func TestBuildReportEmptyWindow(t *testing.T) {
	report := BuildReport(nil, 10)

	assert.Zero(t, report.Total)
	assert.Empty(t, report.Distribution)
	assert.Empty(t, report.Pathways)
	assert.Contains(t, RenderMarkdown(report), "No archived predictions")
}

func TestAnalyzeLoadsWindow(t *testing.T) {
	analyzer := NewAnalyzer(
		&fakePredictionRepo{predictions: archivedWindow()},
		config.AnalysisConfig{LookbackDays: 30, DistributionBinWidth: 10, ReportPath: "reports"},
		newAnalysisTestLogger(),
	)

	report, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 30, report.LookbackDays)
	assert.False(t, report.Since.IsZero())
}

func TestRenderMarkdownSections(t *testing.T) {
	report := BuildReport(archivedWindow(), 10)
	report.LookbackDays = 30
	report.Since = analysisGameDate

	markdown := RenderMarkdown(report)
	assert.Contains(t, markdown, "# Prediction Performance Report")
	assert.Contains(t, markdown, "| 66.8 | 70.0 | 21.48 | 40.0 | 90.0 |")
	assert.Contains(t, markdown, "| 90-100 | 1 | 20.0% |")
	assert.Contains(t, markdown, "| Hot Performance Pathway | 2 | 87.0 | 90.0 | 84.0 |")
	assert.Contains(t, markdown, "| 09:00 | 2 | 80.0 |")
	assert.Contains(t, markdown, "Big Bat (2025-07-15): 2 runs, confidence change -6.0")
	assert.Contains(t, markdown, "## Recommendations")
	assert.Contains(t, markdown, "Warning: more than 30% of predictions scored 80+")
}

func TestWriteReportCreatesFile(t *testing.T) {
	analyzer := NewAnalyzer(nil, config.AnalysisConfig{LookbackDays: 30, DistributionBinWidth: 10}, newAnalysisTestLogger())
	report := BuildReport(archivedWindow(), 10)

	dir := t.TempDir()
	path, err := analyzer.WriteReport(report, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".md"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Prediction Performance Report")
}
