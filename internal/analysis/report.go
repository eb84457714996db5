package analysis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Limit drift examples so a noisy window does not swamp the report
const driftExampleLimit = 3

// RenderMarkdown formats a performance report as a Markdown document
func RenderMarkdown(report *PerformanceReport) string {
	var b strings.Builder

	b.WriteString("# Prediction Performance Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Window: last %d days (since %s)\n", report.LookbackDays, report.Since.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Predictions analyzed: %d\n\n", report.Total)

	if report.Total == 0 {
		b.WriteString("No archived predictions in the window.\n")
		return b.String()
	}

	b.WriteString("## Confidence Summary\n\n")
	b.WriteString("| Mean | Median | Std Dev | Min | Max |\n")
	b.WriteString("|------|--------|---------|-----|-----|\n")
	fmt.Fprintf(&b, "| %.1f | %.1f | %.2f | %.1f | %.1f |\n\n",
		report.Summary.Mean, report.Summary.Median, report.Summary.StdDev,
		report.Summary.Min, report.Summary.Max)

	b.WriteString("## Interval Widths\n\n")
	fmt.Fprintf(&b, "- Mean width: %.1f (median %.1f)\n",
		report.Intervals.MeanWidth, report.Intervals.MedianWidth)
	fmt.Fprintf(&b, "- Narrow (< %.0f): %d, wide (> %.0f): %d\n",
		narrowIntervalWidth, report.Intervals.NarrowCount,
		wideIntervalWidth, report.Intervals.WideCount)
	fmt.Fprintf(&b, "- Mean bounds: [%.1f, %.1f]\n\n",
		report.Intervals.MeanLower, report.Intervals.MeanUpper)

	b.WriteString("## Confidence Distribution\n\n")
	b.WriteString("| Range | Count | Share |\n")
	b.WriteString("|-------|-------|-------|\n")
	for _, bin := range report.Distribution {
		fmt.Fprintf(&b, "| %.0f-%.0f | %d | %.1f%% |\n", bin.Lower, bin.Upper, bin.Count, bin.Percentage)
	}
	if report.TopHeavy {
		fmt.Fprintf(&b, "\nWarning: more than %.0f%% of predictions scored %.0f+; review analyzer weighting.\n",
			topHeavyFraction*100, topHeavyConfidence)
	}
	b.WriteString("\n")

	if len(report.Pathways) > 0 {
		b.WriteString("## Pathway Effectiveness\n\n")
		b.WriteString("| Pathway | Count | Avg Confidence | Max | Min |\n")
		b.WriteString("|---------|-------|----------------|-----|-----|\n")
		for _, pathway := range report.Pathways {
			fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %.1f |\n",
				pathway.Pathway, pathway.Count, pathway.MeanConfidence,
				pathway.MaxConfidence, pathway.MinConfidence)
		}
		b.WriteString("\n")
	}

	if len(report.Hours) > 0 {
		b.WriteString("## Picks by Run Hour\n\n")
		b.WriteString("| Hour | Count | Avg Confidence | Top Pathway |\n")
		b.WriteString("|------|-------|----------------|-------------|\n")
		for _, hour := range report.Hours {
			fmt.Fprintf(&b, "| %02d:00 | %d | %.1f | %s |\n",
				hour.Hour, hour.Count, hour.MeanConfidence, hour.TopPathway)
		}
		b.WriteString("\n")
	}

	if len(report.Drifts) > 0 {
		b.WriteString("## Confidence Drift\n\n")
		fmt.Fprintf(&b, "- %d players were evaluated in multiple runs for the same game date\n", len(report.Drifts))
		for i, drift := range report.Drifts {
			if i >= driftExampleLimit {
				break
			}
			fmt.Fprintf(&b, "- %s (%s): %d runs, confidence change %+.1f\n",
				drift.PlayerName, drift.GameDate.Format("2006-01-02"), drift.Runs, drift.Drift)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	if best := bestPathway(report.Pathways); best != "" {
		fmt.Fprintf(&b, "- **%s** shows the highest average confidence\n", best)
	}
	if peak, ok := peakHour(report.Hours); ok {
		fmt.Fprintf(&b, "- **%02d:00** runs produce the most confident slates\n", peak)
	}
	b.WriteString("- Keep archiving runs to grow the sample\n")

	return b.String()
}

// WriteReport renders the report to Markdown under dir and returns the path
func (a *Analyzer) WriteReport(report *PerformanceReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	name := fmt.Sprintf("performance_report_%s.md", report.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(RenderMarkdown(report)), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	a.analysisLog.LogReportGenerated(path, report.LookbackDays, report.Total)
	return path, nil
}

func bestPathway(pathways []PathwayStats) string {
	best := ""
	bestMean := 0.0
	for _, pathway := range pathways {
		if pathway.MeanConfidence > bestMean {
			best = pathway.Pathway
			bestMean = pathway.MeanConfidence
		}
	}
	return best
}

func peakHour(hours []HourPattern) (int, bool) {
	if len(hours) == 0 {
		return 0, false
	}
	peak := hours[0]
	for _, hour := range hours[1:] {
		if hour.MeanConfidence > peak.MeanConfidence {
			peak = hour
		}
	}
	return peak.Hour, true
}
