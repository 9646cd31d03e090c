// Package reporting renders aggregated evaluation summaries as plain text,
// markdown, HTML, and JUnit XML. Formatting never fails on missing optional
// fields: every absent value has a textual fallback.
package reporting

import (
	"fmt"
	"strings"

	"github.com/pagecrit/pagecrit/internal/models"
)

// NotAvailable is the textual fallback for absent optional values.
const NotAvailable = "N/A"

// InterpretScore returns a plain-language label for a canonical 0–10 score.
func InterpretScore(score float64) string {
	switch {
	case score > 9:
		return "Excellent (>9/10)"
	case score >= 7:
		return "Good (7-9/10)"
	case score >= 5:
		return "Needs Work (5-7/10)"
	default:
		return "Poor (<5/10)"
	}
}

// FormatScore renders a possibly-absent score as "x.x/10" or the N/A marker.
func FormatScore(score *float64) string {
	if score == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f/10", *score)
}

// FormatSummaryReport produces a plain-text report for a summary and the
// results it was aggregated from. The per-result breakdown follows input
// order.
func FormatSummaryReport(summary *models.AggregatedSummary, results []models.EvaluationResult) string {
	var b strings.Builder

	b.WriteString("=== Validation Summary ===\n\n")
	b.WriteString(fmt.Sprintf("Results:       %d", summary.ResultCount))
	if summary.ScoredCount < summary.ResultCount {
		b.WriteString(fmt.Sprintf(" (%d scored)", summary.ScoredCount))
	}
	b.WriteString("\n")

	if summary.AverageScore != nil {
		b.WriteString(fmt.Sprintf("Average Score: %s — %s\n", FormatScore(summary.AverageScore), InterpretScore(*summary.AverageScore)))
		if summary.MinScore != nil && summary.MaxScore != nil && summary.StdDev != nil {
			b.WriteString(fmt.Sprintf("Score Range:   %.1f - %.1f (σ=%.2f)\n", *summary.MinScore, *summary.MaxScore, *summary.StdDev))
		}
	} else {
		b.WriteString(fmt.Sprintf("Average Score: %s\n", NotAvailable))
	}
	b.WriteString(fmt.Sprintf("Issues Found:  %d\n", len(summary.AllIssues)))

	if len(results) > 0 {
		b.WriteString("\nPer-Perspective Breakdown:\n")
		for _, r := range results {
			b.WriteString(fmt.Sprintf("  %s: %s\n", r.SourceID, FormatScore(r.Score)))
			if len(r.FocusAreas) > 0 {
				b.WriteString(fmt.Sprintf("    Focus: %s\n", strings.Join(r.FocusAreas, ", ")))
			}
			if r.Assessment != "" {
				b.WriteString(fmt.Sprintf("    Assessment: %s\n", r.Assessment))
			}
			if len(r.Issues) == 0 {
				b.WriteString("    Issues: none\n")
			} else {
				b.WriteString(fmt.Sprintf("    Issues: %d\n", len(r.Issues)))
				for _, issue := range r.Issues {
					b.WriteString(fmt.Sprintf("      - %s\n", issue))
				}
			}
		}
	}

	return b.String()
}
