package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagecrit/pagecrit/internal/aggregate"
	"github.com/pagecrit/pagecrit/internal/models"
)

func sampleBatch(t *testing.T) (*models.AggregatedSummary, []models.EvaluationResult) {
	t.Helper()
	results := []models.EvaluationResult{
		{
			SourceID:   "Accessibility Advocate",
			Score:      models.Float64Ptr(7.5),
			Issues:     []string{"Minor accessibility concern"},
			Assessment: "Good experience from accessibility perspective",
			FocusAreas: []string{"wcag-compliance", "keyboard-navigation"},
		},
		{
			SourceID: "Casual Gamer",
			Score:    models.Float64Ptr(9.0),
			Issues:   []string{},
		},
	}
	summary, err := aggregate.Aggregate(results)
	require.NoError(t, err)
	return summary, results
}

func TestFormatMarkdownReport(t *testing.T) {
	summary, results := sampleBatch(t)

	md := FormatMarkdownReport(summary, results, MarkdownOptions{})

	require.Contains(t, md, "## Page Validation Results")
	require.Contains(t, md, "**Perspectives:** 2")
	require.Contains(t, md, "**Average Score:** 8.2/10")
	require.Contains(t, md, "### Perspective Results")
	require.Contains(t, md, "### Aggregated Issues")
	require.Contains(t, md, "- Minor accessibility concern")
	require.Contains(t, md, "### Accessibility Advocate")
	require.Contains(t, md, "**Focus Areas:** wcag-compliance, keyboard-navigation")
}

func TestFormatMarkdownReport_TableAlignment(t *testing.T) {
	summary, results := sampleBatch(t)

	md := FormatMarkdownReport(summary, results, MarkdownOptions{HideDetails: true})

	// Every table row should have equal width thanks to runewidth padding.
	var tableLines []string
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "|") {
			tableLines = append(tableLines, line)
		}
	}
	require.GreaterOrEqual(t, len(tableLines), 4)
	for _, line := range tableLines[1:] {
		require.Len(t, line, len(tableLines[0]))
	}
}

func TestFormatMarkdownReport_RenderedSection(t *testing.T) {
	summary, results := sampleBatch(t)

	md := FormatMarkdownReport(summary, results, MarkdownOptions{
		Title: "homepage-test",
		Rendered: &models.RenderedCode{
			HTML: `<html><head><title>T</title></head><body><main><h1>Hi</h1><img src="a.png"></main></body></html>`,
			CSS:  "body { }",
		},
		HideDetails: true,
	})

	require.Contains(t, md, "## homepage-test")
	require.Contains(t, md, "### Rendered Code Analysis")
	require.Contains(t, md, "missing alt text")
	require.Contains(t, md, "**Landmarks:** main")
	require.NotContains(t, md, "### Accessibility Advocate")
}

func TestRenderHTML(t *testing.T) {
	summary, results := sampleBatch(t)
	md := FormatMarkdownReport(summary, results, MarkdownOptions{})

	html, err := RenderHTML("Page Validation Results", md)
	require.NoError(t, err)
	require.Contains(t, html, "<!DOCTYPE html>")
	require.Contains(t, html, "<h2>Page Validation Results</h2>")
	require.Contains(t, html, "<table>")
}
