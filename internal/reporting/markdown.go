package reporting

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pagecrit/pagecrit/internal/models"
	"github.com/pagecrit/pagecrit/internal/rendered"
)

// MarkdownOptions controls report composition. The zero value renders
// everything available.
type MarkdownOptions struct {
	// Title overrides the default report heading.
	Title string

	// Rendered, when set, adds a "Rendered Code Analysis" section built
	// from the captured HTML.
	Rendered *models.RenderedCode

	// HideDetails skips the per-perspective detail sections, leaving only
	// the summary table and pooled issues.
	HideDetails bool
}

// FormatMarkdownReport renders a summary plus its constituent results as a
// markdown document suitable for a PR comment or dashboard.
func FormatMarkdownReport(summary *models.AggregatedSummary, results []models.EvaluationResult, opts MarkdownOptions) string {
	var b strings.Builder

	title := opts.Title
	if title == "" {
		title = "Page Validation Results"
	}
	b.WriteString(fmt.Sprintf("## %s\n\n", title))

	avg := FormatScore(summary.AverageScore)
	b.WriteString(fmt.Sprintf("**Perspectives:** %d | **Average Score:** %s | **Issues:** %d\n\n",
		summary.ResultCount, avg, len(summary.AllIssues)))
	if summary.AverageScore != nil {
		b.WriteString(fmt.Sprintf("_%s_\n\n", InterpretScore(*summary.AverageScore)))
	}

	if len(results) > 0 {
		b.WriteString("### Perspective Results\n\n")
		writeResultTable(&b, results)
		b.WriteString("\n")
	}

	if len(summary.AllIssues) > 0 {
		b.WriteString("### Aggregated Issues\n\n")
		for _, issue := range summary.AllIssues {
			b.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		b.WriteString("\n")
	}

	if opts.Rendered != nil {
		writeRenderedSection(&b, opts.Rendered)
	}

	if !opts.HideDetails {
		for _, r := range results {
			writeResultDetail(&b, r)
		}
	}

	return b.String()
}

// writeResultTable writes a markdown table with runewidth-padded cells so
// the raw text stays readable, not just the rendered form.
func writeResultTable(b *strings.Builder, results []models.EvaluationResult) {
	headers := []string{"Perspective", "Score", "Issues", "Focus"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		focus := strings.Join(r.FocusAreas, ", ")
		if focus == "" {
			focus = "-"
		}
		rows = append(rows, []string{
			r.SourceID,
			FormatScore(r.Score),
			fmt.Sprintf("%d", len(r.Issues)),
			focus,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2) + "|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
}

func writeRenderedSection(b *strings.Builder, rc *models.RenderedCode) {
	b.WriteString("### Rendered Code Analysis\n\n")
	b.WriteString(fmt.Sprintf("- **HTML:** %d chars captured\n", len(rc.HTML)))
	b.WriteString(fmt.Sprintf("- **CSS:** %d chars captured\n", len(rc.CSS)))

	digest, err := rendered.Digest(rc.HTML)
	if err != nil {
		b.WriteString("- **DOM:** not parseable\n\n")
		return
	}

	b.WriteString(fmt.Sprintf("- **DOM:** %d elements, %d links, %d images",
		digest.ElementCount, digest.LinkCount, digest.ImageCount))
	if digest.ImagesMissingAlt > 0 {
		b.WriteString(fmt.Sprintf(" (%d missing alt text)", digest.ImagesMissingAlt))
	}
	b.WriteString("\n")
	if len(digest.Landmarks) > 0 {
		b.WriteString(fmt.Sprintf("- **Landmarks:** %s\n", strings.Join(digest.Landmarks, ", ")))
	}
	if len(digest.HeadingOutline) > 0 {
		b.WriteString("- **Headings:**\n")
		for _, h := range digest.HeadingOutline {
			b.WriteString(fmt.Sprintf("  - %s\n", h))
		}
	}
	b.WriteString("\n")
}

func writeResultDetail(b *strings.Builder, r models.EvaluationResult) {
	b.WriteString(fmt.Sprintf("### %s\n\n", r.SourceID))
	b.WriteString(fmt.Sprintf("**Score:** %s\n", FormatScore(r.Score)))
	if len(r.FocusAreas) > 0 {
		b.WriteString(fmt.Sprintf("**Focus Areas:** %s\n", strings.Join(r.FocusAreas, ", ")))
	}
	if r.Assessment != "" {
		b.WriteString(fmt.Sprintf("**Assessment:** %s\n", r.Assessment))
	}
	if r.Reasoning != "" {
		b.WriteString(fmt.Sprintf("**Reasoning:** %s\n", r.Reasoning))
	}

	b.WriteString(fmt.Sprintf("\n**Issues:** %d\n", len(r.Issues)))
	if len(r.Issues) == 0 {
		b.WriteString("- None\n")
	} else {
		for _, issue := range r.Issues {
			b.WriteString(fmt.Sprintf("- %s\n", issue))
		}
	}
	b.WriteString("\n")
}
