package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagecrit/pagecrit/internal/aggregate"
	"github.com/pagecrit/pagecrit/internal/ingest"
	"github.com/pagecrit/pagecrit/internal/models"
	"github.com/pagecrit/pagecrit/internal/projectconfig"
	"github.com/pagecrit/pagecrit/internal/reporting"
)

type reportFlags struct {
	format    string
	output    string
	scale     string
	threshold float64
	title     string
}

func newReportCommand() *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report <results.json>",
		Short: "Aggregate a validation payload and render a report",
		Long: `Report ingests a JSON payload produced by the browser-validation runtime
(either a persona experience array or a multi-modal validation object),
aggregates the per-perspective evaluations, and renders a report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCommandE(cmd, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: text, markdown, html or junit (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&flags.scale, "scale", "", "Score scale of the payload: unit, ten, or auto-detect when empty")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0, "JUnit failure threshold on the 0-10 scale (default from config)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Report title")

	return cmd
}

func reportCommandE(cmd *cobra.Command, flags *reportFlags, path string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	// Changed, not zero checks: --threshold 0 is a legitimate "never fail"
	// setting and must not revert to the config default.
	if !cmd.Flags().Changed("format") {
		flags.format = cfg.Report.Format
	}
	if !cmd.Flags().Changed("threshold") {
		flags.threshold = cfg.Report.ScoreThreshold
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading results file: %w", err)
	}

	scale, err := parseScale(flags.scale)
	if err != nil {
		return err
	}

	results, rendered, err := decodePayload(data, scale)
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			return &ValidationFailureError{Message: err.Error()}
		}
		return err
	}

	summary, err := aggregate.Aggregate(results)
	if err != nil {
		var validationErr *aggregate.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationFailureError{Message: err.Error()}
		}
		return err
	}

	return emitReport(flags, summary, results, rendered)
}

func parseScale(s string) (ingest.Scale, error) {
	switch s {
	case "":
		return ingest.ScaleAuto, nil
	case "unit":
		return ingest.ScaleUnit, nil
	case "ten":
		return ingest.ScaleTen, nil
	default:
		return ingest.ScaleAuto, fmt.Errorf("unsupported scale %q: must be unit or ten", s)
	}
}

// decodePayload sniffs the payload kind: persona experience payloads are
// JSON arrays, multi-modal payloads are objects.
func decodePayload(data []byte, scale ingest.Scale) ([]models.EvaluationResult, *models.RenderedCode, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("results file is empty")
	}

	if trimmed[0] == '[' {
		experiences, err := ingest.DecodeExperiences(data, scale)
		if err != nil {
			return nil, nil, err
		}
		results := make([]models.EvaluationResult, 0, len(experiences))
		var rendered *models.RenderedCode
		for _, exp := range experiences {
			results = append(results, exp.Result())
			if rendered == nil && exp.Rendered != nil {
				rendered = exp.Rendered
			}
		}
		return results, rendered, nil
	}

	outcome, err := ingest.DecodeMultiModal(data, scale)
	if err != nil {
		return nil, nil, err
	}
	return outcome.Results(), outcome.Rendered, nil
}

func emitReport(flags *reportFlags, summary *models.AggregatedSummary, results []models.EvaluationResult, rendered *models.RenderedCode) error {
	title := flags.title
	if title == "" {
		title = "Page Validation Results"
	}

	switch flags.format {
	case "text":
		return writeOut(flags.output, reporting.FormatSummaryReport(summary, results))
	case "markdown":
		md := reporting.FormatMarkdownReport(summary, results, reporting.MarkdownOptions{Title: title, Rendered: rendered})
		return writeOut(flags.output, md)
	case "html":
		md := reporting.FormatMarkdownReport(summary, results, reporting.MarkdownOptions{Title: title, Rendered: rendered})
		html, err := reporting.RenderHTML(title, md)
		if err != nil {
			return err
		}
		return writeOut(flags.output, html)
	case "junit":
		suites := reporting.ConvertToJUnit(title, summary, results, flags.threshold)
		if flags.output == "" {
			return fmt.Errorf("junit format requires --output")
		}
		return reporting.WriteJUnitFile(flags.output, suites)
	default:
		return fmt.Errorf("unsupported format %q: must be text, markdown, html or junit", flags.format)
	}
}

func writeOut(path, content string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
