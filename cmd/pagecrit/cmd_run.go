package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagecrit/pagecrit/internal/aggregate"
	"github.com/pagecrit/pagecrit/internal/cache"
	"github.com/pagecrit/pagecrit/internal/models"
	"github.com/pagecrit/pagecrit/internal/personas"
	"github.com/pagecrit/pagecrit/internal/projectconfig"
	"github.com/pagecrit/pagecrit/internal/runner"
)

type runFlags struct {
	urls         []string
	personasFile string
	mock         bool
	noCache      bool
	workers      int
	options      []string
	report       reportFlags
}

func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate pages with personas and report the results",
		Long: `Run experiences each page with the configured personas and aggregates the
evaluations into a report.

With --mock no browser, node runtime or API key is needed: deterministic
example payloads are produced instead, matching the runtime's shape.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.urls, "url", nil, "URL to validate (repeatable; default from config)")
	cmd.Flags().StringVar(&flags.personasFile, "personas", "", "YAML file with personas (default: built-in set)")
	cmd.Flags().BoolVar(&flags.mock, "mock", false, "Use the mock producer instead of the node runtime")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypass the result cache")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Parallel page validations (default from config)")
	cmd.Flags().StringArrayVar(&flags.options, "option", nil, "Runner option as key=value (repeatable; overrides config)")
	cmd.Flags().StringVarP(&flags.report.format, "format", "f", "", "Output format: text, markdown, html or junit")
	cmd.Flags().StringVarP(&flags.report.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Float64Var(&flags.report.threshold, "threshold", 0, "JUnit failure threshold on the 0-10 scale")

	return cmd
}

func runCommandE(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("format") {
		flags.report.format = cfg.Report.Format
	}
	if !cmd.Flags().Changed("threshold") {
		flags.report.threshold = cfg.Report.ScoreThreshold
	}
	if flags.workers == 0 {
		flags.workers = cfg.Runner.Workers
	}

	opts, err := resolveOptions(cfg.Runner.Options, flags.options)
	if err != nil {
		return err
	}

	urls := flags.urls
	if len(urls) == 0 {
		urls = []string{cfg.URL}
	}

	personaSet, err := loadPersonas(flags.personasFile, cfg)
	if err != nil {
		return err
	}

	producer, err := buildProducer(flags, cfg)
	if err != nil {
		return err
	}

	requests := make([]runner.Request, 0, len(urls))
	for _, url := range urls {
		requests = append(requests, runner.Request{
			URL:      url,
			Personas: personaSet,
			Options:  opts,
		})
	}

	batches, err := runner.RunAll(cmd.Context(), producer, requests, flags.workers)
	if err != nil {
		return err
	}

	var results []models.EvaluationResult
	var rendered *models.RenderedCode
	for i, batch := range batches {
		for _, exp := range batch {
			r := exp.Result()
			if len(batches) > 1 {
				// keep source IDs unique across pages
				r.SourceID = fmt.Sprintf("%s @ %s", r.SourceID, requests[i].URL)
			}
			results = append(results, r)
			if rendered == nil && exp.Rendered != nil {
				rendered = exp.Rendered
			}
		}
	}

	summary, err := aggregate.Aggregate(results)
	if err != nil {
		var validationErr *aggregate.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationFailureError{Message: err.Error()}
		}
		return err
	}

	if flags.report.title == "" && len(urls) == 1 {
		flags.report.title = urls[0]
	}
	return emitReport(&flags.report, summary, results, rendered)
}

func loadPersonas(path string, cfg *projectconfig.ProjectConfig) ([]models.Persona, error) {
	if path == "" {
		path = cfg.PersonasFile
	}
	if path == "" {
		return personas.Builtin(), nil
	}
	return personas.LoadFile(path)
}

// resolveOptions overlays --option key=value pairs onto the config file's
// runner options map, then decodes the merged map. Flags win over the file.
func resolveOptions(configured map[string]any, flagValues []string) (runner.Options, error) {
	params := make(map[string]any, len(configured)+len(flagValues))
	for k, v := range configured {
		params[k] = v
	}
	for _, kv := range flagValues {
		key, raw, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return runner.Options{}, fmt.Errorf("invalid --option %q: expected key=value", kv)
		}
		params[key] = parseOptionValue(raw)
	}
	return runner.DecodeOptions(params)
}

// parseOptionValue types a flag value the way YAML would: integers and
// booleans decode as such, everything else stays a string.
func parseOptionValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func buildProducer(flags *runFlags, cfg *projectconfig.ProjectConfig) (runner.Producer, error) {
	var producer runner.Producer
	if flags.mock {
		producer = &runner.MockProducer{}
	} else {
		envVar, key := cfg.APIKeyEnv()
		if key == "" {
			return nil, fmt.Errorf("no API key configured: set GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY, or use --mock")
		}
		producer = &runner.NodeProducer{
			Node:      cfg.Runner.Node,
			Timeout:   time.Duration(cfg.Runner.TimeoutSec) * time.Second,
			APIKey:    key,
			APIKeyVar: envVar,
		}
	}

	if cfg.CacheEnabled() && !flags.noCache {
		producer = &runner.CachingProducer{
			Inner: producer,
			Cache: cache.New(cfg.Cache.Dir),
		}
	}
	return producer, nil
}
