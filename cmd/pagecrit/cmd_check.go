package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/pagecrit/pagecrit/internal/projectconfig"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Diagnose configuration and environment",
		Long: `Check reports what a validation run would actually use: the resolved
configuration, whether an API key is present, and whether the node
executable can be found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCommandE(cmd)
		},
	}
}

type checkRow struct {
	ok     bool
	label  string
	detail string
}

func checkCommandE(cmd *cobra.Command) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	rows := []checkRow{
		{ok: true, label: "Target URL", detail: cfg.URL},
		{ok: true, label: "Screenshot path", detail: cfg.ScreenshotPath},
	}

	if key := apiKeyProvider(cfg); key != "" {
		rows = append(rows, checkRow{ok: true, label: "API key", detail: key})
	} else {
		rows = append(rows, checkRow{label: "API key", detail: "none configured (GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY)"})
	}

	if path, err := exec.LookPath(cfg.Runner.Node); err == nil {
		rows = append(rows, checkRow{ok: true, label: "Node executable", detail: path})
	} else {
		rows = append(rows, checkRow{label: "Node executable", detail: fmt.Sprintf("%q not found in PATH", cfg.Runner.Node)})
	}

	if cfg.CacheEnabled() {
		rows = append(rows, checkRow{ok: true, label: "Result cache", detail: cfg.Cache.Dir})
	} else {
		rows = append(rows, checkRow{ok: true, label: "Result cache", detail: "disabled"})
	}

	personaSet, err := loadPersonas("", cfg)
	if err != nil {
		rows = append(rows, checkRow{label: "Personas", detail: err.Error()})
	} else {
		source := "built-in"
		if cfg.PersonasFile != "" {
			source = cfg.PersonasFile
		}
		rows = append(rows, checkRow{ok: true, label: "Personas", detail: fmt.Sprintf("%d (%s)", len(personaSet), source)})
	}

	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row.label); w > width {
			width = w
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, row := range rows {
		icon := "✓"
		if !row.ok {
			icon = "✗"
			failed++
		}
		padding := strings.Repeat(" ", width-runewidth.StringWidth(row.label))
		fmt.Fprintf(out, "%s %s%s  %s\n", icon, row.label, padding, row.detail)
	}

	if failed > 0 {
		fmt.Fprintf(out, "\n%d check(s) need attention. Runs will still work with --mock.\n", failed)
	}
	return nil
}

func apiKeyProvider(cfg *projectconfig.ProjectConfig) string {
	switch {
	case cfg.Keys.Gemini != "":
		return "gemini"
	case cfg.Keys.OpenAI != "":
		return "openai"
	case cfg.Keys.Anthropic != "":
		return "anthropic"
	default:
		return ""
	}
}
