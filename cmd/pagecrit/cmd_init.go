package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/pagecrit/pagecrit/internal/projectconfig"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .pagecrit.yaml in the current directory",
		Long: `Init writes a project configuration file. On a terminal it walks through
an interactive form; otherwise it writes the defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func initCommandE(cmd *cobra.Command, force bool) error {
	if _, err := os.Stat(projectconfig.ConfigFileName); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", projectconfig.ConfigFileName)
	}

	cfg := projectconfig.New()

	if isTerminal() {
		if err := runInitForm(cfg); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(projectconfig.ConfigFileName, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", projectconfig.ConfigFileName, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", projectconfig.ConfigFileName)
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func runInitForm(cfg *projectconfig.ProjectConfig) error {
	workers := strconv.Itoa(cfg.Runner.Workers)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default URL").
				Description("The page validated when no --url is given").
				Value(&cfg.URL),
			huh.NewInput().
				Title("Node executable").
				Description("Binary used to run the browser-validation runtime").
				Value(&cfg.Runner.Node),
			huh.NewInput().
				Title("Parallel workers").
				Value(&workers).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default report format").
				Options(
					huh.NewOption("text", "text"),
					huh.NewOption("markdown", "markdown"),
					huh.NewOption("html", "html"),
				).
				Value(&cfg.Report.Format),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("init form: %w", err)
	}

	n, err := strconv.Atoi(workers)
	if err != nil {
		return fmt.Errorf("parsing workers: %w", err)
	}
	cfg.Runner.Workers = n
	return nil
}
