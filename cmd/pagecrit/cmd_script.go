package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagecrit/pagecrit/internal/projectconfig"
	"github.com/pagecrit/pagecrit/internal/runner"
)

type scriptFlags struct {
	kind         string
	url          string
	testName     string
	personasFile string
	options      []string
	output       string
}

func newScriptCommand() *cobra.Command {
	flags := &scriptFlags{}

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the node runner script for a validation",
		Long: `Script renders the node program that drives the external browser-validation
runtime, for inspection or for running by hand. The persona kind calls
experiencePageWithPersonas; the multimodal kind calls multiModalValidation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return scriptCommandE(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "persona", "Script kind: persona or multimodal")
	cmd.Flags().StringVar(&flags.url, "url", "", "Target URL (default from config)")
	cmd.Flags().StringVar(&flags.testName, "test-name", "", "Test name embedded in the multimodal script")
	cmd.Flags().StringVar(&flags.personasFile, "personas", "", "YAML file with personas (default: built-in set)")
	cmd.Flags().StringArrayVar(&flags.options, "option", nil, "Runner option as key=value (repeatable; overrides config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the script to a file instead of stdout")

	return cmd
}

func scriptCommandE(flags *scriptFlags) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	url := flags.url
	if url == "" {
		url = cfg.URL
	}

	opts, err := resolveOptions(cfg.Runner.Options, flags.options)
	if err != nil {
		return err
	}

	scriptCfg := runner.ScriptConfig{
		URL:      url,
		TestName: flags.testName,
		Options:  opts,
	}

	var script string
	switch flags.kind {
	case "persona":
		scriptCfg.Personas, err = loadPersonas(flags.personasFile, cfg)
		if err != nil {
			return err
		}
		script, err = runner.PersonaScript(scriptCfg)
	case "multimodal":
		script, err = runner.MultiModalScript(scriptCfg)
	default:
		return fmt.Errorf("unsupported kind %q: must be persona or multimodal", flags.kind)
	}
	if err != nil {
		return err
	}

	return writeOut(flags.output, script)
}
