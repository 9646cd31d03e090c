package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagecrit",
		Short: "pagecrit - aggregate and report multi-perspective page validations",
		Long: `pagecrit turns the JSON emitted by an AI browser-validation runtime into
aggregated reports.

It generates the node runner scripts, ingests persona and multi-modal
validation payloads, combines per-perspective scores and issues into a
summary, and renders the result as text, markdown, HTML or JUnit XML.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newScriptCommand())
	cmd.AddCommand(newPersonasCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
