package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagecrit/pagecrit/internal/projectconfig"
)

func newPersonasCommand() *cobra.Command {
	var personasFile string

	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List the personas a validation will use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			set, err := loadPersonas(personasFile, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range set {
				fmt.Fprintf(out, "%s\n", p.Name)
				fmt.Fprintf(out, "  Perspective: %s\n", p.Perspective)
				if len(p.Focus) > 0 {
					fmt.Fprintf(out, "  Focus:       %s\n", strings.Join(p.Focus, ", "))
				}
				if p.Device != "" {
					fmt.Fprintf(out, "  Device:      %s\n", p.Device)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&personasFile, "personas", "", "YAML file with personas (default: built-in set)")

	return cmd
}
