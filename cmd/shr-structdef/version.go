package main

import (
	"fmt"

	"github.com/spf13/cobra"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/pkg/modelfile"
)

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "shr-structdef v%s (FHIR %s)\n", shr.Version, shr.R4.Number())
		},
	}
}

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema model files are validated against",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := a.stdout.Write(modelfile.Schema())
			return err
		},
	}
}
