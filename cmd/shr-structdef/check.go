package main

import (
	"github.com/spf13/cobra"
)

func (a *app) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <model-file>...",
		Short: "Validate model files and report export issues without writing documents",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.bind(cmd.Flags(), map[string]string{"strict_mode": "strict"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, exp, err := a.prepare(args)
			if err != nil {
				return err
			}
			defer exp.Close()

			results, err := exp.ExportAll(cmd.Context())
			if err != nil {
				return err
			}
			if a.report(results, true) > 0 {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "treat warnings as errors")
	return cmd
}
