// Package main implements the shr-structdef CLI, which flattens SHR model
// files into StructureDefinition documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gofhir/shrexport/config"
)

const usage = `shr-structdef flattens SHR namespaces into StructureDefinition documents.

Model files are CUE or JSON documents matching the embedded #Model schema
(see 'shr-structdef schema'). Every entry of every namespace is exported
unless --entry names a subset.

Examples:
  shr-structdef export model.cue
  shr-structdef export --format r4 --out build/ shr/*.cue
  shr-structdef export --entry shr.test:Simple model.cue
  shr-structdef check model.cue
  SHREXPORT_BASE_URL=http://example.org shr-structdef export model.cue`

// ExitError carries a non-zero exit code out of a RunE handler. A nil Err
// means the report has already been printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// app holds the state shared by the commands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		v:      config.NewViper(),
		stdout: stdout,
		stderr: stderr,
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "shr-structdef",
		Short:         "Export SHR definitions as StructureDefinitions",
		Long:          usage,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.exportCommand())
	root.AddCommand(a.checkCommand())
	root.AddCommand(a.schemaCommand())
	root.AddCommand(a.versionCommand())
	return root
}

// bind maps config keys to command flags so that set flags override the
// config file and environment.
func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadViper(a.v, a.cfgFile)
	if err != nil {
		return nil, err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newApp(stdout, stderr).rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
