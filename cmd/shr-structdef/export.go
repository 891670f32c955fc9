package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/config"
	"github.com/gofhir/shrexport/engine"
	"github.com/gofhir/shrexport/pkg/convert"
	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/pkg/modelfile"
	"github.com/gofhir/shrexport/stream"
)

func (a *app) exportCommand() *cobra.Command {
	var (
		entries []string
		ndjson  bool
	)

	cmd := &cobra.Command{
		Use:   "export [flags] <model-file>...",
		Short: "Export a document for every entry",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.bind(cmd.Flags(), map[string]string{
				"format":            "format",
				"out":               "out",
				"workers":           "workers",
				"base_url":          "base-url",
				"strict_mode":       "strict",
				"strict_primitives": "strict-primitives",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if ndjson {
				return a.runStream(cmd.Context(), args, entries)
			}
			return a.runExport(cmd.Context(), args, entries)
		},
	}

	f := cmd.Flags()
	f.StringP("format", "f", config.FormatSHR, "output format: shr or r4")
	f.StringP("out", "o", "", "write one file per document under this directory (default stdout)")
	f.BoolVar(&ndjson, "ndjson", false, "stream one document per line to stdout as entries finish")
	f.StringSliceVarP(&entries, "entry", "e", nil, "export only these entries (namespace:Name)")
	f.Int("workers", 0, "parallel exports (default number of CPUs)")
	f.String("base-url", "", "base of canonical URLs")
	f.Bool("strict", false, "treat warnings as errors")
	f.Bool("strict-primitives", false, "fail on unrecognized primitive types")
	return cmd
}

func (a *app) runExport(ctx context.Context, files, entryArgs []string) error {
	cfg, exp, entries, err := a.prepareEntries(files, entryArgs)
	if err != nil {
		return err
	}
	defer exp.Close()

	results, err := exp.ExportEntries(ctx, entries)
	if err != nil {
		return err
	}

	if err := a.writeDocuments(cfg, results); err != nil {
		return err
	}

	failed := a.report(results, false)
	if failed > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// runStream writes each document as one JSON line as soon as it and every
// entry before it are exported.
func (a *app) runStream(ctx context.Context, files, entryArgs []string) error {
	cfg, exp, entries, err := a.prepareEntries(files, entryArgs)
	if err != nil {
		return err
	}
	defer exp.Close()

	conv := convert.NewR4Converter()
	enc := json.NewEncoder(a.stdout)
	summary := &stream.Summary{}

	for er := range exp.ExportStream(ctx, entries) {
		summary.Add(er)
		if er.Result == nil {
			continue
		}
		if er.Result.HasErrors() || er.Result.WarningCount() > 0 {
			a.printResult(er.Result)
		}
		if er.Result.Document != nil {
			var doc any = er.Result.Document
			if cfg.Format == config.FormatR4 {
				if doc, err = conv.ToR4(er.Result.Document); err != nil {
					return fmt.Errorf("encoding %s: %w", er.Entry, err)
				}
			}
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		exp.Release(er.Result)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintln(a.stderr, summary.String())
	if summary.HasErrors() {
		return &ExitError{Code: 1}
	}
	return nil
}

func (a *app) prepareEntries(files, entryArgs []string) (*config.Config, *engine.Exporter, []model.Identifier, error) {
	cfg, exp, err := a.prepare(files)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(entryArgs) == 0 {
		return cfg, exp, exp.Entries(), nil
	}
	entries, err := parseEntries(entryArgs)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, exp, entries, nil
}

// prepare loads the configuration and model files and builds the exporter.
func (a *app) prepare(files []string) (*config.Config, *engine.Exporter, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}

	loader := modelfile.NewLoader(modelfile.WithMaxFileSize(cfg.MaxFileSize))
	namespaces, err := loader.LoadFiles(files...)
	if err != nil {
		var mfErr *modelfile.Error
		if errors.As(err, &mfErr) {
			a.printIssues(mfErr.File, mfErr.Issues)
			return nil, nil, &ExitError{Code: 2}
		}
		return nil, nil, err
	}
	log.Debug("loaded model", "files", len(files), "namespaces", len(namespaces))

	exp, err := engine.New(namespaces, cfg.Options()...)
	if err != nil {
		return nil, nil, err
	}
	exp.SetLogger(log)
	return cfg, exp, nil
}

func parseEntries(args []string) ([]model.Identifier, error) {
	entries := make([]model.Identifier, 0, len(args))
	for _, s := range args {
		id, err := model.ParseIdentifier(s, "")
		if err != nil {
			return nil, fmt.Errorf("--entry: %w", err)
		}
		entries = append(entries, id)
	}
	return entries, nil
}

// writeDocuments writes the exported documents either as one JSON array on
// stdout or as out/<namespace path>/<Name>.json files.
func (a *app) writeDocuments(cfg *config.Config, results []*shr.Result) error {
	conv := convert.NewR4Converter()

	encode := func(r *shr.Result) (any, error) {
		if cfg.Format == config.FormatR4 {
			return conv.ToR4(r.Document)
		}
		return r.Document, nil
	}

	if cfg.Out == "" {
		docs := make([]any, 0, len(results))
		for _, r := range results {
			if r.Document == nil {
				continue
			}
			doc, err := encode(r)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", r.Entry, err)
			}
			docs = append(docs, doc)
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	for _, r := range results {
		if r.Document == nil {
			continue
		}
		doc, err := encode(r)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", r.Entry, err)
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", r.Entry, err)
		}

		path := documentPath(cfg.Out, r.Entry)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // output documents are public
			return err
		}
	}
	return nil
}

// documentPath keeps same-named entries of different namespaces apart.
func documentPath(out string, entry model.Identifier) string {
	return filepath.Join(out, filepath.FromSlash(entry.NamespacePath()), entry.Name+".json")
}
