// Package engine provides the SHR export engine.
package engine

import (
	"context"
	"fmt"
	"time"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/cache"
	"github.com/gofhir/shrexport/pkg/constraint"
	"github.com/gofhir/shrexport/pkg/expand"
	"github.com/gofhir/shrexport/pkg/logger"
	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/pkg/registry"
	"github.com/gofhir/shrexport/pkg/structdef"
	"github.com/gofhir/shrexport/stream"
	"github.com/gofhir/shrexport/worker"
)

// Stage names reported in metrics.
const (
	StageExpand     = "expand"
	StageConstraint = "constraint"
)

// Exporter turns the entries of a set of namespaces into documents.
// It is safe for concurrent use once built.
type Exporter struct {
	options *shr.Options

	registry  *registry.Registry
	assembler *structdef.Assembler
	checker   *constraint.Checker
	documents *cache.LRU[model.Identifier, *structdef.Document]

	metrics *shr.Metrics
	log     *logger.Logger
}

// New builds an Exporter over namespaces. Duplicate definitions across
// same-named namespaces are rejected.
func New(namespaces []*model.Namespace, opts ...shr.Option) (*Exporter, error) {
	options := shr.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	reg, err := registry.New(namespaces...)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	e := &Exporter{
		options:  options,
		registry: reg,
		metrics:  shr.NewMetrics(),
		log:      logger.Default(),
	}
	e.build()
	return e, nil
}

// build wires the expander, assembler and checker from the options.
func (e *Exporter) build() {
	o := e.options

	expander := expand.New(e.registry,
		expand.WithBaseURL(o.BaseURL),
		expand.WithStrictPrimitives(o.StrictPrimitives),
		expand.WithMaxDepth(o.MaxDepth),
	)

	e.assembler = structdef.NewAssembler(e.registry, expander,
		structdef.WithBaseURL(o.BaseURL),
		structdef.WithPublisher(o.Publisher),
		structdef.WithStatus(o.Status),
	)

	e.checker = nil
	if o.ValidateConstraints {
		e.checker = constraint.New(o.Invariants...)
	}

	e.documents = nil
	if o.DocumentCacheSize > 0 {
		e.documents = cache.New[model.Identifier, *structdef.Document](o.DocumentCacheSize)
	}
}

// SetLogger replaces the logger. A nil logger restores the default.
func (e *Exporter) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Default()
	}
	e.log = l
}

// Export flattens one entry. Per-entry failures (unresolved identifiers,
// invalid cardinalities, unknown primitives in strict mode) are reported
// as issues on the result, which then carries no document. The error is
// non-nil only when ctx is done before the export starts.
func (e *Exporter) Export(ctx context.Context, entry model.Identifier) (*shr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := e.acquireResult()
	result.Entry = entry

	expandStart := time.Now()
	doc, err := e.assemble(entry)
	if err != nil {
		result.AddIssue(issueFor(entry, err))
		e.metrics.RecordStage(StageExpand, time.Since(expandStart), 1)
		e.log.Warn("entry failed", "entry", entry.String(), "err", err)
	} else {
		issues := warningIssues(doc.Warnings)
		issues.Merge(e.basedOnIssues(entry))
		e.metrics.RecordStage(StageExpand, time.Since(expandStart), len(issues.Issues))
		result.Document = doc

		if e.checker != nil {
			checkStart := time.Now()
			checked := e.checker.Check(doc)
			e.metrics.RecordStage(StageConstraint, time.Since(checkStart), len(checked.Issues))
			issues.Merge(checked)
		}
		result.AddIssues(issues)
	}

	if e.options.StrictMode {
		result.EscalateWarnings()
	}

	nodes := 0
	if doc != nil {
		nodes = len(doc.Elements())
		result.Stats.URL = doc.URL
	}
	duration := time.Since(start)
	result.Stats.Entry = entry.String()
	result.Stats.Duration = duration.Nanoseconds()
	result.Stats.NodesEmitted = nodes

	e.metrics.RecordExport(duration, nodes, result.Valid)
	e.metrics.RecordIssues(result.Issues)

	if doc != nil {
		e.log.Debug("exported entry", "entry", entry.String(), "nodes", nodes, "issues", len(result.Issues))
	}
	return result, nil
}

// assemble returns the document for entry, from the cache when enabled.
// Only successful assemblies are cached.
func (e *Exporter) assemble(entry model.Identifier) (*structdef.Document, error) {
	if e.documents == nil {
		return e.assembler.Assemble(entry)
	}
	if doc, ok := e.documents.Get(entry); ok {
		e.metrics.RecordCacheHit()
		return doc, nil
	}
	e.metrics.RecordCacheMiss()

	doc, err := e.assembler.Assemble(entry)
	if err != nil {
		return nil, err
	}
	e.documents.Add(entry, doc)
	return doc, nil
}

// ExportEntries exports entries in parallel and returns results in entry
// order. At most MaxDocuments entries are exported when that is set.
// When ctx is cancelled, the results exported so far are returned with
// ctx.Err().
func (e *Exporter) ExportEntries(ctx context.Context, entries []model.Identifier) ([]*shr.Result, error) {
	if limit := e.options.MaxDocuments; limit > 0 && len(entries) > limit {
		e.log.Warn("entry limit reached", "entries", len(entries), "limit", limit)
		entries = entries[:limit]
	}

	be := worker.NewBatchExporter(e.Export, e.options.WorkerCount)
	batch := be.ExportBatch(ctx, entries)
	results := batch.ExportResults()

	failed := 0
	for _, r := range results {
		if r.HasErrors() {
			failed++
		}
	}
	e.log.Info("export finished",
		"documents", len(results),
		"failed", failed,
		"skipped", len(entries)-len(results),
		"duration", time.Duration(batch.TotalDuration),
	)

	return results, ctx.Err()
}

// ExportStream exports entries in parallel and emits results in entry
// order as they complete. The channel must be drained.
func (e *Exporter) ExportStream(ctx context.Context, entries []model.Identifier) <-chan *stream.EntryResult {
	if limit := e.options.MaxDocuments; limit > 0 && len(entries) > limit {
		e.log.Warn("entry limit reached", "entries", len(entries), "limit", limit)
		entries = entries[:limit]
	}
	return stream.NewExporter(e.Export).WithWorkerCount(e.options.WorkerCount).ExportStream(ctx, entries)
}

// ExportAll exports every entry of every namespace.
func (e *Exporter) ExportAll(ctx context.Context) ([]*shr.Result, error) {
	return e.ExportEntries(ctx, e.registry.Entries())
}

func (e *Exporter) acquireResult() *shr.Result {
	if !e.options.EnablePooling {
		return shr.NewResult(model.Identifier{})
	}
	e.metrics.RecordPoolAcquire()
	return shr.AcquireResult()
}

// Release returns a result obtained from this exporter to the pool.
func (e *Exporter) Release(r *shr.Result) {
	if r == nil || !e.options.EnablePooling {
		return
	}
	e.metrics.RecordPoolRelease()
	r.Release()
}

// Registry returns the combined registry of all namespaces.
func (e *Exporter) Registry() *registry.Registry {
	return e.registry
}

// Entries returns every entry the exporter would export.
func (e *Exporter) Entries() []model.Identifier {
	return e.registry.Entries()
}

// Metrics returns the exporter's metrics.
func (e *Exporter) Metrics() *shr.Metrics {
	return e.metrics
}

// Options returns the exporter's options.
func (e *Exporter) Options() *shr.Options {
	return e.options
}

// CacheStats returns document cache statistics; ok is false when the
// cache is disabled.
func (e *Exporter) CacheStats() (stats cache.Stats, ok bool) {
	if e.documents == nil {
		return cache.Stats{}, false
	}
	return e.documents.Stats(), true
}

// Close releases resources held by the exporter.
func (e *Exporter) Close() error {
	if e.documents != nil {
		e.documents.Purge()
	}
	return nil
}
