// Package shrexport flattens Standard Health Record (SHR) specification
// models into StructureDefinition-shaped documents, one per entry
// definition.
//
// The root package holds what the exporter and its callers share: the
// functional Options, the pooled per-entry Result and the export Metrics.
// The exporter itself lives in the engine package.
//
// # Quick Start
//
//	import (
//	    shr "github.com/gofhir/shrexport"
//	    "github.com/gofhir/shrexport/engine"
//	    "github.com/gofhir/shrexport/pkg/modelfile"
//	)
//
//	namespaces, err := modelfile.LoadFiles("model.cue")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp, err := engine.New(namespaces, shr.WithBaseURL("http://example.org"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := exp.ExportAll(ctx)
//	for _, r := range results {
//	    if r.HasErrors() {
//	        for _, iss := range r.Errors() {
//	            fmt.Println(iss.Diagnostics)
//	        }
//	        continue
//	    }
//	    fmt.Println(r.Document.URL)
//	    exp.Release(r) // Return to pool
//	}
//
// # Functional Options
//
//	exp, err := engine.New(namespaces,
//	    shr.WithPublisher("Example Publisher"),
//	    shr.WithStrictPrimitives(true),
//	    shr.WithWorkerCount(runtime.NumCPU()),
//	    shr.WithMaxDocuments(500),
//	)
//
// # Export Stages
//
// Each entry goes through two stages:
//
//   - Expand: resolve identifiers, walk values depth-first and emit one
//     node per element with a unique path (pkg/expand, pkg/structdef)
//   - Constraint: evaluate FHIRPath invariants over the document
//     (pkg/constraint)
//
// A failure in one entry (unresolved identifier, inverted cardinality,
// unknown primitive in strict mode) is reported as issues on that entry's
// Result and does not stop the batch.
//
// # Packages
//
//   - pkg/model: identifiers, values, definitions and namespaces
//   - pkg/modelfile: CUE/JSON model files validated against an embedded schema
//   - pkg/registry: identifier resolution across namespaces
//   - pkg/convert: projection onto r4.StructureDefinition
//   - pkg/issue: OperationOutcome-style issues with diagnostic templates
//   - worker: parallel batch export
//   - config: viper-backed CLI configuration
package shrexport
