// Package stream exports entries in parallel and emits results in entry
// order as soon as each one, and all before it, are done.
package stream

import (
	"context"
	"fmt"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/pkg/issue"
	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/worker"
)

// EntryResult is the outcome of one entry.
type EntryResult struct {
	// Index is the position of the entry in the input
	Index int

	// Entry is the exported identifier
	Entry model.Identifier

	// Result contains the document and its issues
	Result *shr.Result

	// Error is set if the export did not run
	Error error
}

// Exporter streams export results.
type Exporter struct {
	export worker.ExportFunc

	// bufferSize is the output channel buffer size
	bufferSize int

	// workerCount is the number of parallel workers
	workerCount int
}

// NewExporter creates a streaming exporter around export.
func NewExporter(export worker.ExportFunc) *Exporter {
	return &Exporter{
		export:      export,
		bufferSize:  100,
		workerCount: 4,
	}
}

// WithBufferSize sets the channel buffer size.
func (e *Exporter) WithBufferSize(size int) *Exporter {
	if size > 0 {
		e.bufferSize = size
	}
	return e
}

// WithWorkerCount sets the number of parallel workers.
func (e *Exporter) WithWorkerCount(count int) *Exporter {
	if count > 0 {
		e.workerCount = count
	}
	return e
}

// ExportStream exports entries on a worker.Pool and emits one EntryResult
// per started entry in entry order. Entries not started before ctx is done
// are left out. The channel is closed when all work is done; callers must
// drain it.
func (e *Exporter) ExportStream(ctx context.Context, entries []model.Identifier) <-chan *EntryResult {
	results := make(chan *EntryResult, e.bufferSize)

	var exporter worker.Exporter
	if e.export != nil {
		exporter = e.export
	}

	go func() {
		defer close(results)

		pool := worker.NewPool(ctx, exporter, e.workerCount)
		defer pool.Close()

		// Submit work, then stop so Results closes once it finishes
		go func() {
			for i, entry := range entries {
				if !pool.Submit(worker.Job{ID: entry.String(), Index: i, Entry: entry}) {
					break
				}
			}
			pool.Stop()
		}()

		// Collect results and reorder
		pending := make(map[int]*EntryResult)
		nextIndex := 0

		for jr := range pool.Results() {
			pending[jr.Index] = &EntryResult{
				Index:  jr.Index,
				Entry:  jr.Entry,
				Result: jr.Result,
				Error:  jr.Error,
			}

			for {
				r, ok := pending[nextIndex]
				if !ok {
					break
				}
				results <- r
				delete(pending, nextIndex)
				nextIndex++
			}
		}

		// Entries skipped after cancellation leave gaps
		for ; nextIndex < len(entries) && len(pending) > 0; nextIndex++ {
			if r, ok := pending[nextIndex]; ok {
				results <- r
				delete(pending, nextIndex)
			}
		}
	}()

	return results
}

// Summary aggregates streamed results.
type Summary struct {
	// TotalEntries is the number of entries exported
	TotalEntries int

	// EntriesWithErrors is the count of entries that had errors
	EntriesWithErrors int

	// EntriesWithWarnings is the count of entries that had warnings (but no errors)
	EntriesWithWarnings int

	// TotalIssues is the total number of issues found
	TotalIssues int

	// ProcessingErrors are errors that stopped an entry from exporting
	ProcessingErrors []error

	// Issues holds the issues of each entry that had any
	Issues map[model.Identifier][]issue.Issue
}

// Add records one result.
func (s *Summary) Add(er *EntryResult) {
	if s.Issues == nil {
		s.Issues = make(map[model.Identifier][]issue.Issue)
	}
	if er.Error != nil {
		s.ProcessingErrors = append(s.ProcessingErrors, fmt.Errorf("%s: %w", er.Entry, er.Error))
		return
	}

	s.TotalEntries++
	if er.Result == nil || len(er.Result.Issues) == 0 {
		return
	}

	issues := make([]issue.Issue, len(er.Result.Issues))
	copy(issues, er.Result.Issues)
	s.Issues[er.Entry] = issues
	s.TotalIssues += len(issues)

	switch {
	case er.Result.HasErrors():
		s.EntriesWithErrors++
	case er.Result.WarningCount() > 0:
		s.EntriesWithWarnings++
	}
}

// Aggregate drains results into a Summary, releasing each result.
func Aggregate(results <-chan *EntryResult) *Summary {
	s := &Summary{Issues: make(map[model.Identifier][]issue.Issue)}
	for er := range results {
		s.Add(er)
		if er.Result != nil {
			er.Result.Release()
		}
	}
	return s
}

// HasErrors returns true if any entry had errors or did not run.
func (s *Summary) HasErrors() bool {
	return s.EntriesWithErrors > 0 || len(s.ProcessingErrors) > 0
}

// String returns a human-readable summary.
func (s *Summary) String() string {
	return fmt.Sprintf(
		"Exported %d entries: %d with errors, %d with warnings, %d total issues",
		s.TotalEntries,
		s.EntriesWithErrors,
		s.EntriesWithWarnings,
		s.TotalIssues,
	)
}
