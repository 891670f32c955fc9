package worker

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/gofhir/shrexport/pkg/model"
)

// BatchExporter exports a fixed list of entries with bounded parallelism.
type BatchExporter struct {
	exporter ExportFunc
	workers  int
}

// NewBatchExporter creates a new batch exporter.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewBatchExporter(exportFunc ExportFunc, workers int) *BatchExporter {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchExporter{
		exporter: exportFunc,
		workers:  workers,
	}
}

// ExportBatch exports every entry and returns one JobResult per entry, in
// entry order. Entries not started before ctx is cancelled get a result
// carrying ctx.Err().
func (be *BatchExporter) ExportBatch(ctx context.Context, entries []model.Identifier) *BatchResult {
	if len(entries) == 0 {
		return &BatchResult{
			Results: make([]*JobResult, 0),
		}
	}

	start := time.Now()

	var br *BatchResult
	// For small batches, don't use parallelism
	if len(entries) <= 2 || be.workers == 1 {
		br = be.exportSequential(ctx, entries)
	} else {
		br = be.exportParallel(ctx, entries)
	}

	br.TotalDuration = time.Since(start).Nanoseconds()
	return br
}

func (be *BatchExporter) exportSequential(ctx context.Context, entries []model.Identifier) *BatchResult {
	results := make([]*JobResult, len(entries))

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			results[i] = cancelled(entry, err)
			continue
		}
		results[i] = be.run(ctx, entry)
	}

	return summarize(results)
}

func (be *BatchExporter) exportParallel(ctx context.Context, entries []model.Identifier) *BatchResult {
	numWorkers := be.workers
	if numWorkers > len(entries) {
		numWorkers = len(entries)
	}

	jobs := make(chan int, len(entries))
	results := make([]*JobResult, len(entries))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = cancelled(entries[idx], err)
					continue
				}
				// Each index is written by exactly one worker
				results[idx] = be.run(ctx, entries[idx])
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return summarize(results)
}

func (be *BatchExporter) run(ctx context.Context, entry model.Identifier) *JobResult {
	start := time.Now()
	result, err := be.exporter(ctx, entry)
	return &JobResult{
		ID:       entry.String(),
		Entry:    entry,
		Result:   result,
		Error:    err,
		Duration: time.Since(start).Nanoseconds(),
	}
}

func cancelled(entry model.Identifier, err error) *JobResult {
	return &JobResult{
		ID:      entry.String(),
		Entry:   entry,
		Error:   err,
		skipped: true,
	}
}

func summarize(results []*JobResult) *BatchResult {
	br := &BatchResult{
		Results:   results,
		TotalJobs: len(results),
	}
	for _, r := range results {
		if !r.skipped {
			br.CompletedJobs++
		}
		if r.Error != nil {
			br.FailedJobs++
		}
	}
	return br
}
