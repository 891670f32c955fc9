package worker

import (
	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/pkg/model"
)

// Job represents one entry to export.
type Job struct {
	// ID is a unique identifier for this job.
	ID string

	// Index is the position of the job in the caller's input.
	Index int

	// Entry is the definition to export.
	Entry model.Identifier
}

// JobResult represents the result of an export job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Index matches the Job.Index that produced this result.
	Index int

	// Entry is the exported identifier.
	Entry model.Identifier

	// Result contains the export result.
	Result *shr.Result

	// Error is set when the export did not run (cancelled, no exporter).
	Error error

	// Duration is the time taken to export (in nanoseconds).
	Duration int64

	// skipped is set when the job never ran
	skipped bool
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results, in submission order for batches.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed with an error.
	FailedJobs int

	// TotalDuration is the total time for all exports (in nanoseconds).
	TotalDuration int64
}

// HasErrors returns true if any job failed or produced error issues.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
		if r.Result != nil && r.Result.HasErrors() {
			return true
		}
	}
	return false
}

// ErrorCount returns the total number of error issues across all results.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += r.Result.ErrorCount()
		}
	}
	return count
}

// ExportResults returns the export results in order, skipping jobs that
// did not run.
func (br *BatchResult) ExportResults() []*shr.Result {
	out := make([]*shr.Result, 0, len(br.Results))
	for _, r := range br.Results {
		if r.Result != nil {
			out = append(out, r.Result)
		}
	}
	return out
}
