package shrexport

import (
	"sync"

	"github.com/gofhir/shrexport/pkg/issue"
	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/pkg/structdef"
)

// Result contains the outcome of exporting one entry.
// Use Release() to return it to the pool when done.
type Result struct {
	// Entry is the identifier that was exported
	Entry model.Identifier `json:"entry"`

	// Document is the flattened document; nil when the export failed
	Document *structdef.Document `json:"document,omitempty"`

	// Valid is true if no errors were found (warnings are allowed)
	Valid bool `json:"valid"`

	// Issues contains every issue found for this entry
	Issues []issue.Issue `json:"issues,omitempty"`

	// Stats holds timing and size of the export
	Stats issue.Stats `json:"stats"`

	// mu protects concurrent access to Issues
	mu sync.Mutex
}

var resultPool = sync.Pool{
	New: func() any {
		return &Result{
			Issues: make([]issue.Issue, 0, 8),
		}
	},
}

// AcquireResult gets a Result from the pool.
// The result starts as valid with no issues.
func AcquireResult() *Result {
	r := resultPool.Get().(*Result)
	r.Reset()
	return r
}

// Release returns the Result to the pool.
// After calling Release, the Result should not be used.
func (r *Result) Release() {
	if r == nil {
		return
	}
	// Don't return results with oversized issue slices
	if cap(r.Issues) <= 1024 {
		resultPool.Put(r)
	}
}

// Reset clears the result for reuse.
func (r *Result) Reset() {
	r.Entry = model.Identifier{}
	r.Document = nil
	r.Valid = true
	r.Issues = r.Issues[:0]
	r.Stats = issue.Stats{}
}

// AddIssue adds an issue to the result.
// This method is thread-safe.
func (r *Result) AddIssue(is issue.Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Issues = append(r.Issues, is)
	if is.IsError() {
		r.Valid = false
	}
}

// AddIssues adds every issue of other.
func (r *Result) AddIssues(other *issue.Result) {
	if other == nil || len(other.Issues) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Issues = append(r.Issues, other.Issues...)
	if other.HasErrors() {
		r.Valid = false
	}
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	return !r.Valid
}

// ErrorCount returns the number of error issues.
func (r *Result) ErrorCount() int {
	return r.count(issue.Issue.IsError)
}

// WarningCount returns the number of warning issues.
func (r *Result) WarningCount() int {
	return r.count(issue.Issue.IsWarning)
}

func (r *Result) count(match func(issue.Issue) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, is := range r.Issues {
		if match(is) {
			n++
		}
	}
	return n
}

// Errors returns all error and fatal issues.
func (r *Result) Errors() []issue.Issue {
	return r.filter(issue.Issue.IsError)
}

// Warnings returns all warning issues.
func (r *Result) Warnings() []issue.Issue {
	return r.filter(issue.Issue.IsWarning)
}

func (r *Result) filter(match func(issue.Issue) bool) []issue.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []issue.Issue
	for _, is := range r.Issues {
		if match(is) {
			out = append(out, is)
		}
	}
	return out
}

// EscalateWarnings turns every warning into an error.
func (r *Result) EscalateWarnings() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.Issues {
		if r.Issues[i].IsWarning() {
			r.Issues[i].Severity = issue.SeverityError
			r.Valid = false
		}
	}
}

// Clone creates a copy of the result (not pooled). The document is shared.
func (r *Result) Clone() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := &Result{
		Entry:    r.Entry,
		Document: r.Document,
		Valid:    r.Valid,
		Issues:   make([]issue.Issue, len(r.Issues)),
		Stats:    r.Stats,
	}
	copy(clone.Issues, r.Issues)
	return clone
}

// NewResult creates a new (non-pooled) result for entry.
// Prefer AcquireResult() for better performance.
func NewResult(entry model.Identifier) *Result {
	return &Result{
		Entry:  entry,
		Valid:  true,
		Issues: make([]issue.Issue, 0, 8),
	}
}
