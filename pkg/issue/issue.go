// Package issue defines export issues aligned with FHIR OperationOutcome.
package issue

import (
	"fmt"
	"strings"
)

// Severity represents the severity of an issue.
type Severity string

// Severity constants aligned with FHIR IssueSeverity.
const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Code represents the type of issue (IssueType).
type Code string

// Code constants aligned with FHIR IssueType.
const (
	CodeInvalid       Code = "invalid"
	CodeStructure     Code = "structure"
	CodeValue         Code = "value"
	CodeInvariant     Code = "invariant"
	CodeProcessing    Code = "processing"
	CodeNotSupported  Code = "not-supported"
	CodeDuplicate     Code = "duplicate"
	CodeNotFound      Code = "not-found"
	CodeTooCostly     Code = "too-costly"
	CodeException     Code = "exception"
	CodeIncomplete    Code = "incomplete"
	CodeInformational Code = "informational"
)

// Issue represents a single export issue.
type Issue struct {
	// Severity indicates the severity level (error, warning, etc.)
	Severity Severity `json:"severity"`

	// Code indicates the type of issue
	Code Code `json:"code"`

	// Diagnostics is the human-readable description of the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression holds the element path(s) or identifier the issue is about
	Expression []string `json:"expression,omitempty"`

	// Location points into a model file, when the issue came from one
	Location *Location `json:"location,omitempty"`

	// Source identifies the component that generated the issue
	Source string `json:"source,omitempty"`

	// MessageID is the identifier from the diagnostic catalog
	MessageID string `json:"messageId,omitempty"`
}

// IsError returns true if this is an error or fatal issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning returns true if this is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns "severity: diagnostics at expression", prefixed with the
// model file position when there is one.
func (i Issue) String() string {
	var b strings.Builder
	if i.Location != nil {
		b.WriteString(i.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(string(i.Severity))
	b.WriteString(": ")
	b.WriteString(i.Diagnostics)
	if len(i.Expression) > 0 {
		b.WriteString(" at ")
		b.WriteString(i.Expression[0])
	}
	return b.String()
}

// Builder provides a fluent API for building issues.
type Builder struct {
	issue Issue
}

// New creates a Builder.
func New(severity Severity, code Code) *Builder {
	return &Builder{issue: Issue{Severity: severity, Code: code}}
}

// Error creates an error issue builder.
func Error(code Code) *Builder {
	return New(SeverityError, code)
}

// Warning creates a warning issue builder.
func Warning(code Code) *Builder {
	return New(SeverityWarning, code)
}

// Diagnostics sets the diagnostic message.
func (b *Builder) Diagnostics(msg string) *Builder {
	b.issue.Diagnostics = msg
	return b
}

// At sets the expression path.
func (b *Builder) At(path string) *Builder {
	b.issue.Expression = []string{path}
	return b
}

// In sets the model file position.
func (b *Builder) In(loc *Location) *Builder {
	b.issue.Location = loc
	return b
}

// From sets the source component.
func (b *Builder) From(source string) *Builder {
	b.issue.Source = source
	return b
}

// Build returns the constructed issue.
func (b *Builder) Build() Issue {
	return b.issue
}

// Location is a position in a model file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// String renders file:line:column.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Stats contains statistics about one exported document.
type Stats struct {
	// Entry is the entry identifier, as namespace:name
	Entry string
	// URL is the canonical URL of the document
	URL string
	// Duration is the export time
	Duration int64 // nanoseconds
	// NodesEmitted is the number of element nodes in the document
	NodesEmitted int
}

// Result holds the collection of issues from an export.
type Result struct {
	Issues []Issue
}

// defaultIssueCapacity is the pre-allocated capacity for Issues slice.
const defaultIssueCapacity = 4

// NewResult creates a new empty Result with pre-allocated capacity.
func NewResult() *Result {
	return &Result{
		Issues: make([]Issue, 0, defaultIssueCapacity),
	}
}

// AddIssue adds an issue to the result.
func (r *Result) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// AddError adds an error-level issue.
func (r *Result) AddError(code Code, diagnostics string, expression ...string) {
	r.Issues = append(r.Issues, Issue{
		Severity:    SeverityError,
		Code:        code,
		Diagnostics: diagnostics,
		Expression:  expression,
	})
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError || issue.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Merge combines another result into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

// WithSource sets Source on every issue that has none.
func (r *Result) WithSource(source string) *Result {
	for i := range r.Issues {
		if r.Issues[i].Source == "" {
			r.Issues[i].Source = source
		}
	}
	return r
}
