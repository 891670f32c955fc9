package main

import (
	"fmt"
	"strings"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/pkg/issue"
)

// report prints the issues of every result to stderr and returns the
// number of entries with errors. With summary set, a status block is
// printed for every entry, not only those with issues.
func (a *app) report(results []*shr.Result, summary bool) int {
	failed := 0
	warnings := 0
	for _, r := range results {
		if r.HasErrors() {
			failed++
		}
		warnings += r.WarningCount()

		if !summary && len(r.Issues) == 0 {
			continue
		}
		a.printResult(r)
	}

	fmt.Fprintf(a.stderr, "%d entries, %d exported, %d failed, %d warnings\n",
		len(results), len(results)-failed, failed, warnings)
	return failed
}

func (a *app) printResult(r *shr.Result) {
	status := "VALID"
	if r.HasErrors() {
		status = "INVALID"
	}

	fmt.Fprintf(a.stderr, "== %s ==\n", r.Entry)
	fmt.Fprintf(a.stderr, "Status: %s\n", status)
	if r.Stats.URL != "" {
		fmt.Fprintf(a.stderr, "URL: %s\n", r.Stats.URL)
	}
	if len(r.Issues) > 0 {
		fmt.Fprintln(a.stderr, "Issues:")
		for _, iss := range r.Issues {
			a.printIssue(iss)
		}
	}
	fmt.Fprintln(a.stderr)
}

func (a *app) printIssues(file string, issues []issue.Issue) {
	fmt.Fprintf(a.stderr, "== %s ==\n", file)
	for _, iss := range issues {
		a.printIssue(iss)
	}
	fmt.Fprintln(a.stderr)
}

func (a *app) printIssue(iss issue.Issue) {
	location := ""
	if len(iss.Expression) > 0 {
		location = " @ " + strings.Join(iss.Expression, ", ")
	}
	if iss.Location != nil {
		location += " (" + iss.Location.String() + ")"
	}
	fmt.Fprintf(a.stderr, "  %s [%s] %s%s\n", severityLabel(iss.Severity), iss.Code, iss.Diagnostics, location)
}

func severityLabel(severity issue.Severity) string {
	switch severity {
	case issue.SeverityFatal, issue.SeverityError:
		return "ERROR"
	case issue.SeverityWarning:
		return "WARN "
	case issue.SeverityInformation:
		return "INFO "
	default:
		return "     "
	}
}
