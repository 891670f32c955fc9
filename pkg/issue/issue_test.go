package issue

import (
	"testing"
)

func TestNewResult(t *testing.T) {
	r := NewResult()
	if r == nil {
		t.Fatal("NewResult() returned nil")
	}
	if len(r.Issues) != 0 {
		t.Errorf("NewResult() should have no issues, got %d", len(r.Issues))
	}
}

func TestResultAddError(t *testing.T) {
	r := NewResult()
	r.AddError(CodeNotFound, "Could not resolve entry 'shr.test:Missing'", "shr.test:Missing")

	if len(r.Issues) != 1 {
		t.Fatalf("Result should have 1 issue, got %d", len(r.Issues))
	}
	if r.Issues[0].Severity != SeverityError {
		t.Errorf("Issue severity = %q, want %q", r.Issues[0].Severity, SeverityError)
	}
	if r.Issues[0].Code != CodeNotFound {
		t.Errorf("Issue code = %q, want %q", r.Issues[0].Code, CodeNotFound)
	}
	if len(r.Issues[0].Expression) != 1 || r.Issues[0].Expression[0] != "shr.test:Missing" {
		t.Errorf("Issue expression = %v, want [shr.test:Missing]", r.Issues[0].Expression)
	}
}

func TestResultHasErrors(t *testing.T) {
	r := NewResult()
	if r.HasErrors() {
		t.Error("Empty result should not have errors")
	}
	r.AddIssue(Warning(CodeValue).Diagnostics("Warning").At("Odd.value").Build())
	if r.HasErrors() {
		t.Error("Result with only warnings should not have errors")
	}
	r.AddIssue(Issue{Severity: SeverityFatal, Code: CodeException})
	if !r.HasErrors() {
		t.Error("Result with a fatal issue should have errors")
	}
}

func TestResultMerge(t *testing.T) {
	r1 := NewResult()
	r1.AddError(CodeNotFound, "Error 1")

	r2 := NewResult()
	r2.AddIssue(Warning(CodeValue).Diagnostics("Warning 1").Build())
	r2.AddError(CodeInvalid, "Error 2")

	r1.Merge(r2)
	r1.Merge(nil)

	if len(r1.Issues) != 3 {
		t.Fatalf("Merged result should have 3 issues, got %d", len(r1.Issues))
	}
	if r1.Issues[1].Severity != SeverityWarning || r1.Issues[2].Diagnostics != "Error 2" {
		t.Errorf("Merged issues out of order: %+v", r1.Issues)
	}
}

func TestResultWithSource(t *testing.T) {
	r := NewResult()
	r.AddError(CodeNotFound, "a")
	r.AddIssue(Issue{Severity: SeverityWarning, Code: CodeValue, Source: "expand"})

	r.WithSource("engine")
	if r.Issues[0].Source != "engine" {
		t.Errorf("Source = %q, want engine", r.Issues[0].Source)
	}
	if r.Issues[1].Source != "expand" {
		t.Errorf("existing Source overwritten: %q", r.Issues[1].Source)
	}
}

func TestAddWithID(t *testing.T) {
	tests := []struct {
		name         string
		id           DiagnosticID
		params       map[string]any
		wantSeverity Severity
		wantCode     Code
		wantDiag     string
	}{
		{
			name:         "entry unresolved",
			id:           DiagEntryUnresolved,
			params:       map[string]any{"identifier": "shr.test:Missing"},
			wantSeverity: SeverityError,
			wantCode:     CodeNotFound,
			wantDiag:     "Could not resolve entry 'shr.test:Missing'",
		},
		{
			name:         "invalid cardinality",
			id:           DiagCardinalityInvalid,
			params:       map[string]any{"card": "3..2", "path": "Inverted"},
			wantSeverity: SeverityError,
			wantCode:     CodeInvalid,
			wantDiag:     "Invalid cardinality 3..2 at 'Inverted'",
		},
		{
			name:         "unknown primitive",
			id:           DiagPrimitiveUnknown,
			params:       map[string]any{"message": "unrecognized primitive type \"blob\""},
			wantSeverity: SeverityWarning,
			wantCode:     CodeValue,
			wantDiag:     "unrecognized primitive type \"blob\"",
		},
		{
			name:         "unknown id",
			id:           DiagnosticID("NOPE"),
			wantSeverity: SeverityError,
			wantCode:     CodeProcessing,
			wantDiag:     "NOPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult()
			r.AddWithID(tt.id, tt.params, "expr")

			got := r.Issues[0]
			if got.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", got.Severity, tt.wantSeverity)
			}
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Diagnostics != tt.wantDiag {
				t.Errorf("Diagnostics = %q, want %q", got.Diagnostics, tt.wantDiag)
			}
		})
	}
}

func TestAddWarningWithIDOverridesSeverity(t *testing.T) {
	r := NewResult()
	r.AddWarningWithID(DiagConstraintFailed, map[string]any{"details": "sdx-1 failed"}, "StructureDefinition")
	r.AddErrorWithID(DiagConstraintCompileError, map[string]any{"key": "x", "error": "bad"})

	if r.Issues[0].Severity != SeverityWarning || r.Issues[0].Code != CodeInvariant {
		t.Errorf("issue 0 = %+v, want warning invariant", r.Issues[0])
	}
	if r.Issues[0].MessageID != string(DiagConstraintFailed) {
		t.Errorf("MessageID = %q", r.Issues[0].MessageID)
	}
	if r.Issues[1].Severity != SeverityError || r.Issues[1].Diagnostics != "Could not compile constraint 'x': bad" {
		t.Errorf("issue 1 = %+v", r.Issues[1])
	}
}

func TestDiagnosticTemplates(t *testing.T) {
	for id, tmpl := range diagnosticTemplates {
		if tmpl.Template == "" || tmpl.Code == "" || tmpl.Severity == "" {
			t.Errorf("template %s is incomplete: %+v", id, tmpl)
		}
	}

	r := NewResult()
	r.AddWithID(DiagBasedOnIgnored, map[string]any{
		"entry":      "shr.test:D",
		"identifier": "shr.test:B",
		"base":       "shr.test:A",
	})
	got := r.Issues[0]
	if got.Severity != SeverityInformation || got.Code != CodeInformational {
		t.Errorf("issue = %+v; want informational", got)
	}
	if want := "'shr.test:D' is also based on 'shr.test:B'; only 'shr.test:A' is recorded as baseDefinition"; got.Diagnostics != want {
		t.Errorf("Diagnostics = %q; want %q", got.Diagnostics, want)
	}
}

func TestLocationString(t *testing.T) {
	loc := &Location{File: "model.cue", Line: 10, Column: 15}
	if got := loc.String(); got != "model.cue:10:15" {
		t.Errorf("String() = %q, want model.cue:10:15", got)
	}
	var nilLoc *Location
	if nilLoc.String() != "" {
		t.Error("nil Location should render empty")
	}
}

func TestIssueSeverityPredicates(t *testing.T) {
	tests := []struct {
		severity    Severity
		wantError   bool
		wantWarning bool
	}{
		{SeverityFatal, true, false},
		{SeverityError, true, false},
		{SeverityWarning, false, true},
		{SeverityInformation, false, false},
	}

	for _, tt := range tests {
		is := Issue{Severity: tt.severity}
		if got := is.IsError(); got != tt.wantError {
			t.Errorf("Issue{Severity: %s}.IsError() = %v; want %v", tt.severity, got, tt.wantError)
		}
		if got := is.IsWarning(); got != tt.wantWarning {
			t.Errorf("Issue{Severity: %s}.IsWarning() = %v; want %v", tt.severity, got, tt.wantWarning)
		}
	}
}

func TestIssueString(t *testing.T) {
	tests := []struct {
		issue Issue
		want  string
	}{
		{
			issue: Issue{Severity: SeverityError, Diagnostics: "Invalid cardinality"},
			want:  "error: Invalid cardinality",
		},
		{
			issue: Issue{Severity: SeverityWarning, Diagnostics: "unknown type", Expression: []string{"Odd.value", "Odd"}},
			want:  "warning: unknown type at Odd.value",
		},
		{
			issue: Issue{
				Severity:    SeverityError,
				Diagnostics: "Invalid model: bad",
				Location:    &Location{File: "m.cue", Line: 3, Column: 7},
			},
			want: "m.cue:3:7: error: Invalid model: bad",
		},
	}

	for _, tt := range tests {
		if got := tt.issue.String(); got != tt.want {
			t.Errorf("Issue.String() = %q; want %q", got, tt.want)
		}
	}
}

func TestBuilder(t *testing.T) {
	loc := &Location{File: "m.cue", Line: 1, Column: 1}
	got := Warning(CodeValue).Diagnostics("odd").At("Odd.value").In(loc).From("expand").Build()

	if got.Severity != SeverityWarning || got.Code != CodeValue {
		t.Errorf("Build() = %+v", got)
	}
	if got.Diagnostics != "odd" || len(got.Expression) != 1 || got.Expression[0] != "Odd.value" {
		t.Errorf("Build() = %+v", got)
	}
	if got.Location != loc || got.Source != "expand" {
		t.Errorf("Build() = %+v", got)
	}
	if e := Error(CodeInvalid).Build(); !e.IsError() {
		t.Errorf("Error().Build() = %+v, want error severity", e)
	}
}
