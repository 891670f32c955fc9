package issue

import (
	"fmt"
	"strings"
)

// DiagnosticID identifies a specific diagnostic message.
type DiagnosticID string

// Diagnostic IDs for identifier resolution.
const (
	DiagEntryUnresolved DiagnosticID = "RESOLVE_ENTRY"
	DiagValueUnresolved DiagnosticID = "RESOLVE_VALUE"
)

// Diagnostic IDs for expansion.
const (
	DiagCardinalityInvalid DiagnosticID = "CARDINALITY_INVALID"
	DiagPrimitiveUnknown   DiagnosticID = "PRIMITIVE_UNKNOWN"
	DiagDepthExceeded      DiagnosticID = "EXPAND_DEPTH_EXCEEDED"
	DiagExportFailed       DiagnosticID = "EXPORT_FAILED"
	DiagBasedOnIgnored     DiagnosticID = "BASED_ON_IGNORED"
)

// Diagnostic IDs for document invariants.
const (
	DiagConstraintFailed       DiagnosticID = "CONSTRAINT_FAILED"
	DiagConstraintCompileError DiagnosticID = "CONSTRAINT_COMPILE_ERROR"
	DiagConstraintEvalError    DiagnosticID = "CONSTRAINT_EVAL_ERROR"
)

// Diagnostic IDs for model files.
const (
	DiagModelInvalid   DiagnosticID = "MODEL_INVALID"
	DiagModelDuplicate DiagnosticID = "MODEL_DUPLICATE"
)

// DiagnosticTemplate defines a diagnostic message template.
type DiagnosticTemplate struct {
	Severity Severity
	Code     Code
	Template string
}

var diagnosticTemplates = map[DiagnosticID]DiagnosticTemplate{
	DiagEntryUnresolved: {
		Severity: SeverityError,
		Code:     CodeNotFound,
		Template: "Could not resolve entry '{identifier}'",
	},
	DiagValueUnresolved: {
		Severity: SeverityError,
		Code:     CodeNotFound,
		Template: "Could not resolve '{identifier}' while exporting '{entry}'",
	},

	DiagCardinalityInvalid: {
		Severity: SeverityError,
		Code:     CodeInvalid,
		Template: "Invalid cardinality {card} at '{path}'",
	},
	DiagPrimitiveUnknown: {
		Severity: SeverityWarning,
		Code:     CodeValue,
		Template: "{message}",
	},
	DiagDepthExceeded: {
		Severity: SeverityError,
		Code:     CodeTooCostly,
		Template: "Expansion of '{entry}' exceeded the maximum depth: {error}",
	},
	DiagExportFailed: {
		Severity: SeverityError,
		Code:     CodeException,
		Template: "Export of '{entry}' failed: {error}",
	},
	DiagBasedOnIgnored: {
		Severity: SeverityInformation,
		Code:     CodeInformational,
		Template: "'{entry}' is also based on '{identifier}'; only '{base}' is recorded as baseDefinition",
	},

	DiagConstraintFailed: {
		Severity: SeverityError,
		Code:     CodeInvariant,
		Template: "{details}",
	},
	DiagConstraintCompileError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Could not compile constraint '{key}': {error}",
	},
	DiagConstraintEvalError: {
		Severity: SeverityWarning,
		Code:     CodeProcessing,
		Template: "Could not evaluate constraint '{key}': {error}",
	},

	DiagModelInvalid: {
		Severity: SeverityError,
		Code:     CodeStructure,
		Template: "Invalid model: {error}",
	},
	DiagModelDuplicate: {
		Severity: SeverityError,
		Code:     CodeDuplicate,
		Template: "Duplicate definition '{identifier}'",
	},
}

// formatTemplate replaces {placeholder} with values from params.
func formatTemplate(template string, params map[string]any) string {
	result := template
	for key, value := range params {
		placeholder := "{" + key + "}"
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(value))
	}
	return result
}

// AddWithID adds an issue using a diagnostic template and its severity.
func (r *Result) AddWithID(id DiagnosticID, params map[string]any, expression ...string) {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		r.AddError(CodeProcessing, string(id), expression...)
		return
	}

	r.Issues = append(r.Issues, Issue{
		Severity:    tmpl.Severity,
		Code:        tmpl.Code,
		Diagnostics: formatTemplate(tmpl.Template, params),
		Expression:  expression,
		MessageID:   string(id),
	})
}

// AddErrorWithID adds an error using a diagnostic template.
func (r *Result) AddErrorWithID(id DiagnosticID, params map[string]any, expression ...string) {
	r.addWithSeverity(SeverityError, id, params, expression)
}

// AddWarningWithID adds a warning using a diagnostic template.
func (r *Result) AddWarningWithID(id DiagnosticID, params map[string]any, expression ...string) {
	r.addWithSeverity(SeverityWarning, id, params, expression)
}

func (r *Result) addWithSeverity(severity Severity, id DiagnosticID, params map[string]any, expression []string) {
	tmpl, ok := diagnosticTemplates[id]
	if !ok {
		r.Issues = append(r.Issues, Issue{
			Severity:    severity,
			Code:        CodeProcessing,
			Diagnostics: string(id),
			Expression:  expression,
		})
		return
	}

	r.Issues = append(r.Issues, Issue{
		Severity:    severity,
		Code:        tmpl.Code,
		Diagnostics: formatTemplate(tmpl.Template, params),
		Expression:  expression,
		MessageID:   string(id),
	})
}
