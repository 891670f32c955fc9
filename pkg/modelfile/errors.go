package modelfile

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"

	"github.com/gofhir/shrexport/pkg/issue"
)

// Sentinel errors.
var (
	// ErrInvalidModel is matched by every *Error.
	ErrInvalidModel = errors.New("invalid model file")

	// ErrFileTooLarge is returned when a model file exceeds the size limit.
	ErrFileTooLarge = errors.New("model file too large")
)

// Error reports every problem found in one model file.
type Error struct {
	File   string
	Issues []issue.Issue
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch len(e.Issues) {
	case 0:
		return e.File + ": invalid model"
	case 1:
		return e.File + ": " + e.Issues[0].Diagnostics
	}
	lines := make([]string, 0, len(e.Issues))
	for i := range e.Issues {
		lines = append(lines, e.Issues[i].Diagnostics)
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

// Is matches ErrInvalidModel.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidModel
}

// Result returns the issues as an issue.Result.
func (e *Error) Result() *issue.Result {
	r := issue.NewResult()
	for i := range e.Issues {
		r.AddIssue(e.Issues[i])
	}
	return r
}

func (e *Error) add(id issue.DiagnosticID, params map[string]any, path string, loc *issue.Location) {
	r := issue.NewResult()
	if path != "" {
		r.AddWithID(id, params, path)
	} else {
		r.AddWithID(id, params)
	}
	is := r.Issues[0]
	is.Source = "modelfile"
	is.Location = loc
	e.Issues = append(e.Issues, is)
}

func (e *Error) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// formatError turns a CUE error into an *Error with one issue per CUE error,
// each carrying the JSON path and source position.
func formatError(err error, filename string) error {
	if err == nil {
		return nil
	}
	out := &Error{File: filename}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		out.add(issue.DiagModelInvalid, map[string]any{"error": err.Error()}, "", nil)
		return out
	}

	for _, e := range cueErrs {
		path := cueerrors.Path(e)
		pathStr := formatPath(path)
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message
		for _, prefix := range []string{pathStr, strings.Join(path, ".")} {
			if prefix != "" && strings.HasPrefix(msg, prefix) {
				msg = strings.TrimPrefix(msg, prefix)
				msg = strings.TrimPrefix(msg, ":")
				msg = strings.TrimSpace(msg)
				break
			}
		}
		if pathStr != "" {
			msg = pathStr + ": " + msg
		}

		out.add(issue.DiagModelInvalid, map[string]any{"error": msg}, pathStr, location(e, filename))
	}
	return out
}

// location prefers a position inside the user file over one in the schema.
func location(e cueerrors.Error, filename string) *issue.Location {
	for _, pos := range cueerrors.Positions(e) {
		if pos.IsValid() && pos.Filename() == filename {
			return &issue.Location{File: filename, Line: pos.Line(), Column: pos.Column()}
		}
	}
	if pos := e.Position(); pos.IsValid() {
		return &issue.Location{File: filename, Line: pos.Line(), Column: pos.Column()}
	}
	return nil
}

// formatPath converts a CUE path (["namespaces", "0", "name"]) to
// JSON-path notation ("namespaces[0].name").
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%w: %s: file size %d bytes exceeds maximum %d bytes",
			ErrFileTooLarge, filename, len(data), maxSize)
	}
	return nil
}
