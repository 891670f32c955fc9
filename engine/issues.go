package engine

import (
	"errors"

	"github.com/gofhir/shrexport/pkg/expand"
	"github.com/gofhir/shrexport/pkg/issue"
	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/pkg/registry"
	"github.com/gofhir/shrexport/pkg/structdef"
)

// Issue sources.
const (
	Source       = "engine"
	expandSource = "expand"
)

// issueFor maps an Assemble error to one diagnostic.
func issueFor(entry model.Identifier, err error) issue.Issue {
	r := issue.NewResult()

	var (
		resErr  *registry.ResolutionError
		cardErr *expand.CardinalityError
		primErr *expand.PrimitiveError
	)
	switch {
	case errors.As(err, &resErr) && resErr.Identifier == entry:
		r.AddWithID(issue.DiagEntryUnresolved,
			map[string]any{"identifier": entry.String()}, entry.String())
	case errors.As(err, &resErr):
		r.AddWithID(issue.DiagValueUnresolved,
			map[string]any{"identifier": resErr.Identifier.String(), "entry": entry.String()},
			resErr.Identifier.String())
	case errors.As(err, &cardErr):
		r.AddWithID(issue.DiagCardinalityInvalid,
			map[string]any{"card": cardErr.Card.String(), "path": cardErr.Path}, cardErr.Path)
	case errors.As(err, &primErr):
		r.AddErrorWithID(issue.DiagPrimitiveUnknown,
			map[string]any{"message": primErr.Error()}, primErr.Path)
	case errors.Is(err, expand.ErrDepthExceeded):
		r.AddWithID(issue.DiagDepthExceeded,
			map[string]any{"entry": entry.String(), "error": err.Error()}, entry.String())
	default:
		r.AddWithID(issue.DiagExportFailed,
			map[string]any{"entry": entry.String(), "error": err.Error()}, entry.String())
	}

	is := r.Issues[0]
	is.Source = Source
	return is
}

// warningIssues converts expansion warnings to warning issues.
func warningIssues(warnings []structdef.Warning) *issue.Result {
	r := issue.NewResult()
	for _, w := range warnings {
		r.AddWarningWithID(issue.DiagPrimitiveUnknown, map[string]any{"message": w.Message}, w.Path)
	}
	return r.WithSource(expandSource)
}

// basedOnIssues notes every BasedOn identifier after the first, since the
// document records only one baseDefinition.
func (e *Exporter) basedOnIssues(entry model.Identifier) *issue.Result {
	r := issue.NewResult()
	def, err := e.registry.Resolve(entry)
	if err != nil {
		return r
	}
	based := def.Header().BasedOn
	for i := 1; i < len(based); i++ {
		r.AddWithID(issue.DiagBasedOnIgnored, map[string]any{
			"entry":      entry.String(),
			"identifier": based[i].String(),
			"base":       based[0].String(),
		}, entry.String())
	}
	return r.WithSource(Source)
}
