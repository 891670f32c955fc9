package modelfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofhir/shrexport/pkg/issue"
	"github.com/gofhir/shrexport/pkg/model"
)

// Decoded shapes of the #Model schema.

type fileModel struct {
	Namespaces []fileNamespace `json:"namespaces"`
}

type fileNamespace struct {
	Name        string           `json:"name"`
	Entries     []string         `json:"entries,omitempty"`
	Definitions []fileDefinition `json:"definitions"`
}

type fileDefinition struct {
	Name        string          `json:"name"`
	Kind        string          `json:"kind,omitempty"`
	Description string          `json:"description,omitempty"`
	Concepts    []model.Concept `json:"concepts,omitempty"`
	BasedOn     []string        `json:"basedOn,omitempty"`
	Entry       bool            `json:"entry,omitempty"`
	Value       *fileValue      `json:"value,omitempty"`
	Elements    []fileValue     `json:"elements,omitempty"`
}

type fileValue struct {
	Card      string      `json:"card,omitempty"`
	Primitive string      `json:"primitive,omitempty"`
	Code      *fileCode   `json:"code,omitempty"`
	Ref       string      `json:"ref,omitempty"`
	Element   string      `json:"element,omitempty"`
	Choice    []fileValue `json:"choice,omitempty"`
}

type fileCode struct {
	Type           string         `json:"type,omitempty"`
	ValueSet       string         `json:"valueSet,omitempty"`
	DescendingFrom *model.Concept `json:"descendingFrom,omitempty"`
}

const kindGroup = "group"

// convert builds namespaces from a decoded file, collecting every problem
// instead of stopping at the first.
func convert(doc *fileModel, filename string) ([]*model.Namespace, error) {
	errs := &Error{File: filename}
	out := make([]*model.Namespace, 0, len(doc.Namespaces))

	for i := range doc.Namespaces {
		fns := &doc.Namespaces[i]
		ns := model.NewNamespace(fns.Name)
		base := fmt.Sprintf("namespaces[%d]", i)

		for j := range fns.Definitions {
			path := fmt.Sprintf("%s.definitions[%d]", base, j)
			def := buildDefinition(&fns.Definitions[j], fns.Name, path, errs)
			if def == nil {
				continue
			}
			if err := ns.Add(def); err != nil {
				if errors.Is(err, model.ErrDuplicateDefinition) {
					errs.add(issue.DiagModelDuplicate,
						map[string]any{"identifier": def.Header().Identifier.String()}, path, nil)
					continue
				}
				errs.add(issue.DiagModelInvalid, map[string]any{"error": err.Error()}, path, nil)
			}
		}

		for k, name := range fns.Entries {
			if _, ok := ns.Lookup(name); !ok {
				errs.add(issue.DiagModelInvalid,
					map[string]any{"error": fmt.Sprintf("entry %q is not defined in namespace %s", name, fns.Name)},
					fmt.Sprintf("%s.entries[%d]", base, k), nil)
				continue
			}
			ns.AddEntry(name)
		}
		out = append(out, ns)
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildDefinition(fd *fileDefinition, namespace, path string, errs *Error) model.Definition {
	header := model.DefinitionHeader{
		Identifier:  model.NewIdentifier(namespace, fd.Name),
		Description: fd.Description,
		Concepts:    fd.Concepts,
		IsEntry:     fd.Entry,
	}
	for k, ref := range fd.BasedOn {
		id, err := parseRef(ref, namespace)
		if err != nil {
			errs.add(issue.DiagModelInvalid, map[string]any{"error": err.Error()},
				fmt.Sprintf("%s.basedOn[%d]", path, k), nil)
			continue
		}
		header.BasedOn = append(header.BasedOn, id)
	}

	if fd.Kind == kindGroup {
		g := &model.Group{DefinitionHeader: header}
		for k := range fd.Elements {
			if v := buildValue(&fd.Elements[k], namespace, fmt.Sprintf("%s.elements[%d]", path, k), errs); v != nil {
				g.Elements = append(g.Elements, v)
			}
		}
		return g
	}

	if fd.Value == nil {
		errs.add(issue.DiagModelInvalid, map[string]any{"error": "element has no value"}, path, nil)
		return nil
	}
	v := buildValue(fd.Value, namespace, path+".value", errs)
	if v == nil {
		return nil
	}
	return &model.DataElement{DefinitionHeader: header, Value: v}
}

func buildValue(fv *fileValue, namespace, path string, errs *Error) model.Value {
	var v model.Value
	switch {
	case fv.Primitive != "":
		v = model.NewPrimitive(fv.Primitive)
	case fv.Code != nil:
		typeName := fv.Code.Type
		if typeName == "" {
			typeName = "code"
		}
		v = model.Coded{Type: typeName, ValueSet: fv.Code.ValueSet, DescendingFrom: fv.Code.DescendingFrom}
	case fv.Ref != "":
		id, err := parseRef(fv.Ref, namespace)
		if err != nil {
			errs.add(issue.DiagModelInvalid, map[string]any{"error": err.Error()}, path+".ref", nil)
			return nil
		}
		v = model.NewReference(id)
	case fv.Element != "":
		id, err := parseRef(fv.Element, namespace)
		if err != nil {
			errs.add(issue.DiagModelInvalid, map[string]any{"error": err.Error()}, path+".element", nil)
			return nil
		}
		v = model.NewIdentifiable(id)
	case fv.Choice != nil:
		options := make([]model.Value, 0, len(fv.Choice))
		for k := range fv.Choice {
			if opt := buildValue(&fv.Choice[k], namespace, fmt.Sprintf("%s.choice[%d]", path, k), errs); opt != nil {
				options = append(options, opt)
			}
		}
		v = model.NewChoice(options...)
	default:
		errs.add(issue.DiagModelInvalid, map[string]any{"error": "value has no type"}, path, nil)
		return nil
	}

	if fv.Card == "" {
		return v
	}
	card, err := ParseCardinality(fv.Card)
	if err != nil {
		errs.add(issue.DiagModelInvalid, map[string]any{"error": err.Error()}, path+".card", nil)
		return nil
	}
	return model.Quantify(v, card)
}

// parseRef parses "Name" (relative to namespace) or "namespace:Name".
func parseRef(s, namespace string) (model.Identifier, error) {
	return model.ParseIdentifier(s, namespace)
}

// ParseCardinality parses "min..max" where max is a number or "*".
// Inverted ranges and a zero max are accepted here and rejected during
// expansion.
func ParseCardinality(s string) (model.Cardinality, error) {
	lo, hi, found := strings.Cut(s, "..")
	if !found {
		return model.Cardinality{}, fmt.Errorf("malformed cardinality %q", s)
	}
	minVal, err := strconv.ParseUint(lo, 10, 32)
	if err != nil {
		return model.Cardinality{}, fmt.Errorf("malformed cardinality %q: %w", s, err)
	}
	if hi == "*" {
		return model.CardUnbounded(uint(minVal)), nil
	}
	maxVal, err := strconv.ParseUint(hi, 10, 32)
	if err != nil {
		return model.Cardinality{}, fmt.Errorf("malformed cardinality %q: %w", s, err)
	}
	return model.Card(uint(minVal), uint(maxVal)), nil
}
