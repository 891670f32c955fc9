// Package convert projects flattened documents onto the R4 StructureDefinition
// model and back.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/shrexport/pkg/structdef"
)

// R4Converter converts between structdef documents and r4 models.
type R4Converter struct{}

// NewR4Converter creates a new R4 converter.
func NewR4Converter() *R4Converter {
	return &R4Converter{}
}

// ToR4 converts doc to an r4.StructureDefinition. The document JSON is the
// FHIR wire form, so the conversion goes through it.
func (c *R4Converter) ToR4(doc *structdef.Document) (*r4.StructureDefinition, error) {
	if doc == nil {
		return nil, nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document %s: %w", doc.ID, err)
	}

	var sd r4.StructureDefinition
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode r4 StructureDefinition %s: %w", doc.ID, err)
	}
	return &sd, nil
}

// FromR4 converts an r4.StructureDefinition to a document.
func (c *R4Converter) FromR4(sd *r4.StructureDefinition) (*structdef.Document, error) {
	if sd == nil {
		return nil, nil
	}

	data, err := json.Marshal(sd)
	if err != nil {
		return nil, fmt.Errorf("marshal r4 StructureDefinition %s: %w", derefString(sd.Url), err)
	}

	var doc structdef.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", derefString(sd.Url), err)
	}
	if doc.ResourceType == "" {
		doc.ResourceType = structdef.ResourceType
	}
	return &doc, nil
}

// Summary is the structural view of an r4 StructureDefinition.
type Summary struct {
	URL            string
	Name           string
	Type           string
	Kind           string
	Abstract       bool
	BaseDefinition string
	FHIRVersion    string
	Elements       []ElementSummary
}

// ElementSummary is the structural view of an r4 ElementDefinition.
type ElementSummary struct {
	ID        string
	Path      string
	Min       uint32
	Max       string
	Types     []structdef.TypeRef
	Binding   *structdef.Binding
	IsSummary bool
}

// Summarize reads the structural fields of sd directly from the r4 model.
func (c *R4Converter) Summarize(sd *r4.StructureDefinition) *Summary {
	if sd == nil {
		return nil
	}

	result := &Summary{
		URL:            derefString(sd.Url),
		Name:           derefString(sd.Name),
		Type:           derefString(sd.Type),
		Kind:           c.convertKind(sd.Kind),
		Abstract:       derefBool(sd.Abstract),
		BaseDefinition: derefString(sd.BaseDefinition),
		FHIRVersion:    c.convertFHIRVersion(sd.FhirVersion),
	}

	if sd.Snapshot != nil {
		result.Elements = c.convertElementDefinitions(sd.Snapshot.Element)
	}
	return result
}

func (c *R4Converter) convertElementDefinitions(elements []r4.ElementDefinition) []ElementSummary {
	if len(elements) == 0 {
		return nil
	}

	result := make([]ElementSummary, 0, len(elements))
	for i := range elements {
		ed := &elements[i]
		result = append(result, ElementSummary{
			ID:        derefString(ed.Id),
			Path:      derefString(ed.Path),
			Min:       derefUint32(ed.Min),
			Max:       derefString(ed.Max),
			Types:     c.convertTypes(ed.Type),
			Binding:   c.convertBinding(ed.Binding),
			IsSummary: derefBool(ed.IsSummary),
		})
	}
	return result
}

func (c *R4Converter) convertTypes(types []r4.ElementDefinitionType) []structdef.TypeRef {
	if len(types) == 0 {
		return nil
	}

	result := make([]structdef.TypeRef, 0, len(types))
	for i := range types {
		t := &types[i]
		result = append(result, structdef.TypeRef{
			Code:          derefString(t.Code),
			TargetProfile: t.TargetProfile,
		})
	}
	return result
}

func (c *R4Converter) convertBinding(binding *r4.ElementDefinitionBinding) *structdef.Binding {
	if binding == nil {
		return nil
	}

	return &structdef.Binding{
		Strength: c.convertBindingStrength(binding.Strength),
		ValueSet: derefString(binding.ValueSet),
	}
}

// Type conversion helpers

func (c *R4Converter) convertKind(kind *r4.StructureDefinitionKind) string {
	if kind == nil {
		return ""
	}
	return string(*kind)
}

func (c *R4Converter) convertFHIRVersion(version *r4.FHIRVersion) string {
	if version == nil {
		return ""
	}
	return string(*version)
}

func (c *R4Converter) convertBindingStrength(strength *r4.BindingStrength) string {
	if strength == nil {
		return ""
	}
	return string(*strength)
}

// Generic helpers

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func derefUint32(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}
