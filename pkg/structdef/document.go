// Package structdef defines the flattened StructureDefinition-shaped document
// produced for each entry definition, and assembles it.
package structdef

import (
	"github.com/gofhir/shrexport/pkg/model"
)

// Header constants.
const (
	ResourceType       = "StructureDefinition"
	DefaultBaseURL     = "http://standardhealthrecord.org"
	DefaultPublisher   = "Standard Health Record"
	DefaultStatus      = "draft"
	FHIRVersion        = "4.0.1"
	KindLogical        = "logical"
	ElementType        = "Element"
	ElementBase        = "http://hl7.org/fhir/StructureDefinition/Element"
	BackboneType       = "BackboneElement"
	BindingRequired    = "required"
	NarrativeGenerated = "generated"
	IdentifierUsual    = "usual"
)

// DescendingFromURL identifies the extension carrying an ancestor concept
// constraint on a coded leaf.
const DescendingFromURL = "http://standardhealthrecord.org/fhir/StructureDefinition/shr-descendingFrom"

// Document is one flattened structure definition.
type Document struct {
	ResourceType   string        `json:"resourceType"`
	ID             string        `json:"id"`
	Text           *Narrative    `json:"text,omitempty"`
	URL            string        `json:"url"`
	Identifier     []Identifier  `json:"identifier,omitempty"`
	Name           string        `json:"name"`
	Status         string        `json:"status"`
	Publisher      string        `json:"publisher,omitempty"`
	Description    string        `json:"description,omitempty"`
	Keyword        []Coding      `json:"keyword,omitempty"`
	FHIRVersion    string        `json:"fhirVersion,omitempty"`
	Kind           string        `json:"kind"`
	Abstract       bool          `json:"abstract"`
	Type           string        `json:"type"`
	BaseDefinition string        `json:"baseDefinition,omitempty"`
	Snapshot       *Snapshot     `json:"snapshot,omitempty"`
	Differential   *Differential `json:"differential,omitempty"`

	// Warnings collected while expanding; not serialized.
	Warnings []Warning `json:"-"`
}

// Narrative is the text block of a document.
type Narrative struct {
	Status string `json:"status"`
}

// Identifier is a business identifier of a document.
type Identifier struct {
	Use    string `json:"use,omitempty"`
	System string `json:"system,omitempty"`
	Value  string `json:"value"`
}

// Coding is a concept code.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

// Snapshot contains every node of a document in emission order.
type Snapshot struct {
	Element []Node `json:"element"`
}

// Differential mirrors Snapshot; the two views hold the same node list.
type Differential struct {
	Element []Node `json:"element"`
}

// Node is one path-addressed element record.
type Node struct {
	ID         string      `json:"id"`
	Extension  []Extension `json:"extension,omitempty"`
	Path       string      `json:"path"`
	Definition string      `json:"definition,omitempty"`
	Code       []Coding    `json:"code,omitempty"`
	Alias      []string    `json:"alias,omitempty"`
	Min        uint32      `json:"min"`
	Max        string      `json:"max"`
	Type       []TypeRef   `json:"type,omitempty"`
	IsSummary  bool        `json:"isSummary,omitempty"`
	Binding    *Binding    `json:"binding,omitempty"`
}

// TypeRef is the type of a node.
type TypeRef struct {
	Code          string   `json:"code"`
	TargetProfile []string `json:"targetProfile,omitempty"`
}

// Binding constrains a coded node to a value set.
type Binding struct {
	Strength string `json:"strength"`
	ValueSet string `json:"valueSet,omitempty"`
}

// Extension is an element extension.
type Extension struct {
	URL         string  `json:"url"`
	ValueCoding *Coding `json:"valueCoding,omitempty"`
}

// Warning is a non-fatal finding recorded during expansion.
type Warning struct {
	Path    string
	Message string
}

// TypeCode returns the code of the node's first type, or "" for an untyped node.
func (n *Node) TypeCode() string {
	if len(n.Type) == 0 {
		return ""
	}
	return n.Type[0].Code
}

// DescendingFrom returns the ancestor concept constraint of a coded node.
func (n *Node) DescendingFrom() (*Coding, bool) {
	for i := range n.Extension {
		if n.Extension[i].URL == DescendingFromURL && n.Extension[i].ValueCoding != nil {
			return n.Extension[i].ValueCoding, true
		}
	}
	return nil, false
}

// Elements returns the snapshot nodes.
func (d *Document) Elements() []Node {
	if d.Snapshot == nil {
		return nil
	}
	return d.Snapshot.Element
}

// Paths returns every node path in order.
func (d *Document) Paths() []string {
	elems := d.Elements()
	paths := make([]string, len(elems))
	for i := range elems {
		paths[i] = elems[i].Path
	}
	return paths
}

// Node returns the node at path.
func (d *Document) Node(path string) (*Node, bool) {
	elems := d.Elements()
	for i := range elems {
		if elems[i].Path == path {
			return &elems[i], true
		}
	}
	return nil, false
}

// Root returns the entry node.
func (d *Document) Root() (*Node, bool) {
	elems := d.Elements()
	if len(elems) == 0 {
		return nil, false
	}
	return &elems[0], true
}

// CodingFromConcept converts a model concept.
func CodingFromConcept(c model.Concept) Coding {
	return Coding{System: c.System, Code: c.Code, Display: c.Display}
}

// CodingsFromConcepts converts model concepts, returning nil for none.
func CodingsFromConcepts(concepts []model.Concept) []Coding {
	if len(concepts) == 0 {
		return nil
	}
	codes := make([]Coding, len(concepts))
	for i, c := range concepts {
		codes[i] = CodingFromConcept(c)
	}
	return codes
}
