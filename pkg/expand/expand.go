// Package expand flattens SHR definitions into path-addressed nodes.
//
// Expansion runs on an explicit work stack rather than the Go call stack, so
// model nesting depth is limited only by Options.MaxDepth. Frames are pushed in
// reverse so that popping yields the same pre-order a recursive walk would.
package expand

import (
	"fmt"

	"github.com/gofhir/shrexport/pkg/classify"
	"github.com/gofhir/shrexport/pkg/elementpath"
	"github.com/gofhir/shrexport/pkg/model"
	"github.com/gofhir/shrexport/pkg/primitive"
	"github.com/gofhir/shrexport/pkg/registry"
	"github.com/gofhir/shrexport/pkg/structdef"
)

// Leaf path segments.
const (
	segValue     = "value"
	segChoice    = "choice"
	segReference = "reference"
)

// Expander flattens definitions. It holds no per-call state and is safe for
// concurrent use when its resolver is.
type Expander struct {
	resolver registry.Resolver
	opts     Options
}

// New creates an Expander resolving identifiers through resolver.
func New(resolver registry.Resolver, opts ...Option) *Expander {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Expander{resolver: resolver, opts: o}
}

// Expand flattens def under parentPath. card is the cardinality of the slot
// holding def; an entry is expanded with parentPath "" and 0..*.
func (e *Expander) Expand(def model.Definition, parentPath string, card model.Cardinality) ([]structdef.Node, error) {
	exp, err := e.Walk(def, parentPath, card)
	if err != nil {
		return nil, err
	}
	return exp.Nodes, nil
}

// Walk is Expand that also returns the warnings raised along the way.
func (e *Expander) Walk(def model.Definition, parentPath string, card model.Cardinality) (structdef.Expansion, error) {
	if def == nil {
		return structdef.Expansion{}, fmt.Errorf("expand: nil definition")
	}

	r := run{
		Expander: e,
		paths:    elementpath.NewUniquifier(),
	}
	defer r.paths.Release()

	r.push(frame{def: def, path: parentPath, card: card, depth: 1})
	for len(r.stack) > 0 {
		f := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]

		var err error
		if f.def != nil {
			err = r.definition(f)
		} else {
			err = r.value(f)
		}
		if err != nil {
			return structdef.Expansion{}, err
		}
	}

	return structdef.Expansion{Nodes: r.nodes, Warnings: r.warnings}, nil
}

// frame is one unit of pending work. A definition frame carries def and the
// parent path; a value frame carries value and the path of the node it
// belongs under.
type frame struct {
	def   model.Definition
	value model.Value
	path  string
	card  model.Cardinality
	depth int
	// inChoice marks an option of a choice: its minimum is forced to 0 and
	// leaves are named by type.
	inChoice bool
}

// run is the state of a single Walk call.
type run struct {
	*Expander
	stack    []frame
	nodes    []structdef.Node
	warnings []structdef.Warning
	paths    *elementpath.Uniquifier
}

func (r *run) push(f frame) {
	r.stack = append(r.stack, f)
}

// pushValues schedules values so that the first is processed first.
func (r *run) pushValues(values []model.Value, path string, depth int, inChoice bool) {
	for i := len(values) - 1; i >= 0; i-- {
		r.push(frame{value: values[i], path: path, depth: depth, inChoice: inChoice})
	}
}

func (r *run) definition(f frame) error {
	if f.depth > r.opts.MaxDepth {
		return fmt.Errorf("%w: %d at %s", ErrDepthExceeded, r.opts.MaxDepth, f.def.Header().Identifier)
	}

	h := f.def.Header()
	isRoot := f.path == ""

	var path string
	if isRoot {
		path = r.paths.Claim(h.Identifier.Name)
	} else {
		path = r.paths.Claim(elementpath.Join(f.path, elementpath.LowerCamel(h.Identifier.Name)))
	}

	node := structdef.Node{
		ID:         path,
		Path:       path,
		Definition: h.Description,
		Code:       structdef.CodingsFromConcepts(h.Concepts),
		Alias:      []string{h.Identifier.FQN()},
		Min:        uint32(f.card.Min), //nolint:gosec // Safe: bounded by Cardinality.Validate
		Max:        f.card.MaxString(),
	}
	if !isRoot {
		node.Type = []structdef.TypeRef{{Code: structdef.BackboneType}}
	}
	r.nodes = append(r.nodes, node)

	switch d := f.def.(type) {
	case *model.DataElement:
		if d.Value != nil {
			r.pushValues([]model.Value{d.Value}, path, f.depth, false)
		}
	case *model.Group:
		r.pushValues(d.Elements, path, f.depth, false)
	default:
		return fmt.Errorf("expand: unexpected definition %T", f.def)
	}
	return nil
}

func (r *run) value(f frame) error {
	c := classify.Classify(f.value)

	card := c.Card
	if err := card.Validate(); err != nil {
		return &CardinalityError{Path: f.path, Card: card}
	}
	if f.inChoice {
		card = card.WithMin(0)
	}

	switch c.Kind {
	case classify.KindPrimitive, classify.KindCoded:
		return r.primitiveLeaf(f, c, card)

	case classify.KindReference:
		target, _ := c.Target()
		if _, err := r.resolver.Resolve(target); err != nil {
			return err
		}
		seg := segValue
		if f.inChoice {
			seg = segReference
		}
		path := r.paths.Claim(elementpath.Join(f.path, seg))
		r.nodes = append(r.nodes, structdef.Node{
			ID:   path,
			Path: path,
			Min:  uint32(card.Min), //nolint:gosec // Safe: bounded by Cardinality.Validate
			Max:  card.MaxString(),
			Type: []structdef.TypeRef{{
				Code:          classify.ReferenceType,
				TargetProfile: []string{structdef.CanonicalURL(r.opts.BaseURL, target)},
			}},
			IsSummary: true,
		})
		return nil

	case classify.KindIdentifiable:
		target, _ := c.Target()
		def, err := r.resolver.Resolve(target)
		if err != nil {
			return err
		}
		r.push(frame{def: def, path: f.path, card: card, depth: f.depth + 1})
		return nil

	case classify.KindChoice:
		choice := c.Inner.(model.Choice)
		path := r.paths.Claim(elementpath.Join(f.path, segChoice))
		r.nodes = append(r.nodes, structdef.Node{
			ID:   path,
			Path: path,
			Min:  uint32(card.Min), //nolint:gosec // Safe: bounded by Cardinality.Validate
			Max:  card.MaxString(),
			Type: []structdef.TypeRef{{Code: structdef.BackboneType}},
		})
		r.pushValues(choice.Options, path, f.depth, true)
		return nil
	}

	return fmt.Errorf("expand: unhandled value kind %v", c.Kind)
}

func (r *run) primitiveLeaf(f frame, c classify.Classification, card model.Cardinality) error {
	declared, _ := classify.LeafType(c)
	typeName := declared
	if name, known := primitive.Normalize(declared); !known {
		if r.opts.StrictPrimitives {
			return &PrimitiveError{Path: f.path, Type: declared}
		}
		typeName = name
	}

	// Choice options are named by the declared type, known or not
	seg := segValue
	if f.inChoice {
		seg = declared
	}
	path := r.paths.Claim(elementpath.Join(f.path, seg))

	if typeName != declared {
		r.warnings = append(r.warnings, structdef.Warning{
			Path:    path,
			Message: fmt.Sprintf("unrecognized primitive type %q, treating as %s", declared, typeName),
		})
	}

	node := structdef.Node{
		ID:        path,
		Path:      path,
		Min:       uint32(card.Min),
		Max:       card.MaxString(),
		Type:      []structdef.TypeRef{{Code: typeName}},
		IsSummary: true,
	}

	if coded, ok := c.Inner.(model.Coded); ok {
		if coded.ValueSet != "" {
			node.Binding = &structdef.Binding{
				Strength: structdef.BindingRequired,
				ValueSet: coded.ValueSet,
			}
		}
		if coded.DescendingFrom != nil {
			coding := structdef.CodingFromConcept(*coded.DescendingFrom)
			node.Extension = []structdef.Extension{{
				URL:         structdef.DescendingFromURL,
				ValueCoding: &coding,
			}}
		}
	}

	r.nodes = append(r.nodes, node)
	return nil
}

// Verify interface compliance
var _ structdef.Expander = (*Expander)(nil)
