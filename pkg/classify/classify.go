// Package classify determines the kind of a model value and exposes its
// cardinality wrapper, if any. Classification never resolves identifiers.
package classify

import (
	"fmt"

	"github.com/gofhir/shrexport/pkg/model"
)

// Kind is the dispatch category of an unwrapped value.
type Kind int

const (
	KindPrimitive Kind = iota
	KindCoded
	KindReference
	KindIdentifiable
	KindChoice
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindCoded:
		return "coded"
	case KindReference:
		return "reference"
	case KindIdentifiable:
		return "identifiable"
	case KindChoice:
		return "choice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsLeaf returns true for kinds that emit exactly one terminal node.
func (k Kind) IsLeaf() bool {
	return k == KindPrimitive || k == KindCoded || k == KindReference
}

// ReferenceType is the FHIR type code of a reference leaf.
const ReferenceType = "Reference"

// Classification is the result of classifying a value.
type Classification struct {
	Kind Kind
	// Quantified is true when the value carried a cardinality wrapper.
	Quantified bool
	// Card is the wrapper's cardinality, or 1..1 when unwrapped.
	Card model.Cardinality
	// Inner is the value with every wrapper removed.
	Inner model.Value
}

// Classify unwraps cardinality wrappers and reports the inner value's kind.
// Nested wrappers collapse to the outermost one.
func Classify(v model.Value) Classification {
	c := Classification{Card: model.One(), Inner: v}

	for {
		q, ok := c.Inner.(model.Quantified)
		if !ok {
			break
		}
		if !c.Quantified {
			c.Quantified = true
			c.Card = q.Card
		}
		c.Inner = q.Value
	}

	switch c.Inner.(type) {
	case model.Primitive:
		c.Kind = KindPrimitive
	case model.Coded:
		c.Kind = KindCoded
	case model.Reference:
		c.Kind = KindReference
	case model.Identifiable:
		c.Kind = KindIdentifiable
	case model.Choice:
		c.Kind = KindChoice
	default:
		panic(fmt.Sprintf("classify: unexpected value %T", c.Inner))
	}

	return c
}

// Target returns the identifier a reference or identifiable value points at.
func (c Classification) Target() (model.Identifier, bool) {
	switch v := c.Inner.(type) {
	case model.Reference:
		return v.Target, true
	case model.Identifiable:
		return v.Target, true
	}
	return model.Identifier{}, false
}

// LeafType returns the type code of a leaf value: the primitive name for
// primitive and coded values, ReferenceType for references. Non-leaf kinds
// report false.
func LeafType(c Classification) (string, bool) {
	switch v := c.Inner.(type) {
	case model.Primitive:
		return v.Type, true
	case model.Coded:
		if v.Type == "" {
			return "code", true
		}
		return v.Type, true
	case model.Reference:
		return ReferenceType, true
	}
	return "", false
}
