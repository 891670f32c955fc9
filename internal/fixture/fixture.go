// Package fixture builds the sample SHR namespaces shared by package tests.
package fixture

import "github.com/gofhir/shrexport/pkg/model"

// Namespace names used by the fixtures.
const (
	Local   = "shr.test"
	Foreign = "shr.other.test"
)

// Value set URLs used by coded fixtures.
const (
	CodedVS      = "http://standardhealthrecord.org/test/vs/Coded"
	CodeChoiceVS = "http://standardhealthrecord.org/test/vs/CodeChoice"
)

// FooBar is the concept attached to Simple and Group.
var FooBar = model.NewConcept("http://foo.org", "bar", "Foobar")

// ID returns an identifier in the local namespace.
func ID(name string) model.Identifier {
	return model.NewIdentifier(Local, name)
}

// ForeignID returns an identifier in the foreign namespace.
func ForeignID(name string) model.Identifier {
	return model.NewIdentifier(Foreign, name)
}

func entry(id model.Identifier, description string, value model.Value) *model.DataElement {
	de := model.NewDataElement(id, value)
	de.Description = description
	de.IsEntry = true
	return de
}

func ident(id model.Identifier, card model.Cardinality) model.Value {
	return model.Quantify(model.NewIdentifiable(id), card)
}

// Simple is a string-valued element in namespace ns.
func Simple(ns string) *model.DataElement {
	de := entry(model.NewIdentifier(ns, "Simple"), "It is a simple element",
		model.Quantify(model.NewPrimitive("string"), model.One()))
	de.Concepts = []model.Concept{FooBar}
	return de
}

// Coded is a code bound to CodedVS.
func Coded() *model.DataElement {
	return entry(ID("Coded"), "It is a coded element",
		model.Quantify(model.NewCode(CodedVS), model.One()))
}

// SimpleReference references Simple without inlining it.
func SimpleReference() *model.DataElement {
	return entry(ID("SimpleReference"), "It is a reference to a simple element",
		model.Quantify(model.NewReference(ID("Simple")), model.One()))
}

// ElementValue inlines Simple.
func ElementValue() *model.DataElement {
	return entry(ID("ElementValue"), "It is an element with an element value",
		ident(ID("Simple"), model.One()))
}

// TwoDeepElementValue inlines ElementValue.
func TwoDeepElementValue() *model.DataElement {
	return entry(ID("TwoDeepElementValue"), "It is an element with a two-deep element value",
		ident(ID("ElementValue"), model.One()))
}

// ForeignElementValue inlines the foreign Simple.
func ForeignElementValue() *model.DataElement {
	return entry(ID("ForeignElementValue"), "It is an element with a foreign element value",
		ident(ForeignID("Simple"), model.One()))
}

// Choice is a choice of a string, a code and the Coded element. The slot is 0..1.
func Choice() *model.DataElement {
	choice := model.NewChoice(
		model.Quantify(model.NewPrimitive("string"), model.One()),
		model.Quantify(model.NewCode(CodeChoiceVS), model.Unbounded()),
		ident(ID("Coded"), model.One()),
	)
	return entry(ID("Choice"), "It is an element with a choice",
		model.Quantify(choice, model.Card(0, 1)))
}

// ChoiceOfChoice nests a choice of integer and decimal inside a choice.
func ChoiceOfChoice() *model.DataElement {
	inner := model.NewChoice(
		model.Quantify(model.NewPrimitive("integer"), model.One()),
		model.Quantify(model.NewPrimitive("decimal"), model.One()),
	)
	choice := model.NewChoice(
		model.Quantify(model.NewPrimitive("string"), model.One()),
		model.Quantify(inner, model.One()),
		model.Quantify(model.NewCode(CodeChoiceVS), model.Unbounded()),
	)
	return entry(ID("ChoiceOfChoice"), "It is an element with a choice containing a choice",
		model.Quantify(choice, model.One()))
}

// Group holds Simple, Coded, a choice and ElementValue.
func Group() *model.Group {
	choice := model.NewChoice(
		ident(ForeignID("Simple"), model.One()),
		ident(ID("ForeignElementValue"), model.CardUnbounded(1)),
	)
	gr := model.NewGroup(ID("Group"),
		ident(ID("Simple"), model.One()),
		ident(ID("Coded"), model.Card(0, 1)),
		model.Quantify(choice, model.Card(0, 2)),
		ident(ID("ElementValue"), model.Unbounded()),
	)
	gr.Description = "It is a group of elements"
	gr.Concepts = []model.Concept{
		FooBar,
		model.NewConcept("http://boo.org", "far", "Boofar"),
	}
	gr.IsEntry = true
	return gr
}

// GroupWithChoiceOfChoice holds a choice whose second option is a choice.
func GroupWithChoiceOfChoice() *model.Group {
	inner := model.NewChoice(
		ident(ID("ForeignElementValue"), model.CardUnbounded(1)),
		ident(ID("ElementValue"), model.CardUnbounded(1)),
	)
	choice := model.NewChoice(
		ident(ForeignID("Simple"), model.One()),
		model.Quantify(inner, model.One()),
	)
	gr := model.NewGroup(ID("GroupWithChoiceOfChoice"),
		ident(ID("Simple"), model.One()),
		ident(ID("Coded"), model.Card(0, 1)),
		model.Quantify(choice, model.Card(0, 2)),
	)
	gr.Description = "It is a group of elements with a choice containing a choice"
	gr.IsEntry = true
	return gr
}

// GroupPathClash holds the local and the foreign Simple.
func GroupPathClash() *model.Group {
	gr := model.NewGroup(ID("GroupPathClash"),
		ident(ID("Simple"), model.One()),
		ident(ForeignID("Simple"), model.Card(0, 1)),
	)
	gr.Description = "It is a group of elements with clashing names"
	gr.IsEntry = true
	return gr
}

// GroupDerivative is based on Group.
func GroupDerivative() *model.DataElement {
	de := entry(ID("GroupDerivative"), "It is a derivative of a group of elements",
		model.Quantify(model.NewPrimitive("string"), model.One()))
	de.BasedOn = []model.Identifier{ID("Group")}
	return de
}

// Namespaces returns the local and foreign namespaces holding every fixture.
func Namespaces() (local, foreign *model.Namespace) {
	local = model.NewNamespace(Local).MustAdd(
		Simple(Local),
		Coded(),
		SimpleReference(),
		ElementValue(),
		TwoDeepElementValue(),
		ForeignElementValue(),
		Choice(),
		ChoiceOfChoice(),
		Group(),
		GroupWithChoiceOfChoice(),
		GroupPathClash(),
		GroupDerivative(),
	)
	foreign = model.NewNamespace(Foreign).MustAdd(Simple(Foreign))
	return local, foreign
}

// All returns Namespaces as a slice.
func All() []*model.Namespace {
	local, foreign := Namespaces()
	return []*model.Namespace{local, foreign}
}
