package model

// Definition is a named DataElement or Group.
type Definition interface {
	Header() *DefinitionHeader
	isDefinition()
}

// DefinitionHeader holds the attributes shared by every definition.
type DefinitionHeader struct {
	Identifier  Identifier
	Description string
	Concepts    []Concept
	BasedOn     []Identifier
	IsEntry     bool
}

// DataElement carries exactly one value.
type DataElement struct {
	DefinitionHeader
	Value Value
}

// Group carries an ordered list of element slots.
type Group struct {
	DefinitionHeader
	Elements []Value
}

// Header returns the common attributes.
func (d *DataElement) Header() *DefinitionHeader { return &d.DefinitionHeader }

// Header returns the common attributes.
func (g *Group) Header() *DefinitionHeader { return &g.DefinitionHeader }

func (*DataElement) isDefinition() {}
func (*Group) isDefinition()       {}

// NewDataElement creates a DataElement with the given value.
func NewDataElement(id Identifier, value Value) *DataElement {
	return &DataElement{DefinitionHeader: DefinitionHeader{Identifier: id}, Value: value}
}

// NewGroup creates a Group with the given element slots.
func NewGroup(id Identifier, elements ...Value) *Group {
	return &Group{DefinitionHeader: DefinitionHeader{Identifier: id}, Elements: elements}
}
