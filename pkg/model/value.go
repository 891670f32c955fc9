package model

// ValueKind identifies a Value variant.
type ValueKind int

// Value variants.
const (
	ValuePrimitive ValueKind = iota
	ValueCoded
	ValueReference
	ValueIdentifiable
	ValueChoice
	ValueQuantified
)

// String returns the variant name.
func (k ValueKind) String() string {
	switch k {
	case ValuePrimitive:
		return "primitive"
	case ValueCoded:
		return "coded"
	case ValueReference:
		return "reference"
	case ValueIdentifiable:
		return "identifiable"
	case ValueChoice:
		return "choice"
	case ValueQuantified:
		return "quantified"
	default:
		return "unknown"
	}
}

// Value is a closed sum type over the variants declared in this package.
// Switches over Value should handle every variant; the unexported marker
// keeps other packages from adding new ones.
type Value interface {
	Kind() ValueKind
	isValue()
}

// Primitive is a built-in primitive type (string, date, integer, ...).
type Primitive struct {
	Type string
}

// Coded is a code-typed primitive constrained to a value set or to
// descendants of an ancestor concept.
type Coded struct {
	Type           string
	ValueSet       string
	DescendingFrom *Concept
}

// Reference points at another definition without inlining it.
type Reference struct {
	Target Identifier
}

// Identifiable names another definition that is inlined where it is used.
type Identifiable struct {
	Target Identifier
}

// Choice is an ordered set of mutually exclusive alternatives.
type Choice struct {
	Options []Value
}

// Quantified wraps a value with a cardinality.
type Quantified struct {
	Value Value
	Card  Cardinality
}

func (Primitive) Kind() ValueKind    { return ValuePrimitive }
func (Coded) Kind() ValueKind        { return ValueCoded }
func (Reference) Kind() ValueKind    { return ValueReference }
func (Identifiable) Kind() ValueKind { return ValueIdentifiable }
func (Choice) Kind() ValueKind       { return ValueChoice }
func (Quantified) Kind() ValueKind   { return ValueQuantified }

func (Primitive) isValue()    {}
func (Coded) isValue()        {}
func (Reference) isValue()    {}
func (Identifiable) isValue() {}
func (Choice) isValue()       {}
func (Quantified) isValue()   {}

// NewPrimitive returns a primitive value of the given type.
func NewPrimitive(typeName string) Primitive {
	return Primitive{Type: typeName}
}

// NewCode returns a "code" value bound to a value set.
func NewCode(valueSet string) Coded {
	return Coded{Type: "code", ValueSet: valueSet}
}

// NewCodeDescendingFrom returns a "code" value constrained to descendants of ancestor.
func NewCodeDescendingFrom(ancestor Concept) Coded {
	return Coded{Type: "code", DescendingFrom: &ancestor}
}

// NewReference returns a reference to target.
func NewReference(target Identifier) Reference {
	return Reference{Target: target}
}

// NewIdentifiable returns a value that inlines target.
func NewIdentifiable(target Identifier) Identifiable {
	return Identifiable{Target: target}
}

// NewChoice returns a choice over options.
func NewChoice(options ...Value) Choice {
	return Choice{Options: options}
}

// Quantify wraps v with card. Wrapping a Quantified replaces its cardinality.
func Quantify(v Value, card Cardinality) Quantified {
	if q, ok := v.(Quantified); ok {
		v = q.Value
	}
	return Quantified{Value: v, Card: card}
}
