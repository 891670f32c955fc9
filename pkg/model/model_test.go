package model

import (
	"errors"
	"math"
	"testing"
)

func TestIdentifierForms(t *testing.T) {
	tests := []struct {
		id      Identifier
		fqn     string
		str     string
		nsPath  string
		isPrime bool
	}{
		{NewIdentifier("shr.test", "Simple"), "shr.test.Simple", "shr.test:Simple", "shr/test", false},
		{NewIdentifier("shr.other.test", "Simple"), "shr.other.test.Simple", "shr.other.test:Simple", "shr/other/test", false},
		{PrimitiveIdentifier("string"), "string", "primitive:string", "primitive", true},
	}

	for _, tt := range tests {
		if got := tt.id.FQN(); got != tt.fqn {
			t.Errorf("%v.FQN() = %q, want %q", tt.id, got, tt.fqn)
		}
		if got := tt.id.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.id.NamespacePath(); got != tt.nsPath {
			t.Errorf("%v.NamespacePath() = %q, want %q", tt.id, got, tt.nsPath)
		}
		if got := tt.id.IsPrimitive(); got != tt.isPrime {
			t.Errorf("%v.IsPrimitive() = %v, want %v", tt.id, got, tt.isPrime)
		}
	}
}

func TestIdentifierEquality(t *testing.T) {
	a := NewIdentifier("shr.test", "Simple")
	b := NewIdentifier("shr.test", "Simple")
	c := NewIdentifier("shr.other.test", "Simple")
	if a != b {
		t.Error("identifiers with equal components should be equal")
	}
	if a == c {
		t.Error("identifiers in different namespaces should differ")
	}
}

func TestCardinality(t *testing.T) {
	tests := []struct {
		name    string
		card    Cardinality
		str     string
		max     string
		wantErr bool
	}{
		{"one", One(), "1..1", "1", false},
		{"unbounded", Unbounded(), "0..*", "*", false},
		{"optional list", Card(0, 2), "0..2", "2", false},
		{"unbounded min 3", CardUnbounded(3), "3..*", "*", false},
		{"inverted", Card(3, 1), "3..1", "1", true},
		{"zero max", Card(0, 0), "0..0", "0", true},
		{"max over 32 bits", Card(0, math.MaxUint32+1), "0..4294967296", "4294967296", true},
		{"min over 32 bits", CardUnbounded(math.MaxUint32 + 1), "4294967296..*", "*", true},
		{"max at 32 bits", Card(1, math.MaxUint32), "1..4294967295", "4294967295", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.card.MaxString(); got != tt.max {
				t.Errorf("MaxString() = %q, want %q", got, tt.max)
			}
			err := tt.card.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCardinality) {
				t.Errorf("Validate() error does not wrap ErrInvalidCardinality: %v", err)
			}
		})
	}
}

func TestQuantifyReplacesCardinality(t *testing.T) {
	inner := NewPrimitive("string")
	q := Quantify(Quantify(inner, Card(0, 1)), CardUnbounded(1))
	if _, nested := q.Value.(Quantified); nested {
		t.Fatal("Quantify should not nest quantifiers")
	}
	if q.Card != CardUnbounded(1) {
		t.Errorf("Card = %v, want 1..*", q.Card)
	}
}

func TestValueKinds(t *testing.T) {
	tests := []struct {
		value Value
		want  ValueKind
	}{
		{NewPrimitive("string"), ValuePrimitive},
		{NewCode("http://example.org/vs"), ValueCoded},
		{NewReference(NewIdentifier("shr.test", "Simple")), ValueReference},
		{NewIdentifiable(NewIdentifier("shr.test", "Simple")), ValueIdentifiable},
		{NewChoice(NewPrimitive("string")), ValueChoice},
		{Quantify(NewPrimitive("string"), One()), ValueQuantified},
	}
	for _, tt := range tests {
		if got := tt.value.Kind(); got != tt.want {
			t.Errorf("Kind() = %v, want %v", got, tt.want)
		}
	}
}

func TestNamespace(t *testing.T) {
	ns := NewNamespace("shr.test")
	simple := NewDataElement(NewIdentifier("shr.test", "Simple"), NewPrimitive("string"))
	simple.IsEntry = true
	group := NewGroup(NewIdentifier("shr.test", "Group"),
		Quantify(NewIdentifiable(simple.Identifier), One()))

	if err := ns.Add(simple); err != nil {
		t.Fatalf("Add(Simple) error = %v", err)
	}
	if err := ns.Add(group); err != nil {
		t.Fatalf("Add(Group) error = %v", err)
	}

	t.Run("duplicate rejected", func(t *testing.T) {
		err := ns.Add(NewDataElement(NewIdentifier("shr.test", "Simple"), NewPrimitive("string")))
		if !errors.Is(err, ErrDuplicateDefinition) {
			t.Errorf("Add(duplicate) error = %v, want ErrDuplicateDefinition", err)
		}
	})

	t.Run("foreign identifier rejected", func(t *testing.T) {
		if err := ns.Add(NewDataElement(NewIdentifier("shr.other", "X"), NewPrimitive("string"))); err == nil {
			t.Error("Add(foreign) should fail")
		}
	})

	t.Run("lookup", func(t *testing.T) {
		def, ok := ns.Lookup("Group")
		if !ok || def.Header().Identifier.Name != "Group" {
			t.Errorf("Lookup(Group) = %v, %v", def, ok)
		}
		if _, ok := ns.Lookup("Missing"); ok {
			t.Error("Lookup(Missing) should fail")
		}
	})

	t.Run("declaration order", func(t *testing.T) {
		defs := ns.Definitions()
		if len(defs) != 2 || defs[0] != Definition(simple) || defs[1] != Definition(group) {
			t.Errorf("Definitions() out of order: %v", defs)
		}
	})

	t.Run("entries", func(t *testing.T) {
		ns.AddEntry("Group")
		ns.AddEntry("Group")
		entries := ns.Entries()
		want := []Identifier{group.Identifier, simple.Identifier}
		if len(entries) != len(want) {
			t.Fatalf("Entries() = %v, want %v", entries, want)
		}
		for i := range want {
			if entries[i] != want[i] {
				t.Errorf("Entries()[%d] = %v, want %v", i, entries[i], want[i])
			}
		}
	})
}

func TestConceptString(t *testing.T) {
	if got := NewConcept("http://foo.org", "bar", "Foobar").String(); got != "Foobar (http://foo.org:bar)" {
		t.Errorf("String() = %q", got)
	}
	if got := NewConcept("http://foo.org", "bar", "").String(); got != "http://foo.org:bar" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		in        string
		namespace string
		want      Identifier
		wantErr   bool
	}{
		{"shr.test:Simple", "", NewIdentifier("shr.test", "Simple"), false},
		{"shr.test:Simple", "shr.other", NewIdentifier("shr.test", "Simple"), false},
		{"Simple", "shr.test", NewIdentifier("shr.test", "Simple"), false},
		{"Simple", "", Identifier{}, true},
		{":Simple", "shr.test", Identifier{}, true},
		{"shr.test:", "", Identifier{}, true},
		{"a:b:c", "", Identifier{}, true},
	}

	for _, tt := range tests {
		got, err := ParseIdentifier(tt.in, tt.namespace)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIdentifier(%q, %q) error = %v; wantErr %v", tt.in, tt.namespace, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrMalformedIdentifier) {
			t.Errorf("ParseIdentifier(%q) error = %v; want ErrMalformedIdentifier", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseIdentifier(%q, %q) = %v; want %v", tt.in, tt.namespace, got, tt.want)
		}
	}
}
