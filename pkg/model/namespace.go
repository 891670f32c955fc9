package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateDefinition is returned when a name is declared twice in a namespace.
var ErrDuplicateDefinition = errors.New("duplicate definition")

// Namespace is a named set of definitions plus the entries to publish.
type Namespace struct {
	name    string
	order   []string
	defs    map[string]Definition
	entries []Identifier
}

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name: name,
		defs: make(map[string]Definition),
	}
}

// Name returns the namespace name.
func (ns *Namespace) Name() string {
	return ns.name
}

// Add declares a definition. The definition's identifier must belong to this namespace.
func (ns *Namespace) Add(def Definition) error {
	id := def.Header().Identifier
	if id.Namespace != ns.name {
		return fmt.Errorf("definition %s does not belong to namespace %s", id, ns.name)
	}
	if _, exists := ns.defs[id.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, id)
	}
	ns.defs[id.Name] = def
	ns.order = append(ns.order, id.Name)
	return nil
}

// MustAdd is like Add but panics on error. Intended for tests and fixtures.
func (ns *Namespace) MustAdd(defs ...Definition) *Namespace {
	for _, def := range defs {
		if err := ns.Add(def); err != nil {
			panic(err)
		}
	}
	return ns
}

// AddEntry designates a definition as a top-level document root.
func (ns *Namespace) AddEntry(name string) {
	ns.entries = append(ns.entries, NewIdentifier(ns.name, name))
}

// Lookup returns the definition with the given local name.
func (ns *Namespace) Lookup(name string) (Definition, bool) {
	def, ok := ns.defs[name]
	return def, ok
}

// Definitions returns the definitions in declaration order.
func (ns *Namespace) Definitions() []Definition {
	result := make([]Definition, 0, len(ns.order))
	for _, name := range ns.order {
		result = append(result, ns.defs[name])
	}
	return result
}

// Len returns the number of definitions.
func (ns *Namespace) Len() int {
	return len(ns.order)
}

// Entries returns the explicitly listed entries followed by definitions
// flagged IsEntry, without duplicates.
func (ns *Namespace) Entries() []Identifier {
	seen := make(map[Identifier]bool, len(ns.entries))
	result := make([]Identifier, 0, len(ns.entries))
	for _, id := range ns.entries {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	for _, name := range ns.order {
		h := ns.defs[name].Header()
		if h.IsEntry && !seen[h.Identifier] {
			seen[h.Identifier] = true
			result = append(result, h.Identifier)
		}
	}
	return result
}
