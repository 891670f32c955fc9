// Package registry provides the combined namespace registry used to resolve
// identifiers across SHR namespaces.
package registry

import (
	"errors"
	"fmt"

	"github.com/gofhir/shrexport/pkg/model"
)

// ErrUnresolved is matched (via errors.Is) by every ResolutionError.
var ErrUnresolved = errors.New("unresolved identifier")

// ResolutionError reports an identifier with no matching definition.
type ResolutionError struct {
	Identifier model.Identifier
	// NamespaceMissing is true when the namespace itself is unknown.
	NamespaceMissing bool
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.NamespaceMissing {
		return fmt.Sprintf("could not resolve %s: unknown namespace %q", e.Identifier, e.Identifier.Namespace)
	}
	return fmt.Sprintf("could not resolve %s: no such definition", e.Identifier)
}

// Is reports whether target is ErrUnresolved.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolved
}

// Resolver resolves identifiers to definitions.
type Resolver interface {
	Resolve(id model.Identifier) (model.Definition, error)
}

// Registry is a read-only view across namespaces, indexed by namespace name then
// local name. It is never mutated after New returns, so concurrent readers need
// no locking.
type Registry struct {
	order  []string
	byName map[string]map[string]model.Definition
	spaces map[string][]*model.Namespace
}

// New builds a Registry from namespaces. Namespaces sharing a name are merged;
// a local name declared in two of them is an error.
func New(namespaces ...*model.Namespace) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]map[string]model.Definition, len(namespaces)),
		spaces: make(map[string][]*model.Namespace, len(namespaces)),
	}

	for _, ns := range namespaces {
		if ns == nil {
			continue
		}
		defs, ok := r.byName[ns.Name()]
		if !ok {
			defs = make(map[string]model.Definition, ns.Len())
			r.byName[ns.Name()] = defs
			r.order = append(r.order, ns.Name())
		}
		r.spaces[ns.Name()] = append(r.spaces[ns.Name()], ns)

		for _, def := range ns.Definitions() {
			id := def.Header().Identifier
			if _, exists := defs[id.Name]; exists {
				return nil, fmt.Errorf("%w: %s", model.ErrDuplicateDefinition, id)
			}
			defs[id.Name] = def
		}
	}

	return r, nil
}

// Resolve returns the definition owning id.
func (r *Registry) Resolve(id model.Identifier) (model.Definition, error) {
	defs, ok := r.byName[id.Namespace]
	if !ok {
		return nil, &ResolutionError{Identifier: id, NamespaceMissing: true}
	}
	def, ok := defs[id.Name]
	if !ok {
		return nil, &ResolutionError{Identifier: id}
	}
	return def, nil
}

// Lookup returns the definition for (namespace, name), if any.
func (r *Registry) Lookup(namespace, name string) (model.Definition, bool) {
	def, err := r.Resolve(model.NewIdentifier(namespace, name))
	return def, err == nil
}

// HasNamespace reports whether the namespace is known.
func (r *Registry) HasNamespace(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Namespaces returns the namespace names in the order they were first supplied.
func (r *Registry) Namespaces() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Entries returns the entry identifiers of every namespace, in namespace order.
func (r *Registry) Entries() []model.Identifier {
	var entries []model.Identifier
	for _, name := range r.order {
		for _, ns := range r.spaces[name] {
			entries = append(entries, ns.Entries()...)
		}
	}
	return entries
}

// Count returns the total number of definitions.
func (r *Registry) Count() int {
	n := 0
	for _, defs := range r.byName {
		n += len(defs)
	}
	return n
}

// Verify interface compliance
var _ Resolver = (*Registry)(nil)
