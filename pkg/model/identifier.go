// Package model defines the SHR specification model consumed by the exporters.
//
// Definitions and values are immutable once built: the exporters read them but
// never mutate them, so a single model can be shared by concurrent exports.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// PrimitiveNamespace is the reserved namespace of built-in primitive types.
const PrimitiveNamespace = "primitive"

// Identifier names a definition (or primitive type) within a namespace.
type Identifier struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// ErrMalformedIdentifier is returned by ParseIdentifier.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// NewIdentifier creates an Identifier.
func NewIdentifier(namespace, name string) Identifier {
	return Identifier{Namespace: namespace, Name: name}
}

// PrimitiveIdentifier creates an Identifier in the primitive namespace.
func PrimitiveIdentifier(name string) Identifier {
	return Identifier{Namespace: PrimitiveNamespace, Name: name}
}

// IsPrimitive reports whether the identifier names a built-in primitive type.
func (id Identifier) IsPrimitive() bool {
	return id.Namespace == PrimitiveNamespace
}

// IsZero reports whether both components are empty.
func (id Identifier) IsZero() bool {
	return id.Namespace == "" && id.Name == ""
}

// FQN returns the fully-qualified name ("shr.test.Simple").
// Primitive identifiers return their bare name.
func (id Identifier) FQN() string {
	if id.IsPrimitive() || id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "." + id.Name
}

// String returns the "namespace:name" form used in diagnostics.
func (id Identifier) String() string {
	return id.Namespace + ":" + id.Name
}

// NamespacePath returns the namespace with dots replaced by slashes,
// as used in canonical URLs ("shr.test" -> "shr/test").
func (id Identifier) NamespacePath() string {
	return strings.ReplaceAll(id.Namespace, ".", "/")
}

// ParseIdentifier parses "namespace:Name". A bare "Name" is taken relative
// to namespace; with an empty namespace it is an error.
func ParseIdentifier(s, namespace string) (Identifier, error) {
	ns, name, found := strings.Cut(s, ":")
	if !found {
		ns, name = namespace, s
	}
	if ns == "" || name == "" || strings.Contains(name, ":") {
		return Identifier{}, fmt.Errorf("%w %q", ErrMalformedIdentifier, s)
	}
	return NewIdentifier(ns, name), nil
}
