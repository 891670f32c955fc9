package expand

import (
	"errors"
	"fmt"

	"github.com/gofhir/shrexport/pkg/model"
)

var (
	// ErrUnknownPrimitive is matched by PrimitiveError.
	ErrUnknownPrimitive = errors.New("unrecognized primitive type")

	// ErrDepthExceeded is returned when nesting exceeds the configured limit,
	// which is how a circular model surfaces.
	ErrDepthExceeded = errors.New("maximum expansion depth exceeded")
)

// CardinalityError reports a value slot whose minimum exceeds its maximum.
type CardinalityError struct {
	Path string
	Card model.Cardinality
}

// Error implements the error interface.
func (e *CardinalityError) Error() string {
	return fmt.Sprintf("invalid cardinality %s at %s", e.Card, e.Path)
}

// Unwrap returns model.ErrInvalidCardinality.
func (e *CardinalityError) Unwrap() error {
	return model.ErrInvalidCardinality
}

// PrimitiveError reports an unrecognized primitive type when strict
// primitives are enabled.
type PrimitiveError struct {
	Path string
	Type string
}

// Error implements the error interface.
func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("unrecognized primitive type %q at %s", e.Type, e.Path)
}

// Unwrap returns ErrUnknownPrimitive.
func (e *PrimitiveError) Unwrap() error {
	return ErrUnknownPrimitive
}
