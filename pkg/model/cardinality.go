package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidCardinality is returned when a bounded cardinality has a zero
// max or min > max, or when a bound does not fit in 32 bits.
var ErrInvalidCardinality = errors.New("invalid cardinality")

// Cardinality is a (min, max) occurrence range. Max is ignored when Unbounded.
type Cardinality struct {
	Min       uint `json:"min"`
	Max       uint `json:"max,omitempty"`
	Unbounded bool `json:"unbounded,omitempty"`
}

// Card returns a bounded cardinality min..max.
func Card(min, max uint) Cardinality {
	return Cardinality{Min: min, Max: max}
}

// CardUnbounded returns min..*.
func CardUnbounded(min uint) Cardinality {
	return Cardinality{Min: min, Unbounded: true}
}

// One returns 1..1, the cardinality of an unquantified value.
func One() Cardinality {
	return Cardinality{Min: 1, Max: 1}
}

// Unbounded returns 0..*, the cardinality given to entry roots.
func Unbounded() Cardinality {
	return CardUnbounded(0)
}

// Validate checks that a bounded max is positive and not below min, and
// that both bounds fit in 32 bits.
func (c Cardinality) Validate() error {
	switch {
	case c.Min > math.MaxUint32 || (!c.Unbounded && c.Max > math.MaxUint32):
		return fmt.Errorf("%w: %s (bound exceeds %d)", ErrInvalidCardinality, c, uint64(math.MaxUint32))
	case c.Unbounded:
		return nil
	case c.Max == 0:
		return fmt.Errorf("%w: %s (max must be positive)", ErrInvalidCardinality, c)
	case c.Min > c.Max:
		return fmt.Errorf("%w: %s (min greater than max)", ErrInvalidCardinality, c)
	}
	return nil
}

// WithMin returns a copy with a different lower bound.
func (c Cardinality) WithMin(min uint) Cardinality {
	c.Min = min
	return c
}

// MaxString renders the upper bound in FHIR form: "*" or a decimal number.
func (c Cardinality) MaxString() string {
	if c.Unbounded {
		return "*"
	}
	return strconv.FormatUint(uint64(c.Max), 10)
}

// String renders "min..max".
func (c Cardinality) String() string {
	return strconv.FormatUint(uint64(c.Min), 10) + ".." + c.MaxString()
}
