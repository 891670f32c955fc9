// Package primitive holds the table of SHR primitive type names and the policy
// applied to names outside it.
package primitive

import "sort"

// Fallback is the type used in place of an unrecognized primitive.
const Fallback = "string"

// JSONType is the JSON category a primitive serializes to.
type JSONType int

const (
	JSONString JSONType = iota
	JSONBoolean
	JSONNumber
)

// String returns the JSON type name.
func (t JSONType) String() string {
	switch t {
	case JSONBoolean:
		return "boolean"
	case JSONNumber:
		return "number"
	default:
		return "string"
	}
}

var known = map[string]JSONType{
	"boolean":      JSONBoolean,
	"integer":      JSONNumber,
	"decimal":      JSONNumber,
	"unsignedInt":  JSONNumber,
	"positiveInt":  JSONNumber,
	"string":       JSONString,
	"markdown":     JSONString,
	"code":         JSONString,
	"id":           JSONString,
	"oid":          JSONString,
	"uri":          JSONString,
	"base64Binary": JSONString,
	"date":         JSONString,
	"dateTime":     JSONString,
	"instant":      JSONString,
	"time":         JSONString,
}

// IsKnown returns true if name is a recognized primitive type.
func IsKnown(name string) bool {
	_, ok := known[name]
	return ok
}

// JSONTypeOf returns the JSON category of name. Unknown names report JSONString.
func JSONTypeOf(name string) JSONType {
	return known[name]
}

// Normalize maps name onto the primitive table. It returns the name unchanged and
// true when recognized, otherwise Fallback and false.
func Normalize(name string) (string, bool) {
	if IsKnown(name) {
		return name, true
	}
	return Fallback, false
}

// Names returns the recognized primitive names, sorted.
func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
