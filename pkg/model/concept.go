package model

import "fmt"

// Concept is a code from a code system, optionally with a display label.
type Concept struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

// NewConcept creates a Concept.
func NewConcept(system, code, display string) Concept {
	return Concept{System: system, Code: code, Display: display}
}

// String renders "display (system:code)", or "system:code" without a display.
func (c Concept) String() string {
	if c.Display != "" {
		return fmt.Sprintf("%s (%s:%s)", c.Display, c.System, c.Code)
	}
	return c.System + ":" + c.Code
}
