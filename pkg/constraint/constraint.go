// Package constraint checks exported documents against FHIRPath invariants.
package constraint

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/types"

	"github.com/gofhir/shrexport/pkg/issue"
	"github.com/gofhir/shrexport/pkg/structdef"
)

// Source is the issue source recorded by the checker.
const Source = "constraint"

// Invariant is a FHIRPath rule evaluated against the whole document.
type Invariant struct {
	Key        string         `mapstructure:"key" json:"key"`
	Human      string         `mapstructure:"human" json:"human"`
	Expression string         `mapstructure:"expression" json:"expression"`
	Severity   issue.Severity `mapstructure:"severity" json:"severity,omitempty"`
}

// BuiltIn returns the invariants every exported document satisfies.
func BuiltIn() []Invariant {
	return []Invariant{
		{
			Key:        "sdx-1",
			Human:      "Element paths are unique",
			Expression: "snapshot.element.path.isDistinct()",
			Severity:   issue.SeverityError,
		},
		{
			Key:        "sdx-2",
			Human:      "The first element is the entry root",
			Expression: "snapshot.element.first().path = name",
			Severity:   issue.SeverityError,
		},
		{
			Key:        "sdx-3",
			Human:      "Every element has a cardinality",
			Expression: "snapshot.element.all(min.exists() and max.exists())",
			Severity:   issue.SeverityError,
		},
		{
			Key:        "sdx-4",
			Human:      "Element minimum does not exceed maximum",
			Expression: "snapshot.element.all(max = '*' or min <= max.toInteger())",
			Severity:   issue.SeverityError,
		},
		{
			Key:        "sdx-5",
			Human:      "The differential lists the snapshot elements",
			Expression: "differential.element.count() = snapshot.element.count()",
			Severity:   issue.SeverityWarning,
		},
	}
}

// Checker evaluates invariants against documents. It is safe for concurrent use.
type Checker struct {
	invariants []Invariant

	// Cache of compiled FHIRPath expressions.
	exprCache   map[string]*fhirpath.Expression
	exprCacheMu sync.RWMutex
}

// New creates a Checker with the built-in invariants plus extra.
func New(extra ...Invariant) *Checker {
	return NewWithInvariants(append(BuiltIn(), extra...)...)
}

// NewWithInvariants creates a Checker with exactly the given invariants.
func NewWithInvariants(invariants ...Invariant) *Checker {
	return &Checker{
		invariants: invariants,
		exprCache:  make(map[string]*fhirpath.Expression),
	}
}

// Invariants returns the invariants in evaluation order.
func (c *Checker) Invariants() []Invariant {
	out := make([]Invariant, len(c.invariants))
	copy(out, c.invariants)
	return out
}

// Check evaluates every invariant against doc.
func (c *Checker) Check(doc *structdef.Document) *issue.Result {
	result := issue.NewResult()
	if doc == nil {
		return result
	}

	data, err := json.Marshal(doc)
	if err != nil {
		result.AddErrorWithID(issue.DiagExportFailed, map[string]any{"entry": doc.ID, "error": err.Error()}, doc.ID)
		return result.WithSource(Source)
	}

	for _, inv := range c.invariants {
		c.evaluate(data, inv, doc.ID, result)
	}
	return result.WithSource(Source)
}

func (c *Checker) evaluate(data []byte, inv Invariant, location string, result *issue.Result) {
	if inv.Expression == "" {
		return
	}

	expr, err := c.getCompiledExpression(inv.Expression)
	if err != nil {
		result.AddWarningWithID(
			issue.DiagConstraintCompileError,
			map[string]any{
				"key":   inv.Key,
				"error": err.Error(),
			},
			location,
		)
		return
	}

	evalResult, err := expr.Evaluate(data)
	if err != nil {
		result.AddWarningWithID(
			issue.DiagConstraintEvalError,
			map[string]any{
				"key":   inv.Key,
				"error": err.Error(),
			},
			location,
		)
		return
	}

	if !passed(evalResult) {
		params := map[string]any{
			"details": fmt.Sprintf("Constraint failed: %s: '%s'", inv.Key, inv.Human),
		}
		if inv.Severity == issue.SeverityWarning {
			result.AddWarningWithID(issue.DiagConstraintFailed, params, location)
		} else {
			result.AddErrorWithID(issue.DiagConstraintFailed, params, location)
		}
	}
}

// getCompiledExpression returns a cached compiled expression or compiles a new one.
func (c *Checker) getCompiledExpression(expr string) (*fhirpath.Expression, error) {
	c.exprCacheMu.RLock()
	compiled, ok := c.exprCache[expr]
	c.exprCacheMu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := fhirpath.Compile(expr)
	if err != nil {
		return nil, err
	}

	c.exprCacheMu.Lock()
	c.exprCache[expr] = compiled
	c.exprCacheMu.Unlock()

	return compiled, nil
}

// CacheSize returns the number of compiled expressions held.
func (c *Checker) CacheSize() int {
	c.exprCacheMu.RLock()
	defer c.exprCacheMu.RUnlock()
	return len(c.exprCache)
}

// passed reports whether a result satisfies an invariant. Empty means not
// applicable; a lone boolean is its value; anything else is truthy.
func passed(result types.Collection) bool {
	if len(result) == 0 {
		return true
	}
	if len(result) == 1 {
		if b, ok := result[0].(types.Boolean); ok {
			return b.Bool()
		}
	}
	return true
}
