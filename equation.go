package gosolve

import (
	"encoding/json"
	"strings"
)

// ============================================================
// Equation
// ============================================================

// Equation is an ordered pair of expressions. Two equations are equal when
// both sides are structurally equal; a relation is never used as a
// boolean.
type Equation struct{ LHS, RHS Expr }

func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }

func (e *Equation) String() string { return e.LHS.String() + " = " + e.RHS.String() }
func (e *Equation) LaTeX() string  { return e.LHS.LaTeX() + " = " + e.RHS.LaTeX() }

// Markup is the display-math form used for rendered steps. Normalize
// accepts it back unchanged.
func (e *Equation) Markup() string { return "$$" + e.LaTeX() + "$$" }

func (e *Equation) Equal(other *Equation) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.LHS.Equal(other.LHS) && e.RHS.Equal(other.RHS)
}

// Residual returns LHS - RHS without simplification.
func (e *Equation) Residual() Expr {
	return AddOf(e.LHS, negate(e.RHS))
}

func (e *Equation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"lhs":   e.LHS.toJSON(),
		"rhs":   e.RHS.toJSON(),
		"text":  e.String(),
		"latex": e.LaTeX(),
	})
}

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// countSymbol counts occurrences of a single-letter unknown in printed
// text. Names are single letters, so a byte count is exact.
func countSymbol(text, name string) int {
	if name == "" {
		return 0
	}
	return strings.Count(text, name)
}
