// Package gosolve turns free-form first-degree equations into exact
// symbolic equations, classifies their structure and solves them step by
// step.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Deterministic output: the same input always yields the same steps
//   - Parsed trees keep the author's grouping until the solver expands them
//   - Every rendered form (plain or LaTeX) parses back to the same tree
//   - No global state: the unknown is an explicit parameter
package gosolve

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable expression tree in a single unknown. Nodes are
// never mutated after construction; every transformation builds a new
// tree.
type Expr interface {
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

// N is the integer n.
func N(n int64) *Num { return numOf(big.NewRat(n, 1)) }

// F is the rational p/q in lowest terms; q must not be zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("gosolve: F called with zero denominator")
	}
	return numOf(big.NewRat(p, q))
}

func numOf(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) exprType() string      { return "num" }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

// Rat returns a copy of the value.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.val) }

// Equal compares values, so 2/4 equals 1/2.
func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

// String prints integers bare and everything else as p/q.
func (n *Num) String() string { return n.val.RatString() }

// LaTeX writes non-integers as a \frac with the sign in front.
func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.RatString()
	}
	p, q := new(big.Int).Abs(n.val.Num()), n.val.Denom()
	sign := ""
	if n.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, p, q)
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

// Arithmetic on constants. Each result is a fresh value.

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

// numDiv expects a nonzero divisor; Quo.Eval checks before calling.
func numDiv(a, b *Num) *Num {
	if b.IsZero() {
		panic(ErrDivisionByZero)
	}
	return &Num{val: new(big.Rat).Quo(a.val, b.val)}
}

// ratExpr returns the tree form of a computed rational: an integer Num,
// or a Quo of two integers with the sign carried by the numerator. This
// is the form the parser produces for "p/q", so rendered results re-parse
// to the same tree.
func ratExpr(r *big.Rat) Expr {
	if r.IsInt() {
		return numOf(r)
	}
	return &Quo{
		num: &Num{val: new(big.Rat).SetInt(r.Num())},
		den: &Num{val: new(big.Rat).SetInt(r.Denom())},
	}
}

// ============================================================
// Sym — the unknown
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

// AddOf builds a sum, flattening nested sums. It does not combine terms.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}
	switch len(flat) {
	case 0:
		return N(0)
	case 1:
		return flat[0]
	}
	return &Add{terms: flat}
}

func (a *Add) String() string { return a.join(false) }
func (a *Add) LaTeX() string  { return a.join(true) }

// join renders "t1 + t2 - t3". A term with a leading minus sign is
// written as a subtraction of its absolute form, parenthesized when that
// form is itself a sum or starts with a sign.
func (a *Add) join(latex bool) string {
	render := Expr.String
	if latex {
		render = Expr.LaTeX
	}
	var b strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			b.WriteString(render(t))
			continue
		}
		if !leadingNegative(t) {
			b.WriteString(" + ")
			b.WriteString(render(t))
			continue
		}
		b.WriteString(" - ")
		abs := absTerm(t)
		s := render(abs)
		if _, sum := abs.(*Add); sum || strings.HasPrefix(s, "-") {
			if latex {
				s = "\\left(" + s + "\\right)"
			} else {
				s = "(" + s + ")"
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalSlices(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": slicesJSON(a.terms)}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

// MulOf builds a product, flattening nested products. Factors keep their
// order and numeric factors are not folded together.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}
	switch len(flat) {
	case 0:
		return N(1)
	case 1:
		return flat[0]
	}
	return &Mul{factors: flat}
}

func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if needsFactorParens(f, i, false) {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	var b strings.Builder
	prev := ""
	for i, f := range m.factors {
		s := f.LaTeX()
		if needsFactorParens(f, i, true) {
			s = "\\left(" + s + "\\right)"
		}
		if i > 0 {
			if juxtaposable(prev, s) {
				b.WriteString(" ")
			} else {
				b.WriteString(" \\cdot ")
			}
		}
		b.WriteString(s)
		prev = s
	}
	return b.String()
}

// needsFactorParens reports whether the i-th factor of a product must be
// grouped to survive a re-parse. Quotients are atomic in LaTeX.
func needsFactorParens(f Expr, i int, latex bool) bool {
	switch f.(type) {
	case *Add:
		return true
	case *Neg:
		return i > 0
	case *Quo:
		if i > 0 && !latex {
			return true
		}
	}
	return i > 0 && leadingNegative(f)
}

// juxtaposable reports whether two rendered factors may be written side
// by side, relying on implicit multiplication when parsed back.
func juxtaposable(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	last := prev[len(prev)-1]
	if !(last >= '0' && last <= '9') && last != ')' && last != '}' {
		return false
	}
	first := next[0]
	return first == '\\' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalSlices(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": slicesJSON(m.factors)}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Quo — quotient
// ============================================================

type Quo struct{ num, den Expr }

func QuoOf(num, den Expr) Expr { return &Quo{num: num, den: den} }

func (q *Quo) String() string {
	n := q.num.String()
	if _, ok := q.num.(*Add); ok {
		n = "(" + n + ")"
	}
	d := q.den.String()
	if !isAtomic(q.den) {
		d = "(" + d + ")"
	}
	return n + "/" + d
}

func (q *Quo) LaTeX() string {
	return "\\frac{" + q.num.LaTeX() + "}{" + q.den.LaTeX() + "}"
}

func (q *Quo) Sub(varName string, value Expr) Expr {
	return QuoOf(q.num.Sub(varName, value), q.den.Sub(varName, value))
}

func (q *Quo) Eval() (*Num, bool) {
	n, ok := q.num.Eval()
	if !ok {
		return nil, false
	}
	d, ok := q.den.Eval()
	if !ok || d.IsZero() {
		return nil, false
	}
	return numDiv(n, d), true
}

func (q *Quo) Equal(other Expr) bool {
	o, ok := other.(*Quo)
	return ok && q.num.Equal(o.num) && q.den.Equal(o.den)
}

func (q *Quo) exprType() string { return "quo" }
func (q *Quo) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "quo", "num": q.num.toJSON(), "den": q.den.toJSON()}
}
func (q *Quo) Num() Expr { return q.num }
func (q *Quo) Den() Expr { return q.den }

// ============================================================
// Neg — unary minus that no numeric literal could absorb
// ============================================================

type Neg struct{ arg Expr }

// NegOf returns -e. The sign is folded into a leading numeric literal
// when there is one, so "-2*x" and "-(2*x)" build the same tree.
func NegOf(e Expr) Expr { return negate(e) }

func (n *Neg) String() string {
	s := n.arg.String()
	if !isAtomic(n.arg) {
		s = "(" + s + ")"
	}
	return "-" + s
}

func (n *Neg) LaTeX() string {
	s := n.arg.LaTeX()
	if !isAtomic(n.arg) {
		s = "\\left(" + s + "\\right)"
	}
	return "-" + s
}

func (n *Neg) Sub(varName string, value Expr) Expr { return negate(n.arg.Sub(varName, value)) }

func (n *Neg) Eval() (*Num, bool) {
	v, ok := n.arg.Eval()
	if !ok {
		return nil, false
	}
	return numNeg(v), true
}

func (n *Neg) Equal(other Expr) bool {
	o, ok := other.(*Neg)
	return ok && n.arg.Equal(o.arg)
}

func (n *Neg) exprType() string { return "neg" }
func (n *Neg) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "neg", "arg": n.arg.toJSON()}
}
func (n *Neg) Arg() Expr { return n.arg }

// ============================================================
// Sign folding
// ============================================================

// foldable reports whether e starts with a numeric literal that can carry
// a sign: a number, a product led by one, or a quotient whose numerator is.
func foldable(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return true
	case *Mul:
		return foldable(v.factors[0])
	case *Quo:
		return foldable(v.num)
	}
	return false
}

func negate(e Expr) Expr {
	switch v := e.(type) {
	case *Num:
		return numNeg(v)
	case *Mul:
		if foldable(v.factors[0]) {
			fs := append([]Expr{negate(v.factors[0])}, v.factors[1:]...)
			return &Mul{factors: fs}
		}
	case *Quo:
		if foldable(v.num) {
			return &Quo{num: negate(v.num), den: v.den}
		}
	}
	return &Neg{arg: e}
}

func leadingNegative(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Neg:
		return true
	case *Mul:
		return foldable(v) && leadingNegative(v.factors[0])
	case *Quo:
		return foldable(v) && leadingNegative(v.num)
	}
	return false
}

// absTerm is the term that, once negated, gives back e. Only meaningful
// when leadingNegative(e).
func absTerm(e Expr) Expr {
	if n, ok := e.(*Neg); ok {
		return n.arg
	}
	return negate(e)
}

func isAtomic(e Expr) bool {
	switch v := e.(type) {
	case *Sym:
		return true
	case *Num:
		return v.val.IsInt() && !v.IsNegative()
	}
	return false
}

func equalSlices(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func slicesJSON(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = e.toJSON()
	}
	return out
}
