package gosolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultUnknown is the unknown used when a caller does not name one.
const DefaultUnknown = "x"

// ============================================================
// Solution
// ============================================================

type SolutionKind int

const (
	Undetermined SolutionKind = iota
	Unique
	NoSolution
	InfiniteSolutions
)

func (k SolutionKind) String() string {
	switch k {
	case Unique:
		return "unique"
	case NoSolution:
		return "no_solution"
	case InfiniteSolutions:
		return "infinite_solutions"
	}
	return "undetermined"
}

func (k SolutionKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// Solution is the outcome of solving. Value is set only for Unique.
type Solution struct {
	Kind  SolutionKind
	Value *Num
}

// Expr returns the value in tree form, or nil when there is no single value.
func (s Solution) Expr() Expr {
	if s.Kind != Unique || s.Value == nil {
		return nil
	}
	return ratExpr(s.Value.val)
}

// Answer renders the final answer as text: "x = 3/2" for a unique value,
// a sentence in the given language otherwise.
func (s Solution) Answer(unknown string, tag language.Tag) string {
	if e := s.Expr(); e != nil {
		return unknown + " = " + e.String()
	}
	return s.sentence(printer(tag))
}

// AnswerMarkup is Answer with the value typeset as display math.
func (s Solution) AnswerMarkup(unknown string, tag language.Tag) string {
	if e := s.Expr(); e != nil {
		return Eq(S(unknown), e).Markup()
	}
	return s.sentence(printer(tag))
}

func (s Solution) sentence(p *message.Printer) string {
	switch s.Kind {
	case NoSolution:
		return p.Sprintf(msgNoSolution)
	case InfiniteSolutions:
		return p.Sprintf(msgInfinitelyMany)
	}
	return p.Sprintf(msgUndetermined)
}

func (s Solution) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"kind": s.Kind}
	if e := s.Expr(); e != nil {
		out["value"] = e.String()
	}
	return json.Marshal(out)
}

// ============================================================
// Steps
// ============================================================

// Step is one user-visible transformation. Indices start at 1 and have no
// gaps; index 0 is reserved for the single step reporting a failure.
type Step struct {
	Index       int       `json:"index"`
	Description string    `json:"description"`
	Equation    *Equation `json:"-"`
	Text        string    `json:"text,omitempty"`
	Markup      string    `json:"equation"`
}

// SolveError wraps whatever stopped the solver: a non-linear equation, an
// unknown in a denominator, a division by zero or an internal fault.
type SolveError struct {
	Cause error
}

func (e *SolveError) Error() string { return "gosolve: cannot solve: " + e.Cause.Error() }
func (e *SolveError) Unwrap() error { return e.Cause }

// Result is what Solve returns. Err is a *SolveError when solving failed,
// in which case Steps holds a single index-0 step describing the failure.
type Result struct {
	Steps    []Step   `json:"steps"`
	Solution Solution `json:"solution"`
	Err      error    `json:"-"`
}

type options struct {
	lang language.Tag
}

type Option func(*options)

// WithLanguage selects the language of step descriptions.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

type recorder struct {
	p     *message.Printer
	steps []Step
}

func (r *recorder) add(eq *Equation, key string, args ...interface{}) {
	r.steps = append(r.steps, Step{
		Index:       len(r.steps) + 1,
		Description: r.p.Sprintf(key, args...),
		Equation:    eq,
		Text:        eq.String(),
		Markup:      eq.Markup(),
	})
}

// ============================================================
// Solve
// ============================================================

// Solve derives the solution of a first-degree equation in unknown and
// records how it got there:
//
//  1. expand both sides (always recorded, noting whether anything changed)
//  2. group: unknown terms on the left, constants on the right
//  3. isolate: divide by the coefficient when it is not 1, then the value
//
// A zero coefficient ends at step 3 with NoSolution or InfiniteSolutions.
// Solve never panics; failures come back as a single index-0 step.
func Solve(eq *Equation, unknown string, opts ...Option) (res Result) {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}
	p := printer(o.lang)
	defer func() {
		if r := recover(); r != nil {
			res = failed(p, fmt.Errorf("internal error: %v", r))
		}
	}()
	if eq == nil {
		return failed(p, errors.New("no equation"))
	}
	if err := validUnknown(unknown); err != nil {
		return failed(p, err)
	}

	rec := &recorder{p: p}

	lhs, err := Expand(eq.LHS, unknown)
	if err != nil {
		return failed(p, err)
	}
	rhs, err := Expand(eq.RHS, unknown)
	if err != nil {
		return failed(p, err)
	}
	expanded := Eq(lhs, rhs)
	if expanded.Equal(eq) {
		rec.add(expanded, msgExpandNoop)
	} else {
		rec.add(expanded, msgExpand)
	}

	coeffL, constL, err := linearParts(lhs, unknown)
	if err != nil {
		return failed(p, err)
	}
	coeffR, constR, err := linearParts(rhs, unknown)
	if err != nil {
		return failed(p, err)
	}
	coeff := new(big.Rat).Sub(coeffL, coeffR)
	konst := new(big.Rat).Sub(constR, constL)
	grouped := Eq(linearExpr(coeff, new(big.Rat), unknown), ratExpr(konst))
	rec.add(grouped, msgGroup, unknown)

	var sol Solution
	switch {
	case coeff.Sign() == 0 && konst.Sign() != 0:
		rec.add(grouped, msgInconsistent)
		sol = Solution{Kind: NoSolution}
	case coeff.Sign() == 0:
		rec.add(grouped, msgIdentity)
		sol = Solution{Kind: InfiniteSolutions}
	default:
		value := new(big.Rat).Quo(konst, coeff)
		if coeff.Cmp(big.NewRat(1, 1)) != 0 {
			division := Eq(S(unknown), QuoOf(ratExpr(konst), ratExpr(coeff)))
			rec.add(division, msgIsolate, unknown, ratExpr(coeff).String())
		}
		rec.add(Eq(S(unknown), ratExpr(value)), msgFinal)
		sol = Solution{Kind: Unique, Value: numOf(value)}
	}
	return Result{Steps: rec.steps, Solution: sol}
}

// linearParts reads the coefficient and constant of a first-degree
// expression by evaluating it at 0 and 1.
func linearParts(e Expr, unknown string) (coeff, konst *big.Rat, err error) {
	at0, ok := e.Sub(unknown, N(0)).Eval()
	if !ok {
		return nil, nil, fmt.Errorf("cannot evaluate %q at %s = 0", e.String(), unknown)
	}
	at1, ok := e.Sub(unknown, N(1)).Eval()
	if !ok {
		return nil, nil, fmt.Errorf("cannot evaluate %q at %s = 1", e.String(), unknown)
	}
	return new(big.Rat).Sub(at1.val, at0.val), at0.Rat(), nil
}

func failed(p *message.Printer, err error) Result {
	return Result{
		Steps:    []Step{{Index: 0, Description: p.Sprintf(msgError, err)}},
		Solution: Solution{Kind: Undetermined},
		Err:      &SolveError{Cause: err},
	}
}

// ============================================================
// Answer checking
// ============================================================

// Check reports whether value satisfies eq exactly.
func Check(eq *Equation, unknown string, value *Num) (bool, error) {
	l, ok := eq.LHS.Sub(unknown, value).Eval()
	if !ok {
		return false, fmt.Errorf("cannot evaluate left side at %s = %s", unknown, value)
	}
	r, ok := eq.RHS.Sub(unknown, value).Eval()
	if !ok {
		return false, fmt.Errorf("cannot evaluate right side at %s = %s", unknown, value)
	}
	return l.Equal(r), nil
}

// ParseAnswer reads a numeric answer such as "3/2", "x = -4" or
// "$$x = \frac{1}{3}$$".
func ParseAnswer(text, unknown string) (*Num, error) {
	clean := CleanMarkup(text)
	if i := strings.LastIndex(clean, "="); i >= 0 {
		clean = clean[i+1:]
	}
	e, err := ParseExpr(clean, unknown)
	if err != nil {
		return nil, err
	}
	v, ok := e.Eval()
	if !ok {
		return nil, fmt.Errorf("answer %q is not a number", text)
	}
	return v, nil
}
