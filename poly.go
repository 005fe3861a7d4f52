package gosolve

import (
	"errors"
	"fmt"
	"math/big"
)

// ============================================================
// Polynomial utilities
// ============================================================

var (
	ErrNotLinear            = errors.New("equation is not of first degree")
	ErrUnknownInDenominator = errors.New("unknown appears in a denominator")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrForeignSymbol        = errors.New("expression uses a symbol other than the unknown")
)

// maxPolyDegree caps intermediate products so a long chain of factors
// cannot blow up the coefficient slice.
const maxPolyDegree = 16

// poly holds exact coefficients indexed by degree.
type poly []*big.Rat

func constPoly(r *big.Rat) poly { return poly{new(big.Rat).Set(r)} }

func (p poly) degree() int {
	for d := len(p) - 1; d > 0; d-- {
		if p[d].Sign() != 0 {
			return d
		}
	}
	return 0
}

func (p poly) coeff(d int) *big.Rat {
	if d < len(p) {
		return new(big.Rat).Set(p[d])
	}
	return new(big.Rat)
}

func (p poly) add(q poly) poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(poly, n)
	for d := range out {
		out[d] = new(big.Rat).Add(p.coeff(d), q.coeff(d))
	}
	return out
}

func (p poly) scale(r *big.Rat) poly {
	out := make(poly, len(p))
	for d := range p {
		out[d] = new(big.Rat).Mul(p[d], r)
	}
	return out
}

func (p poly) mul(q poly) (poly, error) {
	if p.degree()+q.degree() > maxPolyDegree {
		return nil, ErrNotLinear
	}
	out := make(poly, p.degree()+q.degree()+1)
	for d := range out {
		out[d] = new(big.Rat)
	}
	for i := 0; i <= p.degree(); i++ {
		for j := 0; j <= q.degree(); j++ {
			out[i+j].Add(out[i+j], new(big.Rat).Mul(p.coeff(i), q.coeff(j)))
		}
	}
	return out, nil
}

func polyOf(e Expr, varName string) (poly, error) {
	switch v := e.(type) {
	case *Num:
		return constPoly(v.val), nil
	case *Sym:
		if v.name != varName {
			return nil, fmt.Errorf("%w: %q", ErrForeignSymbol, v.name)
		}
		return poly{new(big.Rat), big.NewRat(1, 1)}, nil
	case *Neg:
		p, err := polyOf(v.arg, varName)
		if err != nil {
			return nil, err
		}
		return p.scale(big.NewRat(-1, 1)), nil
	case *Add:
		acc := constPoly(new(big.Rat))
		for _, t := range v.terms {
			p, err := polyOf(t, varName)
			if err != nil {
				return nil, err
			}
			acc = acc.add(p)
		}
		return acc, nil
	case *Mul:
		acc := constPoly(big.NewRat(1, 1))
		for _, f := range v.factors {
			p, err := polyOf(f, varName)
			if err != nil {
				return nil, err
			}
			if acc, err = acc.mul(p); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case *Quo:
		num, err := polyOf(v.num, varName)
		if err != nil {
			return nil, err
		}
		den, err := polyOf(v.den, varName)
		if err != nil {
			return nil, err
		}
		if den.degree() > 0 {
			return nil, ErrUnknownInDenominator
		}
		d := den.coeff(0)
		if d.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return num.scale(new(big.Rat).Inv(d)), nil
	}
	return nil, fmt.Errorf("unsupported expression %q", e.exprType())
}

// Degree returns the degree of expr in varName after full expansion.
func Degree(expr Expr, varName string) (int, error) {
	p, err := polyOf(expr, varName)
	if err != nil {
		return 0, err
	}
	return p.degree(), nil
}

// PolyCoeffs returns the nonzero coefficients of expr by degree. The
// constant term is always present.
func PolyCoeffs(expr Expr, varName string) (map[int]*Num, error) {
	p, err := polyOf(expr, varName)
	if err != nil {
		return nil, err
	}
	out := map[int]*Num{0: numOf(p.coeff(0))}
	for d := 1; d <= p.degree(); d++ {
		if c := p.coeff(d); c.Sign() != 0 {
			out[d] = numOf(c)
		}
	}
	return out, nil
}

// Expand distributes every product over its sums and collects like terms
// into canonical first-degree form: the unknown's term, then the constant.
func Expand(e Expr, varName string) (Expr, error) {
	p, err := polyOf(e, varName)
	if err != nil {
		return nil, err
	}
	if p.degree() > 1 {
		return nil, ErrNotLinear
	}
	return linearExpr(p.coeff(1), p.coeff(0), varName), nil
}

// linearExpr builds coeff*name + konst in canonical form.
func linearExpr(coeff, konst *big.Rat, name string) Expr {
	terms := make([]Expr, 0, 2)
	if coeff.Sign() != 0 {
		terms = append(terms, termOf(coeff, name))
	}
	if konst.Sign() != 0 {
		terms = append(terms, ratExpr(konst))
	}
	return AddOf(terms...)
}

// termOf renders coeff*name, writing 1*x as x and -1*x as -x.
func termOf(coeff *big.Rat, name string) Expr {
	switch {
	case coeff.Cmp(big.NewRat(1, 1)) == 0:
		return S(name)
	case coeff.Cmp(big.NewRat(-1, 1)) == 0:
		return negate(S(name))
	}
	return MulOf(ratExpr(coeff), S(name))
}
