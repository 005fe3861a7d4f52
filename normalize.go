package gosolve

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Normalization errors
// ============================================================

type ParseErrorKind int

const (
	NoEqualsSign ParseErrorKind = iota + 1
	UnparseableLeftSide
	UnparseableRightSide
)

var (
	ErrNoEqualsSign         = errors.New("equation has no '=' sign")
	ErrUnparseableLeftSide  = errors.New("left side is not an expression")
	ErrUnparseableRightSide = errors.New("right side is not an expression")
)

func (k ParseErrorKind) sentinel() error {
	switch k {
	case NoEqualsSign:
		return ErrNoEqualsSign
	case UnparseableLeftSide:
		return ErrUnparseableLeftSide
	case UnparseableRightSide:
		return ErrUnparseableRightSide
	}
	return nil
}

func (k ParseErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned by Normalize. It matches the Err* sentinels with
// errors.Is and unwraps to the underlying SyntaxError, if any.
type ParseError struct {
	Kind  ParseErrorKind
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "gosolve: " + e.Kind.String()
	}
	return "gosolve: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *ParseError) Is(target error) bool { return target == e.Kind.sentinel() }
func (e *ParseError) Unwrap() error        { return e.Err }

// ============================================================
// Normalize
// ============================================================

// MaxPrefixTokens bounds how many leading words of the left side may be
// discarded as an exercise label.
const MaxPrefixTokens = 8

// Normalize turns raw equation text into an Equation in the given unknown.
//
// The text is cleaned of markup (see CleanMarkup) and split at its first
// '='. The left side may start with an exercise label such as "3a)" or
// "3 pruder": leading whitespace-separated words are dropped one at a
// time until the rest parses. The right side must parse whole. Neither
// side is simplified.
func Normalize(raw, unknown string) (*Equation, error) {
	if err := validUnknown(unknown); err != nil {
		return nil, err
	}
	text := CleanMarkup(raw)
	left, right, found := strings.Cut(text, "=")
	if !found {
		return nil, &ParseError{Kind: NoEqualsSign, Input: raw}
	}
	lhs, err := parseLeftSide(left, unknown)
	if err != nil {
		return nil, &ParseError{Kind: UnparseableLeftSide, Input: raw, Err: err}
	}
	rhs, err := ParseExpr(right, unknown)
	if err != nil {
		return nil, &ParseError{Kind: UnparseableRightSide, Input: raw, Err: err}
	}
	return Eq(lhs, rhs), nil
}

// attempt is the outcome of parsing one candidate suffix of the left side.
type attempt struct {
	expr    Expr
	err     error
	skipped int
}

func tryParse(words []string, skipped int, unknown string) attempt {
	e, err := ParseExpr(strings.Join(words[skipped:], " "), unknown)
	return attempt{expr: e, err: err, skipped: skipped}
}

// parseLeftSide tries the whole left side, then the suffix after the first
// word, then after the second, and so on. Only whole words are dropped.
func parseLeftSide(left, unknown string) (Expr, error) {
	words := strings.Fields(left)
	if len(words) == 0 {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	limit := len(words)
	if limit > MaxPrefixTokens+1 {
		limit = MaxPrefixTokens + 1
	}
	var first attempt
	for skip := 0; skip < limit; skip++ {
		a := tryParse(words, skip, unknown)
		if a.err == nil {
			return a.expr, nil
		}
		if skip == 0 {
			first = a
		}
	}
	// Report why the full text failed; later failures are about label guesses.
	return nil, first.err
}
