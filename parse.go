package gosolve

import (
	"errors"
	"fmt"
	"math/big"
)

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNum:
		return "number"
	case tokIdent:
		return "name"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// SyntaxError reports where an expression stopped making sense.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg) }

// ErrInvalidUnknown is returned when the unknown is not a single ASCII letter.
var ErrInvalidUnknown = errors.New("gosolve: unknown must be a single ASCII letter")

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

var punct = map[byte]tokenKind{
	'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash, '(': tokLParen, ')': tokRParen,
}

func lex(text string) ([]token, error) {
	var toks []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(text) && isDigit(text[i+1])):
			start := i
			seenDot := false
			for i < len(text) && (isDigit(text[i]) || (text[i] == '.' && !seenDot && i+1 < len(text) && isDigit(text[i+1]))) {
				if text[i] == '.' {
					seenDot = true
				}
				i++
			}
			toks = append(toks, token{kind: tokNum, text: text[start:i], pos: start})
		case isLetter(c):
			start := i
			for i < len(text) && isLetter(text[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: text[start:i], pos: start})
		default:
			kind, ok := punct[c]
			if !ok {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(text)}), nil
}

// ============================================================
// Parser
// ============================================================

// maxNesting bounds recursion on pathological grouping.
const maxNesting = 64

type parser struct {
	toks    []token
	pos     int
	unknown string
	depth   int
}

// ParseExpr parses a plain arithmetic expression in the given unknown.
// Products may be implicit: a number or a closing parenthesis directly
// followed by the unknown or an opening parenthesis multiplies, so "2x",
// "2(x-1)" and "(x+1)(x-1)" are products. Any other name, or two numbers
// side by side, is a syntax error.
func ParseExpr(text, unknown string) (Expr, error) {
	if err := validUnknown(unknown); err != nil {
		return nil, err
	}
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, unknown: unknown}
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected " + describe(tok)}
	}
	return e, nil
}

func validUnknown(name string) error {
	if len(name) != 1 || !isLetter(name[0]) {
		return fmt.Errorf("%w: %q", ErrInvalidUnknown, name)
	}
	return nil
}

func describe(tok token) string {
	if tok.text != "" {
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	}
	return tok.kind.String()
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return &SyntaxError{Pos: p.peek().pos, Msg: "expression nested too deeply"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseSum() (Expr, error) {
	first, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for {
		kind := p.peek().kind
		if kind != tokPlus && kind != tokMinus {
			break
		}
		p.next()
		t, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if kind == tokMinus {
			t = negate(t)
		}
		terms = append(terms, t)
	}
	return AddOf(terms...), nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch tok := p.peek(); {
		case tok.kind == tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		case tok.kind == tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = QuoOf(left, right)
		case p.implicitProduct():
			right, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		default:
			return left, nil
		}
	}
}

// implicitProduct reports whether the next token multiplies the operand
// just read without an explicit operator.
func (p *parser) implicitProduct() bool {
	if p.pos == 0 {
		return false
	}
	prev := p.toks[p.pos-1].kind
	next := p.peek().kind
	return (prev == tokNum || prev == tokRParen) && (next == tokIdent || next == tokLParen)
}

func (p *parser) parseUnary() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	switch p.peek().kind {
	case tokMinus:
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate(e), nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("bad number %q", tok.text)}
		}
		// Decimals become the quotient they print as, so "1.5" and "3/2"
		// build the same tree.
		return ratExpr(r), nil
	case tokIdent:
		if tok.text != p.unknown {
			return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected name %q", tok.text)}
		}
		return S(tok.text), nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: "expected ')' but found " + describe(closing)}
		}
		return e, nil
	}
	return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected " + describe(tok)}
}
