package gosolve

import (
	"regexp"
	"strings"
)

// ============================================================
// Markup cleanup
// ============================================================

// MaxFractionPasses bounds how many times nested fraction macros are
// rewritten. Human-authored exercises rarely nest more than twice.
const MaxFractionPasses = 8

var (
	// Display-math delimiters and sizing directives carry no arithmetic.
	delimiterRe = regexp.MustCompile(`\$\$|\$|\\\[|\\\]|\\\(|\\\)`)
	sizingRe    = regexp.MustCompile(`\\(?:left|right)\.|\\(?:left|right|[bB]igg?[lrm]?|displaystyle|textstyle)`)
	spacingRe   = regexp.MustCompile(`\\(?:quad|qquad|[,;:! ])|~`)
	fracNameRe  = regexp.MustCompile(`\\[dtc]?frac`)
)

var symbolReplacer = strings.NewReplacer(
	`\cdot`, "*",
	`\times`, "*",
	`\ast`, "*",
	`\div`, "/",
	"−", "-", // minus sign
	"–", "-", // en dash
	"·", "*", // middle dot
	"∙", "*", // bullet operator
	"×", "*", // multiplication sign
	"÷", "/", // division sign
)

var bracketReplacer = strings.NewReplacer(
	`\{`, "(",
	`\}`, ")",
	"{", "(",
	"}", ")",
	"[", "(",
	"]", ")",
)

// CleanMarkup reduces LaTeX-flavoured text to plain arithmetic the parser
// understands: delimiters and sizing directives are dropped, every bracket
// variant becomes a parenthesis, fraction macros become "((A)/(B))" and
// any leftover escape characters are removed.
func CleanMarkup(raw string) string {
	s := delimiterRe.ReplaceAllString(raw, " ")
	s = sizingRe.ReplaceAllString(s, "")
	s = spacingRe.ReplaceAllString(s, " ")
	s = symbolReplacer.Replace(s)
	s = bracketReplacer.Replace(s)
	s = flattenFractions(s, MaxFractionPasses)
	return strings.ReplaceAll(s, `\`, "")
}

// flattenFractions rewrites \frac(A)(B) into ((A)/(B)) until nothing
// changes or the pass budget runs out. Arguments are matched by
// parenthesis depth, so one pass resolves every outermost macro and the
// next pass reaches the ones nested inside its arguments.
func flattenFractions(s string, passes int) string {
	for i := 0; i < passes; i++ {
		next := flattenOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func flattenOnce(s string) string {
	var b strings.Builder
	rest := s
	for {
		loc := fracNameRe.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:loc[0]])
		after := rest[loc[1]:]
		num, tail, ok := macroArg(after)
		if ok {
			var den string
			den, tail, ok = macroArg(tail)
			if ok {
				b.WriteString("((" + num + ")/(" + den + "))")
				rest = tail
				continue
			}
		}
		// Malformed macro: keep it and move on so the parser reports it.
		b.WriteString(rest[loc[0]:loc[1]])
		rest = after
	}
}

// macroArg reads one macro argument: a parenthesized group (braces were
// already rewritten) or a single character, as in \frac12.
func macroArg(s string) (arg, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	if s == "" {
		return "", s, false
	}
	if s[0] != '(' {
		if isDigit(s[0]) || isLetter(s[0]) {
			return s[:1], s[1:], true
		}
		return "", s, false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}
