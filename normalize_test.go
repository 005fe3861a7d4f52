package gosolve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

// ============================================================
// CleanMarkup
// ============================================================

func TestCleanMarkup_Fractions(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`\frac{1}{2}`, "((1)/(2))"},
		{`\dfrac12`, "((1)/(2))"},
		{`\frac{1}{\frac{2}{3}}`, "((1)/(((2)/(3))))"},
		{`2 \cdot 3`, "2 * 3"},
		{`6 \div 2`, "6 / 2"},
		{"4 × 2 − 1", "4 * 2 - 1"},
		{`[x+1]`, "(x+1)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gosolve.CleanMarkup(tt.in), "CleanMarkup(%q)", tt.in)
	}
}

func TestCleanMarkup_MalformedFractionIsKept(t *testing.T) {
	got := gosolve.CleanMarkup(`\frac{1}`)
	assert.Equal(t, "frac(1)", got)
}

// ============================================================
// Normalize
// ============================================================

func TestNormalize_PrefixAndImplicitProducts(t *testing.T) {
	eq, err := gosolve.Normalize("3 pruder 6 - 1*(5-2*x) + 7*(x-4) = 3-6*x", "x")
	require.NoError(t, err)

	lhs := gosolve.AddOf(
		gosolve.N(6),
		gosolve.NegOf(gosolve.MulOf(gosolve.N(1), gosolve.AddOf(gosolve.N(5), gosolve.NegOf(gosolve.MulOf(gosolve.N(2), x))))),
		gosolve.MulOf(gosolve.N(7), gosolve.AddOf(x, gosolve.N(-4))),
	)
	rhs := gosolve.AddOf(gosolve.N(3), gosolve.MulOf(gosolve.N(-6), x))
	assert.True(t, eq.Equal(gosolve.Eq(lhs, rhs)), "got %s", eq)
	assert.Equal(t, "6 - 1*(5 - 2*x) + 7*(x - 4) = 3 - 6*x", eq.String())
}

func TestNormalize_Forms(t *testing.T) {
	two, four := gosolve.N(2), gosolve.N(4)
	tests := []struct {
		name string
		raw  string
		want *gosolve.Equation
	}{
		{"implicit", "2x = 4", gosolve.Eq(gosolve.MulOf(two, x), four)},
		{"label with letter", "3a) 2x = 4", gosolve.Eq(gosolve.MulOf(two, x), four)},
		{"label with colon", "Ejercicio 5: 2x+1 = 7",
			gosolve.Eq(gosolve.AddOf(gosolve.MulOf(two, x), gosolve.N(1)), gosolve.N(7))},
		{"implicit group", "2(x+1) = 4", gosolve.Eq(gosolve.MulOf(two, gosolve.AddOf(x, gosolve.N(1))), four)},
		{"latex fraction", `$$\frac{x}{2} + 1 = 3$$`,
			gosolve.Eq(gosolve.AddOf(gosolve.QuoOf(x, two), gosolve.N(1)), gosolve.N(3))},
		{"sized brackets", `\left[2x\right] \cdot 3 = 12`,
			gosolve.Eq(gosolve.MulOf(two, x, gosolve.N(3)), gosolve.N(12))},
		{"division sign", `2x \div 4 = 1`, gosolve.Eq(gosolve.QuoOf(gosolve.MulOf(two, x), four), gosolve.N(1))},
		{"unicode minus", "3x − 2 = 7", gosolve.Eq(gosolve.AddOf(gosolve.MulOf(gosolve.N(3), x), gosolve.N(-2)), gosolve.N(7))},
		{"decimal", "0.5x = 2", gosolve.Eq(gosolve.MulOf(gosolve.QuoOf(gosolve.N(1), two), x), two)},
		{"negated group", "-(x+1) = 2", gosolve.Eq(gosolve.NegOf(gosolve.AddOf(x, gosolve.N(1))), two)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq, err := gosolve.Normalize(tt.raw, "x")
			require.NoError(t, err)
			assert.True(t, eq.Equal(tt.want), "got %s, want %s", eq, tt.want)
		})
	}
}

func TestNormalize_OtherUnknown(t *testing.T) {
	eq, err := gosolve.Normalize("3y - 2 = 7", "y")
	require.NoError(t, err)
	assert.Equal(t, "3*y - 2 = 7", eq.String())

	_, err = gosolve.Normalize("3y = 7", "x")
	assert.ErrorIs(t, err, gosolve.ErrUnparseableLeftSide)
}

func TestNormalize_NoSimplification(t *testing.T) {
	eq, err := gosolve.Normalize("x + x + 0 = 2*1", "x")
	require.NoError(t, err)
	assert.Equal(t, "x + x + 0 = 2*1", eq.String())
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		raw  string
		want error
		kind gosolve.ParseErrorKind
	}{
		{"2x + 4", gosolve.ErrNoEqualsSign, gosolve.NoEqualsSign},
		{"2x + = 4", gosolve.ErrUnparseableLeftSide, gosolve.UnparseableLeftSide},
		{"= 4", gosolve.ErrUnparseableLeftSide, gosolve.UnparseableLeftSide},
		{"2x = 4 +", gosolve.ErrUnparseableRightSide, gosolve.UnparseableRightSide},
		{"2x = y", gosolve.ErrUnparseableRightSide, gosolve.UnparseableRightSide},
		{"2x = 4 = 5", gosolve.ErrUnparseableRightSide, gosolve.UnparseableRightSide},
		{"2x = 5 3", gosolve.ErrUnparseableRightSide, gosolve.UnparseableRightSide},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := gosolve.Normalize(tt.raw, "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var pe *gosolve.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.raw, pe.Input)
		})
	}
}

func TestNormalize_SyntaxErrorIsWrapped(t *testing.T) {
	_, err := gosolve.Normalize("2x = (4", "x")
	var se *gosolve.SyntaxError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Contains(t, se.Msg, "expected ')'")
}

func TestNormalize_InvalidUnknown(t *testing.T) {
	for _, u := range []string{"", "xy", "1", "é"} {
		_, err := gosolve.Normalize("2x = 4", u)
		assert.ErrorIs(t, err, gosolve.ErrInvalidUnknown, "unknown %q", u)
	}
}

func TestParseExpr_NumbersSideBySide(t *testing.T) {
	_, err := gosolve.ParseExpr("2 3", "x")
	assert.Error(t, err)
}

func TestParseExpr_DeepNesting(t *testing.T) {
	text := ""
	for i := 0; i < 200; i++ {
		text += "("
	}
	text += "x"
	for i := 0; i < 200; i++ {
		text += ")"
	}
	_, err := gosolve.ParseExpr(text, "x")
	var se *gosolve.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Msg, "nested too deeply")
}

func TestNormalize_SubtractedGroupsSurviveMarkup(t *testing.T) {
	tests := []struct {
		raw  string
		text string
	}{
		{"5 - (x + 1) = 2", "5 - (x + 1) = 2"},
		{"3x - (2x - 4) = 10", "3*x - (2*x - 4) = 10"},
		{`7 - \left(x - 2\right) = 4`, "7 - (x - 2) = 4"},
		{"2 - (3 - (4 - x)) = 1", "2 - (3 - (4 - x)) = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			eq, err := gosolve.Normalize(tt.raw, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.text, eq.String())

			for _, printed := range []string{eq.String(), eq.Markup()} {
				back, err := gosolve.Normalize(printed, "x")
				require.NoError(t, err, printed)
				assert.True(t, eq.Equal(back), "%q normalized to %s", printed, back)
			}
		})
	}
}
