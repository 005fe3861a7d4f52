package gosolve_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	gosolve "github.com/njchilds90/gosolve"
)

func mustNormalize(t *testing.T, raw string) *gosolve.Equation {
	t.Helper()
	eq, err := gosolve.Normalize(raw, "x")
	require.NoError(t, err, raw)
	return eq
}

func stepTexts(steps []gosolve.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Equation.String()
	}
	return out
}

// assertRoundTrip checks that every rendered step normalizes back to the
// equation it was rendered from.
func assertRoundTrip(t *testing.T, res gosolve.Result) {
	t.Helper()
	for _, s := range res.Steps {
		back, err := gosolve.Normalize(s.Markup, "x")
		require.NoError(t, err, s.Markup)
		assert.True(t, back.Equal(s.Equation), "%q came back as %s", s.Markup, back)
	}
}

func assertIndices(t *testing.T, steps []gosolve.Step) {
	t.Helper()
	for i, s := range steps {
		assert.Equal(t, i+1, s.Index)
	}
}

// ============================================================
// Worked examples
// ============================================================

func TestSolve_LabelledEquation(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "3 pruder 6 - 1*(5-2*x) + 7*(x-4) = 3-6*x"), "x")
	require.NoError(t, res.Err)

	assert.Equal(t, []string{
		"9*x - 27 = -6*x + 3",
		"15*x = 30",
		"x = 30/15",
		"x = 2",
	}, stepTexts(res.Steps))
	assert.Equal(t, "Remove the parentheses by applying the distributive property.", res.Steps[0].Description)
	assert.Equal(t, "Isolate 'x' by dividing by its coefficient (15).", res.Steps[2].Description)
	assert.Equal(t, "Final solution.", res.Steps[3].Description)
	assertIndices(t, res.Steps)
	assertRoundTrip(t, res)

	assert.Equal(t, gosolve.Unique, res.Solution.Kind)
	assert.True(t, res.Solution.Value.Equal(gosolve.N(2)))
	assert.Equal(t, "x = 2", res.Solution.Answer("x", language.English))
}

func TestSolve_DistributesBothSides(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "2*(x-3) + 5*(-4+3*x) = -1*(6*x+3)"), "x")
	require.NoError(t, res.Err)

	assert.Equal(t, []string{
		"17*x - 26 = -6*x - 3",
		"23*x = 23",
		"x = 23/23",
		"x = 1",
	}, stepTexts(res.Steps))
	assert.Equal(t, `$$17 x - 26 = -6 x - 3$$`, res.Steps[0].Markup)
	assertRoundTrip(t, res)
	assert.Equal(t, "x = 1", res.Solution.Answer("x", language.English))
}

func TestSolve_NothingToExpand(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "2x = 4"), "x")
	require.NoError(t, res.Err)
	require.Len(t, res.Steps, 4)
	assert.Equal(t, "There are no parentheses to remove.", res.Steps[0].Description)
	assert.Equal(t, []string{"2*x = 4", "2*x = 4", "x = 4/2", "x = 2"}, stepTexts(res.Steps))
}

func TestSolve_UnitCoefficientSkipsDivision(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "x + 3 = 8"), "x")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"x + 3 = 8", "x = 5", "x = 5"}, stepTexts(res.Steps))
	assert.Equal(t, "Final solution.", res.Steps[2].Description)
}

func TestSolve_RationalAnswer(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "3x = 2"), "x")
	require.NoError(t, res.Err)
	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, "x = 2/3", last.Equation.String())
	assert.Equal(t, `$$x = \frac{2}{3}$$`, last.Markup)
	assert.Equal(t, "x = 2/3", res.Solution.Answer("x", language.English))
	assert.Equal(t, `$$x = \frac{2}{3}$$`, res.Solution.AnswerMarkup("x", language.English))
	assertRoundTrip(t, res)
}

func TestSolve_Fractions(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, `\frac{x}{2} + \frac{x}{3} = 5`), "x")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{
		"5/6*x = 5",
		"5/6*x = 5",
		"x = 5/(5/6)",
		"x = 6",
	}, stepTexts(res.Steps))
	assertRoundTrip(t, res)
}

func TestSolve_NegativeCoefficients(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "-x = 5"), "x")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"-x = 5", "-x = 5", "x = 5/(-1)", "x = -5"}, stepTexts(res.Steps))
	assertRoundTrip(t, res)

	res = gosolve.Solve(mustNormalize(t, "-x/2 = 3"), "x")
	require.NoError(t, res.Err)
	assert.Equal(t, "x = -6", res.Solution.Answer("x", language.English))
	assertRoundTrip(t, res)
}

func TestSolve_PrintedEquationKeepsItsSolution(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"5 - (x + 1) = 2", "x = 2"},
		{"3x - (2x - 4) = 10", "x = 6"},
		{"2 - (3 - (4 - x)) = 1", "x = 2"},
	}
	for _, tt := range tests {
		eq := mustNormalize(t, tt.raw)
		res := gosolve.Solve(eq, "x")
		require.NoError(t, res.Err, tt.raw)
		assert.Equal(t, tt.want, res.Solution.Answer("x", language.English), tt.raw)

		again := gosolve.Solve(mustNormalize(t, eq.String()), "x")
		assert.Equal(t, tt.want, again.Solution.Answer("x", language.English), eq.String())
	}
}

func TestSolve_OtherUnknown(t *testing.T) {
	eq, err := gosolve.Normalize("4y - 1 = 2y + 5", "y")
	require.NoError(t, err)
	res := gosolve.Solve(eq, "y")
	require.NoError(t, res.Err)
	assert.Equal(t, "y = 3", res.Solution.Answer("y", language.English))
	assert.Equal(t, "Group the terms with 'y' on one side and the numbers on the other.", res.Steps[1].Description)
}

// ============================================================
// Degenerate equations
// ============================================================

func TestSolve_Inconsistent(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "x + 1 = x + 2"), "x")
	require.NoError(t, res.Err)
	require.Len(t, res.Steps, 3)
	assert.Equal(t, "0 = 1", res.Steps[1].Equation.String())
	assert.Equal(t, "The equation has no solution (it is inconsistent).", res.Steps[2].Description)
	assert.Equal(t, gosolve.NoSolution, res.Solution.Kind)
	assert.Nil(t, res.Solution.Value)
	assert.Equal(t, "no solution", res.Solution.Answer("x", language.English))
	assertRoundTrip(t, res)
}

func TestSolve_Identity(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "2(x+1) = 2x + 2"), "x")
	require.NoError(t, res.Err)
	require.Len(t, res.Steps, 3)
	assert.Equal(t, "0 = 0", res.Steps[1].Equation.String())
	assert.Equal(t, gosolve.InfiniteSolutions, res.Solution.Kind)
	assert.Equal(t, "infinitely many solutions", res.Solution.Answer("x", language.English))
	assert.Equal(t, "Infinitas soluciones", res.Solution.Answer("x", language.Spanish))
}

// ============================================================
// Failures
// ============================================================

func TestSolve_Failures(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{"x*x = 4", gosolve.ErrNotLinear},
		{"(x+1)(x-1) = 0", gosolve.ErrNotLinear},
		{"1/x = 2", gosolve.ErrUnknownInDenominator},
		{"x/(2-2) = 1", gosolve.ErrDivisionByZero},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := gosolve.Solve(mustNormalize(t, tt.raw), "x")
			require.Error(t, res.Err)
			assert.ErrorIs(t, res.Err, tt.want)
			var se *gosolve.SolveError
			assert.True(t, errors.As(res.Err, &se))

			require.Len(t, res.Steps, 1)
			assert.Equal(t, 0, res.Steps[0].Index)
			assert.True(t, strings.HasPrefix(res.Steps[0].Description, "Error: "), res.Steps[0].Description)
			assert.Equal(t, gosolve.Undetermined, res.Solution.Kind)
			assert.Equal(t, "undetermined", res.Solution.Answer("x", language.English))
		})
	}
}

func TestSolve_NilEquation(t *testing.T) {
	res := gosolve.Solve(nil, "x")
	require.Error(t, res.Err)
	assert.Equal(t, gosolve.Undetermined, res.Solution.Kind)
}

func TestSolve_InvalidUnknown(t *testing.T) {
	res := gosolve.Solve(gosolve.Eq(x, gosolve.N(1)), "xx")
	assert.ErrorIs(t, res.Err, gosolve.ErrInvalidUnknown)
}

// ============================================================
// Properties
// ============================================================

func TestSolve_FinalEquationIsStable(t *testing.T) {
	for _, raw := range []string{"2x = 4", "3x = 2", "x/2 + x/3 = 5", "-x/2 = 3"} {
		res := gosolve.Solve(mustNormalize(t, raw), "x")
		require.NoError(t, res.Err, raw)
		final := res.Steps[len(res.Steps)-1].Equation

		again := gosolve.Solve(final, "x")
		require.NoError(t, again.Err)
		require.Len(t, again.Steps, 3, raw)
		assert.Equal(t, "There are no parentheses to remove.", again.Steps[0].Description)
		for _, s := range again.Steps {
			assert.True(t, s.Equation.Equal(final), "%s: step %d is %s", raw, s.Index, s.Equation)
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	eq := mustNormalize(t, "2*(x-3) + 5*(-4+3*x) = -1*(6*x+3)")
	a, _ := json.Marshal(gosolve.Solve(eq, "x"))
	b, _ := json.Marshal(gosolve.Solve(eq, "x"))
	assert.JSONEq(t, string(a), string(b))
}

func TestSolve_SolutionSatisfiesEquation(t *testing.T) {
	for _, raw := range []string{
		"3 pruder 6 - 1*(5-2*x) + 7*(x-4) = 3-6*x",
		"2*(x-3) + 5*(-4+3*x) = -1*(6*x+3)",
		`\frac{2x - 1}{3} = \frac{x}{4} + 2`,
		"0.25x + 1.5 = 3",
	} {
		eq := mustNormalize(t, raw)
		res := gosolve.Solve(eq, "x")
		require.NoError(t, res.Err, raw)
		ok, err := gosolve.Check(eq, "x", res.Solution.Value)
		require.NoError(t, err)
		assert.True(t, ok, raw)
	}
}

// ============================================================
// Localization
// ============================================================

func TestSolve_Spanish(t *testing.T) {
	eq := mustNormalize(t, "2*(x-3) + 5*(-4+3*x) = -1*(6*x+3)")
	res := gosolve.Solve(eq, "x", gosolve.WithLanguage(language.Spanish))
	require.NoError(t, res.Err)
	assert.Equal(t, []string{
		"Eliminamos los paréntesis aplicando la propiedad distributiva.",
		"Agrupamos y operamos todos los términos con 'x' en un lado y los números en el otro.",
		"Aislamos 'x' pasando el coeficiente (23) a dividir.",
		"Solución final.",
	}, []string{
		res.Steps[0].Description,
		res.Steps[1].Description,
		res.Steps[2].Description,
		res.Steps[3].Description,
	})
}

func TestMatchLanguage(t *testing.T) {
	assert.Equal(t, language.Spanish, gosolve.MatchLanguage("es-ES"))
	assert.Equal(t, language.Spanish, gosolve.MatchLanguage("es-419,es;q=0.9"))
	assert.Equal(t, language.English, gosolve.MatchLanguage("fr"))
	assert.Equal(t, language.English, gosolve.MatchLanguage())
}

// ============================================================
// JSON
// ============================================================

func TestResult_JSON(t *testing.T) {
	res := gosolve.Solve(mustNormalize(t, "3x = 2"), "x")
	b, err := json.Marshal(res)
	require.NoError(t, err)

	var out struct {
		Steps []struct {
			Index       int    `json:"index"`
			Description string `json:"description"`
			Equation    string `json:"equation"`
			Text        string `json:"text"`
		} `json:"steps"`
		Solution struct {
			Kind  string `json:"kind"`
			Value string `json:"value"`
		} `json:"solution"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out.Steps, 4)
	assert.Equal(t, `$$x = \frac{2}{3}$$`, out.Steps[3].Equation)
	assert.Equal(t, "x = 2/3", out.Steps[3].Text)
	assert.Equal(t, "unique", out.Solution.Kind)
	assert.Equal(t, "2/3", out.Solution.Value)
}

// ============================================================
// Answer checking
// ============================================================

func TestCheck(t *testing.T) {
	eq := mustNormalize(t, "2x = 4")
	ok, err := gosolve.Check(eq, "x", gosolve.N(2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gosolve.Check(eq, "x", gosolve.N(3))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = gosolve.Check(mustNormalize(t, "1/x = 2"), "x", gosolve.N(0))
	assert.Error(t, err)
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want *gosolve.Num
	}{
		{"3/2", gosolve.F(3, 2)},
		{"x = 3/2", gosolve.F(3, 2)},
		{`$$x = \frac{3}{2}$$`, gosolve.F(3, 2)},
		{"1.5", gosolve.F(3, 2)},
		{"x = -4", gosolve.N(-4)},
	}
	for _, tt := range tests {
		got, err := gosolve.ParseAnswer(tt.in, "x")
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "ParseAnswer(%q) = %s", tt.in, got)
	}

	_, err := gosolve.ParseAnswer("x", "x")
	assert.Error(t, err)
	_, err = gosolve.ParseAnswer("three", "x")
	assert.Error(t, err)
}

// ============================================================
// Polynomial helpers
// ============================================================

func TestExpand(t *testing.T) {
	e, err := gosolve.ParseExpr("2*(x-3) + 5*(-4+3*x)", "x")
	require.NoError(t, err)
	got, err := gosolve.Expand(e, "x")
	require.NoError(t, err)
	assert.Equal(t, "17*x - 26", got.String())

	zero, err := gosolve.Expand(gosolve.AddOf(x, gosolve.NegOf(x)), "x")
	require.NoError(t, err)
	assert.Equal(t, "0", zero.String())
}

func TestDegreeAndCoeffs(t *testing.T) {
	e, err := gosolve.ParseExpr("(x+1)(x-1) + 3x", "x")
	require.NoError(t, err)
	d, err := gosolve.Degree(e, "x")
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	c, err := gosolve.PolyCoeffs(e, "x")
	require.NoError(t, err)
	assert.True(t, c[2].Equal(gosolve.N(1)))
	assert.True(t, c[1].Equal(gosolve.N(3)))
	assert.True(t, c[0].Equal(gosolve.N(-1)))
}
