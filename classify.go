package gosolve

import (
	"strings"

	"golang.org/x/text/language"
)

// ============================================================
// Classification
// ============================================================

// Model is the teaching category suggested for an equation.
type Model int

const (
	ModelSimpleIsolation Model = iota + 1
	ModelSimpleGrouping
	ModelParentheses
	ModelFractions
	ModelMixed
)

var modelNames = map[Model]string{
	ModelSimpleIsolation: "Model 1 (simple isolation)",
	ModelSimpleGrouping:  "Model 2 (simple grouping)",
	ModelParentheses:     "Model 3 (grouping with parentheses)",
	ModelFractions:       "Model 4 (grouping with fractions)",
	ModelMixed:           "Model 5 (mixed)",
}

func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return "unknown model"
}

// Name returns the model's display name in the given language.
func (m Model) Name(tag language.Tag) string { return printer(tag).Sprintf(m.String()) }

// Classification lists the structural features of an equation. It is
// derived data; callers recompute it whenever they need it.
type Classification struct {
	HasGrouping    bool  `json:"has_grouping"`
	HasFraction    bool  `json:"has_fraction"`
	UnknownOnce    bool  `json:"unknown_once"`
	UnknownMany    bool  `json:"unknown_many"`
	SuggestedModel Model `json:"suggested_model"`
}

// Classify inspects the raw text for grouping and fractions, and the
// normalized equation for how often the unknown occurs.
func Classify(eq *Equation, raw, unknown string) Classification {
	c := Classification{
		HasGrouping: hasGrouping(raw),
		HasFraction: hasFraction(raw),
	}
	if eq != nil {
		n := countSymbol(eq.LHS.String(), unknown) + countSymbol(eq.RHS.String(), unknown)
		c.UnknownOnce = n == 1
		c.UnknownMany = n > 1
	}
	c.SuggestedModel = suggestModel(c)
	return c
}

func suggestModel(c Classification) Model {
	switch {
	case c.UnknownOnce:
		return ModelSimpleIsolation
	case !c.HasGrouping && !c.HasFraction:
		return ModelSimpleGrouping
	case c.HasGrouping && !c.HasFraction:
		return ModelParentheses
	case !c.HasGrouping && c.HasFraction:
		return ModelFractions
	}
	return ModelMixed
}

// hasGrouping looks for an opening parenthesis, square bracket, escaped
// brace, or a curly brace that is not a macro argument (as in \frac{a}{b}).
func hasGrouping(raw string) bool {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '[':
			return true
		case '{':
			if !isMacroArgument(raw, i) {
				return true
			}
		}
	}
	return false
}

func isMacroArgument(raw string, brace int) bool {
	j := brace - 1
	for j >= 0 && raw[j] == ' ' {
		j--
	}
	if j < 0 {
		return false
	}
	switch c := raw[j]; {
	case c == '\\':
		// "\{" is a literal brace.
		return false
	case c == '}' || c == '^' || c == '_':
		return true
	case isLetter(c):
		k := j
		for k >= 0 && isLetter(raw[k]) {
			k--
		}
		return k >= 0 && raw[k] == '\\'
	}
	return false
}

func hasFraction(raw string) bool {
	return fracNameRe.MatchString(raw) ||
		strings.Contains(raw, "/") ||
		strings.Contains(raw, `\div`) ||
		strings.Contains(raw, "÷")
}
