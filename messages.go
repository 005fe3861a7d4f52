package gosolve

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Step descriptions and answer sentences are English format strings; the
// English text doubles as the catalog key.
const (
	msgExpand         = "Remove the parentheses by applying the distributive property."
	msgExpandNoop     = "There are no parentheses to remove."
	msgGroup          = "Group the terms with '%s' on one side and the numbers on the other."
	msgIsolate        = "Isolate '%s' by dividing by its coefficient (%s)."
	msgFinal          = "Final solution."
	msgInconsistent   = "The equation has no solution (it is inconsistent)."
	msgIdentity       = "The equation is an identity (infinitely many solutions)."
	msgError          = "Error: %v"
	msgNoSolution     = "no solution"
	msgInfinitelyMany = "infinitely many solutions"
	msgUndetermined   = "undetermined"
)

// SupportedLanguages lists the languages with a full translation. English
// is the fallback.
var SupportedLanguages = []language.Tag{language.English, language.Spanish}

var languageMatcher = language.NewMatcher(SupportedLanguages)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		msgExpand:                         "Eliminamos los paréntesis aplicando la propiedad distributiva.",
		msgExpandNoop:                     "No hay paréntesis para eliminar.",
		msgGroup:                          "Agrupamos y operamos todos los términos con '%s' en un lado y los números en el otro.",
		msgIsolate:                        "Aislamos '%s' pasando el coeficiente (%s) a dividir.",
		msgFinal:                          "Solución final.",
		msgInconsistent:                   "La ecuación no tiene solución (es una inconsistencia).",
		msgIdentity:                       "La ecuación es una identidad (infinitas soluciones).",
		msgError:                          "Error: %v",
		msgNoSolution:                     "No tiene solución",
		msgInfinitelyMany:                 "Infinitas soluciones",
		msgUndetermined:                   "Indeterminada",
		modelNames[ModelSimpleIsolation]: "Modelo 1 (Despeje simple)",
		modelNames[ModelSimpleGrouping]:  "Modelo 2 (Agrupación simple)",
		modelNames[ModelParentheses]:     "Modelo 3 (Con paréntesis)",
		modelNames[ModelFractions]:       "Modelo 4 (Con fracciones)",
		modelNames[ModelMixed]:           "Modelo 5 (Mixta)",
	},
}

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, text := range entries {
			if err := b.SetString(tag, key, text); err != nil {
				panic("gosolve: bad translation for " + key + ": " + err.Error())
			}
		}
	}
	return b
}()

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// MatchLanguage picks the best supported language for a list of
// preferences such as an Accept-Language header or "es-ES".
func MatchLanguage(preferences ...string) language.Tag {
	tag, _ := language.MatchStrings(languageMatcher, preferences...)
	base, _ := tag.Base()
	for _, t := range SupportedLanguages {
		if b, _ := t.Base(); b == base {
			return t
		}
	}
	return language.English
}
