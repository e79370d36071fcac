package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText lowercases s, strips diacritics and trims surrounding whitespace.
// "Aceite de Girasol Cañuelas" -> "aceite de girasol canuelas"
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		// transform only fails on invalid input state; fall back to the raw text
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// tokenize splits normalized text on runs of whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}

// words splits normalized text on anything that is not a letter or digit:
// "perros/gatos (ketchup)," -> [perros gatos ketchup]
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
