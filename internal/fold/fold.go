// Package fold normalizes text for comparison and export.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Accents removes combining marks: "Université" becomes "Universite".
// Characters with no decomposition (ø, ł, ß) are left alone.
func Accents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key returns the matching form of s: accents removed, lower case, and
// whitespace collapsed to single spaces.
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(Accents(s))), " ")
}
