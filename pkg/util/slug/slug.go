// Package slug derives URL-safe identifiers from titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make converts a title to a slug: lowercase ASCII letters and digits joined
// by single hyphens, with no leading or trailing hyphen.
//
// Accented Latin letters are folded to their base letter ("Café" -> "cafe").
// Whitespace and hyphen runs become one hyphen; every other character is
// dropped without separating its neighbours ("don't" -> "dont").
//
//	Make("Summer Camp Adventures!") // "summer-camp-adventures"
//	Make("  Day 2 -- Lake  ")       // "day-2-lake"
func Make(title string) string {
	folded, _, err := transform.String(foldMarks(), title)
	if err != nil {
		folded = title
	}
	folded = strings.TrimSpace(strings.ToLower(folded))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return b.String()
}

// foldMarks returns a fresh transformer; transform.Chain values keep state
// and must not be shared between goroutines.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
