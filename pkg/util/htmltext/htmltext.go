// Package htmltext extracts readable text from editor-produced HTML.
package htmltext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Hr: true, atom.Figure: true, atom.Figcaption: true,
}

var skipElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true,
}

// Text returns the visible text of an HTML fragment with whitespace
// collapsed to single spaces. Entities are decoded.
func Text(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	skipDepth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far is all there is.
			return collapse(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if skipElements[tok.DataAtom] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockElements[tok.DataAtom] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			tok := z.Token()
			if skipElements[tok.DataAtom] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[tok.DataAtom] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Excerpt returns at most max characters of the fragment's text, cut at a
// rune boundary and suffixed with "..." when truncated.
func Excerpt(fragment string, max int) string {
	text := Text(fragment)
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// Contains reports whether the fragment's text contains q, ignoring case.
func Contains(fragment, q string) bool {
	return strings.Contains(strings.ToLower(Text(fragment)), strings.ToLower(q))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
