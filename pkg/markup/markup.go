// Package markup handles the restricted HTML-like vocabulary the structuring
// model writes into note content.
package markup

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedElements = map[atom.Atom]struct{}{
	atom.Div: {}, atom.Span: {}, atom.P: {}, atom.Ul: {}, atom.Ol: {}, atom.Li: {},
	atom.H2: {}, atom.H3: {}, atom.H4: {}, atom.Strong: {}, atom.Em: {}, atom.B: {},
	atom.I: {}, atom.Br: {},
}

// Block elements separate words when flattening to plain text.
var blockElements = map[atom.Atom]struct{}{
	atom.Div: {}, atom.P: {}, atom.Ul: {}, atom.Ol: {}, atom.Li: {},
	atom.H2: {}, atom.H3: {}, atom.H4: {}, atom.Br: {},
}

// Content of these elements is discarded entirely.
var droppedElements = map[atom.Atom]struct{}{
	atom.Script: {}, atom.Style: {}, atom.Iframe: {}, atom.Object: {},
	atom.Embed: {}, atom.Template: {}, atom.Noscript: {},
}

var allowedClasses = map[string]struct{}{
	"info-card": {}, "info-row": {}, "info-label": {}, "info-value": {},
	"highlight": {}, "highlight-block": {}, "action-list": {}, "action-item": {},
	"section-header": {}, "tag": {}, "note-section": {},
}

// Sanitize keeps only the renderable element/class vocabulary. Unknown
// elements are unwrapped (their text survives), dangerous ones are removed
// with their content, and every attribute other than class is dropped.
func Sanitize(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())

		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if _, drop := droppedElements[tok.DataAtom]; drop {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if _, ok := allowedElements[tok.DataAtom]; !ok {
				continue
			}
			writeStartTag(&b, tok)

		case html.EndTagToken:
			tok := z.Token()
			if _, drop := droppedElements[tok.DataAtom]; drop {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 || tok.DataAtom == atom.Br {
				continue
			}
			if _, ok := allowedElements[tok.DataAtom]; ok {
				b.WriteString("</" + tok.Data + ">")
			}
		}
	}
}

func writeStartTag(b *strings.Builder, tok html.Token) {
	b.WriteString("<" + tok.Data)
	for _, attr := range tok.Attr {
		if attr.Key != "class" {
			continue
		}
		kept := make([]string, 0)
		for _, class := range strings.Fields(attr.Val) {
			if _, ok := allowedClasses[class]; ok {
				kept = append(kept, class)
			}
		}
		if len(kept) > 0 {
			b.WriteString(` class="` + html.EscapeString(strings.Join(kept, " ")) + `"`)
		}
	}
	if tok.DataAtom == atom.Br {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
}

// PlainText strips all markup and collapses whitespace.
func PlainText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")

		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if _, drop := droppedElements[a]; drop {
				if tt == html.StartTagToken {
					skipDepth++
				} else if tt == html.EndTagToken && skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if _, block := blockElements[a]; block {
				b.WriteByte(' ')
			}
		}
	}
}

// Paragraph wraps plain text as a single escaped paragraph.
func Paragraph(text string) string {
	return "<p>" + html.EscapeString(strings.TrimSpace(text)) + "</p>"
}

// Excerpt returns at most n runes of s, marking truncation with "...".
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
