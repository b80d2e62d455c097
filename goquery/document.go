// Package goquery implements the guide extraction pipeline on top of
// PuerkitoBio/goquery: a parsed Document, per-field strategy cascades and
// the Extractor that assembles and validates their results.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/howto"
	"golang.org/x/net/html"
)

// Document is a parsed, read-only HTML page.
// Strategies query it; nothing modifies it after Parse returns.
type Document struct {
	doc *goquery.Document
	raw string
}

// Parse parses raw HTML into a Document.
// Returns EMALFORMED for blank input or HTML that cannot be parsed.
func Parse(rawHTML string) (*Document, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, howto.MalformedDocument("empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, howto.MalformedDocument("failed to parse HTML: %v", err)
	}

	return &Document{doc: doc, raw: rawHTML}, nil
}

// Find returns the elements matching a CSS selector in document order.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// HTML returns the raw HTML the document was parsed from.
func (d *Document) HTML() string {
	return d.raw
}

// Meta returns the trimmed content of the first <meta> tag whose property
// or name equals key, or an empty string.
func (d *Document) Meta(key string) string {
	var content string
	d.doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		property, _ := s.Attr("property")
		name, _ := s.Attr("name")
		if !strings.EqualFold(property, key) && !strings.EqualFold(name, key) {
			return true
		}
		content = strings.TrimSpace(s.AttrOr("content", ""))
		return content == ""
	})
	return content
}

// Text returns the visible text of the selection with whitespace runs
// collapsed. Block elements are separated by a space; scripts, buttons and
// share/social widgets inside the selection are skipped. The selected
// elements themselves are always read.
func Text(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeText(&b, n, true)
	}
	return normalizeSpace(b.String())
}

func writeText(b *strings.Builder, n *html.Node, root bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if !root && isDecorative(n) {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, false)
	}
	if block {
		b.WriteByte(' ')
	}
}

// normalizeSpace trims s and collapses internal whitespace runs.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true,
	"th": true, "tr": true, "ul": true,
}

var decorativeElements = map[string]bool{
	"button": true, "canvas": true, "form": true, "iframe": true,
	"nav": true, "noscript": true, "script": true, "select": true,
	"style": true, "svg": true, "template": true,
}

// decorativeClasses mark widgets that never carry guide content. A class
// token matches when it equals an entry or starts with the entry and a
// separator, so "share-bar" matches and "shared-step" does not.
var decorativeClasses = []string{
	"share", "sharing", "social", "advert", "ad", "ads", "comment", "comments",
	"promo", "newsletter", "credit", "credits",
}

func isDecorative(n *html.Node) bool {
	if decorativeElements[n.Data] {
		return true
	}
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(strings.ToLower(a.Val)) {
			if isDecorativeClass(token) {
				return true
			}
		}
	}
	return false
}

func isDecorativeClass(token string) bool {
	for _, c := range decorativeClasses {
		if token == c || strings.HasPrefix(token, c+"-") || strings.HasPrefix(token, c+"_") {
			return true
		}
	}
	return false
}
