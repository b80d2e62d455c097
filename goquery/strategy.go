package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one named rule for locating a field's value in a Document.
// Find reports false when the rule does not match or yields nothing usable.
type Strategy[T any] struct {
	Name string
	Find func(doc *Document) (T, bool)
}

// FirstMatch applies strategies in order and returns the value and name of
// the first one that succeeds. Later strategies are never consulted, even
// if they would also match.
func FirstMatch[T any](doc *Document, strategies []Strategy[T]) (value T, name string, ok bool) {
	for _, s := range strategies {
		if v, found := s.Find(doc); found {
			return v, s.Name, true
		}
	}
	return value, "", false
}

// StrategyNames returns the names of strategies in priority order.
func StrategyNames[T any](strategies []Strategy[T]) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}
	return names
}

// metaStrategy reads the content of a <meta> tag.
func metaStrategy(key string) Strategy[string] {
	return Strategy[string]{
		Name: "meta " + key,
		Find: func(doc *Document) (string, bool) {
			v := normalizeSpace(doc.Meta(key))
			return v, v != ""
		},
	}
}

// textStrategy reads the visible text of the first element matching
// selector.
func textStrategy(name, selector string) Strategy[string] {
	return Strategy[string]{
		Name: name,
		Find: func(doc *Document) (string, bool) {
			v := Text(doc.Find(selector).First())
			return v, v != ""
		},
	}
}

// rejecting wraps a text strategy so that values matching re count as
// not found.
func rejecting(s Strategy[string], re *regexp.Regexp) Strategy[string] {
	return Strategy[string]{
		Name: s.Name,
		Find: func(doc *Document) (string, bool) {
			v, ok := s.Find(doc)
			if !ok || re.MatchString(v) {
				return "", false
			}
			return v, true
		},
	}
}

// listItems returns the non-blank text of every <li> below sel.
func listItems(sel *goquery.Selection) []string {
	var items []string
	sel.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := Text(li); text != "" {
			items = append(items, text)
		}
	})
	return items
}

// containsAny reports whether the lowercased text contains any keyword.
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
