package goquery

import "regexp"

var bylinePrefix = regexp.MustCompile(`(?i)^(posted |written )?by[:\s]+`)

// authorStrategies try explicit author markup before generic byline text.
// Missing authors are reported as not found; the "Unknown" default is
// applied by howto.Validate.
var authorStrategies = []Strategy[string]{
	textStrategy("a[rel=author]", `a[rel~="author"]`),
	textStrategy("span.author-name", "span.author-name"),
	textStrategy("a.author", "a.author"),
	textStrategy("div.author", "div.author"),
	textStrategy("[itemprop=author]", `[itemprop="author"]`),
	metaStrategy("author"),
	metaStrategy("article:author"),
	bylineStrategy(),
}

// bylineStrategy reads generic byline text and strips its "By" prefix.
func bylineStrategy() Strategy[string] {
	return Strategy[string]{
		Name: "byline",
		Find: func(doc *Document) (string, bool) {
			v := Text(doc.Find(`.byline, .by-line, [class*="byline"]`).First())
			v = normalizeSpace(bylinePrefix.ReplaceAllString(v, ""))
			return v, v != ""
		},
	}
}

// AuthorStrategies returns the names of the author rules in priority order.
func AuthorStrategies() []string {
	return StrategyNames(authorStrategies)
}

// ExtractAuthor returns the guide author.
func ExtractAuthor(doc *Document) (string, bool) {
	author, _, ok := FirstMatch(doc, authorStrategies)
	return author, ok
}
