package goquery

import "regexp"

// placeholderTitle matches titles some sites render before content loads.
var placeholderTitle = regexp.MustCompile(`(?i)^unknown title$`)

// titleStrategies are tried in order: structured metadata first, then
// visible headings, then the document <title>.
var titleStrategies = []Strategy[string]{
	rejecting(metaStrategy("og:title"), placeholderTitle),
	rejecting(metaStrategy("twitter:title"), placeholderTitle),
	rejecting(textStrategy("h1.header-title", "h1.header-title"), placeholderTitle),
	rejecting(textStrategy("h1.title", "h1.title"), placeholderTitle),
	rejecting(textStrategy("h1.page-title", "h1.page-title"), placeholderTitle),
	rejecting(textStrategy("first h1", "h1"), placeholderTitle),
	rejecting(textStrategy("title tag", "title"), placeholderTitle),
}

// TitleStrategies returns the names of the title rules in priority order.
func TitleStrategies() []string {
	return StrategyNames(titleStrategies)
}

// ExtractTitle returns the guide title with whitespace collapsed.
func ExtractTitle(doc *Document) (string, bool) {
	title, _, ok := FirstMatch(doc, titleStrategies)
	return title, ok
}
