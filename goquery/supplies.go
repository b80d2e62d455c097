package goquery

import "github.com/PuerkitoBio/goquery"

// supplyHeadings are lowercase fragments of headings that introduce a
// supplies list.
var supplyHeadings = []string{"supplies", "materials", "things you", "you'll need", "you will need", "tools needed"}

// supplyStrategies search known supplies containers, then lists that follow
// a supplies heading. Each <li> becomes one supply.
var supplyStrategies = []Strategy[[]string]{
	listStrategy("section#supplies"),
	listStrategy("div.supplies-list"),
	listStrategy("div.supplies"),
	listStrategy("ul.supplies"),
	listStrategy("div#supplies-list"),
	listStrategy(".materials"),
	listStrategy("#materials"),
	{Name: "supplies heading", Find: findSuppliesAfterHeading},
}

// listStrategy collects the list items of the first container matching
// selector.
func listStrategy(selector string) Strategy[[]string] {
	return Strategy[[]string]{
		Name: selector,
		Find: func(doc *Document) ([]string, bool) {
			items := listItems(doc.Find(selector).First())
			return items, len(items) > 0
		},
	}
}

func findSuppliesAfterHeading(doc *Document) ([]string, bool) {
	var items []string
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !containsAny(Text(h), supplyHeadings) {
			return true
		}
		section := h.NextUntil("h1, h2, h3, h4")
		items = append(items, listItems(section)...)
		section.Filter("li").Each(func(_ int, li *goquery.Selection) {
			if text := Text(li); text != "" {
				items = append(items, text)
			}
		})
		return len(items) == 0
	})
	return items, len(items) > 0
}

// SupplyStrategies returns the names of the supplies rules in priority order.
func SupplyStrategies() []string {
	return StrategyNames(supplyStrategies)
}

// ExtractSupplies returns the guide supplies.
func ExtractSupplies(doc *Document) ([]string, bool) {
	supplies, _, ok := FirstMatch(doc, supplyStrategies)
	return supplies, ok
}
