package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/howto"
	"golang.org/x/net/html"
)

// stepContainerSelectors locate one element per step, from explicit step
// markup to loose class/id matches.
var stepContainerSelectors = []string{
	"div.step",
	"article.step",
	"section.step",
	"div.step-body",
	"div[data-step]",
	"li.step",
	`[class*="step"]`,
	`[id*="step"]`,
}

// stepTextSelectors locate the text block inside a step container.
var stepTextSelectors = []string{
	".step-body",
	".step-text",
	".step-body-text",
	".caption",
	"p.step-body",
	".content",
}

// contentSelectors locate the main content area on pages without step
// containers.
var contentSelectors = []string{
	"div.main-content",
	"div.article-body",
	"article.article",
	"div#content",
	"div.steps",
	"main",
	"article",
}

// stepLabel matches text that is only a step number, e.g. "Step 3:".
var stepLabel = regexp.MustCompile(`(?i)^step\s*\d+\s*[:.)-]?$`)

// numberedHeading matches headings that introduce a step.
var numberedHeading = regexp.MustCompile(`(?i)(\bstep\b|^\d+[.)]?$)`)

var (
	// introKeywords mark paragraphs that frame a guide rather than
	// describe a step.
	introKeywords = []string{
		"intro", "introduction", "overview", "summary", "conclusion",
		"thanks", "share", "like", "follow", "subscribe", "comment",
	}

	// actionWords mark paragraphs that describe an action.
	actionWords = []string{
		"cut", "glue", "attach", "place", "install", "apply",
		"measure", "mark", "connect", "mount", "prepare", "build",
		"drill", "sand", "screw", "remove", "insert", "turn",
	}
)

// stepStrategies returns the step rules in priority order. The content
// extractor strategy is only included when ce is not nil.
func stepStrategies(ce howto.ContentExtractor) []Strategy[[]string] {
	strategies := make([]Strategy[[]string], 0, len(stepContainerSelectors)+3)
	for _, selector := range stepContainerSelectors {
		strategies = append(strategies, containerStrategy(selector))
	}
	strategies = append(strategies,
		Strategy[[]string]{Name: "step headings", Find: findStepsAfterHeadings},
		Strategy[[]string]{Name: "content paragraphs", Find: findContentParagraphs},
	)
	if ce != nil {
		strategies = append(strategies, contentExtractorStrategy(ce))
	}
	return strategies
}

// StepStrategies returns the names of the step rules in priority order.
func StepStrategies() []string {
	return StrategyNames(stepStrategies(nil))
}

// ExtractSteps returns the guide steps using the markup-based rules only.
func ExtractSteps(doc *Document) ([]string, bool) {
	steps, _, ok := FirstMatch(doc, stepStrategies(nil))
	return steps, ok
}

// containerStrategy yields one step per element matching selector.
// Elements that wrap the whole step list contribute their list items
// instead, and elements nested inside another match are skipped so each
// step is reported once.
func containerStrategy(selector string) Strategy[[]string] {
	return Strategy[[]string]{
		Name: selector,
		Find: func(doc *Document) ([]string, bool) {
			var nodes []*html.Node
			doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
				if isStepList(s) {
					nodes = append(nodes, stepListItems(s).Nodes...)
					return
				}
				nodes = append(nodes, s.Nodes...)
			})

			var steps []string
			outermost(doc.doc.FindNodes(nodes...)).Each(func(_ int, s *goquery.Selection) {
				if text := stepText(s); text != "" {
					steps = append(steps, text)
				}
			})
			return steps, len(steps) > 0
		},
	}
}

// stepListItems returns the items of a step list: the <li> children of an
// <ol>/<ul>, or of the lists directly inside a wrapper element.
func stepListItems(s *goquery.Selection) *goquery.Selection {
	switch goquery.NodeName(s) {
	case "ol", "ul":
		return s.ChildrenFiltered("li")
	}
	return s.ChildrenFiltered("ol, ul").ChildrenFiltered("li")
}

// stepText returns the text of one step container: the first non-empty
// known text block, else its paragraphs, else all of its visible text.
func stepText(container *goquery.Selection) string {
	for _, selector := range stepTextSelectors {
		if text := Text(container.Find(selector).First()); text != "" {
			return dropLabel(text)
		}
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := Text(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return dropLabel(strings.Join(paragraphs, " "))
	}

	return dropLabel(Text(container))
}

// dropLabel returns "" for text that is only a step number.
func dropLabel(text string) string {
	if stepLabel.MatchString(text) {
		return ""
	}
	return text
}

// isStepList reports whether the element wraps a list of steps
// (e.g. class="steps") rather than a single step.
func isStepList(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	for _, token := range append(strings.Fields(strings.ToLower(class)), strings.ToLower(id)) {
		if strings.Contains(token, "steps") {
			return true
		}
	}
	return false
}

// outermost drops elements that have an ancestor in the same selection.
func outermost(sel *goquery.Selection) *goquery.Selection {
	members := make(map[*html.Node]bool, len(sel.Nodes))
	for _, n := range sel.Nodes {
		members[n] = true
	}
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		for p := s.Nodes[0].Parent; p != nil; p = p.Parent {
			if members[p] {
				return false
			}
		}
		return true
	})
}

// mainContent returns the first main content container, or an empty
// selection.
func mainContent(doc *Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Find("body").First()
}

// findStepsAfterHeadings treats each "Step N" (or bare number) heading in
// the main content as a step and concatenates the content that follows it
// up to the next heading.
func findStepsAfterHeadings(doc *Document) ([]string, bool) {
	var steps []string
	mainContent(doc).Find("h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		if !numberedHeading.MatchString(Text(h)) {
			return
		}

		var parts []string
		h.NextUntil("h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
			if goquery.NodeName(s) == "img" {
				return
			}
			if text := Text(s); text != "" {
				parts = append(parts, text)
			}
		})
		if text := strings.Join(parts, " "); text != "" {
			steps = append(steps, text)
		}
	})
	return steps, len(steps) > 0
}

// findContentParagraphs keeps main content paragraphs that read like
// instructions.
func findContentParagraphs(doc *Document) ([]string, bool) {
	return instructionParagraphs(mainContent(doc))
}

// instructionParagraphs filters paragraphs below sel: short text and
// introductions are dropped, and the rest must mention an action or be
// long enough to carry instructions on their own.
func instructionParagraphs(sel *goquery.Selection) ([]string, bool) {
	var steps []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := Text(p)
		if len(text) <= 30 {
			return
		}
		lead := text
		if len(lead) > 100 {
			lead = lead[:100]
		}
		if containsAny(lead, introKeywords) {
			return
		}
		if containsAny(text, actionWords) || len(text) > 100 {
			steps = append(steps, text)
		}
	})
	return steps, len(steps) > 0
}

// contentExtractorStrategy isolates the main content with ce and filters
// its paragraphs.
func contentExtractorStrategy(ce howto.ContentExtractor) Strategy[[]string] {
	return Strategy[[]string]{
		Name: "content extractor",
		Find: func(doc *Document) ([]string, bool) {
			result, err := ce.Extract(doc.HTML())
			if err != nil || result == nil || strings.TrimSpace(result.ContentHTML) == "" {
				return nil, false
			}
			content, err := goquery.NewDocumentFromReader(strings.NewReader(result.ContentHTML))
			if err != nil {
				return nil, false
			}
			return instructionParagraphs(content.Selection)
		},
	}
}
