package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/howto"
)

// guideLinkPhrases mark anchor text that points at a guide.
var guideLinkPhrases = []string{"how to", "how-to"}

// DiscoverGuideLinks returns the guide links on a category or listing page:
// same-host anchors whose text reads like a how-to title. Links are
// resolved against baseURL, stripped of fragments and deduplicated in
// document order.
func DiscoverGuideLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, howto.Errorf(howto.EINVALID, "invalid base URL: %q", baseURL)
	}

	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if !containsAny(Text(a), guideLinkPhrases) {
			return
		}

		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves a relative URL against a base URL and strips the
// fragment. Returns an empty string if href cannot be parsed or points
// back at the base page.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if resolved.String() == baseNoFragment.String() {
		return ""
	}
	return resolved.String()
}

// isSameHost checks if the resolved URL has the same host as the base URL.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// Ensure LinkFinder implements howto.GuideLinkFinder at compile time.
var _ howto.GuideLinkFinder = LinkFinder{}

// LinkFinder implements howto.GuideLinkFinder with DiscoverGuideLinks.
type LinkFinder struct{}

// FindGuideLinks returns the guide links on a listing page.
func (LinkFinder) FindGuideLinks(html, baseURL string) ([]string, error) {
	return DiscoverGuideLinks(html, baseURL)
}
