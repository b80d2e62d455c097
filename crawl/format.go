package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatResult summarizes a crawl for the terminal.
func FormatResult(r *Result) string {
	s := fmt.Sprintf("Saved %d %s", r.Saved, plural(r.Saved, "guide", "guides"))
	if r.Skipped > 0 || r.Failed > 0 {
		s += fmt.Sprintf(" (%d skipped, %d failed)", r.Skipped, r.Failed)
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
