// Package readability isolates the main content of guide pages with
// go-readability. It is the alternative to the trafilatura fallback.
package readability

import (
	"strings"

	"github.com/fwojciec/howto"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements howto.ContentExtractor at compile time.
var _ howto.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title and main content of rawHTML.
// Returns EINVALID for blank input and ENOTFOUND when readability finds
// no article.
func (e *Extractor) Extract(rawHTML string) (*howto.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, howto.Errorf(howto.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, howto.Errorf(howto.ENOTFOUND, "no main content: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, howto.Errorf(howto.ENOTFOUND, "no main content")
	}

	return &howto.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
