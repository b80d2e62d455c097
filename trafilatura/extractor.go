// Package trafilatura isolates the main content of guide pages with
// go-trafilatura. The guide extractor falls back to it on pages whose steps
// are not marked up.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/howto"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements howto.ContentExtractor at compile time.
var _ howto.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Comment sections are excluded so
// reader replies are never mistaken for steps.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract returns the title and main content of rawHTML.
// Returns EINVALID for blank input and ENOTFOUND when no main content
// could be isolated.
func (e *Extractor) Extract(rawHTML string) (*howto.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, howto.Errorf(howto.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, howto.Errorf(howto.ENOTFOUND, "no main content: %v", err)
	}
	if result.ContentNode == nil {
		return nil, howto.Errorf(howto.ENOTFOUND, "no main content")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}

	return &howto.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
