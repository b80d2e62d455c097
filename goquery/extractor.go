package goquery

import "github.com/fwojciec/howto"

// Ensure Extractor implements howto.GuideExtractor at compile time.
var _ howto.GuideExtractor = (*Extractor)(nil)

// Extractor runs the guide extraction pipeline: parse, run every field
// cascade, resolve image references and validate the result.
// Extractor holds no mutable state and is safe for concurrent use.
type Extractor struct {
	steps []Strategy[[]string]
}

// Option configures an Extractor.
type Option func(*extractorConfig)

type extractorConfig struct {
	content howto.ContentExtractor
}

// WithContentExtractor adds a last-resort step rule that isolates the main
// content with ce and keeps its instruction-like paragraphs.
func WithContentExtractor(ce howto.ContentExtractor) Option {
	return func(c *extractorConfig) {
		c.content = ce
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	var cfg extractorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Extractor{steps: stepStrategies(cfg.content)}
}

// Extract parses html and returns the guide it describes.
func (e *Extractor) Extract(html, sourceURL string) (*howto.Guide, error) {
	ex, err := e.Explain(html, sourceURL)
	if err != nil {
		return nil, err
	}
	return howto.Validate(ex.Candidate)
}

// Explanation describes one pipeline run before validation.
type Explanation struct {
	// Candidate holds the extracted, unvalidated field values.
	Candidate *howto.Candidate

	// Strategies maps each found field to the name of the rule that
	// produced it. Fields that were not found are absent.
	Strategies map[howto.FieldKind]string

	// Rejected lists image references dropped during URL resolution.
	Rejected []howto.ImageReference
}

// Explain runs the extraction cascades without validating the result.
// It returns EMALFORMED if html cannot be parsed.
func (e *Extractor) Explain(html, sourceURL string) (*Explanation, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	ex := &Explanation{
		Candidate:  &howto.Candidate{SourceURL: sourceURL},
		Strategies: make(map[howto.FieldKind]string),
	}

	if title, name, ok := FirstMatch(doc, titleStrategies); ok {
		ex.Candidate.Title = title
		ex.Strategies[howto.FieldTitle] = name
	}
	if author, name, ok := FirstMatch(doc, authorStrategies); ok {
		ex.Candidate.Author = author
		ex.Strategies[howto.FieldAuthor] = name
	}
	if supplies, name, ok := FirstMatch(doc, supplyStrategies); ok {
		ex.Candidate.Supplies = supplies
		ex.Strategies[howto.FieldSupplies] = name
	}
	if steps, name, ok := FirstMatch(doc, e.steps); ok {
		ex.Candidate.Steps = steps
		ex.Strategies[howto.FieldSteps] = name
	}

	refs := ExtractImageRefs(doc)
	ex.Candidate.ImageURLs, ex.Rejected = ResolveImages(refs, sourceURL)
	if len(ex.Candidate.ImageURLs) > 0 {
		ex.Strategies[howto.FieldImages] = "img"
	}

	return ex, nil
}
