package howto

import (
	"context"
	"strings"
	"time"
)

// UnknownAuthor is substituted when no author could be extracted.
const UnknownAuthor = "Unknown"

// FieldKind identifies one field of a guide.
type FieldKind string

// Guide fields, in the order the extraction pipeline reports them.
const (
	FieldTitle    FieldKind = "title"
	FieldAuthor   FieldKind = "author"
	FieldSupplies FieldKind = "supplies"
	FieldSteps    FieldKind = "steps"
	FieldImages   FieldKind = "image_urls"
)

// Fields lists every guide field.
var Fields = []FieldKind{FieldTitle, FieldAuthor, FieldSupplies, FieldSteps, FieldImages}

// Guide is a validated how-to guide extracted from one page.
// Guides are built by Validate and should be treated as immutable.
type Guide struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Supplies  []string `json:"supplies"`
	Steps     []string `json:"steps"`
	ImageURLs []string `json:"image_urls"`
	URL       string   `json:"url,omitempty"`
}

// Candidate holds untrusted field values collected by the extractors before
// validation. Empty strings and nil slices mean "not found".
type Candidate struct {
	Title     string
	Author    string
	Supplies  []string
	Steps     []string
	ImageURLs []string
	SourceURL string
}

// Validate turns a candidate into a Guide.
//
// Title and steps are required: a blank title returns
// MissingRequiredField(FieldTitle) and a candidate without any non-blank
// step returns MissingRequiredField(FieldSteps). Everything else degrades to
// a default: a blank author becomes UnknownAuthor, missing supplies become
// an empty list and image URLs are deduplicated keeping the first
// occurrence.
func Validate(c *Candidate) (*Guide, error) {
	if c == nil || strings.TrimSpace(c.Title) == "" {
		return nil, MissingRequiredField(FieldTitle)
	}

	steps := compact(c.Steps)
	if len(steps) == 0 {
		return nil, MissingRequiredField(FieldSteps)
	}

	author := strings.TrimSpace(c.Author)
	if author == "" {
		author = UnknownAuthor
	}

	return &Guide{
		Title:     strings.TrimSpace(c.Title),
		Author:    author,
		Supplies:  compact(c.Supplies),
		Steps:     steps,
		ImageURLs: unique(c.ImageURLs),
		URL:       strings.TrimSpace(c.SourceURL),
	}, nil
}

// compact returns a new slice of the trimmed, non-blank values.
// The result is never nil.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// unique returns the non-blank values with duplicates removed, preserving
// first-seen order. The result is never nil.
func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range compact(values) {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// GuideExtractor turns a raw HTML page into a Guide.
type GuideExtractor interface {
	// Extract parses html and returns the guide it describes.
	// sourceURL resolves relative image references and is stamped onto
	// the guide. Returns EMALFORMED if the page cannot be parsed and
	// EMISSING if a required field is absent.
	Extract(html, sourceURL string) (*Guide, error)
}

// GuideStore persists guides with atomic semantics.
// Save stages a guide; Commit makes staged guides permanent;
// Abort discards them.
type GuideStore interface {
	Save(ctx context.Context, guide *Guide) error
	Commit() error
	Abort() error
}

// StoredGuide is a guide together with its storage metadata.
type StoredGuide struct {
	ID          string    `json:"id"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Guide
}

// GuideService represents a service for managing stored guides.
type GuideService interface {
	// CreateGuide stores a guide. A guide with the same URL replaces
	// the previously stored one.
	CreateGuide(ctx context.Context, guide *Guide) (*StoredGuide, error)

	// FindGuideByID retrieves a guide by ID.
	// Returns ENOTFOUND if the guide does not exist.
	FindGuideByID(ctx context.Context, id string) (*StoredGuide, error)

	// FindGuides retrieves guides matching the filter.
	FindGuides(ctx context.Context, filter GuideFilter) ([]*StoredGuide, error)

	// DeleteGuide permanently removes a guide.
	// Returns ENOTFOUND if the guide does not exist.
	DeleteGuide(ctx context.Context, id string) error
}

// GuideFilter represents a filter for FindGuides.
type GuideFilter struct {
	ID     *string `json:"id"`
	URL    *string `json:"url"`
	Author *string `json:"author"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
