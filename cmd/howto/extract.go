package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/fs"
)

// Run executes the extract command. The guide is printed as JSON in the
// same shape the crawl command stores.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, sourceURL, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	if c.Explain {
		return c.explain(deps, html, sourceURL)
	}

	guide, err := deps.Extractor.Extract(html, sourceURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	data, err := fs.Marshal(guide)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(data)
	return err
}

// load returns the page HTML and the URL used to resolve its images.
func (c *ExtractCmd) load(deps *Dependencies) (string, string, error) {
	if isURL(c.Source) {
		html, err := deps.Fetcher.Fetch(deps.Ctx, c.Source)
		return html, c.Source, err
	}

	data, err := os.ReadFile(c.Source)
	if err != nil {
		return "", "", howto.Errorf(howto.ENOTFOUND, "cannot read %s: %v", c.Source, err)
	}
	return string(data), c.URL, nil
}

func (c *ExtractCmd) explain(deps *Dependencies, html, sourceURL string) error {
	exp, err := deps.Explainer.Explain(html, sourceURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	for _, field := range howto.Fields {
		name, ok := exp.Strategies[field]
		if !ok {
			name = "(not found)"
		}
		fmt.Fprintf(deps.Stdout, "%-10s  %-24s  %s\n", field, name, summarize(exp.Candidate, field))
	}
	for _, ref := range exp.Rejected {
		fmt.Fprintf(deps.Stdout, "rejected    %-24s  %s\n", ref.Attr, ref.Value)
	}

	if _, err := howto.Validate(exp.Candidate); err != nil {
		fmt.Fprintf(deps.Stdout, "\ninvalid: %s\n", howto.ErrorMessage(err))
	}
	return nil
}

// summarize renders a candidate field on one line.
func summarize(c *howto.Candidate, field howto.FieldKind) string {
	switch field {
	case howto.FieldTitle:
		return fmt.Sprintf("%q", c.Title)
	case howto.FieldAuthor:
		return fmt.Sprintf("%q", c.Author)
	case howto.FieldSupplies:
		return fmt.Sprintf("%d items", len(c.Supplies))
	case howto.FieldSteps:
		return fmt.Sprintf("%d steps", len(c.Steps))
	case howto.FieldImages:
		return fmt.Sprintf("%d images", len(c.ImageURLs))
	}
	return ""
}
