package main

import (
	"fmt"

	"github.com/fwojciec/howto"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := howto.GuideFilter{Limit: c.Limit}
	if c.Author != "" {
		filter.Author = &c.Author
	}

	guides, err := deps.Guides.FindGuides(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	if len(guides) == 0 {
		fmt.Fprintln(deps.Stdout, "No guides found. Use 'howto crawl --db' to store some.")
		return nil
	}

	for _, g := range guides {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", g.ID, g.Title, g.Author, g.URL)
	}

	return nil
}
