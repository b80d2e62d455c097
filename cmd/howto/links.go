package main

import (
	"fmt"

	"github.com/fwojciec/howto"
)

// Run executes the links command.
func (c *LinksCmd) Run(deps *Dependencies) error {
	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	links, err := deps.Links.FindGuideLinks(html, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(deps.Stderr, "No guide links found.")
		return nil
	}
	for _, link := range links {
		fmt.Fprintln(deps.Stdout, link)
	}
	return nil
}
