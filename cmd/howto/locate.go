package main

import (
	"fmt"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/fs"
)

// Run executes the locate-tools command and prints the detections as JSON.
func (c *LocateToolsCmd) Run(deps *Dependencies) error {
	locs, err := deps.Locator.LocateTools(deps.Ctx, c.ImageURL, c.Tools)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", howto.ErrorMessage(err))
		return err
	}

	data, err := fs.Marshal(locs)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(data)
	return err
}
