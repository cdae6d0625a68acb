package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type addCmd struct {
	itemFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a new item to the held list" }
func (*addCmd) Usage() string {
	return `hb add -n <name> [-g <grade>] [-p <price>] [-d <price>] [-l <location>] [-img <url>]...

  Adds a new item to the held list and prints its id.

Usage Examples:
$ hb add -n "Strike Freedom" -g MG -p 50000 -d 75000 -l "Gundam Base"
`
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	n, err := c.newItem()
	if err != nil {
		return reportError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		it, err := s.Add(n)
		if err != nil {
			return reportError(err)
		}
		fmt.Fprintf(stdout, "Added item %d: %s\n", it.ID, it.Name)
		return subcommands.ExitSuccess
	})
}
