package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an item" }
func (*deleteCmd) Usage() string {
	return `hb delete <id>

  Deletes an item from whichever list holds it. Deleting a sold item keeps
  the fund unchanged, use revert first to cancel its sale.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := itemID(f)
	if err != nil {
		return usageError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		if s.Delete(id) {
			fmt.Fprintf(stdout, "Deleted item %d\n", id)
		} else {
			fmt.Fprintf(stdout, "No item %d, nothing changed.\n", id)
		}
		return subcommands.ExitSuccess
	})
}
