package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type revertCmd struct{}

func (*revertCmd) Name() string     { return "revert" }
func (*revertCmd) Synopsis() string { return "cancel the sale of a sold item" }
func (*revertCmd) Usage() string {
	return `hb revert <id>

  Moves a sold item back to the listed items, without its sale details, and
  debits the fund with the profit recorded by the sale.
`
}

func (c *revertCmd) SetFlags(f *flag.FlagSet) {}

func (c *revertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := itemID(f)
	if err != nil {
		return usageError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		it, ok := s.Revert(id)
		if !ok {
			fmt.Fprintf(stdout, "No sold item %d, nothing changed.\n", id)
			return subcommands.ExitSuccess
		}
		fmt.Fprintf(stdout, "Sale of %s reverted, item %d is listed again\n", it.Name, it.ID)
		return subcommands.ExitSuccess
	})
}
