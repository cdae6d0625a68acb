package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/hobby/renderer"
	"github.com/google/subcommands"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show every field of an item" }
func (*showCmd) Usage() string {
	return `hb show <id>

  Shows an item, whichever list holds it.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := itemID(f)
	if err != nil {
		return usageError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		loc, ok := s.Find(id)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no item %d\n", id)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.Detail(loc, Currency()))
		return subcommands.ExitSuccess
	})
}
