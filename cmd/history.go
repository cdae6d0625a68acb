package cmd

import (
	"context"
	"flag"

	"github.com/etnz/hobby/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the fund history" }
func (*historyCmd) Usage() string {
	return `hb history [-n <count>]

  Displays the fund balance and its history, most recent entry first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "only show the n most recent entries, 0 for all")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		entries := s.History()
		if c.limit > 0 && len(entries) > c.limit {
			entries = entries[:c.limit]
		}
		printMarkdown(renderer.History(s.Summary().Balance, entries, Currency()))
		return subcommands.ExitSuccess
	})
}
