package cmd

import (
	"context"
	"flag"

	"github.com/etnz/hobby/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the fund and stock summary" }
func (*summaryCmd) Usage() string {
	return `hb summary

  Displays the fund balance, the stock value, the total assets, the realized
  profit and the estimated sale value of the listed items.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		printMarkdown(renderer.Summary(s.Summary(), Currency()))
		return subcommands.ExitSuccess
	})
}
