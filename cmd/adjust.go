package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/hobby"
	"github.com/google/subcommands"
)

type adjustCmd struct {
	amount string
	reason string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "deposit into or withdraw from the hobby fund" }
func (*adjustCmd) Usage() string {
	return `hb adjust -a <amount> -r <reason>

  Changes the fund balance by amount, negative for a withdrawal. Every
  adjustment is recorded in the fund history with its reason.

Usage Examples:
$ hb adjust -a 100000 -r "monthly budget"
$ hb adjust -a -12000 -r "paint and tools"
`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "amount, negative to withdraw")
	f.StringVar(&c.reason, "r", "", "reason of the adjustment")
}

func (c *adjustCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.amount) == "" {
		return usageError(errors.New("-a is required"))
	}
	amount, err := hobby.ParseAmount(c.amount)
	if err != nil {
		return reportError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		if err := s.Adjust(amount, c.reason); err != nil {
			return reportError(err)
		}
		fmt.Fprintf(stdout, "Fund balance is now %s\n", hobby.FormatAmount(s.Summary().Balance, Currency()))
		return subcommands.ExitSuccess
	})
}
