package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/hobby"
	"github.com/google/subcommands"
)

type sellCmd struct {
	price  string
	medium string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "complete the sale of a listed item" }
func (*sellCmd) Usage() string {
	return `hb sell -p <price> -m <medium> <id>

  Moves a listed item to the sold items and credits the fund with the net
  profit: sale price minus purchase price, shipping cost and other fees.

Usage Examples:
$ hb sell -p 70000 -m 당근마켓 1753288200000
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "p", "", "sale price")
	f.StringVar(&c.medium, "m", hobby.SaleMediums[len(hobby.SaleMediums)-1], "sale medium")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := itemID(f)
	if err != nil {
		return usageError(err)
	}
	price, err := hobby.ParseAmount(c.price)
	if err != nil {
		return reportError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		sold, ok, err := s.Sell(id, hobby.SaleDetails{SalePrice: price, SaleMedium: c.medium})
		if err != nil {
			return reportError(err)
		}
		if !ok {
			fmt.Fprintf(stdout, "No listed item %d, nothing changed.\n", id)
			return subcommands.ExitSuccess
		}
		fmt.Fprintf(stdout, "Sold %s, profit %s\n", sold.Name, hobby.SignedAmount(hobby.NetProfit(sold), Currency()))
		return subcommands.ExitSuccess
	})
}
