package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/hobby"
	"github.com/google/subcommands"
)

type editCmd struct {
	itemFlags
	salePrice  string
	saleMedium string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "update the fields of an item" }
func (*editCmd) Usage() string {
	return `hb edit [flags] <id>

  Updates the fields given on the command line, in whichever list holds the
  item. An empty price clears it. Sale fields only apply to sold items.

Usage Examples:
$ hb edit -details "painted" -d "" 1753288200000
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	c.itemFlags.SetFlags(f)
	f.StringVar(&c.salePrice, "sale-price", "", "sale price of a sold item")
	f.StringVar(&c.saleMedium, "medium", "", "sale medium of a sold item")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := itemID(f)
	if err != nil {
		return usageError(err)
	}
	patch, err := c.patch(f)
	if err != nil {
		return reportError(err)
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "sale-price":
			if d, perr := hobby.ParseAmount(c.salePrice); perr != nil {
				err = perr
			} else {
				patch.SalePrice = &d
			}
		case "medium":
			patch.SaleMedium = &c.saleMedium
		}
	})
	if err != nil {
		return reportError(err)
	}

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		ok, err := s.Update(id, patch)
		if err != nil {
			return reportError(err)
		}
		if !ok {
			fmt.Fprintf(stdout, "No item %d, nothing changed.\n", id)
			return subcommands.ExitSuccess
		}
		fmt.Fprintf(stdout, "Updated item %d\n", id)
		return subcommands.ExitSuccess
	})
}
