package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/hobby"
	"github.com/google/subcommands"
)

// moveCmd moves an item between the held and listed stages.
type moveCmd struct {
	to hobby.Stage
}

func (c *moveCmd) Name() string {
	if c.to == hobby.Listed {
		return "offer"
	}
	return "hold"
}

func (c *moveCmd) Synopsis() string {
	if c.to == hobby.Listed {
		return "offer a held item for sale"
	}
	return "withdraw a listed item from sale"
}

func (c *moveCmd) Usage() string {
	if c.to == hobby.Listed {
		return `hb offer <id>

  Moves a held item to the listed items.
`
	}
	return `hb hold <id>

  Moves a listed item back to the held items.
`
}

func (c *moveCmd) SetFlags(f *flag.FlagSet) {}

func (c *moveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := itemID(f)
	if err != nil {
		return usageError(err)
	}
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		var moved bool
		if c.to == hobby.Listed {
			moved = s.MoveToListed(id)
		} else {
			moved = s.MoveToHeld(id)
		}
		if !moved {
			from := hobby.Held
			if c.to == hobby.Held {
				from = hobby.Listed
			}
			fmt.Fprintf(stdout, "No %s item %d, nothing changed.\n", from, id)
			return subcommands.ExitSuccess
		}
		fmt.Fprintf(stdout, "Item %d is now %s\n", id, c.to)
		return subcommands.ExitSuccess
	})
}
