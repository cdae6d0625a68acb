package cmd

import (
	"context"
	"flag"

	"github.com/etnz/hobby"
	"github.com/etnz/hobby/renderer"
	"github.com/google/subcommands"
)

type listCmd struct {
	stage string
	query string
	grade string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the held, listed or sold items" }
func (*listCmd) Usage() string {
	return `hb list [-s held|listed|sold] [-q <text>] [-g <grade>]

  Lists the items of one stage. -q keeps the items whose name, grade,
  location or details contain the text, -g keeps a single grade.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.stage, "s", "held", "stage to list: held, listed or sold")
	f.StringVar(&c.query, "q", "", "free text filter")
	f.StringVar(&c.grade, "g", string(hobby.AllGrades), "grade filter")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stage, err := hobby.ParseStage(c.stage)
	if err != nil {
		return usageError(err)
	}
	filter := hobby.Filter{Query: c.query, Grade: hobby.Grade(c.grade)}

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		switch stage {
		case hobby.Held:
			printMarkdown(renderer.Items("Held", filter.Items(s.Held()), Currency()))
		case hobby.Listed:
			printMarkdown(renderer.Items("Listed", filter.Items(s.Listed()), Currency()))
		default:
			printMarkdown(renderer.SoldItems("Sold", filter.SoldItems(s.Sold()), Currency()))
		}
		return subcommands.ExitSuccess
	})
}
