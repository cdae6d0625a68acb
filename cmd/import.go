package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace everything with a workbook" }
func (*importCmd) Usage() string {
	return `hb import <file.xlsx>

  Replaces all items and the fund with the content of a workbook written by
  hb export. Nothing changes if the workbook is malformed.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(errors.New("expected exactly one workbook"))
	}
	path := f.Arg(0)
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		base, err := s.Import(file, path)
		if err != nil {
			return reportError(err)
		}
		sum := s.Summary()
		fmt.Fprintf(stdout, "Imported %s: %d held, %d listed, %d sold (next export name: %s)\n",
			path, sum.Held, sum.Listed, sum.Sold, base)
		return subcommands.ExitSuccess
	})
}
