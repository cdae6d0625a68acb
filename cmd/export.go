package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"
)

type exportCmd struct {
	name string
	dir  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export everything to a workbook" }
func (*exportCmd) Usage() string {
	return `hb export [-name <base>] [-o <dir>]

  Writes the held, listed and sold items and the fund to a workbook named
  <timestamp>_<base>.xlsx in the output directory.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "hobby", "base name of the document")
	f.StringVar(&c.dir, "o", ".", "output directory")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		var buf bytes.Buffer
		filename, err := s.Export(&buf, c.name, time.Now())
		if err != nil {
			return reportError(err)
		}
		path := filepath.Join(c.dir, filename)
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			return reportError(err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Exported to %s\n", path)
		return subcommands.ExitSuccess
	})
}
