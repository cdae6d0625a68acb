package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "query the state with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `hb query <jsonpath>

  Evaluates a JSONPath expression against the whole state, as JSON:
  {"held":[...],"listed":[...],"sold":[...],"fund":{"balance":...,"history":[...]}}

Usage Examples:
$ hb query '$.sold[*].name'
$ hb query '$.held[?(@.grade == "MG")].purchasePrice'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(errors.New("expected exactly one JSONPath expression"))
	}
	path := f.Arg(0)

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		// jsonpath works on generic values, the state goes through JSON to get them.
		data, err := json.Marshal(s.State())
		if err != nil {
			return reportError(err)
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return reportError(err)
		}
		v, err := jsonpath.Get(path, doc)
		if err != nil {
			return usageError(fmt.Errorf("cannot evaluate %q: %w", path, err))
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return reportError(err)
		}
		fmt.Fprintln(stdout, string(out))
		return subcommands.ExitSuccess
	})
}
