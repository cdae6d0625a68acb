// Package cmd implements the hb CLI application to manage a model kit collection.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/hobby"
	"github.com/etnz/hobby/cache"
	"github.com/etnz/hobby/logger"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// group is a set of commands shown together in the help.
type group struct {
	name     string
	commands []subcommands.Command
}

// groups lists every hb command.
var groups = []group{
	{"items", []subcommands.Command{
		&addCmd{}, &listCmd{}, &showCmd{}, &editCmd{}, &deleteCmd{},
		&moveCmd{to: hobby.Listed}, &moveCmd{to: hobby.Held},
		&sellCmd{}, &revertCmd{},
	}},
	{"fund", []subcommands.Command{&adjustCmd{}, &historyCmd{}, &summaryCmd{}}},
	{"document", []subcommands.Command{&exportCmd{}, &importCmd{}, &queryCmd{}}},
	{"server", []subcommands.Command{&serveCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// Environment variables providing the defaults of the global flags. They are
// also passed to extensions.
const (
	EnvState    = "HB_STATE"
	EnvCache    = "HB_CACHE"
	EnvCurrency = "HB_CURRENCY"
	EnvVerbose  = "HB_VERBOSE"
)

// DefaultStatePath is the session cache used when neither -state nor HB_STATE is set.
const DefaultStatePath = ".hobby"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var statePath = flag.String("state", "", "Path to the session cache. Defaults to $"+EnvState+", then "+DefaultStatePath)
var cacheKind = flag.String("cache", "", "Session cache kind, file or sqlite. Defaults to $"+EnvCache+", then file")
var currency = flag.String("currency", "", "Currency used to format amounts. Defaults to $"+EnvCurrency+", then "+hobby.DefaultCurrency)
var verbose = flag.Bool("v", false, "Verbose logging. Defaults to $"+EnvVerbose)
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal")

// stdout receives the command output.
var stdout io.Writer = os.Stdout

func flagOrEnv(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// StatePath returns the session cache path.
func StatePath() string { return flagOrEnv(*statePath, EnvState, DefaultStatePath) }

// CacheKind returns the session cache kind.
func CacheKind() string { return flagOrEnv(*cacheKind, EnvCache, cache.KindFile) }

// Currency returns the currency used to format amounts.
func Currency() string {
	return strings.ToUpper(flagOrEnv(*currency, EnvCurrency, hobby.DefaultCurrency))
}

// Verbose reports whether verbose logging is on.
func Verbose() bool {
	if *verbose {
		return true
	}
	v, _ := strconv.ParseBool(os.Getenv(EnvVerbose))
	return v
}

// Logger returns the logger configured by the global flags: warnings only,
// or everything in verbose mode.
func Logger() zerolog.Logger { return loggerAt("warn") }

// loggerAt returns a logger at level, lowered to debug in verbose mode.
func loggerAt(level string) zerolog.Logger {
	if Verbose() {
		level = "debug"
	}
	l := logger.New(logger.Config{Level: level, Pretty: true, Out: os.Stderr})
	logger.SetGlobalLogger(l)
	return l
}

// session is a Store bound to the session cache for the duration of one command.
type session struct {
	*hobby.Store
	cache cache.Cache
	errs  []error
}

// openSession restores the store from the session cache. Every change made
// to the store is saved back.
func openSession(ctx context.Context) (*session, error) {
	log := Logger()
	c, err := cache.Open(CacheKind(), StatePath())
	if err != nil {
		return nil, err
	}
	s := &session{
		Store: hobby.NewStore(hobby.WithLogger(log)),
		cache: c,
	}
	if err := cache.Bind(ctx, c, s.Store, func(err error) { s.errs = append(s.errs, err) }); err != nil {
		c.Close()
		return nil, fmt.Errorf("cannot load %s: %w", StatePath(), err)
	}
	log.Debug().Str("state", StatePath()).Str("cache", CacheKind()).Msg("session opened")
	return s, nil
}

// snapshotsKept bounds the history of a sqlite session cache.
const snapshotsKept = 100

// close closes the session and turns save failures into a failed status.
func (s *session) close(status subcommands.ExitStatus) subcommands.ExitStatus {
	if db, ok := s.cache.(*cache.SQLite); ok {
		if _, err := db.Prune(context.Background(), snapshotsKept); err != nil {
			s.errs = append(s.errs, err)
		}
	}
	if err := errors.Join(append(s.errs, s.cache.Close())...); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", StatePath(), err)
		return subcommands.ExitFailure
	}
	return status
}

// withSession runs fn on an open session.
func withSession(ctx context.Context, fn func(s *session) subcommands.ExitStatus) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return s.close(fn(s))
}

// printMarkdown prints md, rendered for the terminal when stdout is one.
func printMarkdown(md string) {
	f, ok := stdout.(*os.File)
	if *plain || !ok || !isatty.IsTerminal(f.Fd()) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// reportError prints err and returns the matching exit status: invalid input
// is a usage error.
func reportError(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var verr *hobby.ValidationError
	if errors.As(err, &verr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// usageError prints err and returns a usage error.
func usageError(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitUsageError
}

// itemID parses the single item id argument of a command.
func itemID(f *flag.FlagSet) (int64, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one item id, got %d arguments", f.NArg())
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", f.Arg(0))
	}
	return id, nil
}
