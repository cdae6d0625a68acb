package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/hobby/httpapi"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr     string
	schedule string
	dir      string
	name     string
	dev      bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `hb serve [-addr :8080] [-backup <cron spec> -backup-dir <dir>]

  Serves the items and the fund as a JSON HTTP API until interrupted. Every
  change is saved to the session cache. With -backup, a workbook is exported
  to the backup directory on schedule.

Usage Examples:
$ hb serve -addr localhost:8080 -backup @daily -backup-dir backups
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "listen address")
	f.StringVar(&c.schedule, "backup", "", "backup cron schedule, e.g. @daily; no backups when empty")
	f.StringVar(&c.dir, "backup-dir", "backups", "backup directory")
	f.StringVar(&c.name, "backup-name", httpapi.DefaultBackupName, "base name of backups")
	f.BoolVar(&c.dev, "dev", false, "development mode, disables response compression")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		// requests are logged at info level.
		log := loggerAt("info")
		srv, err := httpapi.New(httpapi.Config{
			Addr:           c.addr,
			Store:          s.Store,
			Log:            log,
			Currency:       Currency(),
			DevMode:        c.dev,
			BackupSchedule: c.schedule,
			BackupDir:      c.dir,
			BackupName:     c.name,
		})
		if err != nil {
			return usageError(err)
		}

		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("server failed")
				return subcommands.ExitFailure
			}
		case <-ctx.Done():
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				log.Error().Err(err).Msg("shutdown failed")
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	})
}
