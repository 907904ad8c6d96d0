package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pierreforstmann/pg-kit/pkg/runner"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
		Config     *config.Config
		Dialer     postgres.Dialer
		Runner     runner.Runner
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers a start hook that executes the pgso command with the process
// arguments and shuts the application down with exit code 1 on failure and 0
// otherwise (including --help and --version).
func Run(p Params) {
	app := (&App{
		Version: p.Version,
		Config:  p.Config,
		Dialer:  p.Dialer,
		Runner:  p.Runner,
	}).Command()

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

func printVersion(v *Version) func(*cli.Command) {
	return func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", v.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", v.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", v.Timestamp)
	}
}
