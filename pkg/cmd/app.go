package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/consts"
	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pierreforstmann/pg-kit/pkg/runner"
	"github.com/pierreforstmann/pg-kit/pkg/switchover"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// UsageHint is printed on stderr when the command line cannot be parsed.
const UsageHint = `Try "pgso --help" for more information.`

// App holds the dependencies of the pgso command. Config and Dialer are
// replaced when --config names a file.
type App struct {
	Version *Version
	Config  *config.Config
	Dialer  postgres.Dialer
	Runner  runner.Runner
}

// Command builds the pgso command.
//
// Example usage:
//
//	# Switch over to the connected standby, which listens on 5433
//	pgso -p 5433
//
//	# Show what would be done without changing anything
//	pgso --dry-run --verbose
func (a *App) Command() *cli.Command {
	cli.VersionPrinter = printVersion(a.Version)
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
	cli.HelpFlag = &cli.BoolFlag{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   "show help (also -?)",
	}

	return &cli.Command{
		Name:  "pgso",
		Usage: "Switch roles between a local PostgreSQL primary and its streaming standby",
		Description: `pgso demotes the primary running on this host and promotes the standby
that is currently streaming from it. It discovers the data directory and the
standby from the primary, points primary_conninfo at the standby, restarts the
local server as a standby and finally promotes the remote server.

Nothing is rolled back: if a step fails after primary_conninfo has been
changed, the cluster must be repaired by hand.`,
		Version: a.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Usage:       "the port the standby listens on after the swap",
				Sources:     cli.EnvVars("PGSO_PORT"),
				Value:       consts.DefaultPort,
				DefaultText: "port from the config file, or " + consts.DefaultPort,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "narrate each step on stdout",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "discover the data directory and standby, print the plan, change nothing",
			},
			&cli.DurationFlag{
				Name:  "wait-ready",
				Usage: "wait up to this long for the local server to accept connections before promoting (0 disables)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the pgso config file",
				Sources: cli.EnvVars(config.EnvConfig),
				Value:   consts.ConfigFile,
			},
		},
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, _ bool) error {
			fmt.Fprintln(cmd.ErrWriter, UsageHint)
			return err
		},
		Before: a.loadConfig,
		Action: a.run,
	}
}

// loadConfig reloads the configuration when a file was named explicitly. An
// explicit file must exist.
func (a *App) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !cmd.IsSet("config") || helpRequested(cmd) {
		return ctx, nil
	}

	cfg, err := config.LoadConfigFile(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	a.Config = cfg
	a.Dialer = postgres.NewDialer(cfg)
	return ctx, nil
}

func (a *App) run(ctx context.Context, cmd *cli.Command) error {
	if helpRequested(cmd) {
		return cli.ShowAppHelp(cmd)
	}

	if cmd.NArg() > 0 {
		fmt.Fprintln(cmd.ErrWriter, UsageHint)
		return errors.Errorf("unexpected argument %q", cmd.Args().First())
	}

	port := a.Config.Port
	if cmd.IsSet("port") {
		port = cmd.String("port")
	}

	o := switchover.New(switchover.Config{
		Dialer:       a.Dialer,
		Runner:       a.Runner,
		Logger:       newLogger(cmd),
		Port:         port,
		Settings:     a.Config,
		ReadyTimeout: cmd.Duration("wait-ready"),
	})

	if cmd.Bool("dry-run") {
		plan, err := o.Plan(ctx)
		if err != nil {
			return err
		}

		return plan.Write(cmd.Writer)
	}

	if err := o.Run(ctx); err != nil {
		reportPartial(cmd.ErrWriter, err)
		return err
	}

	return nil
}

// helpRequested reports whether -? was given. The flag parser stops at the
// first argument that does not start with a letter, so -? and everything
// after it arrive as positional arguments.
func helpRequested(cmd *cli.Command) bool {
	for _, arg := range cmd.Args().Slice() {
		if arg == "-?" {
			return true
		}
	}

	return false
}

// newLogger narrates at Info on stdout when verbose, otherwise only warnings
// reach stderr.
func newLogger(cmd *cli.Command) *slog.Logger {
	if cmd.Bool("verbose") {
		return slog.New(slog.NewTextHandler(cmd.Writer, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return slog.New(slog.NewTextHandler(cmd.ErrWriter, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func reportPartial(w io.Writer, err error) {
	var se *switchover.Error
	if !errors.As(err, &se) || !se.Partial() {
		return
	}

	fmt.Fprintf(w, "The cluster may be partially switched over and needs manual remediation.\n")
	if se.ActionDone {
		fmt.Fprintf(w, "Last completed step: %s. The check that follows it failed: %s.\n", se.Step, se.Detail)
		return
	}

	fmt.Fprintf(w, "Last completed step: %s. Failed step: %s.\n", se.LastCompleted(), se.Step)
}
