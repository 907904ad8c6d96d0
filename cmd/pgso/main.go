package main

import (
	"context"
	"os"

	"github.com/pierreforstmann/pg-kit/pkg/cmd"
	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pierreforstmann/pg-kit/pkg/runner"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		fx.Supply(
			os.Args,
			&cmd.Version{
				Version:   version,
				Commit:    commit,
				Timestamp: date,
			},
		),
		config.Module,
		postgres.Module,
		runner.Module,
		cmd.Module,
	).Run()
}
