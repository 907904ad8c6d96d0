package config

import (
	"os"

	"github.com/pierreforstmann/pg-kit/pkg/consts"
	"go.uber.org/fx"
)

// EnvConfig names the environment variable that overrides the config file path.
const EnvConfig = "PGSO_CONFIG"

var Module = fx.Module("config", fx.Provide(
	// Loads pgso.yaml (or $PGSO_CONFIG) when present. A missing file is not an
	// error; every setting has a default that matches a stock install.
	func() (*Config, error) {
		path := os.Getenv(EnvConfig)
		if path == "" {
			path = consts.ConfigFile
		}

		return LoadOptional(path)
	},
))
