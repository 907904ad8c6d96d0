package config

import (
	"io"
	"os"

	"github.com/pierreforstmann/pg-kit/pkg/consts"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Local describes how to reach the primary running on this host.
	Local struct {
		// Conninfo is a libpq connection string for the local primary. Parameters
		// it does not mention are taken from the PG* environment variables.
		Conninfo string `yaml:"conninfo,omitempty"`
	}

	// Remote describes how to reach the standby that will be promoted.
	// Host and port are never configured here: the host is discovered from
	// pg_stat_activity and the port comes from the --port flag.
	Remote struct {
		// User is the administrative role used for the promotion session
		User string `yaml:"user,omitempty"`

		// Database is the database the promotion session connects to
		Database string `yaml:"database,omitempty"`
	}

	// Commands holds the shell command templates used to control the local server.
	// Each template takes at most one %s substitution.
	Commands struct {
		// Stop stops the primary. %s is the data directory.
		Stop string `yaml:"stop,omitempty"`

		// Mark creates the standby marker file. %s is the full marker path.
		Mark string `yaml:"mark,omitempty"`

		// Start starts the server again. %s is the data directory.
		Start string `yaml:"start,omitempty"`
	}

	// Config represents the pgso configuration.
	Config struct {
		Local    Local    `yaml:"local"`
		Remote   Remote   `yaml:"remote"`
		Commands Commands `yaml:"commands"`

		// Port is the default target port for the post-swap standby role.
		// The --port flag takes precedence.
		Port string `yaml:"port,omitempty"`

		// StandbySignal is the marker file name created inside the data directory
		StandbySignal string `yaml:"standby_signal,omitempty"`

		// BackendType is the pg_stat_activity backend_type of replication senders
		BackendType string `yaml:"backend_type,omitempty"`
	}
)

// Default returns a Config populated entirely with default values. It is used
// when no configuration file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a pgso configuration from the provided io.Reader.
//
// Any field left empty is set to its default from the consts package, so a
// file only needs to mention what differs from a stock PostgreSQL install.
//
// Example:
//
//	yamlData := `
//	commands:
//	  stop: "systemctl stop postgresql-16"
//	  start: "systemctl start postgresql-16"
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Println(cfg.Commands.Mark) // touch %s
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal pgso config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// LoadOptional loads path when it exists and falls back to Default otherwise.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadConfigFile(path)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Local.Conninfo, consts.DefaultLocalConninfo)
	setDefault(&c.Remote.User, consts.DefaultRemoteUser)
	setDefault(&c.Remote.Database, consts.DefaultRemoteDatabase)
	setDefault(&c.Commands.Stop, consts.DefaultStopCommand)
	setDefault(&c.Commands.Mark, consts.DefaultMarkCommand)
	setDefault(&c.Commands.Start, consts.DefaultStartCommand)
	setDefault(&c.Port, consts.DefaultPort)
	setDefault(&c.StandbySignal, consts.DefaultStandbySignal)
	setDefault(&c.BackendType, consts.DefaultBackendType)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
