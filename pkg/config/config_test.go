package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/consts"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/pgso.yaml
var testConfigYAML string

func TestLoadConfig(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(testConfigYAML))
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("error", func(t *testing.T) {
		// Invalid YAML
		config, err := LoadConfig(strings.NewReader("invalid: yaml: ["))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal pgso config")

		// Empty input
		config, err = LoadConfig(strings.NewReader(""))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal pgso config")
	})

	t.Run("defaults for unknown keys only", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("other_key: value"))
		require.NoError(t, err)
		require.Equal(t, Default(), config)
	})

	t.Run("partial commands keep remaining defaults", func(t *testing.T) {
		yamlData := `
commands:
  stop: "systemctl stop postgresql-16"
`
		config, err := LoadConfig(strings.NewReader(yamlData))
		require.NoError(t, err)
		require.Equal(t, "systemctl stop postgresql-16", config.Commands.Stop)
		require.Equal(t, consts.DefaultMarkCommand, config.Commands.Mark)
		require.Equal(t, consts.DefaultStartCommand, config.Commands.Start)
		require.Equal(t, consts.DefaultPort, config.Port)
	})
}

func TestDefault(t *testing.T) {
	config := Default()
	require.Equal(t, consts.DefaultLocalConninfo, config.Local.Conninfo)
	require.Equal(t, consts.DefaultRemoteUser, config.Remote.User)
	require.Equal(t, consts.DefaultRemoteDatabase, config.Remote.Database)
	require.Equal(t, consts.DefaultStopCommand, config.Commands.Stop)
	require.Equal(t, consts.DefaultMarkCommand, config.Commands.Mark)
	require.Equal(t, consts.DefaultStartCommand, config.Commands.Start)
	require.Equal(t, "5432", config.Port)
	require.Equal(t, "standby.signal", config.StandbySignal)
	require.Equal(t, "walsender", config.BackendType)
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pgso.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), consts.ModeFile))

		config, err := LoadConfigFile(path)
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		config, err := LoadConfigFile("nonexistent.yaml")
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to open file")
	})
}

func TestLoadOptional(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		config, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		require.Equal(t, Default(), config)
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pgso.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), consts.ModeFile))

		config, err := LoadOptional(path)
		require.NoError(t, err)
		validateTestConfig(t, config)
	})
}

// validateTestConfig validates that a config contains the expected test data
func validateTestConfig(t *testing.T, config *Config) {
	t.Helper()
	require.NotNil(t, config)
	require.Equal(t, "host=/var/run/postgresql dbname=postgres", config.Local.Conninfo)
	require.Equal(t, "admin", config.Remote.User)
	require.Equal(t, "ops", config.Remote.Database)
	require.Equal(t, "systemctl stop postgresql", config.Commands.Stop)
	require.Equal(t, "sudo -u postgres touch %s", config.Commands.Mark)
	require.Equal(t, "systemctl start postgresql", config.Commands.Start)
	require.Equal(t, "5433", config.Port)
	require.Equal(t, "standby.signal", config.StandbySignal)
	require.Equal(t, consts.DefaultBackendType, config.BackendType)
}
