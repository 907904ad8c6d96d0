package postgres_test

import (
	"context"
	"testing"

	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/conninfo"
	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/stretchr/testify/require"
)

func TestClientDialer_RemoteConninfo(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dialer := postgres.NewDialer(config.Default())
		require.Equal(t,
			"host=10.0.0.5 port=5432 user=postgres dbname=postgres",
			dialer.RemoteConninfo("10.0.0.5", "5432"),
		)
	})

	t.Run("configured role and database", func(t *testing.T) {
		cfg := config.Default()
		cfg.Remote.User = "cluster admin"
		cfg.Remote.Database = "ops"

		ci, err := conninfo.Parse(postgres.NewDialer(cfg).RemoteConninfo("db2.example.com", "5433"))
		require.NoError(t, err)

		for key, expected := range map[string]string{
			"host":   "db2.example.com",
			"port":   "5433",
			"user":   "cluster admin",
			"dbname": "ops",
		} {
			value, ok := ci.Get(key)
			require.True(t, ok)
			require.Equal(t, expected, value)
		}
	})
}

func TestClientDialer_InvalidConninfo(t *testing.T) {
	cfg := config.Default()
	cfg.Local.Conninfo = "port=not-a-number"

	session, err := postgres.NewDialer(cfg).OpenLocal(context.Background())
	require.Error(t, err)
	require.Nil(t, session)
	require.Contains(t, err.Error(), "invalid connection string")
}
