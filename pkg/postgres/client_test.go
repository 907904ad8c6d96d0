package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/pierreforstmann/pg-kit/pkg/cmd/testutil"
	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	dataDirectorySQL = "SELECT setting FROM pg_settings WHERE name = $1"
	standbySQL       = "SELECT usename, client_addr FROM pg_stat_activity WHERE backend_type = $1"
)

func TestClient_Integration(t *testing.T) {
	server := testutil.StartPostgres(t)
	dsn, host, port := server.DSN, server.Host, server.Port
	ctx := context.Background()

	client, err := postgres.NewClient(ctx, dsn)
	require.NoError(t, err)
	defer client.Close(ctx)

	t.Run("query scalar", func(t *testing.T) {
		dir, err := client.QueryScalar(ctx, dataDirectorySQL, "data_directory")
		require.NoError(t, err)
		require.Equal(t, "/var/lib/postgresql/data", dir)
	})

	t.Run("search path is empty", func(t *testing.T) {
		path, err := client.QueryScalar(ctx, "SELECT current_setting($1)", "search_path")
		require.NoError(t, err)
		require.Equal(t, `""`, path)
	})

	t.Run("no standby connected", func(t *testing.T) {
		user, addr, err := client.QueryRow2(ctx, standbySQL, "walsender")
		require.Error(t, err)
		require.True(t, errors.Is(err, postgres.ErrNoRows))
		require.Empty(t, user)
		require.Empty(t, addr)
	})

	t.Run("two columns", func(t *testing.T) {
		name, value, err := client.QueryRow2(ctx, "SELECT name, setting FROM pg_settings WHERE name = $1", "wal_level")
		require.NoError(t, err)
		require.Equal(t, "wal_level", name)
		require.Equal(t, "replica", value)
	})

	t.Run("null value", func(t *testing.T) {
		_, err := client.QueryScalar(ctx, "SELECT NULL::text WHERE $1::text IS NOT NULL", "x")
		require.ErrorIs(t, err, postgres.ErrNullValue)
	})

	t.Run("exec", func(t *testing.T) {
		require.NoError(t, client.Exec(ctx, "checkpoint;"))
		require.NoError(t, client.Exec(ctx, "SELECT pg_switch_wal()"))
		require.NoError(t, client.Ping(ctx))
	})

	t.Run("server error", func(t *testing.T) {
		err := client.Exec(ctx, "SELECT * FROM no_such_table")
		require.Error(t, err)
		require.False(t, errors.Is(err, postgres.ErrNoRows))
		require.Contains(t, err.Error(), "no_such_table")

		// The session stays usable after a failed statement.
		require.NoError(t, client.Ping(ctx))
	})

	t.Run("remote dialer", func(t *testing.T) {
		t.Setenv("PGPASSWORD", testutil.PostgresPassword)
		t.Setenv("PGSSLMODE", "disable")

		remote, err := postgres.NewDialer(config.Default()).OpenRemote(ctx, host, port)
		require.NoError(t, err)
		require.Contains(t, remote.Target(), port)
		require.NoError(t, remote.Ping(ctx))

		require.NoError(t, remote.Close(ctx))
		require.NoError(t, remote.Close(ctx))
		require.Error(t, remote.Ping(ctx))
	})
}

func TestNewClient_ConnectionRefused(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx, "host=127.0.0.1 port=1 user=postgres sslmode=disable connect_timeout=2")
	require.Error(t, err)
	require.Nil(t, client)
	require.Contains(t, err.Error(), "failed to connect to 127.0.0.1:1")
}
