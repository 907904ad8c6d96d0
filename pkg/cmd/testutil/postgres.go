package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	// PostgresImage is the server image used by integration tests
	PostgresImage = "postgres:16-alpine"

	// PostgresPassword is the superuser password of the test server
	PostgresPassword = "secret"
)

// PostgresServer describes a running throwaway PostgreSQL server.
type PostgresServer struct {
	// DSN is a postgres:// URL for the superuser
	DSN string

	// Host and Port are the address the server is reachable on from the test
	Host string
	Port string
}

// SkipIfNoDocker skips the test in short mode or when no container provider
// is available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartPostgres runs a PostgreSQL container for the duration of the test.
func StartPostgres(t *testing.T) *PostgresServer {
	t.Helper()

	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, PostgresImage,
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword(PostgresPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get container DSN")

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return &PostgresServer{DSN: dsn, Host: host, Port: port.Port()}
}
