package postgres

import (
	"context"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// securePathSQL empties search_path so catalog lookups always resolve to
// pg_catalog, whatever objects the connecting role can create.
const securePathSQL = `SET search_path = ''`

var (
	// ErrNoRows is returned by the single-row query helpers when the query
	// succeeded but produced no rows. Callers test for it with errors.Is.
	ErrNoRows = errors.New("no rows returned")

	// ErrNullValue is returned when a required column of the first row is NULL.
	ErrNullValue = errors.New("unexpected NULL value")
)

type (
	// Session is a connection to one PostgreSQL server.
	Session interface {
		// QueryScalar runs sql with a single parameter and returns the first
		// column of the first row in text form.
		QueryScalar(ctx context.Context, sql, param string) (string, error)

		// QueryRow2 runs sql with a single parameter and returns the first two
		// columns of the first row in text form.
		QueryRow2(ctx context.Context, sql, param string) (string, string, error)

		// Exec runs a statement whose result rows, if any, are discarded.
		Exec(ctx context.Context, sql string) error

		// Ping checks that the server is accepting queries.
		Ping(ctx context.Context) error

		// Target describes the server for log and error messages.
		Target() string

		// Close releases the connection. Calling Close more than once is a no-op.
		Close(ctx context.Context) error
	}

	// Client implements Session on top of a single pgx connection.
	Client struct {
		conn   *pgx.Conn
		target string
	}
)

var _ Session = (*Client)(nil)

// NewClient opens a connection described by conninfo, which may be a libpq
// keyword/value string or a postgres:// URL. Parameters not present are taken
// from the PG* environment variables, as libpq does.
//
// Example:
//
//	client, err := postgres.NewClient(ctx, "dbname=postgres")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	dir, err := client.QueryScalar(ctx, "SELECT setting FROM pg_settings WHERE name = $1", "data_directory")
func NewClient(ctx context.Context, conninfo string) (*Client, error) {
	cfg, err := pgx.ParseConfig(conninfo)
	if err != nil {
		return nil, errors.Wrap(err, "invalid connection string")
	}

	target := describe(cfg)
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", target)
	}

	if _, err := conn.Exec(ctx, securePathSQL); err != nil {
		_ = conn.Close(ctx)
		return nil, errors.Wrapf(err, "failed to set search_path on %s", target)
	}

	return &Client{conn: conn, target: target}, nil
}

// Target returns host:port (or the socket directory) of the server.
func (c *Client) Target() string {
	return c.target
}

// QueryScalar implements Session.
func (c *Client) QueryScalar(ctx context.Context, sql, param string) (string, error) {
	values, err := c.queryFirstRow(ctx, sql, 1, param)
	if err != nil {
		return "", err
	}

	return values[0], nil
}

// QueryRow2 implements Session.
func (c *Client) QueryRow2(ctx context.Context, sql, param string) (string, string, error) {
	values, err := c.queryFirstRow(ctx, sql, 2, param)
	if err != nil {
		return "", "", err
	}

	return values[0], values[1], nil
}

// Exec implements Session.
func (c *Client) Exec(ctx context.Context, sql string) error {
	if c.conn == nil {
		return errors.Errorf("connection to %s is closed", c.target)
	}

	if _, err := c.conn.Exec(ctx, sql); err != nil {
		return errors.Wrapf(err, "failed to execute %q", sql)
	}

	return nil
}

// Ping implements Session.
func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return errors.Errorf("connection to %s is closed", c.target)
	}

	return c.conn.Ping(ctx)
}

// Close implements Session.
func (c *Client) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}

	conn := c.conn
	c.conn = nil
	return conn.Close(ctx)
}

// queryFirstRow returns the first ncols columns of the first row, read in text
// format so every type (name, inet, text) comes back exactly as psql prints it.
func (c *Client) queryFirstRow(ctx context.Context, sql string, ncols int, args ...any) ([]string, error) {
	if c.conn == nil {
		return nil, errors.Errorf("connection to %s is closed", c.target)
	}

	rows, err := c.conn.Query(ctx, sql, append([]any{pgx.QueryResultFormats{pgx.TextFormatCode}}, args...)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute %q", sql)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to execute %q", sql)
		}

		return nil, errors.Wrapf(ErrNoRows, "%q", sql)
	}

	raw := rows.RawValues()
	if len(raw) < ncols {
		return nil, errors.Errorf("%q returned %d columns, expected %d", sql, len(raw), ncols)
	}

	values := make([]string, ncols)
	for i := range values {
		if raw[i] == nil {
			return nil, errors.Wrapf(ErrNullValue, "column %d of %q", i+1, sql)
		}
		values[i] = string(raw[i])
	}

	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to execute %q", sql)
	}

	return values, nil
}

func describe(cfg *pgx.ConnConfig) string {
	if len(cfg.Host) > 0 && cfg.Host[0] == '/' {
		return cfg.Host
	}

	return net.JoinHostPort(cfg.Host, portString(cfg.Port))
}
