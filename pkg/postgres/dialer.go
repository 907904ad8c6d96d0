package postgres

import (
	"context"
	"strconv"

	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/conninfo"
)

type (
	// Dialer opens sessions to the local primary and to a remote standby.
	Dialer interface {
		// OpenLocal connects to the server on this host using the ambient
		// connection defaults.
		OpenLocal(ctx context.Context) (Session, error)

		// OpenRemote connects to host:port as the administrative role.
		OpenRemote(ctx context.Context, host, port string) (Session, error)
	}

	// ClientDialer implements Dialer with pgx clients.
	ClientDialer struct {
		localConninfo  string
		remoteUser     string
		remoteDatabase string
	}
)

var _ Dialer = (*ClientDialer)(nil)

// NewDialer creates a ClientDialer from the local and remote sections of cfg.
func NewDialer(cfg *config.Config) *ClientDialer {
	return &ClientDialer{
		localConninfo:  cfg.Local.Conninfo,
		remoteUser:     cfg.Remote.User,
		remoteDatabase: cfg.Remote.Database,
	}
}

// OpenLocal implements Dialer.
func (d *ClientDialer) OpenLocal(ctx context.Context) (Session, error) {
	return open(ctx, d.localConninfo)
}

// OpenRemote implements Dialer.
func (d *ClientDialer) OpenRemote(ctx context.Context, host, port string) (Session, error) {
	return open(ctx, d.RemoteConninfo(host, port))
}

// open keeps a failed NewClient from becoming a non-nil Session holding a nil *Client.
func open(ctx context.Context, conninfo string) (Session, error) {
	client, err := NewClient(ctx, conninfo)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// RemoteConninfo returns the connection string OpenRemote uses for host:port.
// Passwords are never part of it; supply them through PGPASSWORD or ~/.pgpass.
func (d *ClientDialer) RemoteConninfo(host, port string) string {
	return conninfo.New(
		"host", host,
		"port", port,
		"user", d.remoteUser,
		"dbname", d.remoteDatabase,
	).String()
}

func portString(port uint16) string {
	return strconv.FormatUint(uint64(port), 10)
}
