package consts

import "os"

const (
	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ConfigFile is the name of the optional pgso configuration file
	ConfigFile = "pgso.yaml"

	// DefaultPort is the port the standby role listens on after the swap
	DefaultPort = "5432"

	// DefaultLocalConninfo is used for the primary session when no conninfo is
	// configured. Everything else comes from the libpq environment (PGHOST, PGUSER, ...).
	DefaultLocalConninfo = "dbname=postgres"

	// DefaultRemoteUser is the administrative role used to promote the standby
	DefaultRemoteUser = "postgres"

	// DefaultRemoteDatabase is the database the promotion session connects to
	DefaultRemoteDatabase = "postgres"

	// DefaultStandbySignal is the marker file that starts the server in standby mode
	DefaultStandbySignal = "standby.signal"

	// DefaultBackendType identifies streaming replication senders in pg_stat_activity
	DefaultBackendType = "walsender"

	// DefaultStopCommand stops the local server. The single %s is the data directory.
	DefaultStopCommand = "pg_ctl stop -D %s -m fast"

	// DefaultMarkCommand creates the standby marker. The single %s is the marker path.
	DefaultMarkCommand = "touch %s"

	// DefaultStartCommand starts the local server. The single %s is the data directory.
	DefaultStartCommand = "pg_ctl start -D %s"
)
