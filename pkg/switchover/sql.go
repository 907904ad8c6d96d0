package switchover

// Statements issued during a switchover. They are sent as-is; only the
// ALTER SYSTEM value is built at run time.
const (
	// DataDirectorySQL reads a server setting. $1 is "data_directory".
	DataDirectorySQL = "SELECT setting FROM pg_settings WHERE name = $1"

	// DataDirectoryParam is the pg_settings name of the data directory.
	DataDirectoryParam = "data_directory"

	// StandbySQL finds replication clients. $1 is the walsender backend type.
	StandbySQL = "SELECT usename, client_addr FROM pg_stat_activity WHERE backend_type = $1"

	// SwitchWALSQL closes the current WAL segment.
	SwitchWALSQL = "SELECT pg_switch_wal()"

	// CheckpointSQL forces a checkpoint.
	CheckpointSQL = "checkpoint;"

	// PrimaryConninfoSQL prefixes the quoted primary_conninfo literal.
	PrimaryConninfoSQL = "ALTER SYSTEM SET primary_conninfo ="

	// PromoteSQL promotes a standby.
	PromoteSQL = "SELECT pg_promote()"

	// ReplicationConninfo is the template of the primary_conninfo value. The
	// substitutions are host, port and user.
	ReplicationConninfo = "host=%s port=%s user=%s"
)
