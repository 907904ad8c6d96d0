package switchover

import (
	"net"
	"path/filepath"
)

// Parameters holds the values discovered from the primary (or supplied by the
// operator) that later steps depend on.
//
// StandbyUser and StandbyAddress are only meaningful once StepDiscoverStandby
// has completed.
type Parameters struct {
	// DataDirectory is the primary's data_directory setting
	DataDirectory string

	// StandbyUser is the role the connected standby replicates as
	StandbyUser string

	// StandbyAddress is the client address of the standby's replication connection
	StandbyAddress string

	// Port is the port the standby role listens on after the swap
	Port string
}

// SignalPath returns the path of the standby marker file named name.
func (p Parameters) SignalPath(name string) string {
	return filepath.Join(p.DataDirectory, name)
}

// RemoteTarget returns the host:port the promotion session connects to.
func (p Parameters) RemoteTarget() string {
	return net.JoinHostPort(p.StandbyAddress, p.Port)
}
