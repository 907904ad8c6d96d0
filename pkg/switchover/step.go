package switchover

import "fmt"

// Step is a position in the switchover sequence. Steps only ever advance by
// one; there are no reverse transitions.
type Step int

const (
	// StepPending is the state of an orchestrator that has not started.
	StepPending Step = iota

	// StepStart opens the session to the local primary.
	StepStart

	// StepDiscoverDataDirectory reads the primary's data_directory setting.
	StepDiscoverDataDirectory

	// StepDiscoverStandby finds a connected streaming replication client.
	StepDiscoverStandby

	// StepFlushWAL switches the primary to a new WAL segment.
	StepFlushWAL

	// StepCheckpoint forces a checkpoint on the primary.
	StepCheckpoint

	// StepReconfigurePrimary persists primary_conninfo pointing at the standby.
	StepReconfigurePrimary

	// StepStopPrimary closes the primary session and stops the server.
	StepStopPrimary

	// StepMarkAsStandby creates the standby marker in the data directory.
	StepMarkAsStandby

	// StepRestartAsStandby starts the local server, now as a standby.
	StepRestartAsStandby

	// StepPromoteRemote promotes the remote standby to primary.
	StepPromoteRemote

	// StepDone is reached after a successful promotion.
	StepDone
)

var stepNames = map[Step]string{
	StepPending:               "pending",
	StepStart:                 "start",
	StepDiscoverDataDirectory: "discover-data-directory",
	StepDiscoverStandby:       "discover-standby",
	StepFlushWAL:              "flush-wal",
	StepCheckpoint:            "checkpoint",
	StepReconfigurePrimary:    "reconfigure-primary",
	StepStopPrimary:           "stop-primary",
	StepMarkAsStandby:         "mark-as-standby",
	StepRestartAsStandby:      "restart-as-standby",
	StepPromoteRemote:         "promote-remote",
	StepDone:                  "done",
}

// String returns the kebab-case name of the step.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}

	return fmt.Sprintf("step(%d)", int(s))
}

// Mutating reports whether the step changes durable state on either node.
func (s Step) Mutating() bool {
	return s >= StepFlushWAL && s <= StepPromoteRemote
}
