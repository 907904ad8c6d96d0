// Package switchover performs a planned role swap between a local PostgreSQL
// primary and a remote streaming standby.
//
// The Orchestrator connects to the local primary, discovers its data directory
// and the connected standby, then demotes the primary and promotes the standby.
//
// # Sequence
//
// Each step runs only after the previous one succeeded:
//
//  1. start: connect to the local primary
//  2. discover-data-directory: read data_directory from pg_settings
//  3. discover-standby: find a walsender in pg_stat_activity
//  4. flush-wal: SELECT pg_switch_wal()
//  5. checkpoint: checkpoint;
//  6. reconfigure-primary: ALTER SYSTEM SET primary_conninfo to the standby
//  7. stop-primary: close the session and run the stop command
//  8. mark-as-standby: run the mark command on <data_directory>/standby.signal
//  9. restart-as-standby: run the start command
//  10. promote-remote: connect to the standby and SELECT pg_promote()
//
// The first failure stops the run. There is no rollback: when Error.Partial
// reports true the cluster has been modified and needs manual attention.
//
// # Dry Run
//
// Orchestrator.Plan runs only the read-only steps (1 to 3) and returns the
// statements and commands that a real run would issue:
//
//	plan, err := switchover.New(cfg).Plan(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_ = plan.Write(os.Stdout)
//
// # Errors
//
// Failures are reported as *Error values carrying a Kind (connection, query,
// not found, process, allocation) and the Step that failed. A standby that is
// not connected is KindNotFound, which lets callers tell a topology problem
// apart from a broken server.
package switchover
