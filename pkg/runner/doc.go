// Package runner executes the local process-control commands of a switchover
// (stopping the server, creating the standby marker, starting the server).
//
// Commands run through /bin/sh so operators can configure anything from
// "pg_ctl stop -D %s" to "sudo systemctl stop postgresql-16". The runner only
// reports exit codes; deciding whether a non-zero code is fatal is left to the
// caller.
package runner
