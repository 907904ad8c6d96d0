// Package cmd provides the pgso command line interface.
//
// pgso takes no subcommands. Invoked on the host running the primary, it
// performs a switchover to the standby currently streaming from it:
//
//	pgso                          # standby listens on 5432 after the swap
//	pgso -p 5433 --verbose        # different port, narrate each step
//	pgso --dry-run                # print the plan, change nothing
//	pgso --wait-ready 30s         # wait for the local restart before promoting
//	pgso -c /etc/pgso.yaml        # explicit configuration file
//
// # Flags
//
//   - --port, -p: port of the standby after the swap (env PGSO_PORT)
//   - --verbose, -v: step narration on stdout
//   - --dry-run: read-only discovery followed by the plan
//   - --wait-ready: readiness wait before promotion (0 disables)
//   - --config, -c: configuration file (env PGSO_CONFIG, default pgso.yaml)
//   - --help, -h, -?: display help
//   - --version: display version information
//
// The process exits 0 on success, for --help and for --version, and 1 on any
// failure. A command line that cannot be parsed prints a hint pointing to
// --help. When a failure happens after the primary has been reconfigured,
// the last completed step is printed so the operator can finish by hand.
package cmd
