// Package config loads the optional pgso.yaml configuration file.
//
// The file tunes how pgso reaches the two servers and how it controls the
// local server process. Every key is optional:
//
//	local:
//	  conninfo: "dbname=postgres"
//	remote:
//	  user: postgres
//	  database: postgres
//	commands:
//	  stop: "pg_ctl stop -D %s -m fast"
//	  mark: "touch %s"
//	  start: "pg_ctl start -D %s"
//	port: "5432"
//	standby_signal: standby.signal
//	backend_type: walsender
//
// Each command template takes at most one %s placeholder, replaced with a
// shell-quoted path at run time. A template without one runs as written,
// which suits service managers:
//
//	commands:
//	  stop: "systemctl stop postgresql-16"
//	  start: "systemctl start postgresql-16"
package config
