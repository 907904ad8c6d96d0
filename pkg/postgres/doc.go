// Package postgres provides the database sessions used by a switchover.
//
// A Session wraps a single pgx connection and offers only what the
// switchover needs: single-row text queries with one parameter, statements
// whose results are discarded, a ping, and an idempotent Close. Queries that
// succeed but return no rows fail with ErrNoRows so callers can tell "nothing
// matched" apart from a server error:
//
//	user, addr, err := session.QueryRow2(ctx, sql, "walsender")
//	switch {
//	case errors.Is(err, postgres.ErrNoRows):
//		// no standby is connected
//	case err != nil:
//		// the server rejected the query
//	}
//
// Every new session empties search_path before it is handed out, so catalog
// queries cannot be redirected by objects in user schemas.
//
// A Dialer opens the two kinds of sessions: the local primary (conninfo from
// pgso.yaml plus the PG* environment) and a remote standby addressed by host
// and port with the configured administrative role.
package postgres
