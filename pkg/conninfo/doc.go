// Package conninfo parses and renders libpq keyword/value connection strings.
//
// The grammar is built with participle and accepts the same forms libpq does
// for the keyword/value syntax: bare values, single-quoted values with
// backslash escapes, and optional whitespace around '='.
//
// pgso uses the package to render the primary_conninfo setting written to the
// demoted primary and to read it back before it is sent to the server, so a
// discovered host or user containing spaces or quotes can never produce a
// setting that points somewhere else:
//
//	ci := conninfo.New("host", "10.0.0.5", "port", "5432", "user", "repl_user")
//	fmt.Println(ci.String()) // host=10.0.0.5 port=5432 user=repl_user
//
//	parsed, err := conninfo.Parse(ci.String())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	user, _ := parsed.Get("user") // repl_user
package conninfo
