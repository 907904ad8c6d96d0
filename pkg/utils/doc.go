// Package utils provides the string building and validation helpers shared by
// the switchover packages.
//
// # Templates (template.go)
//
// Build renders a template with up to three %s substitutions. The rendered
// size is computed up front and the builder is grown exactly once, so long
// data directory paths or host names are never truncated:
//
//	cmd, err := utils.Build("pg_ctl stop -D %s -m fast", utils.ShellQuote(dataDir))
//
// # Quoting (quote.go)
//
// ShellQuote makes a value safe to splice into a /bin/sh command line.
//
// # Validation (validation.go)
//
// RequireValue and IsPort check values discovered from the server or supplied
// by the operator before they are threaded into later steps.
package utils
