package postgres

import "strings"

// escapeLiteral is called by QuoteLiteral to add backslashes before special
// characters of the "escape" string syntax. Double quote marks to escape them
// regardless of the "backslash_quote" parameter.
var escapeLiteral = strings.NewReplacer(`'`, `''`, `\`, `\\`).Replace

// QuoteLiteral escapes v so it can be safely used as a literal (or constant)
// in an SQL statement such as ALTER SYSTEM, which does not accept parameters.
//
// The "escape" syntax keeps backslashes consistent regardless of the
// "standard_conforming_strings" parameter. The leading space keeps the E from
// merging with an adjacent keyword or identifier.
//   - https://www.postgresql.org/docs/current/sql-syntax-lexical.html
func QuoteLiteral(v string) string {
	return ` E'` + escapeLiteral(v) + `'`
}
