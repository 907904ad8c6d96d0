package utils

import "strings"

// ShellQuote wraps v in single quotes for /bin/sh, escaping embedded single
// quotes as '\''. Values made only of safe characters are returned unchanged.
//
// Examples:
//   - "/var/lib/pgsql/data" -> "/var/lib/pgsql/data"
//   - "/data/my cluster" -> "'/data/my cluster'"
//   - "it's" -> "'it'\''s'"
//   - "" -> "''"
func ShellQuote(v string) string {
	if v == "" {
		return "''"
	}

	if strings.IndexFunc(v, needsShellQuote) < 0 {
		return v
	}

	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

func needsShellQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}

	return !strings.ContainsRune("/._-+,:=@", r)
}
