package utils

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxSubstitutions is the largest number of values a template may take.
const MaxSubstitutions = 3

var (
	// ErrTooManySubstitutions is returned when more than MaxSubstitutions values are supplied.
	ErrTooManySubstitutions = errors.New("too many substitutions")

	// ErrPlaceholderMismatch is returned when the number of %s placeholders
	// differs from the number of supplied values.
	ErrPlaceholderMismatch = errors.New("placeholder count does not match substitutions")

	// ErrInvalidVerb is returned for any % sequence other than %s and %%.
	ErrInvalidVerb = errors.New("invalid template verb")
)

// Build renders template, replacing each %s with the next value from subs
// and each %% with a literal percent sign.
//
// The exact size of the result is computed before anything is allocated, so
// values of any length are rendered in full.
//
// Examples:
//   - Build("touch %s", "/data/standby.signal") -> "touch /data/standby.signal"
//   - Build("host=%s port=%s user=%s", "10.0.0.5", "5432", "repl") -> "host=10.0.0.5 port=5432 user=repl"
//   - Build("100%%") -> "100%"
//   - Build("%s %s", "a") -> ErrPlaceholderMismatch
func Build(template string, subs ...string) (string, error) {
	if len(subs) > MaxSubstitutions {
		return "", errors.Wrapf(ErrTooManySubstitutions, "got %d, max %d", len(subs), MaxSubstitutions)
	}

	count, size, err := measure(template, subs)
	if err != nil {
		return "", err
	}

	if count != len(subs) {
		return "", errors.Wrapf(ErrPlaceholderMismatch, "template %q has %d, got %d", template, count, len(subs))
	}

	var b strings.Builder
	b.Grow(size)

	next := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			b.WriteByte(template[i])
			continue
		}

		i++
		if template[i] == '%' {
			b.WriteByte('%')
			continue
		}

		b.WriteString(subs[next])
		next++
	}

	if b.Len() != size {
		return "", errors.Errorf("rendered %d bytes, expected %d", b.Len(), size)
	}

	return b.String(), nil
}

// CountPlaceholders returns the number of %s placeholders in template.
func CountPlaceholders(template string) (int, error) {
	count, _, err := measure(template, nil)
	return count, err
}

// measure walks template once, returning the number of placeholders and the
// size of the rendered result. Placeholders beyond len(subs) contribute nothing.
func measure(template string, subs []string) (int, int, error) {
	count, size := 0, 0

	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			size++
			continue
		}

		if i+1 == len(template) {
			return 0, 0, errors.Wrapf(ErrInvalidVerb, "trailing %% in %q", template)
		}

		i++
		switch template[i] {
		case '%':
			size++
		case 's':
			if count < len(subs) {
				size += len(subs[count])
			}
			count++
		default:
			return 0, 0, errors.Wrapf(ErrInvalidVerb, "%%%c in %q", template[i], template)
		}
	}

	return count, size, nil
}
