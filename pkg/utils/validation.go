package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyValue is returned by RequireValue for empty or blank values.
var ErrEmptyValue = errors.New("empty value")

// IsPort checks if a string is a valid TCP port number (1-65535).
//
// Examples:
//   - "5432" -> true
//   - "65535" -> true
//   - "0" -> false
//   - "65536" -> false
//   - "54a2" -> false
//   - "+5432" -> false
//   - "" -> false
func IsPort(value string) bool {
	n, err := strconv.ParseUint(value, 10, 16)
	return err == nil && n > 0
}

// RequireValue returns an error naming the value when it is empty, blank,
// or contains a NUL byte.
func RequireValue(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Wrap(ErrEmptyValue, name)
	}

	if strings.ContainsRune(value, 0) {
		return errors.Errorf("%s contains a NUL byte", name)
	}

	return nil
}
