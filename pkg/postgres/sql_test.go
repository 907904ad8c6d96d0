package postgres_test

import (
	"testing"

	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/stretchr/testify/require"
)

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ` E''`},
		{input: "host=10.0.0.5 port=5432 user=repl_user", expected: ` E'host=10.0.0.5 port=5432 user=repl_user'`},
		{input: "user='repl user'", expected: ` E'user=''repl user'''`},
		{input: `user='o\'brien'`, expected: ` E'user=''o\\''brien'''`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, postgres.QuoteLiteral(tt.input))
		})
	}
}
