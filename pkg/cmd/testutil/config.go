package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pierreforstmann/pg-kit/pkg/consts"
	"github.com/stretchr/testify/require"
)

// WriteConfig writes content as pgso.yaml in a fresh temporary directory and
// returns the file path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), consts.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), consts.ModeFile), "Failed to write config")

	return path
}
