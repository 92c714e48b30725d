package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns stdout and
// the command error.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(DatabaseEnv, "")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// writeFile writes content under dir, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const passingScenario = `
name: plus_two
program:
  - yield: 1
  - yield: {ref: received, add: 2}
steps:
  - {yields: 1, returns: 3}
  - 5
`

const failingScenario = `
name: mismatch
program:
  - yield: 1
  - yield: 2
steps: [1, 3]
`
