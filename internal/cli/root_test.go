package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captures both
// output streams.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeConfigFile writes config text to a temp file and returns its path.
func writeConfigFile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.cfg")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	path := writeConfigFile(t, "--input=a.dat\n")
	_, _, err := executeCommand(t, "--format", "xml", "validate", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_AcceptsKnownFormats(t *testing.T) {
	path := writeConfigFile(t, "--input=a.dat\n")
	for _, format := range ValidFormats {
		_, _, err := executeCommand(t, "--format", format, "validate", path)
		require.NoError(t, err, "format %q", format)
	}
}

func TestGetExitCode(t *testing.T) {
	require.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "boom")))
	require.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	require.Equal(t, ExitFailure, GetExitCode(os.ErrNotExist))
}
