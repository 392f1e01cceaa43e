package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const planConfig = `--scenario=base
--mga {
	iteration=2
}
--moo {
	ncaps=1
}
`

func TestPlan_TextOutput(t *testing.T) {
	path := writeConfigFile(t, planConfig)
	stdout, _, err := executeCommand(t, "plan", path)
	require.NoError(t, err)

	require.Contains(t, stdout, "Scenario: base")
	require.Contains(t, stdout, "mga (2 pending):\n  base_mga_0\n  base_mga_1\n")
	require.Contains(t, stdout, "moo (1 pending):\n  base_moo_0\n")
	require.Contains(t, stdout, "3 scenario(s) total")
}

func TestPlan_TechniquesOrderedAndEmptyOmitted(t *testing.T) {
	path := writeConfigFile(t, planConfig)
	stdout, _, err := executeCommand(t, "plan", path)
	require.NoError(t, err)

	require.NotContains(t, stdout, "mgpa")
	require.Less(t, strings.Index(stdout, "mga ("), strings.Index(stdout, "moo ("))
}

func TestPlan_YAMLOutput(t *testing.T) {
	path := writeConfigFile(t, planConfig)
	stdout, _, err := executeCommand(t, "plan", path, "--yaml")
	require.NoError(t, err)

	require.Contains(t, stdout, "scenario: base")
	require.Contains(t, stdout, "technique: mga")
	require.Contains(t, stdout, "total: 3")
}

func TestPlan_IllegalInputFails(t *testing.T) {
	path := writeConfigFile(t, "--scenario=base\n@@@\n")
	_, _, err := executeCommand(t, "plan", path)
	require.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPlan_NoSweepBlocks(t *testing.T) {
	path := writeConfigFile(t, "--scenario=base\n")
	stdout, _, err := executeCommand(t, "plan", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "0 scenario(s) total")
}
