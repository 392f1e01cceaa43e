package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDir_RunsAllFixtures(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		res := Run(s)
		require.True(t, res.Pass, "%s: %v", s.Name, res.Failures)
	}
}

func TestLoadDir_SortedByFilename(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	require.Equal(t, []string{"basic_directives", "error_merging", "sweep_queues"}, names)
}

func TestLoadDir_EmptyDirIsError(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no scenario files")
}

func TestLoad_UnknownFieldIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"name: typo\nconfig: \"--tee\"\nexpect:\n  scenaro: base\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RequiresNameAndConfig(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("config: \"--tee\"\n"), 0o644))
	_, err := Load(noName)
	require.ErrorContains(t, err, "name is required")

	noConfig := filepath.Join(dir, "noconfig.yaml")
	require.NoError(t, os.WriteFile(noConfig, []byte("name: x\n"), 0o644))
	_, err = Load(noConfig)
	require.ErrorContains(t, err, "config is required")
}

func TestRun_ReportsEveryMismatch(t *testing.T) {
	s := &Scenario{
		Name:   "mismatch",
		Config: "--scenario=base\n--threads=4\n",
		Expect: Expect{
			Scenario: "other",
			Threads:  8,
		},
	}

	res := Run(s)
	require.False(t, res.Pass)
	require.Len(t, res.Failures, 2)
}

func TestRun_SilentScenarioExpectsNoErrors(t *testing.T) {
	s := &Scenario{
		Name:   "silent",
		Config: "@@@\n",
		Expect: Expect{},
	}

	res := Run(s)
	require.False(t, res.Pass)
	require.Contains(t, res.Failures[0], "unexpected error spans")
}

func TestRun_ErrorCountAlone(t *testing.T) {
	one := 1
	s := &Scenario{
		Name:   "count_only",
		Config: "@@@\n",
		Expect: Expect{ErrorCount: &one},
	}

	require.True(t, Run(s).Pass)
}

func TestRun_QueueMismatch(t *testing.T) {
	s := &Scenario{
		Name:   "queue_mismatch",
		Config: "--scenario=base\n--mga {\niteration=1\n}\n",
		Expect: Expect{
			Queues: map[string][]string{"mga": {"base_mga_0", "base_mga_1"}},
		},
	}

	res := Run(s)
	require.False(t, res.Pass)
	require.Contains(t, res.Failures[0], "mga queue")
}
