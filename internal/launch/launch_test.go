package launch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberproject/ember/internal/sweep"
	"github.com/emberproject/ember/internal/testutil"
)

// writeConfig writes a config file under dir and returns its path.
func writeConfig(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "run.cfg")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

// writeFlatInput creates an empty flat-text dataset to satisfy the
// on-disk input check.
func writeFlatInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "flat.dat")
	require.NoError(t, os.WriteFile(path, []byte("data ;\n"), 0o644))
	return path
}

func requireConfigError(t *testing.T, err error, code string) {
	t.Helper()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, code, cfgErr.Code)
}

func TestBuild_MissingConfigFile(t *testing.T) {
	_, err := Build(context.Background(), filepath.Join(t.TempDir(), "absent.cfg"), Options{})
	requireConfigError(t, err, ErrCodeConfigMissing)
}

func TestBuild_NoInputs(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "--scenario=base\n")
	_, err := Build(context.Background(), path, Options{})
	requireConfigError(t, err, ErrCodeNoInputs)
}

func TestBuild_InputMissingOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "--input="+filepath.Join(dir, "absent.db")+"\n")
	_, err := Build(context.Background(), path, Options{})
	requireConfigError(t, err, ErrCodeInputMissing)
}

func TestBuild_RelationalRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	source := testutil.SeedModelDB(t, dir)
	path := writeConfig(t, dir, "--input="+source+"\n--scenario=base\n")
	_, err := Build(context.Background(), path, Options{})
	requireConfigError(t, err, ErrCodeOutputNotSet)
}

func TestBuild_RelationalOutputMustExist(t *testing.T) {
	dir := t.TempDir()
	source := testutil.SeedModelDB(t, dir)
	path := writeConfig(t, dir,
		"--input="+source+"\n--output="+filepath.Join(dir, "absent.db")+"\n--scenario=base\n")
	_, err := Build(context.Background(), path, Options{})
	requireConfigError(t, err, ErrCodeOutputMissing)
}

func TestBuild_RelationalRequiresScenario(t *testing.T) {
	dir := t.TempDir()
	source := testutil.SeedModelDB(t, dir)
	out := filepath.Join(dir, "out.db")
	require.NoError(t, os.WriteFile(out, nil, 0o644))

	path := writeConfig(t, dir, "--input="+source+"\n--output="+out+"\n")
	_, err := Build(context.Background(), path, Options{})
	requireConfigError(t, err, ErrCodeScenarioNotSet)
}

func TestBuild_FlatRunSkipsRelationalChecks(t *testing.T) {
	dir := t.TempDir()
	flat := writeFlatInput(t, dir)
	path := writeConfig(t, dir, strings.Join([]string{
		"--input=" + flat,
		"--scenario=base",
		"--mga {",
		"\titeration=2",
		"}",
	}, "\n"))

	cfg, err := Build(context.Background(), path, Options{DefaultSolver: "cbc"})
	require.NoError(t, err)

	require.False(t, cfg.Aborted)
	require.Equal(t, []string{flat}, cfg.InputFiles)
	require.Equal(t, "cbc", cfg.Solver)
	require.NotEmpty(t, cfg.RunID)
	require.Equal(t, 2, cfg.Queue(sweep.TechniqueMGA).Len())
}

func TestBuild_ConfiguredSolverBeatsDefault(t *testing.T) {
	dir := t.TempDir()
	flat := writeFlatInput(t, dir)
	path := writeConfig(t, dir, "--input="+flat+"\n--solver cplex\n")

	cfg, err := Build(context.Background(), path, Options{DefaultSolver: "cbc"})
	require.NoError(t, err)
	require.Equal(t, "cplex", cfg.Solver)
}

func TestBuild_ConvertsRelationalInput(t *testing.T) {
	dir := t.TempDir()
	source := testutil.SeedModelDB(t, dir)
	out := filepath.Join(dir, "out.db")
	require.NoError(t, os.WriteFile(out, nil, 0o644))

	path := writeConfig(t, dir,
		"--input="+source+"\n--output="+out+"\n--scenario=base\n")
	cfg, err := Build(context.Background(), path, Options{})
	require.NoError(t, err)

	// The list entry now points at the converted dataset, in place.
	converted := strings.TrimSuffix(source, ".db") + ".dat"
	require.Equal(t, []string{converted}, cfg.InputFiles)

	data, err := os.ReadFile(converted)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "data ;\n\n"))
	require.Contains(t, string(data), "set time_season := \n")
	require.False(t, cfg.Aborted)
}

func TestBuild_DiagnosticsPersisted(t *testing.T) {
	dir := t.TempDir()
	logs := t.TempDir()
	flat := writeFlatInput(t, dir)
	path := writeConfig(t, dir, strings.Join([]string{
		"--input=" + flat,
		"--path_to_logs=" + logs,
		"@@@",
	}, "\n"))

	cfg, err := Build(context.Background(), path, Options{})
	require.NoError(t, err)
	require.True(t, cfg.Aborted)

	data, err := os.ReadFile(filepath.Join(logs, diagnosticLog))
	require.NoError(t, err)
	require.Contains(t, string(data), "Illegal character(s) in config file:")
	require.Contains(t, string(data), "'@@@'")
}

func TestBuild_DiagnosticsFallback(t *testing.T) {
	work := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	dir := t.TempDir()
	flat := writeFlatInput(t, dir)
	path := writeConfig(t, dir, strings.Join([]string{
		"--input=" + flat,
		"--path_to_logs=" + filepath.Join(dir, "no", "such", "dir"),
		"@@@",
	}, "\n"))

	cfg, err := Build(context.Background(), path, Options{})
	require.NoError(t, err)
	require.True(t, cfg.Aborted)

	data, err := os.ReadFile(filepath.Join(work, fallbackLog))
	require.NoError(t, err)
	require.Contains(t, string(data), "'@@@'")
}

func TestRelationalMode(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   bool
	}{
		{"empty defaults relational", nil, true},
		{"single relational", []string{"a.db"}, true},
		{"single flat", []string{"a.dat"}, false},
		{"last flat wins", []string{"a.db", "b.dat"}, false},
		{"last relational wins", []string{"a.dat", "b.sqlite"}, true},
		{"unknown extension leaves flag", []string{"a.dat", "b.xyz"}, false},
		{"extension case insensitive", []string{"a.DB"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RelationalMode(tt.inputs))
		})
	}
}
