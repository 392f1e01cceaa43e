package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/emberproject/ember/internal/store"
	"github.com/emberproject/ember/internal/sweep"
	"github.com/emberproject/ember/internal/testutil"
)

// testSchema is a trimmed schema matching the testutil fixture tables.
// Small enough that the golden dataset is fully predictable by hand.
func testSchema() []TableSpec {
	return []TableSpec{
		{Kind: "set", Source: "time_season", Dest: "time_season", Filter: NoFilter{}},
		{Kind: "set", Source: "technologies", Dest: "tech_baseload", Filter: FlagEquals{Value: "pb"}},
		{Kind: "set", Source: "technologies", Dest: "tech_production", Filter: FlagIn{Values: []string{"p", "pb", "ps"}}},
		{Kind: "set", Source: "commodities", Dest: "commodity_emissions", Filter: FlagEquals{Value: "e"}},
		{Kind: "param", Source: "SegFrac", Dest: "SegFrac", Filter: NoFilter{}, CommentCol: 3},
		{Kind: "param", Source: "Demand", Dest: "Demand", Filter: NoFilter{}, CommentCol: 4},
		{Kind: "set", Source: "no_such_table", Dest: "no_such_table", Filter: NoFilter{}},
		{Kind: "set", Source: "commodities", Dest: "commodity_material", Filter: FlagEquals{Value: "m"}},
	}
}

func runExport(t *testing.T, source string, opts Options) (string, *Report) {
	t.Helper()
	dest := filepath.Join(t.TempDir(), "out.dat")
	report, err := NewWithSchema(testSchema()).Run(context.Background(), source, dest, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	return string(data), report
}

func TestRun_GoldenDataset(t *testing.T) {
	source := testutil.SeedModelDB(t, t.TempDir())
	data, report := runExport(t, source, Options{MGAMethod: sweep.MethodRandom})

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "dataset", []byte(data))

	require.Equal(t, 7, report.SectionsWritten)
	require.Equal(t, 13, report.RowsWritten)
	require.Equal(t, 1, report.TablesSkipped)
	require.Zero(t, report.RowsPurged)
}

func TestRun_NoSweepSectionsByDefault(t *testing.T) {
	source := testutil.SeedModelDB(t, t.TempDir())
	data, _ := runExport(t, source, Options{})
	require.NotContains(t, data, "tech_mga")
	require.NotContains(t, data, "tech_electric")
}

func TestRun_NormalizedSectors(t *testing.T) {
	source := testutil.SeedModelDB(t, t.TempDir())
	data, _ := runExport(t, source, Options{MGAMethod: sweep.MethodNormalized})

	require.Contains(t, data, "set tech_electric :=\nE_COAL\nE_HYDRO\nE_BATT\n;\n\n")
	require.Contains(t, data, "set tech_supply :=\nS_IMP\n;\n\n")
	// Sector sections are sorted by name.
	require.Less(t, strings.Index(data, "tech_electric"), strings.Index(data, "tech_supply"))
}

func TestRun_BothTechniques(t *testing.T) {
	source := testutil.SeedModelDB(t, t.TempDir())
	data, _ := runExport(t, source, Options{
		MGAMethod:  sweep.MethodRandom,
		MGPAMethod: sweep.MethodNormalized,
	})

	require.Contains(t, data, "set tech_mga :=\nE_COAL\nE_HYDRO\n;\n\n")
	require.Contains(t, data, "set tech_electric :=\n")
}

func TestRun_EmptySnapshot(t *testing.T) {
	source := testutil.EmptyModelDB(t, t.TempDir())
	data, report := runExport(t, source, Options{})

	// Zero-row tables contribute zero bytes; only the header remains.
	require.Equal(t, "data ;\n\n", data)
	require.Zero(t, report.SectionsWritten)
	require.Equal(t, 7, report.TablesSkipped)
}

func TestRun_MyopicPurgeScopedToScenario(t *testing.T) {
	source := testutil.SeedModelDB(t, t.TempDir())
	_, report := runExport(t, source, Options{
		ScenarioName: "base",
		Myopic:       true,
	})
	require.Equal(t, int64(3), report.RowsPurged)

	st, err := store.Open(source)
	require.NoError(t, err)
	defer st.Close()

	rows, err := st.Select(context.Background(), "SELECT scenario FROM Output_Objective")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"other"}}, rows)
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWithSchema(testSchema()).Run(context.Background(),
		filepath.Join(dir, "absent.db"), filepath.Join(dir, "out.dat"), Options{})

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, ErrCodeStorageOpen, storageErr.Code)
}

func TestRun_UnwritableDest(t *testing.T) {
	source := testutil.SeedModelDB(t, t.TempDir())
	_, err := NewWithSchema(testSchema()).Run(context.Background(),
		source, filepath.Join(t.TempDir(), "missing", "out.dat"), Options{})
	require.Error(t, err)
}

func TestFormatRow(t *testing.T) {
	tests := []struct {
		name       string
		fields     []string
		commentCol int
		want       string
	}{
		{"zero reduces to leading field", []string{"A", "1"}, 0, "A"},
		{"split after first field", []string{"A", "1"}, 1, "A    # 1"},
		{"split mid row", []string{"a", "b", "c", "d"}, 2, "a    b    # c    d"},
		{"index past end joins all", []string{"a", "b"}, 5, "a    b"},
		{"blank comment omitted", []string{"a", "b", ""}, 2, "a    b"},
		{"whitespace comment omitted", []string{"a", " ", "\t"}, 1, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatRow(tt.fields, tt.commentCol))
		})
	}
}
