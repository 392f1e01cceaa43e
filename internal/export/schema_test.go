package export

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchema_Compiles(t *testing.T) {
	specs, err := Schema()
	require.NoError(t, err)
	require.NotEmpty(t, specs)

	// Declaration order is the emission order; the first entry is the
	// time_exist subdivision of time_periods.
	require.Equal(t, "set", specs[0].Kind)
	require.Equal(t, "time_periods", specs[0].Source)
	require.Equal(t, "time_exist", specs[0].Dest)
	require.Equal(t, FlagEquals{Value: "e"}, specs[0].Filter)
}

func TestSchema_ProductionSubdivision(t *testing.T) {
	specs, err := Schema()
	require.NoError(t, err)

	var production *TableSpec
	for i := range specs {
		if specs[i].Dest == "tech_production" {
			production = &specs[i]
			break
		}
	}
	require.NotNil(t, production)
	require.Equal(t, "technologies", production.Source)
	require.Equal(t, FlagIn{Values: []string{"p", "pb", "ps"}}, production.Filter)
}

func TestSchema_DestNamesAreUnique(t *testing.T) {
	specs, err := Schema()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, s := range specs {
		require.False(t, seen[s.Dest], "duplicate destination %q", s.Dest)
		seen[s.Dest] = true
	}
}

func TestCompileSchema_DestCollision(t *testing.T) {
	src := `
tables: [
	{kind: "set", source: "a", dest: "x", flag: "", flags: [], comment_col: 0},
	{kind: "set", source: "b", dest: "x", flag: "", flags: [], comment_col: 0},
]`
	_, err := compileSchema(src)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrCodeDestCollision, schemaErr.Code)
	require.Equal(t, "x", schemaErr.Dest)
}

func TestCompileSchema_DefaultDestCollision(t *testing.T) {
	// An explicit dest colliding with another entry's defaulted dest
	// is still a collision.
	src := `
tables: [
	{kind: "set", source: "a", dest: "", flag: "", flags: [], comment_col: 0},
	{kind: "param", source: "b", dest: "a", flag: "", flags: [], comment_col: 0},
]`
	_, err := compileSchema(src)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrCodeDestCollision, schemaErr.Code)
}

func TestCompileSchema_FlagAndFlagsExclusive(t *testing.T) {
	src := `
tables: [
	{kind: "set", source: "a", dest: "", flag: "p", flags: ["p", "pb"], comment_col: 0},
]`
	_, err := compileSchema(src)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, ErrCodeMalformedSpec, schemaErr.Code)
}

func TestCompileSchema_BadKind(t *testing.T) {
	src := `
#Table: {
	kind:        "set" | "param"
	source:      string & !=""
	dest:        string | *""
	flag:        string | *""
	flags:       [...string] | *[]
	comment_col: int & >=0 | *0
}
tables: [...#Table]
tables: [
	{kind: "table", source: "a"},
]`
	_, err := compileSchema(src)
	require.Error(t, err)
}

func TestFilter_WhereClauses(t *testing.T) {
	where, args := NoFilter{}.whereClause()
	require.Empty(t, where)
	require.Empty(t, args)

	where, args = FlagEquals{Value: "e"}.whereClause()
	require.Equal(t, " WHERE flag = ?", where)
	require.Equal(t, []any{"e"}, args)

	where, args = FlagIn{Values: []string{"p", "pb", "ps"}}.whereClause()
	require.Equal(t, " WHERE flag IN (?, ?, ?)", where)
	require.Equal(t, []any{"p", "pb", "ps"}, args)
}
