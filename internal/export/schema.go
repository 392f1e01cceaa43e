package export

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

// TableSpec describes one exporter unit of the static schema.
// Read-only; never mutated at runtime.
type TableSpec struct {
	// Kind is the flat-format container, "set" or "param".
	Kind string
	// Source is the relational table the rows come from.
	Source string
	// Dest is the destination name in the flat format. Defaults to
	// Source when the schema entry names none.
	Dest string
	// Filter selects the row subset for this destination.
	Filter Filter
	// CommentCol is the zero-based field index where inline commentary
	// begins. 0 means the row is reduced to its single leading field.
	CommentCol int
}

// Filter selects rows from a source table. Exactly one of the three
// variants applies per TableSpec.
type Filter interface {
	// whereClause renders the filter as a parameterized WHERE clause
	// against the flag column. Empty string means no clause.
	whereClause() (string, []any)
}

// NoFilter selects every row of the source table.
type NoFilter struct{}

func (NoFilter) whereClause() (string, []any) { return "", nil }

// FlagEquals selects rows whose flag column matches exactly one value.
type FlagEquals struct {
	Value string
}

func (f FlagEquals) whereClause() (string, []any) {
	return " WHERE flag = ?", []any{f.Value}
}

// FlagIn selects rows whose flag column matches any of the values.
// Used for the production subdivision, which draws three destination
// sections from one shared source table.
type FlagIn struct {
	Values []string
}

func (f FlagIn) whereClause() (string, []any) {
	placeholders := make([]string, len(f.Values))
	args := make([]any, len(f.Values))
	for i, v := range f.Values {
		placeholders[i] = "?"
		args[i] = v
	}
	return " WHERE flag IN (" + strings.Join(placeholders, ", ") + ")", args
}

// schemaEntry mirrors one CUE #Table value for decoding.
type schemaEntry struct {
	Kind       string   `json:"kind"`
	Source     string   `json:"source"`
	Dest       string   `json:"dest"`
	Flag       string   `json:"flag"`
	Flags      []string `json:"flags"`
	CommentCol int      `json:"comment_col"`
}

var (
	schemaOnce sync.Once
	schemaSpec []TableSpec
	schemaErr  error
)

// Schema returns the compiled table schema in declaration order.
// The embedded CUE document is compiled and validated once per
// process; any failure is a SchemaError and repeats on every call.
func Schema() ([]TableSpec, error) {
	schemaOnce.Do(func() {
		schemaSpec, schemaErr = compileSchema(schemaCUE)
	})
	return schemaSpec, schemaErr
}

// compileSchema evaluates the CUE document and converts it into
// validated TableSpecs.
func compileSchema(src string) ([]TableSpec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, &SchemaError{Code: ErrCodeMalformedSpec, Message: fmt.Sprintf("compile schema: %v", err)}
	}

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if err := tablesVal.Err(); err != nil {
		return nil, &SchemaError{Code: ErrCodeMalformedSpec, Message: fmt.Sprintf("schema has no tables list: %v", err)}
	}
	if err := tablesVal.Validate(cue.Concrete(true)); err != nil {
		return nil, &SchemaError{Code: ErrCodeMalformedSpec, Message: fmt.Sprintf("schema not concrete: %v", err)}
	}

	var entries []schemaEntry
	if err := tablesVal.Decode(&entries); err != nil {
		return nil, &SchemaError{Code: ErrCodeMalformedSpec, Message: fmt.Sprintf("decode schema: %v", err)}
	}

	specs := make([]TableSpec, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		spec, err := e.toSpec()
		if err != nil {
			return nil, err
		}
		if seen[spec.Dest] {
			return nil, &SchemaError{
				Code:    ErrCodeDestCollision,
				Dest:    spec.Dest,
				Message: "destination name used by more than one entry",
			}
		}
		seen[spec.Dest] = true
		specs = append(specs, spec)
	}
	return specs, nil
}

// toSpec validates one entry and resolves its filter variant and
// effective destination name.
func (e schemaEntry) toSpec() (TableSpec, error) {
	dest := e.Dest
	if dest == "" {
		dest = e.Source
	}
	if e.Flag != "" && len(e.Flags) > 0 {
		return TableSpec{}, &SchemaError{
			Code:    ErrCodeMalformedSpec,
			Dest:    dest,
			Message: "flag and flags are mutually exclusive",
		}
	}

	var filter Filter = NoFilter{}
	switch {
	case len(e.Flags) > 0:
		filter = FlagIn{Values: e.Flags}
	case e.Flag != "":
		filter = FlagEquals{Value: e.Flag}
	}

	return TableSpec{
		Kind:       e.Kind,
		Source:     e.Source,
		Dest:       dest,
		Filter:     filter,
		CommentCol: e.CommentCol,
	}, nil
}
