package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/emberproject/ember/internal/store"
	"github.com/emberproject/ember/internal/sweep"
)

// techMGATable is the dedicated sweep-eligible items table, emitted as
// an auxiliary section when an alternatives sweep is requested.
const techMGATable = "tech_mga"

// technologiesTable is the main items table; its sector column drives
// the per-sector auxiliary sections of the normalized method.
const technologiesTable = "technologies"

// outputTables are the stored run outputs purged before an incremental
// (myopic) re-solve. Fixed list; the purge is scoped strictly to rows
// matching the scenario name.
var outputTables = []string{
	"Output_CapacityByPeriodAndTech",
	"Output_Emissions",
	"Output_Costs",
	"Output_Objective",
	"Output_VFlow_In",
	"Output_VFlow_Out",
	"Output_V_Capacity",
	"Output_Curtailment",
	"Output_Duals",
}

// Options carries the run parameters the exporter acts on.
type Options struct {
	// ScenarioName scopes the myopic cleanup.
	ScenarioName string
	// Myopic requests the destructive pre-solve cleanup of prior
	// stored outputs for ScenarioName.
	Myopic bool
	// MGAMethod and MGPAMethod drive the auxiliary sweep sections.
	// Both are consulted independently; a run requesting both
	// techniques gets both techniques' sections.
	MGAMethod  sweep.Method
	MGPAMethod sweep.Method
}

// Report summarizes one export invocation. It replaces the stdout
// chatter of earlier tooling with structured counts the caller can log
// or print.
type Report struct {
	SectionsWritten int   `json:"sections_written"`
	RowsWritten     int   `json:"rows_written"`
	TablesSkipped   int   `json:"tables_skipped"`
	RowsPurged      int64 `json:"rows_purged"`
}

// Exporter writes flat-text datasets from relational snapshots against
// a fixed table schema.
type Exporter struct {
	specs []TableSpec
}

// New returns an Exporter over the embedded schema.
func New() (*Exporter, error) {
	specs, err := Schema()
	if err != nil {
		return nil, err
	}
	return &Exporter{specs: specs}, nil
}

// NewWithSchema returns an Exporter over an explicit schema.
// Intended for tests that exercise formatting against small tables.
func NewWithSchema(specs []TableSpec) *Exporter {
	return &Exporter{specs: specs}
}

// Run converts the relational snapshot at source into a flat-text
// dataset at dest.
//
// Sections appear in schema declaration order; a spec whose source
// table is absent, or whose filtered query returns zero rows,
// contributes zero bytes. Partial writes up to a failure remain on
// disk — there is no atomic-rename guarantee, and the caller decides
// whether to keep or discard a torn file.
func (e *Exporter) Run(ctx context.Context, source, dest string, opts Options) (*Report, error) {
	st, err := store.Open(source)
	if err != nil {
		return nil, &StorageError{Code: ErrCodeStorageOpen, Path: source, Err: err}
	}
	defer st.Close()

	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create dataset %s: %w", dest, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	// AMPL-style dataset header.
	fmt.Fprintf(w, "data ;\n\n")

	names, err := st.TableNames(ctx)
	if err != nil {
		return nil, &StorageError{Code: ErrCodeStorageQuery, Path: source, Err: err}
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	report := &Report{}
	for _, spec := range e.specs {
		if !existing[spec.Source] {
			continue
		}
		if err := e.writeSection(ctx, st, w, spec, report); err != nil {
			return report, err
		}
	}

	// Auxiliary sweep sections. The two techniques are consulted
	// independently, in this order.
	for _, method := range []sweep.Method{opts.MGAMethod, opts.MGPAMethod} {
		switch method {
		case sweep.MethodInteger, sweep.MethodRandom:
			if err := e.writeTechMGA(ctx, st, w, existing, report); err != nil {
				return report, err
			}
		case sweep.MethodNormalized:
			if err := e.writeTechSectors(ctx, st, w, existing, report); err != nil {
				return report, err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return report, fmt.Errorf("write dataset %s: %w", dest, err)
	}

	if opts.Myopic {
		purged, err := cleanupMyopic(ctx, st, opts.ScenarioName, existing)
		report.RowsPurged = purged
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// writeSection emits one schema-driven section, or nothing when the
// filtered query yields no rows.
func (e *Exporter) writeSection(ctx context.Context, st *store.Store, w *bufio.Writer, spec TableSpec, report *Report) error {
	where, args := spec.Filter.whereClause()
	rows, err := st.Select(ctx, "SELECT * FROM "+spec.Source+where, args...)
	if err != nil {
		return &StorageError{Code: ErrCodeStorageQuery, Path: st.Path(), Err: err}
	}
	if len(rows) == 0 {
		report.TablesSkipped++
		return nil
	}

	fmt.Fprintf(w, "%s %s := \n", spec.Kind, spec.Dest)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\n", formatRow(row, spec.CommentCol))
		report.RowsWritten++
	}
	fmt.Fprintf(w, ";\n\n")
	report.SectionsWritten++
	return nil
}

// writeTechMGA emits the sweep-eligible items section for the integer
// and random weighting methods.
func (e *Exporter) writeTechMGA(ctx context.Context, st *store.Store, w *bufio.Writer, existing map[string]bool, report *Report) error {
	if !existing[techMGATable] {
		return nil
	}
	rows, err := st.Select(ctx, "SELECT tech FROM "+techMGATable)
	if err != nil {
		return &StorageError{Code: ErrCodeStorageQuery, Path: st.Path(), Err: err}
	}

	fmt.Fprintf(w, "set %s :=\n", techMGATable)
	for _, row := range rows {
		fmt.Fprintf(w, "%s\n", norm.NFC.String(row[0]))
		report.RowsWritten++
	}
	fmt.Fprintf(w, ";\n\n")
	report.SectionsWritten++
	return nil
}

// writeTechSectors emits one section per distinct sector of the main
// items table for the normalized weighting method. Sectors are sorted
// so the output is reproducible run-to-run.
func (e *Exporter) writeTechSectors(ctx context.Context, st *store.Store, w *bufio.Writer, existing map[string]bool, report *Report) error {
	if !existing[technologiesTable] {
		return nil
	}
	rows, err := st.Select(ctx, "SELECT sector FROM "+technologiesTable)
	if err != nil {
		return &StorageError{Code: ErrCodeStorageQuery, Path: st.Path(), Err: err}
	}

	sectorSet := make(map[string]bool)
	for _, row := range rows {
		sectorSet[row[0]] = true
	}
	sectors := make([]string, 0, len(sectorSet))
	for s := range sectorSet {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)

	for _, sector := range sectors {
		techs, err := st.Select(ctx, "SELECT tech FROM "+technologiesTable+" WHERE sector = ?", sector)
		if err != nil {
			return &StorageError{Code: ErrCodeStorageQuery, Path: st.Path(), Err: err}
		}
		fmt.Fprintf(w, "set tech_%s :=\n", sector)
		for _, row := range techs {
			fmt.Fprintf(w, "%s\n", norm.NFC.String(row[0]))
			report.RowsWritten++
		}
		fmt.Fprintf(w, ";\n\n")
		report.SectionsWritten++
	}
	return nil
}

// cleanupMyopic purges prior stored outputs for the scenario across
// the fixed output-table list, then compacts the store. Destructive
// and non-reversible; rows for other scenarios are untouched.
func cleanupMyopic(ctx context.Context, st *store.Store, scenario string, existing map[string]bool) (int64, error) {
	var purged int64
	for _, table := range outputTables {
		if !existing[table] {
			continue
		}
		n, err := st.DeleteScenario(ctx, table, scenario)
		if err != nil {
			return purged, &StorageError{Code: ErrCodeStorageQuery, Path: st.Path(), Err: err}
		}
		purged += n
	}
	if err := st.Vacuum(ctx); err != nil {
		return purged, &StorageError{Code: ErrCodeStorageQuery, Path: st.Path(), Err: err}
	}
	return purged, nil
}

// formatRow renders one relational row as a dataset line.
//
// With commentCol 0 the row reduces to its single leading field. A
// positive commentCol splits the row there: leading fields joined by
// four spaces form the data portion, trailing fields likewise form a
// `# `-prefixed comment — omitted entirely when the trailing text is
// all whitespace, so lines never end in a bare marker.
func formatRow(fields []string, commentCol int) string {
	if commentCol <= 0 || commentCol >= len(fields) {
		if commentCol <= 0 {
			return norm.NFC.String(fields[0])
		}
		return joinFields(fields)
	}

	data := joinFields(fields[:commentCol])
	comment := joinFields(fields[commentCol:])
	if strings.TrimSpace(comment) == "" {
		return data
	}
	return data + "    # " + comment
}

// joinFields collapses fields into the dataset's whitespace-delimited
// form, NFC-normalizing each cell.
func joinFields(fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = norm.NFC.String(f)
	}
	return strings.Join(parts, "    ")
}
