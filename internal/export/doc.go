// Package export converts relational model snapshots into the
// sectioned flat-text dataset the optimization engine consumes.
//
// The conversion is table-driven: an embedded CUE document declares,
// for each exporter unit, the source table, the destination section
// name, an optional flag filter, and the column index where inline
// commentary begins. The schema is static — compiled and validated
// once per process — and the exporter walks it in declaration order,
// emitting one `set`/`param` section per table that exists in the
// source and yields rows.
//
// Besides the schema-driven sections, the exporter appends auxiliary
// sweep sections when the run requests an alternatives sweep, and
// purges prior stored outputs for the scenario when an incremental
// (myopic) re-solve is requested.
package export
