// Package testutil provides shared fixtures for tests: seeded SQLite
// model databases shaped like the snapshots the exporter consumes.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// modelSchema is a trimmed model snapshot: enough tables to exercise
// filters, comment columns, auxiliary sweep sections, and the myopic
// cleanup, without dragging a full model database into the repo.
const modelSchema = `
CREATE TABLE time_season (t_season TEXT);
CREATE TABLE technologies (tech TEXT, flag TEXT, sector TEXT, tech_desc TEXT);
CREATE TABLE commodities (comm_name TEXT, flag TEXT, comm_desc TEXT);
CREATE TABLE SegFrac (season_name TEXT, time_of_day_name TEXT, segfrac REAL, segfrac_notes TEXT);
CREATE TABLE Demand (region TEXT, periods INTEGER, demand_comm TEXT, demand REAL, demand_units TEXT, demand_notes TEXT);
CREATE TABLE tech_mga (tech TEXT);
CREATE TABLE Output_Objective (scenario TEXT, objective_name TEXT, total_system_cost REAL);
CREATE TABLE Output_Costs (scenario TEXT, sector TEXT, output_name TEXT, tech TEXT, output_cost REAL);
CREATE TABLE Output_Emissions (scenario TEXT, sector TEXT, emissions_comm TEXT, tech TEXT, emissions REAL);
CREATE TABLE Output_CapacityByPeriodAndTech (scenario TEXT, sector TEXT, t_periods INTEGER, tech TEXT, capacity REAL);
CREATE TABLE Output_VFlow_In (scenario TEXT, tech TEXT, vflow_in REAL);
CREATE TABLE Output_VFlow_Out (scenario TEXT, tech TEXT, vflow_out REAL);
CREATE TABLE Output_V_Capacity (scenario TEXT, tech TEXT, capacity REAL);
CREATE TABLE Output_Curtailment (scenario TEXT, tech TEXT, curtailment REAL);
CREATE TABLE Output_Duals (scenario TEXT, constraint_name TEXT, dual REAL);
`

// modelRows seeds deterministic fixture data.
var modelRows = []string{
	`INSERT INTO time_season VALUES ('winter'), ('summer')`,
	`INSERT INTO technologies VALUES
		('E_COAL', 'p',  'electric',  'coal plant'),
		('E_HYDRO','pb', 'electric',  'hydro plant'),
		('E_BATT', 'ps', 'electric',  'battery'),
		('S_IMP',  'r',  'supply',    'import')`,
	`INSERT INTO commodities VALUES
		('ethos', 'p', 'dummy source'),
		('co2',   'e', 'carbon dioxide'),
		('elc',   'd', 'electricity demand')`,
	`INSERT INTO SegFrac VALUES
		('winter', 'day',   0.25, 'W-D fraction'),
		('winter', 'night', 0.25, ''),
		('summer', 'day',   0.5,  'S-D fraction')`,
	`INSERT INTO Demand VALUES
		('RG1', 2025, 'elc', 100.5, 'PJ', 'baseline demand')`,
	`INSERT INTO tech_mga VALUES ('E_COAL'), ('E_HYDRO')`,
	`INSERT INTO Output_Objective VALUES
		('base', 'TotalCost', 42.0),
		('other', 'TotalCost', 7.0)`,
	`INSERT INTO Output_Costs VALUES
		('base', 'electric', 'V_Cost', 'E_COAL', 12.5)`,
	`INSERT INTO Output_Emissions VALUES
		('base', 'electric', 'co2', 'E_COAL', 99.0)`,
}

// SeedModelDB creates a seeded model database under dir and returns
// its path. Fails the test on any error.
func SeedModelDB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "model.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(modelSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	for _, stmt := range modelRows {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed fixture rows: %v", err)
		}
	}
	return path
}

// EmptyModelDB creates a model database containing only the schema,
// for exercising the zero-row skip rule.
func EmptyModelDB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "empty.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(modelSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	return path
}
