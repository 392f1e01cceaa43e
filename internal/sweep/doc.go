// Package sweep implements scenario expansion for the three sweep
// techniques a run configuration may request: MGA (modeling to generate
// alternatives), MOO (multi-objective optimization), and MGPA (a nested
// combination of the two).
//
// Each technique owns an independent pair of FIFO queues: pending
// scenario names waiting to be solved, and done names already handed to
// the optimization engine. The external driver advances one technique at
// a time from a single control loop; nothing here is concurrent.
//
// Scenario names are derived deterministically from the base scenario
// name. Downstream artifact and log filenames are built from these
// names, so the affixes and ordering are a compatibility contract:
//
//	MGA:  <base>_mga_0 .. <base>_mga_<iterations-1>
//	MOO:  <base>_moo_0 .. <base>_moo_<ncaps-1>
//	MGPA: for each cap i: <base>_moo_<i>, then
//	      <base>_moo_<i>_mga_0 .. <base>_moo_<i>_mga_<iterations-1>
//
// MGPA reuses the _moo_ affix for its outer cap entries and the _mga_
// affix for its inner iterations. That sharing is inherited from the
// established naming scheme and must not be "fixed".
package sweep
