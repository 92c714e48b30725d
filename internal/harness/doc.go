// Package harness runs step-driven scenarios described in YAML.
//
// A scenario pairs a computation, written as a script program, with the
// directive list that drives it:
//
//	name: plus-two
//	description: yields the response plus two
//	program:
//	  - yield: 1
//	  - yield: {ref: received, add: 2}
//	steps:
//	  - {yields: 1, returns: 3}
//	  - 5
//
// Run compiles the program, drives it with steps.Drive and evaluates the
// result with testify's equality. Results can be recorded in a
// store.Store and compared against golden snapshots.
//
// # Step forms
//
//   - bare value: a plain step expecting that value
//   - {value: X}: a plain step whose value is a mapping
//   - {yields: X, returns: R}: checked yield, resumed with R
//   - {skip: R}: unchecked yield, resumed with R
//   - {throws: X}: a throws directive carrying X
//   - {throws_match: S}: expects the computation to raise an error whose
//     message contains S
//   - {finishes: X, returns: R}: expects completion with X; a null
//     finishes expects completion with any value
//
// A returns value of the form {throws: X} injects X into the computation
// as an error instead of sending it.
//
// # Determinism
//
// Run IDs and seq numbers come from pluggable generators; tests use
// testutil.SequentialIDGenerator and testutil.DeterministicClock so that
// stored runs and golden files are byte-identical across runs.
package harness
