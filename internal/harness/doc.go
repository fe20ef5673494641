// Package harness runs scripted scenarios against seq.Vec and journals
// every operation.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	run_id: fixed-run-id            # optional
//	initial: [1, 2, 3, 4]
//	steps:
//	  - op: remove
//	    index: 0
//	    expect:
//	      outcome: ok
//	      value: 1
//	  - op: insert
//	    index: 3
//	    value: 5
//	    expect:
//	      outcome: out_of_range
//	assertions:
//	  - type: final_sequence
//	    expect: [2, 3, 4]
//	  - type: outcome_count
//	    outcome: out_of_range
//	    count: 1
//
// Elements are IR values: strings, integers, booleans, lists and maps.
// Floats and nulls are rejected.
//
// # Operations
//
//   - has_index: ok when the index is live
//   - get: ok with the element at the index
//   - remove: ok with the removed element; the tail shifts left
//   - insert: ok when the index is live; the tail shifts right
//
// Every operation that cannot act reports out_of_range. Insert at the
// current length is out_of_range.
//
// # Assertion Types
//
//   - final_sequence: the sequence after the last step equals expect
//   - final_length: the sequence length after the last step
//   - outcome_count: number of journaled ops with the outcome (optionally per op)
//   - op_order: the listed ops appear in the trace in this relative order
//
// # Determinism
//
// Steps are stamped by a logical clock starting at 1. Run IDs come from a
// RunIDGenerator; Run uses a fixed ID so golden traces are byte-identical
// across runs. Journals can be replayed with Replay to verify that the
// same ops over the same initial sequence yield the same outcomes.
package harness
