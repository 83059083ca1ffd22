// Package harness runs conformance scenarios against a Lanette engine.
//
// A scenario is a YAML file listing engine operations to invoke, the
// outcome each one must have, and assertions over the resulting trace.
// Scenarios pin down behavior that is awkward to express as Go tests:
// whole sets checked move by move, formats with custom rules, and rule
// tables compiled from a data tree under review.
//
// # Scenario Format
//
//	name: eevee_gen7ou
//	description: "Egg and event moves on Eevee"
//	flow:
//	  - invoke: CheckSet
//	    args: { format: gen7ou, species: Eevee, moves: [Curse, Dig] }
//	    expect:
//	      case: Legal
//	      result: { sources: [3Egrowlithe, 3Esmeargle] }
//	  - invoke: ValidateFormat
//	    args: { format: "gen7ou@@@Standard" }
//	    expect:
//	      case: Error
//	      result: { code: REDUNDANT_CUSTOM_RULES }
//	assertions:
//	  - type: rule_table
//	    format: gen7ou
//	    has: [speciesclause]
//	    lacks: ["-pokemon:pikachu"]
//
// # Operations
//
//   - CheckSet: format, species, moves, and optionally ability and level.
//     Completes as Legal or Illegal; the result maps each move to "ok" or
//     its conflict.
//   - RuleTable: format. Completes as Success with the ordered rule keys
//     and complex ban counts.
//   - ValidateFormat: format. Completes as Success with the canonical name.
//   - Species: name. Completes as Success with the name, number and tier.
//
// Any operation that fails completes as Error with the failure's code.
//
// # Assertion Types
//
//   - trace_contains: an operation was invoked with matching args
//   - trace_order: operations were invoked in the given order
//   - trace_count: an operation was invoked exactly N times
//   - rule_table: a format's compiled table has and lacks the given keys
//
// # Golden Files
//
// RunWithGolden compares a scenario's trace against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
