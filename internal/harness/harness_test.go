package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DatSpookTho/Lanette/internal/config"
	"github.com/DatSpookTho/Lanette/internal/engine"
	"github.com/DatSpookTho/Lanette/internal/testutil"
)

func newTestHarness(t *testing.T) *Harness {
	t.Helper()
	e, err := engine.New(config.Default(), testutil.DexFS())
	require.NoError(t, err)
	return New(e)
}

func mustParse(t *testing.T, yaml string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(yaml))
	require.NoError(t, err)
	return s
}

// =============================================================================
// Run Tests
// =============================================================================

func TestRun_ScenarioFile(t *testing.T) {
	h := newTestHarness(t)
	s, err := LoadScenario("testdata/scenarios/eevee_gen7ou.yaml")
	require.NoError(t, err)

	result, err := h.Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Trace, 8)
}

func TestRun_SequenceRestartsPerRun(t *testing.T) {
	h := newTestHarness(t)
	s := mustParse(t, `
name: seq
description: d
flow:
  - invoke: Species
    args: { name: eevee }
`)
	first, err := h.Run(s)
	require.NoError(t, err)
	second, err := h.Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, int64(1), second.Trace[0].Seq)
	assert.Equal(t, int64(2), second.Trace[1].Seq)
}

func TestRun_CheckSetResult(t *testing.T) {
	h := newTestHarness(t)
	result, err := h.Run(mustParse(t, `
name: legal
description: d
flow:
  - invoke: CheckSet
    args: { format: gen7ou, species: Eevee, moves: [Curse, Dig] }
`))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	comp := result.Trace[1]
	assert.Equal(t, CaseLegal, comp.OutputCase)
	assert.Equal(t, "Eevee", comp.Result["species"])
	assert.Equal(t, map[string]any{"Curse": "ok", "Dig": "ok"}, comp.Result["moves"])
	assert.Equal(t, []any{"3Egrowlithe", "3Esmeargle"}, comp.Result["sources"])
}

// =============================================================================
// Expect Clause Tests
// =============================================================================

func TestRun_CaseMismatch(t *testing.T) {
	h := newTestHarness(t)
	result, err := h.Run(mustParse(t, `
name: mismatch
description: d
flow:
  - invoke: CheckSet
    args: { format: gen7ou, species: Eevee, moves: [Wish, Mimic] }
    expect:
      case: Legal
`))
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected case Legal, got Illegal")
}

func TestRun_ResultMismatch(t *testing.T) {
	h := newTestHarness(t)
	result, err := h.Run(mustParse(t, `
name: mismatch
description: d
flow:
  - invoke: Species
    args: { name: eevee }
    expect:
      case: Success
      result: { num: 134, color: Brown }
`))
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `result has no field "color"`)
	assert.Contains(t, result.Errors[1], "result.num: expected 134, got 133")
}

func TestRun_UnexpectedError(t *testing.T) {
	h := newTestHarness(t)
	result, err := h.Run(mustParse(t, `
name: unknown
description: d
flow:
  - invoke: RuleTable
    args: { format: gen7nothing }
`))
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error")
	assert.Equal(t, map[string]any{"code": "UNKNOWN_FORMAT"}, result.Trace[1].Result)
}

func TestRun_ExpectedError(t *testing.T) {
	h := newTestHarness(t)
	result, err := h.Run(mustParse(t, `
name: unknown
description: d
flow:
  - invoke: CheckSet
    args: { format: gen7ou, species: Missingno, moves: [Tackle] }
    expect:
      case: Error
      result: { code: UNKNOWN_ENTITY }
`))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MalformedArgs(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing format", "{ species: Eevee }", "args.format is required"},
		{"wrong type", "{ format: 7, species: Eevee }", "args.format must be a string"},
		{"level not int", "{ format: gen7ou, species: Eevee, level: high }", "args.level must be an integer"},
		{"moves not list", "{ format: gen7ou, species: Eevee, moves: Tackle }", "args.moves must be a list"},
		{"move not string", "{ format: gen7ou, species: Eevee, moves: [1] }", "args.moves[0] must be a string"},
	}

	h := newTestHarness(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Run(mustParse(t, "name: bad\ndescription: d\nflow:\n  - invoke: CheckSet\n    args: "+tt.args+"\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "flow step 0")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// =============================================================================
// Assertion Wiring Tests
// =============================================================================

func TestRun_RuleTableAssertion(t *testing.T) {
	h := newTestHarness(t)
	result, err := h.Run(mustParse(t, `
name: table
description: d
assertions:
  - type: rule_table
    format: "gen7ou@@@-Pikachu"
    has: ["-pokemon:pikachu"]
  - type: rule_table
    format: gen7ou
    has: ["-pokemon:pikachu"]
  - type: rule_table
    format: gen7nothing
    has: [standard]
`))
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "missing [-pokemon:pikachu]")
	assert.Contains(t, result.Errors[1], "gen7nothing compiles")
}
