package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Loading Tests
// =============================================================================

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/eevee_gen7ou.yaml")
	require.NoError(t, err)

	assert.Equal(t, "eevee_gen7ou", s.Name)
	require.Len(t, s.Flow, 4)
	assert.Equal(t, OpCheckSet, s.Flow[0].Invoke)
	assert.Equal(t, []any{"Curse", "Dig"}, s.Flow[0].Args["moves"])
	require.NotNil(t, s.Flow[0].Expect)
	assert.Equal(t, CaseLegal, s.Flow[0].Expect.Case)
	require.Len(t, s.Assertions, 4)
	assert.Equal(t, AssertRuleTable, s.Assertions[3].Type)
	assert.Equal(t, []string{"-pokemon:pikachu"}, s.Assertions[3].Lacks)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled key"
flow:
  - invoke: Species
    args: { name: eevee }
assertion: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\nflow: [{invoke: Species, args: {name: eevee}}]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\nflow: [{invoke: Species, args: {name: eevee}}]\n",
			want: "description is required",
		},
		{
			name: "empty",
			yaml: "name: n\ndescription: d\n",
			want: "flow or assertions must be non-empty",
		},
		{
			name: "unknown operation",
			yaml: "name: n\ndescription: d\nflow: [{invoke: Battle, args: {}}]\n",
			want: `flow[0]: unknown operation "Battle"`,
		},
		{
			name: "missing args",
			yaml: "name: n\ndescription: d\nflow: [{invoke: Species}]\n",
			want: "flow[0]: args is required",
		},
		{
			name: "missing case",
			yaml: "name: n\ndescription: d\nflow: [{invoke: Species, args: {name: eevee}, expect: {result: {num: 133}}}]\n",
			want: "flow[0].expect: case is required",
		},
		{
			name: "unknown case",
			yaml: "name: n\ndescription: d\nflow: [{invoke: Species, args: {name: eevee}, expect: {case: Maybe}}]\n",
			want: `flow[0].expect: unknown case "Maybe"`,
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\nassertions: [{type: final_state}]\n",
			want: `assertions[0]: unknown assertion type "final_state"`,
		},
		{
			name: "trace_order without invokes",
			yaml: "name: n\ndescription: d\nassertions: [{type: trace_order}]\n",
			want: "invokes list is required",
		},
		{
			name: "negative count",
			yaml: "name: n\ndescription: d\nassertions: [{type: trace_count, invoke: Species, count: -1}]\n",
			want: "count must be non-negative",
		},
		{
			name: "rule_table without keys",
			yaml: "name: n\ndescription: d\nassertions: [{type: rule_table, format: gen7ou}]\n",
			want: "has or lacks is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_AssertionsOnly(t *testing.T) {
	s, err := ParseScenario([]byte("name: n\ndescription: d\nassertions: [{type: rule_table, format: gen7ou, has: [standard]}]\n"))
	require.NoError(t, err)
	assert.Empty(t, s.Flow)
}

// =============================================================================
// Discovery Tests
// =============================================================================

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "golden/a.yaml", "nested/c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))
	}

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	files, err = FindScenarios(dir, "[ab]")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = FindScenarios(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}
