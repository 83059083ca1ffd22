package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DatSpookTho/Lanette/internal/testutil"
)

// execute runs the root command against a fresh copy of the fixture data.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := testutil.WriteDir(t, testutil.DexFS())
	return executeIn(t, dir, args...)
}

func executeIn(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

// =============================================================================
// Root Command Tests
// =============================================================================

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lanette", cmd.Use)
	assert.Contains(t, cmd.Long, "learnset legality")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"ruletable", "learnset", "validate-format", "dex", "formats", "params", "watch", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "data-dir", "current-gen", "max-rule-depth", "default-mod", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestLearnsetCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	learnsetCmd, _, err := cmd.Find([]string{"learnset"})
	require.NoError(t, err)

	for _, name := range []string{"rules", "ability", "level"} {
		assert.NotNil(t, learnsetCmd.Flags().Lookup(name), name)
	}
}

func TestParamsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	paramsCmd, _, err := cmd.Find([]string{"params"})
	require.NoError(t, err)

	countFlag := paramsCmd.Flags().Lookup("count")
	require.NotNil(t, countFlag)
	assert.Equal(t, "n", countFlag.Shorthand)
	assert.Equal(t, "2", countFlag.DefValue)

	minFlag := paramsCmd.Flags().Lookup("min")
	require.NotNil(t, minFlag)
	assert.Equal(t, "1", minFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := execute(t, "--format", "invalid", "ruletable", "gen7ou")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

// =============================================================================
// Configuration Tests
// =============================================================================

func TestMissingDataDir(t *testing.T) {
	out, err := executeIn(t, filepath.Join(t.TempDir(), "nope"), "formats")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [DATA_DIR_NOT_FOUND]")
}

func TestConfigFile(t *testing.T) {
	dir := testutil.WriteDir(t, testutil.DexFS())
	cfgFile := filepath.Join(t.TempDir(), "lanette.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("default_mod: gen4\n"), 0o644))

	out, err := executeIn(t, dir, "--config", cfgFile, "dex", "species", "Eevee")
	require.NoError(t, err)
	assert.Contains(t, out, "abilities: Run Away, Adaptability\n")
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("LANETTE_DEFAULT_MOD", "gen4")
	out, err := execute(t, "dex", "species", "Eevee")
	require.NoError(t, err)
	assert.NotContains(t, out, "Anticipation")
}

func TestInvalidConfig(t *testing.T) {
	out, err := execute(t, "--current-gen", "9", "formats")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [CONFIG_ERROR]")
	assert.Contains(t, out, "current_gen")
}

// =============================================================================
// Rule Table Tests
// =============================================================================

func TestRuleTable_Text(t *testing.T) {
	out, err := execute(t, "ruletable", "gen7combo")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ruletable_gen7combo", []byte(out))
}

func TestRuleTable_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "ruletable", "gen7ou@@@-Pikachu")
	require.NoError(t, err)

	resp, data := decode(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "[Gen 7] OU", data["format"])
	table, ok := data["table"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, table, "rules")
}

func TestRuleTable_UnknownFormat(t *testing.T) {
	out, err := execute(t, "ruletable", "gen7nothing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [UNKNOWN_FORMAT]")
}

// =============================================================================
// Validate Format Tests
// =============================================================================

func TestValidateFormat(t *testing.T) {
	out, err := execute(t, "validate-format", "gen7ou@@@+Uber")
	require.NoError(t, err)
	assert.Equal(t, "gen7ou@@@+Uber\n", out)
}

func TestValidateFormat_Redundant(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate-format", "gen7ou@@@Standard")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "REDUNDANT_CUSTOM_RULES")

	resp, _ := decode(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REDUNDANT_CUSTOM_RULES", resp.Error.Code)
}

// =============================================================================
// Learnset Tests
// =============================================================================

func TestLearnset_Legal(t *testing.T) {
	out, err := execute(t, "learnset", "Eevee", "Curse", "Dig", "--rules", "gen7ou")
	require.NoError(t, err)
	assert.Contains(t, out, "Eevee in [Gen 7] OU")
	assert.Contains(t, out, "  Curse: ok\n")
	assert.Contains(t, out, "sources: 3Egrowlithe, 3Esmeargle")
	assert.Contains(t, out, "✓ legal")
}

func TestLearnset_DefaultRules(t *testing.T) {
	out, err := execute(t, "learnset", "Eevee", "Tackle")
	require.NoError(t, err)
	assert.Contains(t, out, "[Gen 7] OU")
}

func TestLearnset_Illegal(t *testing.T) {
	out, err := execute(t, "--format", "json", "learnset", "Eevee", "Wish", "Mimic")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decode(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, false, data["legal"])

	check := data["check"].(map[string]any)
	moves := check["moves"].([]any)
	require.Len(t, moves, 2)
	mimic := moves[1].(map[string]any)
	assert.Equal(t, "Mimic", mimic["move"])
	assert.Equal(t, map[string]any{"type": "incompatible"}, mimic["conflict"])
}

func TestLearnset_UnknownSpecies(t *testing.T) {
	out, err := execute(t, "learnset", "Missingno", "Tackle")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [UNKNOWN_ENTITY]")
}

// =============================================================================
// Dex Tests
// =============================================================================

func TestDex_Species(t *testing.T) {
	out, err := execute(t, "dex", "species", "eevee")
	require.NoError(t, err)
	assert.Contains(t, out, "Eevee #133 [Normal] gen 1 tier LC\n")
	assert.Contains(t, out, "abilities: Run Away, Adaptability, H: Anticipation\n")
	assert.Contains(t, out, "base stats: 55/55/50/45/65/55 (325)\n")
	assert.Contains(t, out, "evos: Vaporeon")
}

func TestDex_SpeciesMod(t *testing.T) {
	out, err := execute(t, "dex", "species", "--mod", "gen4", "Eevee")
	require.NoError(t, err)
	assert.NotContains(t, out, "Anticipation")
}

func TestDex_MoveJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "dex", "move", "ES")
	require.NoError(t, err)
	_, data := decode(t, out)
	assert.Equal(t, "extremespeed", data["id"])
	assert.Equal(t, "Extreme Speed", data["name"])
	assert.Equal(t, float64(2), data["priority"])
}

func TestDex_Item(t *testing.T) {
	out, err := execute(t, "dex", "item", "lefties")
	require.NoError(t, err)
	assert.Equal(t, "Leftovers #234 gen 2\n", out)
}

func TestDex_UnknownAbility(t *testing.T) {
	out, err := execute(t, "dex", "ability", "Wonder Guard")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [UNKNOWN_ENTITY]")
}

// =============================================================================
// Formats Tests
// =============================================================================

func TestFormats_List(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "gen7ou\n")
}

func TestFormats_Check(t *testing.T) {
	out, err := execute(t, "formats", "--check")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "formats fail to compile")
	assert.Contains(t, out, "  gen7selfcycle: ")
}

// =============================================================================
// Params Tests
// =============================================================================

func TestParams_Intersect(t *testing.T) {
	out, err := execute(t, "params", "Normal type", "Field Group")
	require.NoError(t, err)
	assert.Equal(t, "Field Group and Normal type: eevee, smeargle\n", out)
}

func TestParams_IntersectNothing(t *testing.T) {
	out, err := execute(t, "params", "Nonsense")
	require.NoError(t, err)
	assert.Equal(t, "No Pokémon match\n", out)
}

func TestParams_SearchJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "params", "--seed", "1,2", "--min", "2", "--max", "5")
	require.NoError(t, err)

	resp, data := decode(t, out)
	assert.NotEmpty(t, resp.RequestID)
	assert.Len(t, data["params"], 2)
	pokemon := data["pokemon"].([]any)
	assert.GreaterOrEqual(t, len(pokemon), 2)
	assert.LessOrEqual(t, len(pokemon), 5)
	assert.Contains(t, data, "prngSeed")
}

func TestParams_SearchDeterministic(t *testing.T) {
	first, err := execute(t, "params", "--seed", "7,9")
	require.NoError(t, err)
	second, err := execute(t, "params", "--seed", "7,9")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "next seed: ")
}

func TestParams_BadSeed(t *testing.T) {
	out, err := execute(t, "params", "--seed", "x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [BAD_FLAG]")
}

func TestParams_BadType(t *testing.T) {
	out, err := execute(t, "params", "--types", "shape")
	require.Error(t, err)
	assert.Contains(t, out, "Error [UNKNOWN_PARAM_TYPE]")
}

func TestParseSeed(t *testing.T) {
	seed, err := parseSeed("1, 2")
	require.NoError(t, err)
	assert.Equal(t, [2]uint64{1, 2}, [2]uint64(seed))

	_, err = parseSeed("1")
	assert.Error(t, err)
	_, err = parseSeed("1,-2")
	assert.Error(t, err)
}

// =============================================================================
// Watch Tests
// =============================================================================

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := testutil.WriteDir(t, testutil.DexFS())
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data-dir", dir, "watch", "--debounce", "20ms"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.NoError(t, cmd.ExecuteContext(ctx))
}

// =============================================================================
// Test Command Tests
// =============================================================================

const passingScenario = `name: eevee
description: "Eevee entry and a legal set"
flow:
  - invoke: Species
    args: { name: eevee }
    expect:
      case: Success
      result: { num: 133 }
  - invoke: CheckSet
    args: { format: gen7ou, species: Eevee, moves: [Curse, Dig] }
    expect:
      case: Legal
`

const failingScenario = `name: wrong
description: "Expects the wrong dex number"
flow:
  - invoke: Species
    args: { name: eevee }
    expect:
      case: Success
      result: { num: 1 }
`

func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTest_Pass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"eevee.yaml": passingScenario})
	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ eevee")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_FailJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"eevee.yaml": passingScenario, "wrong.yaml": failingScenario})
	out, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, data := decode(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(1), data["failed"])
}

func TestTest_Filter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"eevee.yaml": passingScenario, "wrong.yaml": failingScenario})
	out, err := execute(t, "test", dir, "--filter", "ee*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"eevee.yaml": passingScenario})

	_, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	golden := filepath.Join(dir, "golden", "eevee.golden")
	require.FileExists(t, golden)

	_, err = execute(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0o644))
	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTest_LoadError(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken.yaml": "name: broken\n"})
	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTest_MissingDir(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_NoScenarios(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}
