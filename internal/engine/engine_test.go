package engine

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DatSpookTho/Lanette/internal/config"
	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/learnset"
	"github.com/DatSpookTho/Lanette/internal/rules"
	"github.com/DatSpookTho/Lanette/internal/testutil"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, fstest.MapFS) {
	t.Helper()
	fsys := testutil.DexFS()
	e, err := New(config.Default(), fsys, opts...)
	require.NoError(t, err)
	return e, fsys
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestEngine_New(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Contains(t, e.Mods(), "base")
	assert.Contains(t, e.Mods(), "gen4")
	assert.Equal(t, 7, e.Config().CurrentGen)
}

func TestEngine_NewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxRuleDepth = 0
	_, err := New(cfg, testutil.DexFS())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_rule_depth")
}

// =============================================================================
// Accessor Tests
// =============================================================================

func TestEngine_Entities(t *testing.T) {
	e, _ := newTestEngine(t)

	s, err := e.Species("eevee")
	require.NoError(t, err)
	assert.Equal(t, "Eevee", s.Name)

	m, err := e.Move("Extreme Speed")
	require.NoError(t, err)
	assert.Equal(t, "extremespeed", m.ID)

	it, err := e.Item("Leftovers")
	require.NoError(t, err)
	assert.Equal(t, 2, it.Gen)

	a, err := e.Ability("Anticipation")
	require.NoError(t, err)
	assert.Equal(t, "anticipation", a.ID)

	_, err = e.Species("Missingno")
	assert.True(t, IsEngineError(err, ErrCodeUnknownEntity))
}

func TestEngine_DexByMod(t *testing.T) {
	e, _ := newTestEngine(t)

	d, err := e.Dex("gen4")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Gen())

	eevee, ok := d.Species("Eevee")
	require.True(t, ok)
	assert.Empty(t, eevee.Abilities.Hidden)

	_, err = e.Dex("gen9")
	require.Error(t, err)
}

func TestEngine_Format(t *testing.T) {
	e, _ := newTestEngine(t)

	f, err := e.Format("gen7ou")
	require.NoError(t, err)
	assert.Equal(t, "[Gen 7] OU", f.Name)

	_, err = e.Format("gen7nothing")
	assert.True(t, IsEngineError(err, ErrCodeUnknownFormat))
	assert.Contains(t, e.Formats(), "gen7combo")
}

// =============================================================================
// Rule Tests
// =============================================================================

func TestEngine_RuleTable(t *testing.T) {
	e, _ := newTestEngine(t)

	table, f, err := e.RuleTable("gen7combo")
	require.NoError(t, err)
	assert.Equal(t, "gen7combo", f.ID)
	assert.True(t, table.Has("speciesclause"))
	assert.Len(t, table.ComplexTeamBans, 2)

	again, _, err := e.RuleTable("gen7combo")
	require.NoError(t, err)
	assert.Same(t, table, again)
}

func TestEngine_RuleTableValidatesCustomRules(t *testing.T) {
	e, _ := newTestEngine(t)

	table, f, err := e.RuleTable("gen7ou@@@-Pikachu")
	require.NoError(t, err)
	assert.Equal(t, []string{"-Pikachu"}, f.CustomRules)
	assert.True(t, table.Has("-pokemon:pikachu"))

	_, _, err = e.RuleTable("gen7ou@@@-Missingno")
	assert.True(t, rules.IsRuleError(err, rules.ErrCodeNothingMatches))
}

func TestEngine_RuleTableUsesFormatMod(t *testing.T) {
	e, _ := newTestEngine(t)

	table, f, err := e.RuleTable("gen6ou")
	require.NoError(t, err)
	assert.Equal(t, "gen6", f.Mod)
	assert.True(t, table.Has("-pokemontag:uber"))
}

func TestEngine_ValidateFormat(t *testing.T) {
	e, _ := newTestEngine(t)

	got, err := e.ValidateFormat("gen7ou@@@+Uber")
	require.NoError(t, err)
	assert.Equal(t, "gen7ou@@@+Uber", got)

	_, err = e.ValidateFormat("gen7ou@@@Standard")
	assert.True(t, rules.IsRuleError(err, rules.ErrCodeRedundantCustomRules))

	_, err = e.ValidateFormat("nosuchformat@@@-Pikachu")
	assert.True(t, rules.IsRuleError(err, rules.ErrCodeUnrecognizedFormat))
}

func TestEngine_CompileAll(t *testing.T) {
	e, _ := newTestEngine(t)

	failures := e.CompileAll()
	for _, id := range []string{"gen7selfcycle", "gen7cyclea", "gen7unknownrule", "gen7ambiguous", "gen7confusing", "gen7hookconflict"} {
		assert.Contains(t, failures, id)
	}
	assert.NotContains(t, failures, "gen7ou")
	assert.NotContains(t, failures, "gen7combo")
	assert.True(t, rules.IsRuleError(failures["gen7selfcycle"], rules.ErrCodeExcessiveRecursion))
}

// =============================================================================
// Learnset Tests
// =============================================================================

func TestEngine_CheckSet(t *testing.T) {
	e, _ := newTestEngine(t)

	res, err := e.CheckSet(SetRequest{Format: "gen7ou", Species: "Eevee", Moves: []string{"Curse", "Dig"}})
	require.NoError(t, err)
	assert.True(t, res.Legal())
	assert.Equal(t, []string{"3Egrowlithe", "3Esmeargle"}, res.Query.SourceStrings())

	res, err = e.CheckSet(SetRequest{Format: "gen7ou", Species: "Eevee", Moves: []string{"Wish", "Mimic"}})
	require.NoError(t, err)
	assert.False(t, res.Legal())
	assert.Nil(t, res.Moves[0].Conflict)
	assert.Equal(t, &learnset.Conflict{Kind: learnset.ConflictIncompatible}, res.Moves[1].Conflict)
}

func TestEngine_CheckSetHooks(t *testing.T) {
	e, _ := newTestEngine(t)
	res, err := e.CheckSet(SetRequest{Format: "gen7hooked", Species: "Eevee", Moves: []string{"Surf"}})
	require.NoError(t, err)
	assert.True(t, res.Legal())

	called := false
	e, _ = newTestEngine(t, WithHook("alwaysLegal", func(*learnset.Checker, *dex.Move, *dex.Species, *learnset.Query, learnset.Settings) (*learnset.Conflict, error) {
		called = true
		return &learnset.Conflict{Kind: learnset.ConflictInvalid}, nil
	}))
	res, err = e.CheckSet(SetRequest{Format: "gen7hooked", Species: "Eevee", Moves: []string{"Tackle"}})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, res.Legal())
}

func TestEngine_CheckLearnset(t *testing.T) {
	e, _ := newTestEngine(t)
	table, f, err := e.RuleTable("gen7pentagon")
	require.NoError(t, err)
	eevee, err := e.Species("Eevee")
	require.NoError(t, err)
	mimic, err := e.Move("Mimic")
	require.NoError(t, err)
	q, err := e.NewQuery("")
	require.NoError(t, err)

	conflict, err := e.CheckLearnset(mimic, eevee, q, learnset.Settings{Format: f, RuleTable: table})
	require.NoError(t, err)
	assert.Equal(t, &learnset.Conflict{Kind: learnset.ConflictPastGenerationOnly, Gen: 6}, conflict)
}

// =============================================================================
// Reload Tests
// =============================================================================

func TestEngine_ReloadPicksUpChanges(t *testing.T) {
	e, fsys := newTestEngine(t)

	before, err := e.Dex("")
	require.NoError(t, err)
	table, _, err := e.RuleTable("gen7ou")
	require.NoError(t, err)

	fsys["aliases.yaml"] = &fstest.MapFile{Data: append(append([]byte{}, fsys["aliases.yaml"].Data...), []byte("\npikapika: Pikachu\n")...)}
	_, err = e.Species("Pika Pika")
	require.Error(t, err)

	require.NoError(t, e.Reload())

	s, err := e.Species("Pika Pika")
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", s.Name)

	after, err := e.Dex("")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.NotSame(t, before.Tags(), after.Tags())

	fresh, _, err := e.RuleTable("gen7ou")
	require.NoError(t, err)
	assert.NotSame(t, table, fresh)
}

func TestEngine_FailedReloadKeepsData(t *testing.T) {
	e, fsys := newTestEngine(t)

	fsys["pokedex.yaml"] = &fstest.MapFile{Data: []byte("eevee: [unclosed\n")}
	err := e.Reload()
	require.Error(t, err)
	assert.True(t, IsEngineError(err, ErrCodeReloadFailed))

	s, err := e.Species("Eevee")
	require.NoError(t, err)
	assert.Equal(t, "Eevee", s.Name)
}

func TestEngine_ConcurrentReadsDuringReload(t *testing.T) {
	e, _ := newTestEngine(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, _, err := e.RuleTable("gen7combo"); err != nil {
					errs <- err
				}
				if _, err := e.CheckSet(SetRequest{Format: "gen7ou", Species: "Eevee", Moves: []string{"Curse"}}); err != nil {
					errs <- err
				}
			}
		}()
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, e.Reload())
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
