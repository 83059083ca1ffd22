package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DatSpookTho/Lanette/internal/testutil"
)

func fixtureRegistry(t *testing.T) *Registry {
	t.Helper()
	return newTestRegistry(t, testutil.DexFS())
}

// =============================================================================
// Species Tests
// =============================================================================

func TestSpeciesDerivedFields(t *testing.T) {
	d := fixtureRegistry(t).Base()

	eevee, ok := d.Species("Eevee")
	require.True(t, ok)
	assert.Equal(t, "eevee", eevee.ID)
	assert.Equal(t, 1, eevee.Gen)
	assert.Equal(t, "LC", eevee.Tier)
	assert.Equal(t, "LC", eevee.DoublesTier)
	assert.Equal(t, GenderRatio{M: 0.875, F: 0.125}, eevee.GenderRatio)
	assert.True(t, eevee.NFE)
	assert.False(t, eevee.IsForme())
	assert.Equal(t, "eevee", eevee.SpriteID)
	assert.Equal(t, "Evolution", eevee.Category)
	assert.True(t, eevee.HasLearnset())
	assert.False(t, eevee.PseudoLC)

	smeargle := d.MustSpecies("smeargle")
	assert.Equal(t, GenderRatio{M: 0.5, F: 0.5}, smeargle.GenderRatio)
	assert.Equal(t, 2, smeargle.Gen)
	assert.False(t, smeargle.NFE)

	rotom := d.MustSpecies("Rotom")
	assert.Equal(t, GenderRatio{}, rotom.GenderRatio)
	assert.Equal(t, 4, rotom.Gen)
}

func TestSpeciesFormes(t *testing.T) {
	d := fixtureRegistry(t).Base()

	alola := d.MustSpecies("Raichu-Alola")
	assert.True(t, alola.IsForme())
	assert.Equal(t, "Raichu", alola.BaseSpecies)
	assert.Equal(t, 7, alola.Gen)
	assert.Equal(t, "PU", alola.Tier)
	assert.Equal(t, "DUU", alola.DoublesTier)
	assert.Equal(t, "raichu-alola", alola.SpriteID)

	totem := d.MustSpecies("Raichu-Alola-Totem")
	assert.Equal(t, "PU", totem.Tier, "totem formes take the non-totem forme's tier")
	assert.Equal(t, "DUU", totem.DoublesTier)

	mega := d.MustSpecies("Venusaur-Mega")
	assert.Equal(t, 6, mega.Gen)
	assert.True(t, mega.IsMega)
	assert.True(t, mega.BattleOnly)
	assert.Equal(t, "UU", mega.Tier, "formes without tiers inherit the base species'")
}

func TestSpeciesTierRemapsLegacyLabel(t *testing.T) {
	d := fixtureRegistry(t).Base()
	assert.Equal(t, "ZU", d.MustSpecies("Dragonair").Tier)
}

func TestSpeciesNewerThanModAreIllegal(t *testing.T) {
	r := fixtureRegistry(t)
	gen6 := r.MustDex("gen6")

	rockruff := gen6.MustSpecies("Rockruff")
	assert.Equal(t, 7, rockruff.Gen)
	assert.Equal(t, "Illegal", rockruff.Tier)
	assert.Equal(t, "Illegal", rockruff.DoublesTier)

	assert.Equal(t, "LC", r.Base().MustSpecies("Rockruff").Tier)
}

func TestSpeciesAliasAndMiss(t *testing.T) {
	d := fixtureRegistry(t).Base()

	s, ok := d.Species("Sparky")
	require.True(t, ok)
	assert.Equal(t, "Pikachu", s.Name)

	_, ok = d.Species("Missingno")
	assert.False(t, ok)
	assert.Panics(t, func() { d.MustSpecies("Missingno") })
}

func TestSpeciesCachedPerDex(t *testing.T) {
	r := fixtureRegistry(t)
	base := r.Base()
	assert.Same(t, base.MustSpecies("Eevee"), base.MustSpecies("eevee"))
	assert.NotSame(t, base.MustSpecies("Eevee"), r.MustDex("gen4").MustSpecies("Eevee"))
}

func TestSpeciesAllPossibleMoves(t *testing.T) {
	d := fixtureRegistry(t).Base()

	assert.Equal(t, []string{"growl", "thunderbolt"}, d.MustSpecies("Pikachu").AllPossibleMoves)
	assert.Equal(t, []string{"shadowball", "thunderbolt"}, d.MustSpecies("Rotom-Wash").AllPossibleMoves)
	assert.Equal(t, []string{"surf", "extremespeed", "tackle"}, d.MustSpecies("Dragonite").AllPossibleMoves)
}

func TestSpeciesModOverride(t *testing.T) {
	r := fixtureRegistry(t)

	gen4 := r.MustDex("gen4").MustSpecies("Eevee")
	assert.Empty(t, gen4.Abilities.Hidden)
	assert.Equal(t, "Adaptability", gen4.Abilities.Second)

	gen3 := r.MustDex("gen3").MustSpecies("Eevee")
	assert.Empty(t, gen3.Abilities.Hidden, "overrides carry down the chain")

	assert.Equal(t, "Anticipation", r.MustDex("gen5").MustSpecies("Eevee").Abilities.Hidden)
}

func TestEvolutionLines(t *testing.T) {
	d := fixtureRegistry(t).Base()

	assert.Equal(t, [][]string{
		{"Pichu", "Pikachu", "Raichu"},
		{"Pichu", "Pikachu", "Raichu-Alola"},
	}, d.EvolutionLines(d.MustSpecies("Pikachu")))

	assert.Equal(t, [][]string{
		{"Pichu", "Pikachu", "Raichu"},
	}, d.EvolutionLines(d.MustSpecies("Raichu")))

	assert.Equal(t, [][]string{{"Tentacool"}}, d.EvolutionLines(d.MustSpecies("Tentacool")))
}

// =============================================================================
// Move, Item and Ability Tests
// =============================================================================

func TestMoveDerivedFields(t *testing.T) {
	d := fixtureRegistry(t).Base()

	tackle := d.MustMove("Tackle")
	assert.Equal(t, 1, tackle.Gen)
	assert.Equal(t, 1, tackle.CritRatio)
	assert.Equal(t, 0, tackle.Priority)
	assert.Equal(t, 1, tackle.Flags["contact"])
	assert.Equal(t, "Normal", tackle.BaseMoveType)
	assert.False(t, tackle.IgnoreImmunity)

	growl := d.MustMove("Growl")
	assert.True(t, growl.IgnoreImmunity)
	assert.NotNil(t, growl.Flags)

	es, ok := d.Move("ES")
	require.True(t, ok)
	assert.Equal(t, "extremespeed", es.ID)
	assert.Equal(t, 2, es.Priority)
	assert.Equal(t, 2, es.Gen)

	assert.Equal(t, 2, d.MustMove("Sketch").Gen)
	assert.Equal(t, 4, d.MustMove("Defog").Gen)
	assert.Equal(t, 7, d.MustMove("Catastropika").Gen)
}

func TestItemDerivedFields(t *testing.T) {
	d := fixtureRegistry(t).Base()

	tests := []struct {
		name  string
		gen   int
		fling int
	}{
		{"Choice Band", 3, 10},
		{"Sitrus Berry", 3, 10},
		{"Flame Plate", 4, 90},
		{"Douse Drive", 5, 70},
		{"Venusaurite", 6, 80},
		{"Fire Memory", 7, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := d.MustItem(tt.name)
			assert.Equal(t, tt.gen, it.Gen)
			require.NotNil(t, it.Fling)
			assert.Equal(t, tt.fling, it.Fling.BasePower)
		})
	}

	lefties, ok := d.Item("lefties")
	require.True(t, ok)
	assert.Equal(t, "Leftovers", lefties.Name)
	assert.Equal(t, 2, lefties.Gen)
	assert.Nil(t, lefties.Fling)
}

func TestAbilityGen(t *testing.T) {
	d := fixtureRegistry(t).Base()

	assert.Equal(t, 3, d.MustAbility("Static").Gen)
	assert.Equal(t, 4, d.MustAbility("Adaptability").Gen)
	assert.Equal(t, 5, d.MustAbility("Moody").Gen)
	assert.Equal(t, 7, d.MustAbility("Surge Surfer").Gen)

	_, ok := d.Ability("Wonder Guard")
	assert.False(t, ok)
}

func TestNatures(t *testing.T) {
	r := fixtureRegistry(t)
	n, ok := r.MustDex("gen3").Nature("Adamant")
	require.True(t, ok)
	assert.Equal(t, "atk", n.Plus)
	assert.Equal(t, "spa", n.Minus)

	all := r.Base().Natures()
	assert.Len(t, all, 25)
	assert.Equal(t, "Adamant", all[0].Name)
}

// =============================================================================
// List Tests
// =============================================================================

func TestLists(t *testing.T) {
	r := fixtureRegistry(t)

	assert.Len(t, r.Base().SpeciesList(nil), 18)
	assert.Len(t, r.MustDex("gen6").SpeciesList(nil), 15)

	electric := r.Base().SpeciesList(func(s *Species) bool {
		return len(s.Types) > 0 && s.Types[0] == "Electric"
	})
	assert.Equal(t, "Pichu", electric[0].Name)

	gen4 := r.MustDex("gen4")
	var items []string
	for _, it := range gen4.ItemsList(nil) {
		items = append(items, it.ID)
	}
	assert.Equal(t, []string{"choiceband", "leftovers", "metronome", "sitrusberry", "flameplate"}, items)

	for _, m := range gen4.MovesList(nil) {
		assert.LessOrEqual(t, m.Gen, 4, m.ID)
	}
	for _, a := range gen4.AbilitiesList(nil) {
		assert.NotEqual(t, "surgesurfer", a.ID)
	}
}

// =============================================================================
// Type Chart Tests
// =============================================================================

func TestTypeChart(t *testing.T) {
	d := fixtureRegistry(t).Base()

	types := d.Types()
	require.Len(t, types, 15)
	assert.Equal(t, "Normal", types[0])

	name, ok := d.TypeName("fire")
	require.True(t, ok)
	assert.Equal(t, "Fire", name)

	growlithe := d.MustSpecies("Growlithe")
	assert.Equal(t, []string{"Water", "Ground", "Rock"}, d.Weaknesses(growlithe))
	assert.Equal(t, []string{"Fire", "Grass", "Ice", "Fairy"}, d.Resistances(growlithe))

	rotom := d.MustSpecies("Rotom")
	assert.True(t, d.IsImmune("Normal", rotom.Types))
	assert.Equal(t, []string{"Ground", "Ghost"}, d.Weaknesses(rotom))

	dragonite := d.MustSpecies("Dragonite")
	assert.Equal(t, 2, d.Effectiveness("Ice", dragonite.Types))
	assert.True(t, d.IsImmune("Ground", dragonite.Types))
	assert.Equal(t, 0, d.Effectiveness("Shadow", dragonite.Types))
}

// =============================================================================
// Format Lookup Tests
// =============================================================================

func TestFormatLookup(t *testing.T) {
	d := fixtureRegistry(t).Base()

	ou, ok := d.Format("[Gen 7] OU")
	require.True(t, ok)
	assert.Equal(t, "gen7ou", ou.ID)
	assert.Equal(t, "Sun/Moon Singles", ou.Section)
	assert.Equal(t, 100, ou.MaxLevel)
	assert.Equal(t, 100, ou.DefaultLevel)
	assert.Equal(t, "Format", ou.EffectType)
	assert.True(t, ou.TournamentPlayable)
	assert.False(t, ou.Unranked)
	assert.Equal(t, "gen7ou", ou.Key())

	lc := d.MustFormat("gen7lc")
	assert.Equal(t, 5, lc.MaxLevel)
	assert.Equal(t, 5, lc.DefaultLevel)

	std := d.MustFormat("Standard")
	assert.Equal(t, "Rule", std.EffectType)
	assert.Equal(t, "Rules", std.Section)
}

func TestFormatAliasAndPrefixFallback(t *testing.T) {
	d := fixtureRegistry(t).Base()

	f, ok := d.Format("SM OU")
	require.True(t, ok)
	assert.Equal(t, "gen7ou", f.ID)

	f, ok = d.Format("uu")
	require.True(t, ok)
	assert.Equal(t, "gen7uu", f.ID)

	_, ok = d.Format("gen5ou")
	assert.False(t, ok)
	_, ok = d.Format("")
	assert.False(t, ok)
}

func TestFormatOMotM(t *testing.T) {
	d := fixtureRegistry(t).Base()

	f, ok := d.Format("omotm")
	require.True(t, ok)
	assert.Equal(t, "gen7stabmons", f.ID)

	f, ok = d.Format("omotm2")
	require.True(t, ok)
	assert.Equal(t, "gen7almostanyability", f.ID)

	_, ok = d.Format("omotm3")
	assert.False(t, ok)
}

func TestFormatCustomRules(t *testing.T) {
	d := fixtureRegistry(t).Base()

	untrusted, ok := d.Format("gen7ou@@@-Pikachu")
	require.True(t, ok)
	assert.Empty(t, untrusted.CustomRules)
	assert.Equal(t, "gen7ou", untrusted.Key())

	trusted, ok := d.TrustedFormat("gen7ou@@@-Pikachu,+Uber")
	require.True(t, ok)
	assert.Equal(t, []string{"-Pikachu", "+Uber"}, trusted.CustomRules)
	assert.Equal(t, "gen7ou@@@-Pikachu,+Uber", trusted.Key())
	assert.False(t, *trusted.SearchShow)
	assert.True(t, *d.MustFormat("gen7ou").SearchShow, "the shared entry is untouched")

	viaPrefix, ok := d.TrustedFormat("ou@@@-Pikachu")
	require.True(t, ok)
	assert.Equal(t, "gen7ou@@@-Pikachu", viaPrefix.Key())
}

func TestFormatBuiltinCustomRuleFormats(t *testing.T) {
	d := fixtureRegistry(t).Base()

	nfe, ok := d.Format("gen7nfe")
	require.True(t, ok)
	assert.Equal(t, "gen7nu", nfe.ID)
	assert.Contains(t, nfe.CustomRules, "-Vigoroth")

	_, ok = d.Format("nfe")
	assert.True(t, ok)
}

func TestFormatsSharedAcrossMods(t *testing.T) {
	r := fixtureRegistry(t)
	assert.Equal(t, r.Base().Formats(), r.MustDex("gen3").Formats())

	f, ok := r.MustDex("gen3").Format("gen3ou")
	require.True(t, ok)
	assert.Equal(t, "gen3", f.Mod)
	assert.Equal(t, "Past Generations", f.Section)
	assert.Equal(t, 3, f.Column)
}
