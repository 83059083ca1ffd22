// Package testutil provides shared in-memory fixtures for package tests.
package testutil

import (
	"testing/fstest"
)

// DexFS returns a small but complete data tree: a gen 7 base mod, a
// gen6 ... gen1 inheritance chain under mods/, a format list and a links
// table.
//
// Notable fixture facts relied on by tests:
//   - Eevee learns tackle at level 1 in gen 7, curse only as a gen 3 egg
//     move (Growlithe and Smeargle can pass it on), wish only from a gen 4
//     event and mimic only from a gen 5 event.
//   - Dratini learns extremespeed only as a gen 3 egg move and no species
//     in its egg groups knows it.
//   - Tentacool learns defog and whirlpool only from gen 4 TMs.
//   - The gen4 mod drops Eevee's hidden ability and limits Smeargle's
//     sketch to a gen 4 event.
//   - Venusaur, Raichu and Rotom have alternate formes.
func DexFS() fstest.MapFS {
	fsys := fstest.MapFS{
		"pokedex.yaml":      file(pokedexYAML),
		"formats-data.yaml": file(formatsDataYAML),
		"learnsets.yaml":    file(learnsetsYAML),
		"moves.yaml":        file(movesYAML),
		"items.yaml":        file(itemsYAML),
		"abilities.yaml":    file(abilitiesYAML),
		"typechart.yaml":    file(typechartYAML),
		"aliases.yaml":      file(aliasesYAML),
		"categories.yaml":   file(categoriesYAML),
		"scripts.yaml":      file("gen: 7\n"),
		"formats.cue":       file(formatsCUE),
		"format-links.cue":  file(formatLinksCUE),

		"mods/gen6/scripts.yaml": file("inherit: base\ngen: 6\n"),
		"mods/gen5/scripts.yaml": file("inherit: gen6\ngen: 5\n"),
		"mods/gen4/scripts.yaml": file("inherit: gen5\ngen: 4\n"),
		"mods/gen3/scripts.yaml": file("inherit: gen4\ngen: 3\n"),
		"mods/gen2/scripts.yaml": file("inherit: gen3\ngen: 2\n"),
		"mods/gen1/scripts.yaml": file("inherit: gen2\ngen: 1\n"),

		"mods/gen4/pokedex.yaml":   file(gen4PokedexYAML),
		"mods/gen4/learnsets.yaml": file(gen4LearnsetsYAML),
	}
	return fsys
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

const pokedexYAML = `
pichu:
  num: 172
  name: Pichu
  types: [Electric]
  baseStats: {hp: 20, atk: 40, def: 15, spa: 35, spd: 35, spe: 60}
  abilities: {"0": Static, H: Lightning Rod}
  color: Yellow
  evos: [Pikachu]
  eggGroups: [Undiscovered]
pikachu:
  num: 25
  name: Pikachu
  types: [Electric]
  baseStats: {hp: 35, atk: 55, def: 40, spa: 50, spd: 50, spe: 90}
  abilities: {"0": Static, H: Lightning Rod}
  color: Yellow
  prevo: Pichu
  evos: [Raichu, Raichu-Alola]
  eggGroups: [Field, Fairy]
raichu:
  num: 26
  name: Raichu
  types: [Electric]
  baseStats: {hp: 60, atk: 90, def: 55, spa: 90, spd: 80, spe: 110}
  abilities: {"0": Static, H: Lightning Rod}
  color: Yellow
  prevo: Pikachu
  otherFormes: [Raichu-Alola]
  eggGroups: [Field, Fairy]
raichualola:
  num: 26
  name: Raichu-Alola
  baseSpecies: Raichu
  forme: Alola
  types: [Electric, Psychic]
  baseStats: {hp: 60, atk: 85, def: 50, spa: 95, spd: 85, spe: 110}
  abilities: {"0": Surge Surfer}
  color: Brown
  prevo: Pikachu
  eggGroups: [Field, Fairy]
raichualolatotem:
  num: 26
  name: Raichu-Alola-Totem
  baseSpecies: Raichu
  forme: Alola-Totem
  types: [Electric, Psychic]
  baseStats: {hp: 60, atk: 85, def: 50, spa: 95, spd: 85, spe: 110}
  abilities: {"0": Surge Surfer}
  color: Brown
  eggGroups: [Undiscovered]
eevee:
  num: 133
  name: Eevee
  types: [Normal]
  genderRatio: {M: 0.875, F: 0.125}
  baseStats: {hp: 55, atk: 55, def: 50, spa: 45, spd: 65, spe: 55}
  abilities: {"0": Run Away, "1": Adaptability, H: Anticipation}
  color: Brown
  evos: [Vaporeon]
  eggGroups: [Field]
vaporeon:
  num: 134
  name: Vaporeon
  types: [Water]
  genderRatio: {M: 0.875, F: 0.125}
  baseStats: {hp: 130, atk: 65, def: 60, spa: 110, spd: 95, spe: 65}
  abilities: {"0": Water Absorb, H: Hydration}
  color: Blue
  prevo: Eevee
  eggGroups: [Field]
growlithe:
  num: 58
  name: Growlithe
  types: [Fire]
  genderRatio: {M: 0.75, F: 0.25}
  baseStats: {hp: 55, atk: 70, def: 45, spa: 70, spd: 50, spe: 60}
  abilities: {"0": Intimidate, "1": Flash Fire, H: Justified}
  color: Brown
  eggGroups: [Field]
smeargle:
  num: 235
  name: Smeargle
  types: [Normal]
  baseStats: {hp: 55, atk: 20, def: 35, spa: 20, spd: 45, spe: 75}
  abilities: {"0": Own Tempo, "1": Technician, H: Moody}
  color: White
  eggGroups: [Field]
dratini:
  num: 147
  name: Dratini
  types: [Dragon]
  baseStats: {hp: 41, atk: 64, def: 45, spa: 50, spd: 50, spe: 50}
  abilities: {"0": Shed Skin, H: Marvel Scale}
  color: Blue
  evos: [Dragonair]
  eggGroups: [Water 1, Dragon]
dragonair:
  num: 148
  name: Dragonair
  types: [Dragon]
  baseStats: {hp: 61, atk: 84, def: 65, spa: 70, spd: 70, spe: 70}
  abilities: {"0": Shed Skin, H: Marvel Scale}
  color: Blue
  prevo: Dratini
  evos: [Dragonite]
  eggGroups: [Water 1, Dragon]
dragonite:
  num: 149
  name: Dragonite
  types: [Dragon, Flying]
  baseStats: {hp: 91, atk: 134, def: 95, spa: 100, spd: 100, spe: 80}
  abilities: {"0": Inner Focus, H: Multiscale}
  color: Brown
  prevo: Dragonair
  eggGroups: [Water 1, Dragon]
tentacool:
  num: 72
  name: Tentacool
  types: [Water, Poison]
  baseStats: {hp: 40, atk: 40, def: 35, spa: 50, spd: 100, spe: 70}
  abilities: {"0": Clear Body, "1": Liquid Ooze, H: Rain Dish}
  color: Blue
  eggGroups: [Water 3]
venusaur:
  num: 3
  name: Venusaur
  types: [Grass, Poison]
  baseStats: {hp: 80, atk: 82, def: 83, spa: 100, spd: 100, spe: 80}
  abilities: {"0": Overgrow, H: Chlorophyll}
  color: Green
  otherFormes: [Venusaur-Mega]
  eggGroups: [Monster, Grass]
venusaurmega:
  num: 3
  name: Venusaur-Mega
  baseSpecies: Venusaur
  forme: Mega
  types: [Grass, Poison]
  baseStats: {hp: 80, atk: 100, def: 123, spa: 122, spd: 120, spe: 80}
  abilities: {"0": Thick Fat}
  color: Green
  eggGroups: [Monster, Grass]
rotom:
  num: 479
  name: Rotom
  types: [Electric, Ghost]
  gender: N
  baseStats: {hp: 50, atk: 50, def: 77, spa: 95, spd: 77, spe: 91}
  abilities: {"0": Levitate}
  color: Red
  otherFormes: [Rotom-Wash]
  eggGroups: [Amorphous]
rotomwash:
  num: 479
  name: Rotom-Wash
  baseSpecies: Rotom
  forme: Wash
  types: [Electric, Water]
  gender: N
  baseStats: {hp: 50, atk: 65, def: 107, spa: 105, spd: 107, spe: 86}
  abilities: {"0": Levitate}
  color: Red
  eggGroups: [Amorphous]
rockruff:
  num: 744
  name: Rockruff
  types: [Rock]
  baseStats: {hp: 45, atk: 65, def: 40, spa: 30, spd: 40, spe: 60}
  abilities: {"0": Keen Eye, H: Steadfast}
  color: Brown
  eggGroups: [Field]
`

const formatsDataYAML = `
pichu: {tier: LC}
pikachu: {tier: NFE}
raichu: {tier: PU}
raichualola: {tier: PU, doublesTier: DUU}
eevee: {tier: LC, eventPokemon: [{generation: 4, level: 10, moves: [wish]}, {generation: 5, level: 10, moves: [mimic]}]}
vaporeon: {tier: NU}
growlithe: {tier: LC}
smeargle: {tier: PU}
dratini: {tier: LC}
dragonair: {tier: "(PU)"}
dragonite: {tier: OU, doublesTier: DOU}
tentacool: {tier: LC}
venusaur: {tier: UU}
rotom: {tier: PU}
rotomwash: {tier: UU}
rockruff: {tier: LC}
`

const learnsetsYAML = `
pichu:
  learnset:
    thunderbolt: [7M]
pikachu:
  learnset:
    thunderbolt: [7M, 6M]
    growl: [7L1]
raichu:
  learnset:
    thunderbolt: [7M]
eevee:
  learnset:
    tackle: [7L1, 6L1, 5L1, 4L1, 3L1]
    growl: [3L50]
    curse: [3E]
    wish: [4S0]
    mimic: [5S1]
    dig: [4M]
    shadowball: [7V]
vaporeon:
  learnset:
    tackle: [7L1]
    surf: [7M]
growlithe:
  learnset:
    curse: [3E]
    flamethrower: [7M]
smeargle:
  learnset:
    sketch: [7L1]
dratini:
  learnset:
    extremespeed: [3E]
    tackle: [7L1]
dragonite:
  learnset:
    surf: [7M]
tentacool:
  learnset:
    defog: [4M]
    whirlpool: [4M]
    surf: [3M]
    cut: [4M, 3M]
venusaur:
  learnset:
    tackle: [7L1]
rotom:
  learnset:
    thunderbolt: [7M]
    shadowball: [7M]
rockruff:
  learnset:
    tackle: [7L1]
`

const movesYAML = `
tackle: {num: 33, name: Tackle, type: Normal, category: Physical, basePower: 40, pp: 35, flags: {contact: 1, protect: 1}}
growl: {num: 45, name: Growl, type: Normal, category: Status, pp: 40}
cut: {num: 15, name: Cut, type: Normal, category: Physical, basePower: 50, pp: 30}
surf: {num: 57, name: Surf, type: Water, category: Special, basePower: 90, pp: 15}
flamethrower: {num: 53, name: Flamethrower, type: Fire, category: Special, basePower: 90, pp: 15}
thunderbolt: {num: 85, name: Thunderbolt, type: Electric, category: Special, basePower: 90, pp: 15}
dig: {num: 91, name: Dig, type: Ground, category: Physical, basePower: 80, pp: 10}
mimic: {num: 102, name: Mimic, type: Normal, category: Status, pp: 10}
metronome: {num: 118, name: Metronome, type: Normal, category: Status, pp: 10}
struggle: {num: 165, name: Struggle, type: Normal, category: Physical, basePower: 50, pp: 1, noSketch: true}
sketch: {num: 166, name: Sketch, type: Normal, category: Status, pp: 1, noSketch: true}
curse: {num: 174, name: Curse, type: Ghost, category: Status, pp: 10}
extremespeed: {num: 245, name: Extreme Speed, type: Normal, category: Physical, basePower: 80, pp: 5, priority: 2}
shadowball: {num: 247, name: Shadow Ball, type: Ghost, category: Special, basePower: 80, pp: 15}
whirlpool: {num: 250, name: Whirlpool, type: Water, category: Special, basePower: 35, pp: 15}
wish: {num: 273, name: Wish, type: Normal, category: Status, pp: 10}
defog: {num: 432, name: Defog, type: Flying, category: Status, pp: 15}
catastropika: {num: 658, name: Catastropika, type: Electric, category: Physical, basePower: 210, pp: 1, isZ: pikaniumz}
`

const itemsYAML = `
choiceband: {num: 220, name: Choice Band, fling: {basePower: 10}}
leftovers: {num: 234, name: Leftovers, gen: 2}
metronome: {num: 277, name: Metronome, gen: 4}
sitrusberry: {num: 158, name: Sitrus Berry, gen: 3, isBerry: true}
flameplate: {num: 273, name: Flame Plate, gen: 4, onPlate: Fire}
dousedrive: {num: 116, name: Douse Drive, gen: 5, onDrive: Water}
venusaurite: {num: 659, name: Venusaurite, megaStone: Venusaur-Mega, megaEvolves: Venusaur}
firememory: {num: 913, name: Fire Memory, onMemory: Fire}
pikaniumz: {num: 794, name: Pikanium Z, zMove: Catastropika}
`

const abilitiesYAML = `
static: {num: 9, name: Static}
waterabsorb: {num: 11, name: Water Absorb}
flashfire: {num: 18, name: Flash Fire}
owntempo: {num: 20, name: Own Tempo}
intimidate: {num: 22, name: Intimidate}
levitate: {num: 26, name: Levitate}
clearbody: {num: 29, name: Clear Body}
lightningrod: {num: 31, name: Lightning Rod}
chlorophyll: {num: 34, name: Chlorophyll}
innerfocus: {num: 39, name: Inner Focus}
runaway: {num: 50, name: Run Away}
shedskin: {num: 61, name: Shed Skin}
marvelscale: {num: 63, name: Marvel Scale}
liquidooze: {num: 64, name: Liquid Ooze}
overgrow: {num: 65, name: Overgrow}
drought: {num: 70, name: Drought}
adaptability: {num: 91, name: Adaptability}
hydration: {num: 93, name: Hydration}
technician: {num: 101, name: Technician}
anticipation: {num: 107, name: Anticipation}
multiscale: {num: 136, name: Multiscale}
moody: {num: 141, name: Moody}
justified: {num: 154, name: Justified}
surgesurfer: {num: 207, name: Surge Surfer}
`

const typechartYAML = `
Normal:
  damageTaken: {Fighting: 1, Ghost: 3}
Fire:
  damageTaken: {Water: 1, Ground: 1, Rock: 1, Fire: 2, Grass: 2, Ice: 2, Fairy: 2}
Water:
  damageTaken: {Electric: 1, Grass: 1, Fire: 2, Water: 2, Ice: 2}
Electric:
  damageTaken: {Ground: 1, Electric: 2, Flying: 2}
Grass:
  damageTaken: {Fire: 1, Ice: 1, Poison: 1, Flying: 1, Water: 2, Electric: 2, Grass: 2, Ground: 2}
Ice:
  damageTaken: {Fire: 1, Fighting: 1, Rock: 1, Ice: 2}
Fighting:
  damageTaken: {Flying: 1, Psychic: 1, Fairy: 1, Rock: 2}
Poison:
  damageTaken: {Ground: 1, Psychic: 1, Fighting: 2, Poison: 2, Grass: 2, Fairy: 2}
Ground:
  damageTaken: {Water: 1, Grass: 1, Ice: 1, Poison: 2, Rock: 2, Electric: 3}
Flying:
  damageTaken: {Electric: 1, Ice: 1, Rock: 1, Grass: 2, Fighting: 2, Ground: 3}
Psychic:
  damageTaken: {Ghost: 1, Fighting: 2, Psychic: 2}
Rock:
  damageTaken: {Water: 1, Grass: 1, Fighting: 1, Ground: 1, Normal: 2, Fire: 2, Poison: 2, Flying: 2}
Ghost:
  damageTaken: {Ghost: 1, Poison: 2, Normal: 3, Fighting: 3}
Dragon:
  damageTaken: {Ice: 1, Dragon: 1, Fairy: 1, Fire: 2, Water: 2, Electric: 2, Grass: 2}
Fairy:
  damageTaken: {Poison: 1, Fighting: 2, Dragon: 3}
`

const aliasesYAML = `
sparky: Pikachu
lefties: Leftovers
es: Extreme Speed
`

const categoriesYAML = `
pikachu: Mouse
eevee: Evolution
`

const gen4PokedexYAML = `
eevee:
  inherit: true
  abilities: {"0": Run Away, "1": Adaptability}
`

const gen4LearnsetsYAML = `
smeargle:
  inherit: true
  learnset:
    sketch: [4S0]
`

const formatsCUE = `
formats: [
	{section: "Sun/Moon Singles"},
	{
		name: "[Gen 7] OU"
		threads: [
			"&bullet; <a href=\"https://www.smogon.com/forums/threads/3621042/\">OU Metagame Discussion</a>",
			"&bullet; <a href=\"https://www.smogon.com/forums/threads/3623399/\">OU Viability Rankings</a>",
		]
		ruleset: ["Standard"]
		banlist: ["Uber"]
		aliases: ["SM OU"]
	},
	{
		name: "[Gen 7] UU"
		ruleset: ["[Gen 7] OU"]
		banlist: ["OU", "UUBL", "Pikachu"]
	},
	{
		name: "[Gen 7] NU"
		ruleset: ["[Gen 7] UU"]
		banlist: ["UU"]
	},
	{
		name:     "[Gen 7] LC"
		maxLevel: 5
		ruleset: ["Standard"]
		banlist: ["LC Uber"]
	},
	{
		name:            "[Gen 7] Pentagon"
		requirePentagon: true
		ruleset: ["Standard"]
	},
	{
		name: "[Gen 7] Random Battle"
		team: "random"
		ruleset: ["Species Clause"]
	},
	{
		name: "[Gen 7] Random Bans"
		team: "random"
		banlist: ["Pikachu"]
	},
	{
		name: "[Gen 7] Metronome Battle"
		ruleset: ["Metronome Clause"]
	},
	{
		name: "[Gen 7] Combo"
		ruleset: ["Standard"]
		banlist: ["Eevee + Curse", "Pikachu ++ Raichu > 1", "Dratini > 2"]
		unbanlist: ["Rotom-Wash"]
	},
	{
		name: "[Gen 7] Hooked"
		ruleset: ["Standard", "Hook A"]
	},
	{
		name: "[Gen 7] Hook Conflict"
		ruleset: ["Hook A", "Hook B"]
	},
	{
		name: "[Gen 7] Self Cycle"
		ruleset: ["[Gen 7] Self Cycle"]
	},
	{
		name: "[Gen 7] Cycle A"
		ruleset: ["[Gen 7] Cycle B"]
	},
	{
		name: "[Gen 7] Cycle B"
		ruleset: ["[Gen 7] Cycle A"]
	},
	{
		name: "[Gen 7] Unknown Rule"
		ruleset: ["Standard", "No Such Clause"]
	},
	{
		name: "[Gen 7] Ambiguous"
		banlist: ["Metronome"]
	},
	{
		name: "[Gen 7] Confusing"
		banlist: ["Pikachu > 0"]
	},
	{section: "Past Generations", column: 3},
	{
		name: "[Gen 6] OU"
		mod:  "gen6"
		ruleset: ["Standard"]
		banlist: ["Uber"]
	},
	{
		name: "[Gen 3] OU"
		mod:  "gen3"
		ruleset: ["Standard"]
	},
	{section: "OM of the Month", column: 2},
	{
		name: "[Gen 7] STABmons"
		ruleset: ["Standard", "STABmons Move Legality"]
	},
	{
		name: "[Gen 7] Almost Any Ability"
		ruleset: ["Standard", "Ignore Illegal Abilities"]
	},
	{section: "Rules", column: 4},
	{
		name:       "Standard"
		effectType: "Rule"
		ruleset: ["Species Clause", "Sleep Clause Mod"]
		banlist: ["Unreleased", "Illegal"]
	},
	{name: "Species Clause", effectType: "Rule"},
	{name: "Sleep Clause Mod", effectType: "Rule"},
	{name: "Same Type Clause", effectType: "Rule"},
	{name: "STABmons Move Legality", effectType: "Rule"},
	{name: "Ignore Illegal Abilities", effectType: "Rule"},
	{name: "Allow Tradeback", effectType: "Rule"},
	{name: "Mimic Glitch", effectType: "Rule"},
	{
		name:       "Metronome Clause"
		effectType: "Rule"
		banlist: ["move:Metronome"]
	},
	{name: "Hook A", effectType: "Rule", checkLearnset: "alwaysLegal"},
	{name: "Hook B", effectType: "Rule", checkLearnset: "eventsOnly"},
]
`

const formatLinksCUE = `
formatLinks: {
	gen7ou: {
		info:      "3621040"
		viability: "3600000"
		teams:     "3627000"
	}
	gen7uu: {
		desc: "Usage-based tier below OU."
		info: "3620000"
	}
	gen7balancedhackmons: {
		name: "[Gen 7] Balanced Hackmons"
		desc: "Anything that can be hacked in-game is usable."
		info: "3587475"
	}
}
`
