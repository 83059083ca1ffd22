package dex

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// Species is a pokedex entry merged with its formats-data and learnset,
// plus computed fields.
type Species struct {
	SpeciesData
	FormatsData

	ID            string                  `json:"id"`
	BaseSpecies   string                  `json:"baseSpecies"`
	Gen           int                     `json:"gen"`
	Tier          string                  `json:"tier"`
	DoublesTier   string                  `json:"doublesTier"`
	IsMega        bool                    `json:"isMega,omitempty"`
	IsPrimal      bool                    `json:"isPrimal,omitempty"`
	BattleOnly    bool                    `json:"battleOnly,omitempty"`
	GenderRatio   GenderRatio             `json:"genderRatio"`
	EggGroups     []string                `json:"eggGroups"`
	Evos          []string                `json:"evos"`
	RequiredItems []string                `json:"requiredItems,omitempty"`
	SpriteID      string                  `json:"spriteId"`
	NFE           bool                    `json:"nfe"`
	PseudoLC      bool                    `json:"pseudoLC,omitempty"`
	Category      string                  `json:"category,omitempty"`
	Learnset      map[string]LearnSources `json:"-"`

	// AllPossibleMoves is the species' own learnset closed over the
	// learnsets it inherits for display: its base forme, Rockruff-Dusk for
	// Lycanroc-Dusk, base Rotom for Rotom formes, and its prevo chain.
	AllPossibleMoves []string `json:"-"`
}

// IsForme reports whether the species is a forme of another species.
func (s *Species) IsForme() bool {
	return s.BaseSpecies != s.Name
}

// HasLearnset reports whether the species has its own learnset entry.
func (s *Species) HasLearnset() bool {
	return s.Learnset != nil
}

// Species returns the species called name.
func (d *Dex) Species(name string) (*Species, bool) {
	return d.speciesByID(d.ResolveID(name))
}

// MustSpecies returns the species called name and panics if it does not exist.
func (d *Dex) MustSpecies(name string) *Species {
	s, ok := d.Species(name)
	if !ok {
		panic(fmt.Sprintf("dex: no species %q in mod %q", name, d.Mod()))
	}
	return s
}

func (d *Dex) speciesByID(id string) (*Species, bool) {
	raw, ok := d.table.Pokedex.Get(id)
	if !ok {
		return nil, false
	}
	return d.species.get(id, func() *Species { return d.buildSpecies(id, raw) }), true
}

func (d *Dex) buildSpecies(id string, raw *SpeciesData) *Species {
	var fd FormatsData
	if f, ok := d.table.FormatsData.Get(id); ok {
		fd = *f
	}

	s := &Species{
		SpeciesData: *raw,
		FormatsData: fd,
		ID:          id,
		BaseSpecies: raw.BaseSpecies,
		EggGroups:   raw.EggGroups,
		Evos:        raw.Evos,
		BattleOnly:  fd.BattleOnly,
	}
	if s.BaseSpecies == "" {
		s.BaseSpecies = raw.Name
	}
	if s.EggGroups == nil {
		s.EggGroups = []string{}
	}
	if s.Evos == nil {
		s.Evos = []string{}
	}
	s.RequiredItems = fd.RequiredItems
	if s.RequiredItems == nil && fd.RequiredItem != "" {
		s.RequiredItems = []string{fd.RequiredItem}
	}
	if ls, ok := d.table.Learnsets.Get(id); ok && ls.Learnset != nil {
		s.Learnset = ls.Learnset
	}

	s.AllPossibleMoves = d.allPossibleMoves(id, raw, s.IsForme(), s.BaseSpecies)
	d.deriveGen(s, fd)
	d.deriveTiers(s, fd)
	s.PseudoLC = d.isPseudoLC(s, raw, fd)

	if cat, ok := d.table.Categories.Get(id); ok {
		s.Category = *cat
	}

	switch {
	case raw.GenderRatio != nil:
		s.GenderRatio = *raw.GenderRatio
	case raw.Gender == "M":
		s.GenderRatio = GenderRatio{M: 1, F: 0}
	case raw.Gender == "F":
		s.GenderRatio = GenderRatio{M: 0, F: 1}
	case raw.Gender == "N":
		s.GenderRatio = GenderRatio{M: 0, F: 0}
	default:
		s.GenderRatio = GenderRatio{M: 0.5, F: 0.5}
	}

	s.NFE = len(s.Evos) > 0
	s.SpriteID = data.ToID(s.BaseSpecies)
	if s.IsForme() {
		s.SpriteID += "-" + data.ToID(raw.Forme)
	}
	return s
}

// deriveGen infers the introduction generation. Mega and Primal formes are
// pinned to gen 6 and are battle-only regardless of their number.
func (d *Dex) deriveGen(s *Species, fd FormatsData) {
	s.Gen = fd.Gen
	if s.Gen != 0 {
		return
	}
	forme := s.SpeciesData.Forme
	switch {
	case s.Num >= 722 || strings.HasPrefix(forme, "Alola"):
		s.Gen = 7
	case forme == "Mega" || forme == "Mega-X" || forme == "Mega-Y":
		s.Gen = 6
		s.IsMega = true
		s.BattleOnly = true
	case forme == "Primal":
		s.Gen = 6
		s.IsPrimal = true
		s.BattleOnly = true
	case s.Num >= 650:
		s.Gen = 6
	case s.Num >= 494:
		s.Gen = 5
	case s.Num >= 387:
		s.Gen = 4
	case s.Num >= 252:
		s.Gen = 3
	case s.Num >= 152:
		s.Gen = 2
	case s.Num >= 1:
		s.Gen = 1
	}
}

// deriveTiers computes tier and doublesTier. Species newer than the mod are
// Illegal, a forme without tiers of its own takes its base forme's (totem
// formes strip the suffix to find it), and "(PU)" reads as ZU.
func (d *Dex) deriveTiers(s *Species, fd FormatsData) {
	if s.Gen > d.Gen() {
		s.Tier, s.DoublesTier = "Illegal", "Illegal"
		return
	}
	tier, doubles := fd.Tier, fd.DoublesTier
	if tier == "" && doubles == "" && s.IsForme() {
		baseID := data.ToID(s.BaseSpecies)
		if strings.HasSuffix(s.ID, "totem") {
			baseID = strings.TrimSuffix(s.ID, "totem")
		}
		if base, ok := d.table.FormatsData.Get(baseID); ok {
			tier, doubles = base.Tier, base.DoublesTier
		}
	}
	switch {
	case tier == "":
		tier = "Illegal"
	case tier == "(PU)":
		tier = "ZU"
	}
	if doubles == "" {
		doubles = tier
	}
	s.Tier, s.DoublesTier = tier, doubles
}

// isPseudoLC reports whether a first-stage species outside LC could still be
// obtained at a low level from an event and evolves into something this mod
// has.
func (d *Dex) isPseudoLC(s *Species, raw *SpeciesData, fd FormatsData) bool {
	if s.Tier == "LC" || raw.Prevo != "" {
		return false
	}
	if lc, ok := d.Format("lc"); ok {
		if slices.Contains(lc.Banlist, raw.Name) || slices.Contains(lc.Banlist, raw.Name+"-Base") {
			return false
		}
	}
	if !fd.EventOnly {
		return false
	}
	lowLevelEvent := false
	for _, ev := range fd.EventPokemon {
		if ev.Level > 0 && ev.Level <= 5 {
			lowLevelEvent = true
			break
		}
	}
	if !lowLevelEvent {
		return false
	}
	for _, evo := range raw.Evos {
		if e, ok := d.speciesByID(data.ToID(evo)); ok && e.Gen <= d.Gen() {
			return true
		}
	}
	return false
}

func (d *Dex) allPossibleMoves(id string, raw *SpeciesData, isForme bool, baseSpecies string) []string {
	var moves []string
	seen := make(map[string]bool)
	addFrom := func(speciesID string) {
		ls, ok := d.table.Learnsets.Get(speciesID)
		if !ok {
			return
		}
		for _, move := range sortedKeys(ls.Learnset) {
			if !seen[move] {
				seen[move] = true
				moves = append(moves, move)
			}
		}
	}

	if d.table.Learnsets.Has(id) {
		addFrom(id)
	} else if isForme {
		addFrom(data.ToID(baseSpecies))
	}

	switch {
	case raw.Name == "Lycanroc-Dusk":
		addFrom("rockruffdusk")
	case isForme && raw.BaseSpecies == "Rotom":
		addFrom("rotom")
	case raw.Prevo != "":
		visited := map[string]bool{id: true}
		prevo := data.ToID(raw.Prevo)
		for prevo != "" && !visited[prevo] {
			p, ok := d.table.Pokedex.Get(prevo)
			if !ok {
				break
			}
			visited[prevo] = true
			addFrom(prevo)
			prevo = data.ToID(p.Prevo)
		}
	}
	return moves
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EvolutionLines returns every evolution line (first stage to final stage,
// by display name) that passes through s.
func (d *Dex) EvolutionLines(s *Species) [][]string {
	first := s
	visited := map[string]bool{s.ID: true}
	for first.Prevo != "" {
		p, ok := d.Species(first.Prevo)
		if !ok || visited[p.ID] {
			break
		}
		visited[p.ID] = true
		first = p
	}

	var all [][]string
	d.collectLines(first, nil, &all, map[string]bool{})

	var lines [][]string
	for _, line := range all {
		if slices.Contains(line, s.Name) {
			lines = append(lines, line)
		}
	}
	return lines
}

func (d *Dex) collectLines(s *Species, prefix []string, out *[][]string, onPath map[string]bool) {
	line := append(slices.Clone(prefix), s.Name)
	onPath[s.ID] = true
	defer delete(onPath, s.ID)

	var next []*Species
	for _, evo := range s.Evos {
		if e, ok := d.Species(evo); ok && !onPath[e.ID] {
			next = append(next, e)
		}
	}
	if len(next) == 0 {
		*out = append(*out, line)
		return
	}
	for _, e := range next {
		d.collectLines(e, line, out, onPath)
	}
}
