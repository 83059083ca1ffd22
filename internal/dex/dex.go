// Package dex resolves mod-layered game data and answers entity lookups.
//
// A Registry discovers the mods under a data root and resolves each one on
// first use: the parent mod's DataTable is resolved first and the mod's own
// files are merged over it (tombstones, partial overrides, copies for the
// species tables). A Dex wraps one resolved DataTable plus its derived-data
// caches. Lookups normalize names to ids, follow one alias, and derive
// computed fields once per id.
package dex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// Dex is the lookup surface of one mod.
type Dex struct {
	table    *DataTable
	registry *Registry

	species   cache[Species]
	moves     cache[Move]
	items     cache[Item]
	abilities cache[Ability]
}

func newDex(table *DataTable, registry *Registry) *Dex {
	return &Dex{table: table, registry: registry}
}

// Mod returns the mod name.
func (d *Dex) Mod() string { return d.table.Mod }

// Gen returns the mod's generation.
func (d *Dex) Gen() int { return d.table.Gen }

// Data returns the resolved table.
func (d *Dex) Data() *DataTable { return d.table }

// CurrentGen returns the newest supported generation.
func (d *Dex) CurrentGen() int { return d.registry.currentGen }

// Tags returns the shared tag registry.
func (d *Dex) Tags() *TagRegistry { return d.registry.tags }

// ForGen returns the dex of the "gen<N>" mod.
func (d *Dex) ForGen(gen int) (*Dex, error) {
	return d.registry.Dex(fmt.Sprintf("gen%d", gen))
}

// ResolveID normalizes name and follows one alias.
func (d *Dex) ResolveID(name string) string {
	id := data.ToID(name)
	if target, ok := d.table.Aliases[id]; ok {
		return data.ToID(target)
	}
	return id
}

// =============================================================================
// Moves
// =============================================================================

// Move is a moves.yaml entry with its computed fields.
type Move struct {
	MoveData

	ID             string         `json:"id"`
	Gen            int            `json:"gen"`
	CritRatio      int            `json:"critRatio"`
	Priority       int            `json:"priority"`
	Flags          map[string]int `json:"flags"`
	BaseMoveType   string         `json:"baseMoveType"`
	IgnoreImmunity bool           `json:"ignoreImmunity"`
}

// Move returns the move called name.
func (d *Dex) Move(name string) (*Move, bool) {
	return d.moveByID(d.ResolveID(name))
}

func (d *Dex) moveByID(id string) (*Move, bool) {
	raw, ok := d.table.Moves.Get(id)
	if !ok {
		return nil, false
	}
	return d.moves.get(id, func() *Move { return buildMove(id, raw) }), true
}

// MustMove returns the move called name and panics if it does not exist.
func (d *Dex) MustMove(name string) *Move {
	m, ok := d.Move(name)
	if !ok {
		panic(fmt.Sprintf("dex: no move %q in mod %q", name, d.Mod()))
	}
	return m
}

func buildMove(id string, raw *MoveData) *Move {
	m := &Move{
		MoveData:     *raw,
		ID:           id,
		Gen:          moveGen(raw.Num),
		CritRatio:    raw.CritRatio,
		Priority:     raw.Priority,
		Flags:        raw.Flags,
		BaseMoveType: raw.BaseMoveType,
	}
	if m.CritRatio == 0 {
		m.CritRatio = 1
	}
	if m.Flags == nil {
		m.Flags = map[string]int{}
	}
	if m.BaseMoveType == "" {
		m.BaseMoveType = raw.Type
	}
	if raw.IgnoreImmunity != nil {
		m.IgnoreImmunity = *raw.IgnoreImmunity
	} else {
		m.IgnoreImmunity = raw.Category == "Status"
	}
	return m
}

func moveGen(num int) int {
	switch {
	case num >= 622:
		return 7
	case num >= 560:
		return 6
	case num >= 468:
		return 5
	case num >= 355:
		return 4
	case num >= 252:
		return 3
	case num >= 166:
		return 2
	case num >= 1:
		return 1
	}
	return 0
}

// =============================================================================
// Items
// =============================================================================

// Item is an items.yaml entry with its computed fields.
type Item struct {
	ItemData

	ID    string `json:"id"`
	Gen   int    `json:"gen"`
	Fling *Fling `json:"fling,omitempty"`
}

// Item returns the item called name.
func (d *Dex) Item(name string) (*Item, bool) {
	return d.itemByID(d.ResolveID(name))
}

func (d *Dex) itemByID(id string) (*Item, bool) {
	raw, ok := d.table.Items.Get(id)
	if !ok {
		return nil, false
	}
	return d.items.get(id, func() *Item { return buildItem(id, raw) }), true
}

// MustItem returns the item called name and panics if it does not exist.
func (d *Dex) MustItem(name string) *Item {
	it, ok := d.Item(name)
	if !ok {
		panic(fmt.Sprintf("dex: no item %q in mod %q", name, d.Mod()))
	}
	return it
}

func buildItem(id string, raw *ItemData) *Item {
	it := &Item{ItemData: *raw, ID: id, Gen: raw.Gen, Fling: raw.Fling}
	if it.Gen == 0 {
		// Gen 2 items are numbered differently and must declare their gen.
		switch {
		case raw.Num >= 689:
			it.Gen = 7
		case raw.Num >= 577:
			it.Gen = 6
		case raw.Num >= 537:
			it.Gen = 5
		case raw.Num >= 377:
			it.Gen = 4
		default:
			it.Gen = 3
		}
	}

	// Later sub-kinds take precedence.
	if raw.IsBerry {
		it.Fling = &Fling{BasePower: 10}
	}
	if strings.HasSuffix(id, "plate") {
		it.Fling = &Fling{BasePower: 90}
	}
	if raw.OnDrive != "" {
		it.Fling = &Fling{BasePower: 70}
	}
	if raw.MegaStone != "" {
		it.Fling = &Fling{BasePower: 80}
	}
	if raw.OnMemory != "" {
		it.Fling = &Fling{BasePower: 50}
	}
	return it
}

// =============================================================================
// Abilities
// =============================================================================

// Ability is an abilities.yaml entry with its computed fields.
type Ability struct {
	AbilityData

	ID  string `json:"id"`
	Gen int    `json:"gen"`
}

// Ability returns the ability called name.
func (d *Dex) Ability(name string) (*Ability, bool) {
	return d.abilityByID(d.ResolveID(name))
}

func (d *Dex) abilityByID(id string) (*Ability, bool) {
	raw, ok := d.table.Abilities.Get(id)
	if !ok {
		return nil, false
	}
	return d.abilities.get(id, func() *Ability {
		return &Ability{AbilityData: *raw, ID: id, Gen: abilityGen(raw.Num)}
	}), true
}

// MustAbility returns the ability called name and panics if it does not exist.
func (d *Dex) MustAbility(name string) *Ability {
	a, ok := d.Ability(name)
	if !ok {
		panic(fmt.Sprintf("dex: no ability %q in mod %q", name, d.Mod()))
	}
	return a
}

func abilityGen(num int) int {
	switch {
	case num >= 192:
		return 7
	case num >= 165:
		return 6
	case num >= 124:
		return 5
	case num >= 77:
		return 4
	case num >= 1:
		return 3
	}
	return 0
}

// =============================================================================
// Natures
// =============================================================================

// Nature returns the nature called name.
func (d *Dex) Nature(name string) (Nature, bool) {
	n, ok := d.table.Natures[data.ToID(name)]
	return n, ok
}

// Natures returns all natures sorted by name.
func (d *Dex) Natures() []Nature {
	out := make([]Nature, 0, len(d.table.Natures))
	for _, n := range d.table.Natures {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// =============================================================================
// Lists
// =============================================================================

// SpeciesList returns the standard species of this mod: named, released,
// legal, not CAP, and no newer than the mod. A nil filter keeps everything.
func (d *Dex) SpeciesList(filter func(*Species) bool) []*Species {
	var out []*Species
	for _, id := range d.table.Pokedex.IDs() {
		s, _ := d.speciesByID(id)
		if s.Name == "" || s.Tier == "Unreleased" || s.Tier == "Illegal" || strings.HasPrefix(s.Tier, "CAP") || s.Gen > d.Gen() {
			continue
		}
		if filter != nil && !filter(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MovesList returns the standard moves of this mod.
func (d *Dex) MovesList(filter func(*Move) bool) []*Move {
	var out []*Move
	for _, id := range d.table.Moves.IDs() {
		m, _ := d.moveByID(id)
		if m.Name == "" || m.IsNonstandard != "" || m.Gen > d.Gen() {
			continue
		}
		if filter != nil && !filter(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ItemsList returns the standard items of this mod.
func (d *Dex) ItemsList(filter func(*Item) bool) []*Item {
	var out []*Item
	for _, id := range d.table.Items.IDs() {
		it, _ := d.itemByID(id)
		if it.Name == "" || it.IsNonstandard != "" || it.Gen > d.Gen() {
			continue
		}
		if filter != nil && !filter(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// AbilitiesList returns the standard abilities of this mod.
func (d *Dex) AbilitiesList(filter func(*Ability) bool) []*Ability {
	var out []*Ability
	for _, id := range d.table.Abilities.IDs() {
		a, _ := d.abilityByID(id)
		if a.Name == "" || a.IsNonstandard != "" || a.Gen > d.Gen() {
			continue
		}
		if filter != nil && !filter(a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// registerTags records every species' color, tier and egg groups.
func (d *Dex) registerTags() {
	tags := d.Tags()
	for _, id := range d.table.Pokedex.IDs() {
		s, _ := d.speciesByID(id)
		if s.Color != "" {
			tags.Register(TagColor, s.Color)
		}
		if s.Tier != "" {
			tags.Register(TagTier, s.Tier)
		}
		for _, g := range s.EggGroups {
			tags.Register(TagEggGroup, g)
		}
	}
}
