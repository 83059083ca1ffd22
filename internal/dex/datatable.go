package dex

import (
	"github.com/DatSpookTho/Lanette/internal/data"
)

// DataTable is the fully resolved data of one mod.
type DataTable struct {
	Mod    string
	Parent string
	Gen    int

	Pokedex     *Table[SpeciesData]
	FormatsData *Table[FormatsData]
	Learnsets   *Table[LearnsetData]
	Moves       *Table[MoveData]
	Items       *Table[ItemData]
	Abilities   *Table[AbilityData]
	TypeChart   *Table[TypeData]
	Categories  *Table[string]

	// Aliases maps an alias id to the canonical name it stands for.
	Aliases map[string]string

	Natures map[string]Nature
	Formats *data.FormatList
}

// buildDataTable resolves files over parent. A nil parent means files
// belong to the base mod.
func buildDataTable(files *data.ModFiles, parent *DataTable, formats *data.FormatList, gen int) (*DataTable, error) {
	t := &DataTable{Mod: files.Mod, Gen: gen, Formats: formats}

	var (
		pPokedex     *Table[SpeciesData]
		pFormatsData *Table[FormatsData]
		pLearnsets   *Table[LearnsetData]
		pMoves       *Table[MoveData]
		pItems       *Table[ItemData]
		pAbilities   *Table[AbilityData]
		pTypeChart   *Table[TypeData]
		pCategories  *Table[string]
	)
	if parent != nil {
		t.Parent = parent.Mod
		pPokedex, pFormatsData, pLearnsets = parent.Pokedex, parent.FormatsData, parent.Learnsets
		pMoves, pItems, pAbilities = parent.Moves, parent.Items, parent.Abilities
		pTypeChart, pCategories = parent.TypeChart, parent.Categories
	}

	var err error
	// Species-related tables are copied so no two mods share an entry.
	if t.Pokedex, err = resolveTable(filePath(files, data.KindPokedex), files.Table(data.KindPokedex), pPokedex, true); err != nil {
		return nil, err
	}
	if t.FormatsData, err = resolveTable(filePath(files, data.KindFormatsData), files.Table(data.KindFormatsData), pFormatsData, true); err != nil {
		return nil, err
	}
	if t.Learnsets, err = resolveTable(filePath(files, data.KindLearnsets), files.Table(data.KindLearnsets), pLearnsets, true); err != nil {
		return nil, err
	}
	if t.Moves, err = resolveTable(filePath(files, data.KindMoves), files.Table(data.KindMoves), pMoves, false); err != nil {
		return nil, err
	}
	if t.Items, err = resolveTable(filePath(files, data.KindItems), files.Table(data.KindItems), pItems, false); err != nil {
		return nil, err
	}
	if t.Abilities, err = resolveTable(filePath(files, data.KindAbilities), files.Table(data.KindAbilities), pAbilities, false); err != nil {
		return nil, err
	}
	if t.TypeChart, err = resolveTable(filePath(files, data.KindTypeChart), files.Table(data.KindTypeChart), pTypeChart, false); err != nil {
		return nil, err
	}
	if t.Categories, err = resolveTable(filePath(files, data.KindCategories), files.Table(data.KindCategories), pCategories, false); err != nil {
		return nil, err
	}

	if parent != nil {
		// Aliases and natures come wholesale from the parent.
		t.Aliases = parent.Aliases
		t.Natures = parent.Natures
		return t, nil
	}

	t.Natures = builtinNatures
	own := files.Table(data.KindAliases)
	t.Aliases = make(map[string]string, len(own.Order))
	for _, id := range own.Order {
		if n := own.Entries[id]; n != nil {
			t.Aliases[id] = n.Value
		}
	}
	if formats != nil {
		for _, id := range formats.Order {
			f := formats.Formats[id]
			for _, alias := range f.Aliases {
				aliasID := data.ToID(alias)
				if _, ok := t.Aliases[aliasID]; !ok && aliasID != "" {
					t.Aliases[aliasID] = id
				}
			}
		}
	}
	return t, nil
}

// missingPrevo returns the first species whose prevo is not in the table.
func (t *DataTable) missingPrevo() (species, prevo string, ok bool) {
	for _, id := range t.Pokedex.IDs() {
		s, _ := t.Pokedex.Get(id)
		if s.Prevo == "" {
			continue
		}
		if !t.Pokedex.Has(data.ToID(s.Prevo)) {
			return s.Name, s.Prevo, true
		}
	}
	return "", "", false
}
