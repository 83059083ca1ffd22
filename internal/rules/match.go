package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// Match categories in priority order.
const (
	CategoryPokemon     = "pokemon"
	CategoryMove        = "move"
	CategoryAbility     = "ability"
	CategoryItem        = "item"
	CategoryPokemonTag  = "pokemontag"
	CategoryBasePokemon = "basepokemon"
)

var matchCategories = []string{CategoryPokemon, CategoryMove, CategoryAbility, CategoryItem, CategoryPokemonTag}

// validTags are the pokemontag ids a ban may name.
var validTags = []string{
	// singles tiers
	"uber", "ou", "uubl", "uu", "rubl", "ru", "nubl", "nu", "publ", "pu", "zu", "nfe", "lcuber", "lc", "cap", "caplc", "capnfe",
	// doubles tiers
	"duber", "dou", "dbl", "duu",
	"mega",
}

// matchThing resolves a ban target to exactly one thing: "unreleased",
// "illegal", "<category>:<id>", or "basepokemon:<id>" for a species with
// other formes.
func (c *Compiler) matchThing(target string) (string, error) {
	id := data.ToID(target)
	switch id {
	case "unreleased", "illegal":
		return id, nil
	}

	categories := matchCategories
	for _, cat := range matchCategories {
		if strings.HasPrefix(target, cat+":") {
			categories = []string{cat}
			id = strings.TrimPrefix(id, cat)
			break
		}
	}

	tables := c.dex.Data()
	tagID := id
	if alias, ok := tables.Aliases[id]; ok {
		id = data.ToID(alias)
	}

	var matches []string
	for _, cat := range categories {
		switch cat {
		case CategoryPokemon:
			if s, ok := tables.Pokedex.Get(id); ok {
				if len(s.OtherFormes) > 0 {
					matches = append(matches, CategoryBasePokemon+":"+id)
				} else {
					matches = append(matches, CategoryPokemon+":"+id)
				}
			} else if base, ok := strings.CutSuffix(id, "base"); ok && tables.Pokedex.Has(base) {
				matches = append(matches, CategoryPokemon+":"+base)
			}
		case CategoryMove:
			if tables.Moves.Has(id) {
				matches = append(matches, CategoryMove+":"+id)
			}
		case CategoryAbility:
			if tables.Abilities.Has(id) {
				matches = append(matches, CategoryAbility+":"+id)
			}
		case CategoryItem:
			if tables.Items.Has(id) {
				matches = append(matches, CategoryItem+":"+id)
			}
		case CategoryPokemonTag:
			if slices.Contains(validTags, tagID) {
				matches = append(matches, CategoryPokemonTag+":"+tagID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", &RuleError{Code: ErrCodeNothingMatches, Rule: target, Message: fmt.Sprintf("Nothing matches %q", target)}
	case 1:
		return matches[0], nil
	}
	return "", &RuleError{
		Code:    ErrCodeAmbiguousMatch,
		Rule:    target,
		Message: fmt.Sprintf("More than one thing matches %q; please use something like \"-item:metronome\" to disambiguate", target),
	}
}
