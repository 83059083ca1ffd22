// Package paramsearch implements the parameter-search worker contract:
// pick random dexsearch parameters that a bounded number of Pokémon share,
// and intersect player-given parameters.
//
// Requests and responses are plain values. Nothing crosses the boundary
// besides them, so a Searcher can run in-process or behind a queue.
package paramsearch

import (
	"context"
	"slices"
	"strings"

	"github.com/DatSpookTho/Lanette/internal/store"
)

// ParamType is a kind of dexsearch parameter.
type ParamType string

const (
	ParamMove       ParamType = "move"
	ParamTier       ParamType = "tier"
	ParamColor      ParamType = "color"
	ParamTyping     ParamType = "type"
	ParamResistance ParamType = "resistance"
	ParamWeakness   ParamType = "weakness"
	ParamEggGroup   ParamType = "egggroup"
	ParamAbility    ParamType = "ability"
	ParamGen        ParamType = "gen"
)

// DefaultParamTypes is every parameter type, in the order ties are broken.
var DefaultParamTypes = []ParamType{
	ParamMove, ParamTier, ParamColor, ParamTyping, ParamResistance, ParamWeakness, ParamEggGroup, ParamAbility, ParamGen,
}

// SearchPokemon is the only supported search type.
const SearchPokemon = "pokemon"

// Seed drives the search PRNG. A response carries the seed to use next.
type Seed [2]uint64

// Param is one chosen parameter.
type Param = store.Param

// Request asks for NumberOfParams random parameters shared by between
// MinimumResults and MaximumResults Pokémon.
type Request struct {
	// RequestID is echoed in the response. Empty gets a generated id.
	RequestID string `json:"requestId"`

	NumberOfParams int         `json:"numberOfParams"`
	ParamTypes     []ParamType `json:"paramTypes"`

	// CustomParamTypes fixes the type of each parameter, overriding
	// NumberOfParams.
	CustomParamTypes []ParamType `json:"customParamTypes,omitempty"`

	Mod            string `json:"mod"`
	Seed           Seed   `json:"prngSeed"`
	SearchType     string `json:"searchType"`
	MinimumResults int    `json:"minimumResults"`

	// MaximumResults of zero means unbounded.
	MaximumResults int `json:"maximumResults"`
}

// Response is the outcome of a search or intersection. Empty PokemonIDs
// means nothing fit.
type Response struct {
	RequestID  string   `json:"requestId"`
	Params     []Param  `json:"params"`
	PokemonIDs []string `json:"pokemon"`
	Seed       Seed     `json:"prngSeed"`
}

// IntersectRequest scopes an intersection of player-given parameters.
type IntersectRequest struct {
	RequestID  string      `json:"requestId"`
	Mod        string      `json:"mod"`
	ParamTypes []ParamType `json:"paramTypes"`
	SearchType string      `json:"searchType"`
	// Seed is echoed in the response untouched.
	Seed Seed `json:"prngSeed"`
}

// Searcher runs parameter searches.
type Searcher interface {
	Search(ctx context.Context, req Request) (*Response, error)
	Intersect(ctx context.Context, req IntersectRequest, tokens []string) (*Response, error)
}

// Describe renders params as a sorted list, e.g.
// "Brown, Field Group, and Resists Fire type".
func Describe(params []Param) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		switch ParamType(p.Type) {
		case ParamTyping:
			names = append(names, p.Name+" type")
		case ParamResistance:
			names = append(names, "Resists "+p.Name+" type")
		case ParamWeakness:
			names = append(names, "Weak to "+p.Name+" type")
		case ParamGen:
			names = append(names, "Gen "+p.Name)
		case ParamEggGroup:
			names = append(names, p.Name+" Group")
		default:
			names = append(names, p.Name)
		}
	}
	slices.Sort(names)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	last := len(names) - 1
	return strings.Join(names[:last], ", ") + ", and " + names[last]
}
