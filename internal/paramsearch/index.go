package paramsearch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/DatSpookTho/Lanette/internal/data"
	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/store"
)

// DefaultMaxAttempts bounds how many random parameter draws a search makes.
const DefaultMaxAttempts = 500

// DexSource resolves a mod to its dex. *engine.Engine implements it.
type DexSource interface {
	Dex(mod string) (*dex.Dex, error)
}

// Index is the in-process Searcher. It indexes each mod into a store on
// first use. Safe for concurrent use.
type Index struct {
	dexes       DexSource
	store       *store.Store
	ids         IDGenerator
	logger      *slog.Logger
	maxAttempts int

	// mu serializes index builds.
	mu sync.Mutex
}

var _ Searcher = (*Index)(nil)

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithIDGenerator sets how missing request ids are filled in.
func WithIDGenerator(g IDGenerator) IndexOption {
	return func(ix *Index) {
		ix.ids = g
	}
}

// WithLogger sets the index's logger.
func WithLogger(logger *slog.Logger) IndexOption {
	return func(ix *Index) {
		ix.logger = logger
	}
}

// WithMaxAttempts sets how many draws a search makes before giving up.
func WithMaxAttempts(n int) IndexOption {
	return func(ix *Index) {
		ix.maxAttempts = n
	}
}

// NewIndex returns a searcher over the dexes of src, indexed into st.
func NewIndex(src DexSource, st *store.Store, opts ...IndexOption) *Index {
	ix := &Index{
		dexes:       src,
		store:       st,
		ids:         UUIDv7Generator{},
		logger:      slog.Default(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Invalidate drops every indexed mod, e.g. after the data was reloaded.
func (ix *Index) Invalidate(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.store.DropAll(ctx)
}

// ensure indexes mod if needed and returns its canonical name.
func (ix *Index) ensure(ctx context.Context, mod string) (string, error) {
	d, err := ix.dexes.Dex(mod)
	if err != nil {
		return "", err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ok, _, err := ix.store.IsIndexed(ctx, d.Mod())
	if err != nil {
		return "", err
	}
	if ok {
		return d.Mod(), nil
	}

	rows := indexRows(d)
	if err := ix.store.ReplaceMod(ctx, d.Mod(), rows); err != nil {
		return "", fmt.Errorf("index mod %s: %w", d.Mod(), err)
	}
	ix.logger.Debug("param index built", "mod", d.Mod(), "rows", len(rows))
	return d.Mod(), nil
}

// indexRows lists every (param, pokemon) pair of d's standard species.
func indexRows(d *dex.Dex) []store.Row {
	var rows []store.Row
	for _, s := range d.SpeciesList(func(s *dex.Species) bool {
		return s.IsNonstandard == "" && !s.BattleOnly
	}) {
		add := func(t ParamType, name string) {
			if name == "" {
				return
			}
			rows = append(rows, store.Row{Type: string(t), ParamID: data.ToID(name), Param: name, Pokemon: s.ID})
		}

		for _, t := range s.Types {
			add(ParamTyping, t)
		}
		// Parenthesized tiers are display-only and would collide by id.
		if !strings.HasPrefix(s.Tier, "(") {
			add(ParamTier, s.Tier)
		}
		add(ParamColor, s.Color)
		for _, g := range s.EggGroups {
			add(ParamEggGroup, g)
		}
		for _, a := range s.Abilities.All() {
			add(ParamAbility, a)
		}
		add(ParamGen, strconv.Itoa(s.Gen))
		for _, t := range d.Resistances(s) {
			add(ParamResistance, t)
		}
		for _, t := range d.Weaknesses(s) {
			add(ParamWeakness, t)
		}
		for _, id := range s.AllPossibleMoves {
			if m, ok := d.Move(id); ok && m.IsNonstandard == "" {
				add(ParamMove, m.Name)
			}
		}
	}
	return rows
}

func (ix *Index) requestID(id string) string {
	if id == "" {
		return ix.ids.Generate()
	}
	return id
}

func checkSearchType(searchType, requestID string) error {
	if searchType != "" && searchType != SearchPokemon {
		return &RequestError{Code: ErrCodeUnsupportedSearch, RequestID: requestID, Message: fmt.Sprintf("search type %q", searchType)}
	}
	return nil
}

func checkParamTypes(types []ParamType, requestID string) error {
	for _, t := range types {
		if !slices.Contains(DefaultParamTypes, t) {
			return &RequestError{Code: ErrCodeUnknownParamType, RequestID: requestID, Message: fmt.Sprintf("param type %q", t)}
		}
	}
	return nil
}

// Search draws random parameters until their intersection size is within
// bounds. The same request always gives the same response.
func (ix *Index) Search(ctx context.Context, req Request) (*Response, error) {
	id := ix.requestID(req.RequestID)
	if err := checkSearchType(req.SearchType, id); err != nil {
		return nil, err
	}
	types := req.ParamTypes
	if len(types) == 0 {
		types = DefaultParamTypes
	}
	if err := checkParamTypes(types, id); err != nil {
		return nil, err
	}
	if err := checkParamTypes(req.CustomParamTypes, id); err != nil {
		return nil, err
	}
	count := req.NumberOfParams
	if len(req.CustomParamTypes) > 0 {
		count = len(req.CustomParamTypes)
	} else if count < 1 || count > len(types) {
		return nil, &RequestError{Code: ErrCodeBadParamCount, RequestID: id, Message: fmt.Sprintf("%d params from %d types", count, len(types))}
	}

	mod, err := ix.ensure(ctx, req.Mod)
	if err != nil {
		return nil, err
	}

	values := make(map[ParamType][]Param)
	valuesOf := func(t ParamType) ([]Param, error) {
		if v, ok := values[t]; ok {
			return v, nil
		}
		v, err := ix.store.Values(ctx, mod, string(t))
		if err != nil {
			return nil, err
		}
		values[t] = v
		return v, nil
	}

	rng := rand.New(rand.NewPCG(req.Seed[0], req.Seed[1]))
	resp := &Response{RequestID: id, Params: []Param{}, PokemonIDs: []string{}}

	for attempt := 1; attempt <= ix.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chosen := req.CustomParamTypes
		if len(chosen) == 0 {
			shuffled := slices.Clone(types)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			chosen = shuffled[:count]
		}

		params := make([]Param, 0, len(chosen))
		for _, t := range chosen {
			v, err := valuesOf(t)
			if err != nil {
				return nil, err
			}
			if len(v) == 0 {
				params = nil
				break
			}
			p := v[rng.IntN(len(v))]
			if slices.Contains(params, p) {
				params = nil
				break
			}
			params = append(params, p)
		}
		if params == nil {
			continue
		}

		ids, err := ix.store.Intersect(ctx, mod, params)
		if err != nil {
			return nil, err
		}
		if len(ids) < max(req.MinimumResults, 1) || (req.MaximumResults > 0 && len(ids) > req.MaximumResults) {
			continue
		}

		ix.logger.Debug("param search found",
			"request", id,
			"mod", mod,
			"attempts", attempt,
			"params", len(params),
			"pokemon", len(ids),
		)
		resp.Params = params
		resp.PokemonIDs = ids
		break
	}
	if len(resp.PokemonIDs) == 0 {
		ix.logger.Debug("param search exhausted", "request", id, "mod", mod, "attempts", ix.maxAttempts)
	}

	resp.Seed = Seed{rng.Uint64(), rng.Uint64()}
	return resp, nil
}

// Intersect resolves each token to a parameter of req.ParamTypes and returns
// the Pokémon matching all of them. A token that resolves to nothing gives
// an empty response.
//
// Tokens are matched by id: "Fire type", "Resists Fire", "Weak to Fire",
// "Field Group" and "Gen 1" pick their type explicitly; anything else is
// tried against the remaining types in order.
func (ix *Index) Intersect(ctx context.Context, req IntersectRequest, tokens []string) (*Response, error) {
	id := ix.requestID(req.RequestID)
	if err := checkSearchType(req.SearchType, id); err != nil {
		return nil, err
	}
	types := req.ParamTypes
	if len(types) == 0 {
		types = DefaultParamTypes
	}
	if err := checkParamTypes(types, id); err != nil {
		return nil, err
	}

	mod, err := ix.ensure(ctx, req.Mod)
	if err != nil {
		return nil, err
	}

	resp := &Response{RequestID: id, Params: []Param{}, PokemonIDs: []string{}, Seed: req.Seed}
	if len(tokens) == 0 {
		return resp, nil
	}

	params := make([]Param, 0, len(tokens))
	for _, token := range tokens {
		p, ok, err := ix.resolve(ctx, mod, types, token)
		if err != nil {
			return nil, err
		}
		if !ok {
			return resp, nil
		}
		params = append(params, p)
	}

	ids, err := ix.store.Intersect(ctx, mod, params)
	if err != nil {
		return nil, err
	}
	resp.Params = params
	resp.PokemonIDs = ids
	return resp, nil
}

func (ix *Index) resolve(ctx context.Context, mod string, types []ParamType, token string) (Param, bool, error) {
	id := data.ToID(token)

	type candidate struct {
		t  ParamType
		id string
	}
	var candidates []candidate
	if rest, ok := strings.CutPrefix(id, "resists"); ok {
		candidates = append(candidates, candidate{ParamResistance, strings.TrimSuffix(rest, "type")})
	}
	if rest, ok := strings.CutPrefix(id, "weakto"); ok {
		candidates = append(candidates, candidate{ParamWeakness, strings.TrimSuffix(rest, "type")})
	}
	if rest, ok := strings.CutSuffix(id, "type"); ok {
		candidates = append(candidates, candidate{ParamTyping, rest})
	}
	if rest, ok := strings.CutSuffix(id, "group"); ok {
		candidates = append(candidates, candidate{ParamEggGroup, rest})
	}
	if rest, ok := strings.CutPrefix(id, "gen"); ok {
		candidates = append(candidates, candidate{ParamGen, rest})
	}
	for _, t := range types {
		if t != ParamResistance && t != ParamWeakness {
			candidates = append(candidates, candidate{t, id})
		}
	}

	for _, c := range candidates {
		if !slices.Contains(types, c.t) || c.id == "" {
			continue
		}
		found, err := ix.store.Lookup(ctx, mod, []string{string(c.t)}, c.id)
		if err != nil {
			return Param{}, false, err
		}
		if len(found) > 0 {
			return found[0], true, nil
		}
	}
	return Param{}, false, nil
}
