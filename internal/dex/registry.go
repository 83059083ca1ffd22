package dex

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// DefaultCurrentGen is the newest generation when none is configured.
const DefaultCurrentGen = 7

// Registry discovers mods under a data root and resolves each on first use.
// Safe for concurrent use; a resolved Dex is never rebuilt.
type Registry struct {
	loader     *data.Loader
	logger     *slog.Logger
	currentGen int
	tags       *TagRegistry

	mu      sync.Mutex
	mods    map[string]bool
	dexes   map[string]*Dex
	loading map[string]bool
	formats *data.FormatList
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCurrentGen sets the newest supported generation.
func WithCurrentGen(gen int) RegistryOption {
	return func(r *Registry) {
		r.currentGen = gen
	}
}

// WithTags shares a tag registry instead of creating one.
func WithTags(tags *TagRegistry) RegistryOption {
	return func(r *Registry) {
		r.tags = tags
	}
}

// WithRegistryLogger sets the registry's logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry discovers the mods readable through loader and resolves the
// base mod.
func NewRegistry(loader *data.Loader, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		loader:     loader,
		logger:     slog.Default(),
		currentGen: DefaultCurrentGen,
		mods:       map[string]bool{data.BaseMod: true},
		dexes:      make(map[string]*Dex),
		loading:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tags == nil {
		r.tags = NewTagRegistry()
	}

	mods, err := loader.Mods()
	if err != nil {
		return nil, &ModError{Code: ErrCodeLoadFailed, Mod: data.ModsDir, Message: "discovering mods", Err: err}
	}
	for _, m := range mods {
		r.mods[m] = true
	}

	formats, err := loader.LoadFormats(r.currentGen)
	if err != nil {
		return nil, &ModError{Code: ErrCodeLoadFailed, Mod: data.BaseMod, Message: "loading formats", Err: err}
	}
	r.formats = formats

	if _, err := r.Dex(data.BaseMod); err != nil {
		return nil, err
	}
	return r, nil
}

// CurrentGen returns the newest supported generation.
func (r *Registry) CurrentGen() int { return r.currentGen }

// Tags returns the shared tag registry.
func (r *Registry) Tags() *TagRegistry { return r.tags }

// Mods returns every known mod name, base included, sorted.
func (r *Registry) Mods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.mods))
	for m := range r.mods {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Base returns the base mod's dex.
func (r *Registry) Base() *Dex {
	return r.MustDex(data.BaseMod)
}

// Dex returns the resolved dex of mod. An empty name and "gen<current>"
// without a mod directory of its own both mean the base mod.
func (r *Registry) Dex(mod string) (*Dex, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(r.canonical(mod))
}

// MustDex is Dex that panics on error.
func (r *Registry) MustDex(mod string) *Dex {
	d, err := r.Dex(mod)
	if err != nil {
		panic(err)
	}
	return d
}

// LoadAll resolves every discovered mod and returns the first error.
func (r *Registry) LoadAll() error {
	for _, m := range r.Mods() {
		if _, err := r.Dex(m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) canonical(mod string) string {
	current := fmt.Sprintf("gen%d", r.currentGen)
	if mod == "" {
		mod = current
	}
	if mod == current && !r.mods[current] {
		return data.BaseMod
	}
	return mod
}

func (r *Registry) resolveLocked(mod string) (*Dex, error) {
	if d, ok := r.dexes[mod]; ok {
		return d, nil
	}
	if !r.mods[mod] {
		return nil, &ModError{Code: ErrCodeUnknownMod, Mod: mod, Message: "no such mod"}
	}
	if r.loading[mod] {
		return nil, &ModError{Code: ErrCodeSelfParent, Mod: mod, Message: "inherits from itself"}
	}
	r.loading[mod] = true
	defer delete(r.loading, mod)

	files, err := r.loader.LoadMod(mod)
	if err != nil {
		return nil, &ModError{Code: ErrCodeLoadFailed, Mod: mod, Message: "loading files", Err: err}
	}

	var parent *DataTable
	if mod != data.BaseMod {
		parentMod := files.Scripts.Inherit
		if parentMod == "" {
			parentMod = data.BaseMod
		}
		if parentMod == mod {
			return nil, &ModError{Code: ErrCodeSelfParent, Mod: mod, Message: "inherits from itself"}
		}
		parentMod = r.canonical(parentMod)
		if !r.mods[parentMod] {
			return nil, &ModError{Code: ErrCodeUnknownParent, Mod: mod, Message: fmt.Sprintf("parent mod %q does not exist", parentMod)}
		}
		p, err := r.resolveLocked(parentMod)
		if err != nil {
			if IsModError(err, ErrCodeSelfParent) {
				return nil, &ModError{Code: ErrCodeSelfParent, Mod: mod, Message: "inheritance cycle through " + parentMod, Err: err}
			}
			return nil, err
		}
		parent = p.table
	}

	gen := files.Scripts.Gen
	if gen == 0 {
		gen = r.currentGen
	}

	table, err := buildDataTable(files, parent, r.formats, gen)
	if err != nil {
		return nil, &ModError{Code: ErrCodeLoadFailed, Mod: mod, Message: "resolving tables", Err: err}
	}
	if species, prevo, missing := table.missingPrevo(); missing {
		return nil, &ModError{Code: ErrCodeMissingPrevo, Mod: mod, Message: fmt.Sprintf("species %q has missing prevo %q", species, prevo)}
	}

	d := newDex(table, r)
	r.dexes[mod] = d
	d.registerTags()

	r.logger.Debug("mod resolved",
		"mod", mod,
		"parent", table.Parent,
		"gen", gen,
		"species", table.Pokedex.Len(),
		"moves", table.Moves.Len(),
	)
	return d, nil
}
