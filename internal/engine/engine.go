package engine

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/DatSpookTho/Lanette/internal/config"
	"github.com/DatSpookTho/Lanette/internal/data"
	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/learnset"
	"github.com/DatSpookTho/Lanette/internal/rules"
)

// Engine answers dex, rule and learnset queries against one data tree.
// Safe for concurrent use.
type Engine struct {
	cfg    config.Config
	fsys   fs.FS
	logger *slog.Logger
	hooks  map[string]learnset.Hook

	mu       sync.RWMutex
	registry *dex.Registry
	mods     *modCache
}

// modCache holds the per-mod compilers and checkers of one registry
// generation. It has its own lock because readers fill it lazily.
type modCache struct {
	mu        sync.Mutex
	compilers map[string]*rules.Compiler
	checkers  map[string]*learnset.Checker
}

func newModCache() *modCache {
	return &modCache{
		compilers: make(map[string]*rules.Compiler),
		checkers:  make(map[string]*learnset.Checker),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. It is passed on to the registry,
// compilers and checkers.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHook registers a learnset hook for formats that name it. The
// "alwaysLegal" hook is registered by default.
func WithHook(name string, h learnset.Hook) Option {
	return func(e *Engine) {
		e.hooks[name] = h
	}
}

// New loads the data tree in fsys.
func New(cfg config.Config, fsys fs.FS, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		fsys:   fsys,
		logger: slog.Default(),
		hooks:  map[string]learnset.Hook{"alwaysLegal": learnset.AlwaysLegal},
	}
	for _, opt := range opts {
		opt(e)
	}

	registry, err := e.load()
	if err != nil {
		return nil, err
	}
	e.registry = registry
	e.mods = newModCache()
	return e, nil
}

func (e *Engine) load() (*dex.Registry, error) {
	loader := data.NewLoader(e.fsys, data.WithLogger(e.logger))
	return dex.NewRegistry(loader,
		dex.WithCurrentGen(e.cfg.CurrentGen),
		dex.WithTags(dex.NewTagRegistry()),
		dex.WithRegistryLogger(e.logger),
	)
}

// Reload rereads the data tree and replaces every cached dex, tag, rule
// table and checker. On error the previous data stays in use.
func (e *Engine) Reload() error {
	e.logger.Info("reload started")
	registry, err := e.load()
	if err != nil {
		e.logger.Error("reload failed", "error", err)
		return &EngineError{Code: ErrCodeReloadFailed, Message: "loading data", Err: err}
	}

	e.mu.Lock()
	e.registry = registry
	e.mods = newModCache()
	e.mu.Unlock()

	e.logger.Info("reload finished", "mods", len(registry.Mods()))
	return nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Mods returns every known mod, sorted.
func (e *Engine) Mods() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Mods()
}

// Dex returns the dex of mod. Empty means the configured default mod.
func (e *Engine) Dex(mod string) (*dex.Dex, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dexLocked(mod)
}

func (e *Engine) dexLocked(mod string) (*dex.Dex, error) {
	if mod == "" {
		mod = e.cfg.DefaultMod
	}
	return e.registry.Dex(mod)
}

// Species looks name up in the default mod.
func (e *Engine) Species(name string) (*dex.Species, error) {
	d, err := e.Dex("")
	if err != nil {
		return nil, err
	}
	s, ok := d.Species(name)
	if !ok {
		return nil, unknownEntity("species", name, d)
	}
	return s, nil
}

// Move looks name up in the default mod.
func (e *Engine) Move(name string) (*dex.Move, error) {
	d, err := e.Dex("")
	if err != nil {
		return nil, err
	}
	m, ok := d.Move(name)
	if !ok {
		return nil, unknownEntity("move", name, d)
	}
	return m, nil
}

// Item looks name up in the default mod.
func (e *Engine) Item(name string) (*dex.Item, error) {
	d, err := e.Dex("")
	if err != nil {
		return nil, err
	}
	it, ok := d.Item(name)
	if !ok {
		return nil, unknownEntity("item", name, d)
	}
	return it, nil
}

// Ability looks name up in the default mod.
func (e *Engine) Ability(name string) (*dex.Ability, error) {
	d, err := e.Dex("")
	if err != nil {
		return nil, err
	}
	a, ok := d.Ability(name)
	if !ok {
		return nil, unknownEntity("ability", name, d)
	}
	return a, nil
}

func unknownEntity(kind, name string, d *dex.Dex) error {
	return &EngineError{Code: ErrCodeUnknownEntity, Message: fmt.Sprintf("no %s %q", kind, name), Mod: d.Mod()}
}

// Format returns the format called name. Custom rules are dropped; use
// RuleTable or ValidateFormat for "base@@@rules" names.
func (e *Engine) Format(name string) (*dex.Format, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.registry.Base().Format(name)
	if !ok {
		return nil, &EngineError{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("no format %q", name)}
	}
	return f, nil
}

// Formats returns every format id in declaration order.
func (e *Engine) Formats() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Base().Formats()
}

// compilerLocked returns the compiler of mod, creating it on first use.
func (e *Engine) compilerLocked(mod string) (*rules.Compiler, error) {
	d, err := e.dexLocked(mod)
	if err != nil {
		return nil, err
	}
	e.mods.mu.Lock()
	defer e.mods.mu.Unlock()
	c, ok := e.mods.compilers[d.Mod()]
	if !ok {
		c = rules.NewCompiler(d, rules.WithMaxDepth(e.cfg.MaxRuleDepth), rules.WithLogger(e.logger))
		e.mods.compilers[d.Mod()] = c
	}
	return c, nil
}

// checkerLocked returns the checker of mod, creating it on first use.
func (e *Engine) checkerLocked(mod string) (*learnset.Checker, error) {
	d, err := e.dexLocked(mod)
	if err != nil {
		return nil, err
	}
	e.mods.mu.Lock()
	defer e.mods.mu.Unlock()
	c, ok := e.mods.checkers[d.Mod()]
	if !ok {
		opts := []learnset.CheckerOption{learnset.WithLogger(e.logger)}
		for name, h := range e.hooks {
			opts = append(opts, learnset.WithHook(name, h))
		}
		c = learnset.NewChecker(d, opts...)
		e.mods.checkers[d.Mod()] = c
	}
	return c, nil
}

// formatMod is the mod a format's rules and learnsets resolve in.
func formatMod(f *dex.Format) string {
	if f.Mod == "" {
		return data.BaseMod
	}
	return f.Mod
}

// ValidateFormat checks "base@@@rule,rule" and returns its canonical form.
func (e *Engine) ValidateFormat(name string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.validateFormatLocked(name)
}

func (e *Engine) validateFormatLocked(name string) (string, error) {
	base, _, _ := strings.Cut(name, dex.CustomRulesSeparator)
	f, ok := e.registry.Base().Format(base)
	if !ok {
		return "", &rules.RuleError{Code: rules.ErrCodeUnrecognizedFormat, Message: fmt.Sprintf("Unrecognized format %q", base)}
	}
	c, err := e.compilerLocked(formatMod(f))
	if err != nil {
		return "", err
	}
	return c.ValidateFormat(name)
}

// RuleTable compiles the format called name. Custom rules are validated
// first.
func (e *Engine) RuleTable(name string) (*rules.RuleTable, *dex.Format, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ruleTableLocked(name)
}

func (e *Engine) ruleTableLocked(name string) (*rules.RuleTable, *dex.Format, error) {
	base := e.registry.Base()
	var (
		f  *dex.Format
		ok bool
	)
	if strings.Contains(name, dex.CustomRulesSeparator) {
		canonical, err := e.validateFormatLocked(name)
		if err != nil {
			return nil, nil, err
		}
		f, ok = base.TrustedFormat(canonical)
	} else {
		f, ok = base.Format(name)
	}
	if !ok {
		return nil, nil, &EngineError{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("no format %q", name)}
	}

	c, err := e.compilerLocked(formatMod(f))
	if err != nil {
		return nil, nil, err
	}
	table, err := c.RuleTable(f)
	if err != nil {
		return nil, nil, err
	}
	return table, f, nil
}

// CompileAll compiles every declared format and returns the failures by
// format id.
func (e *Engine) CompileAll() map[string]error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	failures := make(map[string]error)
	for _, id := range e.registry.Base().Formats() {
		if _, _, err := e.ruleTableLocked(id); err != nil {
			failures[id] = err
		}
	}
	return failures
}

// NewQuery returns an unconstrained learnset query for mod.
func (e *Engine) NewQuery(mod string) (*learnset.Query, error) {
	d, err := e.Dex(mod)
	if err != nil {
		return nil, err
	}
	return learnset.NewQuery(d.Gen()), nil
}

// CheckLearnset checks one move of a set. Settings must carry the format
// and its compiled rule table; the format's mod decides the dex.
func (e *Engine) CheckLearnset(move *dex.Move, species *dex.Species, q *learnset.Query, s learnset.Settings) (*learnset.Conflict, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	mod := data.BaseMod
	if s.Format != nil {
		mod = formatMod(s.Format)
	}
	c, err := e.checkerLocked(mod)
	if err != nil {
		return nil, err
	}
	return c.CheckLearnset(move, species, q, s)
}

// MoveResult is the outcome for one move of a set.
type MoveResult struct {
	Move     string             `json:"move"`
	Conflict *learnset.Conflict `json:"conflict,omitempty"`
}

// SetCheck is the outcome of checking every move of a set.
type SetCheck struct {
	Format  string          `json:"format"`
	Species string          `json:"species"`
	Moves   []MoveResult    `json:"moves"`
	Query   *learnset.Query `json:"query"`
}

// Legal reports whether no move conflicted.
func (c *SetCheck) Legal() bool {
	for _, m := range c.Moves {
		if m.Conflict != nil {
			return false
		}
	}
	return true
}

// SetRequest names a set to check.
type SetRequest struct {
	Format  string
	Species string
	Ability string
	Level   int
	Moves   []string
}

// CheckSet checks every move of a set against one shared query, in order.
// Moves after a conflict are still checked against the narrowed query.
func (e *Engine) CheckSet(req SetRequest) (*SetCheck, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	table, f, err := e.ruleTableLocked(req.Format)
	if err != nil {
		return nil, err
	}
	c, err := e.checkerLocked(formatMod(f))
	if err != nil {
		return nil, err
	}
	d := c.Dex()
	species, ok := d.Species(req.Species)
	if !ok {
		return nil, unknownEntity("species", req.Species, d)
	}

	s := learnset.Settings{Format: f, RuleTable: table, Ability: req.Ability, Level: req.Level}
	out := &SetCheck{Format: f.Name, Species: species.Name, Query: c.NewQuery()}
	for _, name := range req.Moves {
		move, ok := d.Move(name)
		if !ok {
			return nil, unknownEntity("move", name, d)
		}
		conflict, err := c.CheckLearnset(move, species, out.Query, s)
		if err != nil {
			return nil, err
		}
		out.Moves = append(out.Moves, MoveResult{Move: move.Name, Conflict: conflict})
	}
	return out, nil
}
