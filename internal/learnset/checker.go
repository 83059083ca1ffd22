package learnset

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/DatSpookTho/Lanette/internal/data"
	"github.com/DatSpookTho/Lanette/internal/dex"
	"github.com/DatSpookTho/Lanette/internal/rules"
)

// HMs unobtainable after transferring out of generation 3 and 4 respectively.
var (
	gen3HMs = []string{"cut", "fly", "surf", "strength", "flash", "rocksmash", "waterfall", "dive"}
	gen4HMs = []string{"cut", "fly", "surf", "strength", "rocksmash", "waterfall", "rockclimb"}
)

// Moves that Mimic, Transform and friends could copy before generation 5.
var glitchMoves = []string{"metronome", "copycat", "transform", "mimic", "assist"}

// Settings is the set being checked, beyond its moves.
type Settings struct {
	Format    *dex.Format
	RuleTable *rules.RuleTable

	// Ability is the set's ability name. Empty skips ability checks.
	Ability string

	// Level is the set's level. Zero means 100.
	Level int
}

// Hook replaces the standard learnset check for formats whose rule table
// names it.
type Hook func(c *Checker, move *dex.Move, species *dex.Species, q *Query, s Settings) (*Conflict, error)

// AlwaysLegal is a Hook allowing every move.
func AlwaysLegal(*Checker, *dex.Move, *dex.Species, *Query, Settings) (*Conflict, error) {
	return nil, nil
}

// Checker checks moves against the learnsets of one Dex.
type Checker struct {
	dex    *dex.Dex
	hooks  map[string]Hook
	logger *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHook registers a learnset hook under name.
func WithHook(name string, h Hook) CheckerOption {
	return func(c *Checker) {
		c.hooks[name] = h
	}
}

// WithLogger sets the checker's logger.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker returns a checker for d.
func NewChecker(d *dex.Dex, opts ...CheckerOption) *Checker {
	c := &Checker{
		dex:    d,
		hooks:  make(map[string]Hook),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dex returns the dex moves are checked against.
func (c *Checker) Dex() *dex.Dex { return c.dex }

// NewQuery returns an unconstrained query for the checker's generation.
func (c *Checker) NewQuery() *Query { return NewQuery(c.dex.Gen()) }

// CheckLearnset checks that species can know move together with the moves
// already folded into q. A nil Conflict means legal; q is then narrowed.
// Errors are reserved for bad input and inconsistent data.
func (c *Checker) CheckLearnset(move *dex.Move, species *dex.Species, q *Query, s Settings) (*Conflict, error) {
	if s.RuleTable == nil {
		return nil, &CheckError{Code: ErrCodeMissingRuleTable, Message: "settings carry no rule table"}
	}
	if hook := s.RuleTable.Hook; hook != nil {
		h, ok := c.hooks[hook.Name]
		if !ok {
			return nil, &CheckError{Code: ErrCodeUnknownHook, Message: fmt.Sprintf("%q has no learnset hook %q", hook.Owner, hook.Name)}
		}
		return h(c, move, species, q, s)
	}
	return c.CheckStandard(move, species, q, s)
}

type eggLimit int

const (
	eggUnset eggLimit = iota
	eggFree
	eggLimited
	eggSelf
)

// CheckStandard is CheckLearnset without hook dispatch.
func (c *Checker) CheckStandard(move *dex.Move, species *dex.Species, q *Query, s Settings) (*Conflict, error) {
	d := c.dex
	gen := d.Gen()
	table := s.RuleTable
	if table == nil {
		return nil, &CheckError{Code: ErrCodeMissingRuleTable, Message: "settings carry no rule table"}
	}

	level := s.Level
	if level == 0 {
		level = 100
	}

	var ability *dex.Ability
	if s.Ability != "" {
		a, ok := d.Ability(s.Ability)
		if !ok {
			return nil, &CheckError{Code: ErrCodeUnknownAbility, Message: fmt.Sprintf("no ability %q", s.Ability)}
		}
		ability = a
	}
	isHidden := ability != nil && ability.Name == species.Abilities.Hidden

	minPastGen := 1
	if f := s.Format; f != nil {
		switch {
		case f.RequirePlus:
			minPastGen = 7
		case f.RequirePentagon:
			minPastGen = 6
		}
	}
	noFutureGen := !table.Has("allowtradeback")

	var (
		sources             []Source
		sourcesBefore       int
		limit1              = true
		sketch              bool
		blockedHM           bool
		sometimesPossible   bool
		incompatibleAbility bool
		tradebackEligible   bool
		limitedEgg          = eggUnset
		babyOnly            string
	)

	checked := make(map[string]bool)
	p := species
walk:
	for p != nil && !checked[p.ID] {
		checked[p.ID] = true
		if gen == 2 && p.Gen == 1 {
			tradebackEligible = true
		}
		if !p.HasLearnset() {
			if p.IsForme() {
				base, err := c.species(p.BaseSpecies)
				if err != nil {
					return nil, err
				}
				p = base
				continue
			}
			break
		}

		checkingPrevo := p.BaseSpecies != species.BaseSpecies
		if checkingPrevo && len(sources) == 0 && sourcesBefore == 0 {
			if q.BabyOnly == "" || p.Prevo == "" {
				babyOnly = p.ID
			}
		}

		lset, hasMove := p.Learnset[move.ID]
		sketchSources, hasSketch := p.Learnset["sketch"]
		if hasMove || hasSketch {
			sometimesPossible = true
			if move.ID == "sketch" || !hasMove || p.ID == "smeargle" {
				if move.NoSketch || move.IsZ != "" {
					return &Conflict{Kind: ConflictInvalid}, nil
				}
				lset = sketchSources
				sketch = true
			}
		}

		for _, ls := range lset {
			learnedGen := ls.Gen
			if learnedGen < minPastGen {
				continue
			}
			if noFutureGen && learnedGen > gen {
				continue
			}
			if learnedGen <= sourcesBefore {
				continue
			}

			if learnedGen < 7 && isHidden {
				past, err := d.ForGen(learnedGen)
				if err != nil {
					return nil, err
				}
				if ps, ok := past.Species(p.Name); !ok || ps.Abilities.Hidden == "" {
					incompatibleAbility = true
					continue
				}
			}

			if p.IsNonstandard == "" {
				if gen >= 4 && learnedGen <= 3 && slices.Contains(gen3HMs, move.ID) {
					continue
				}
				if gen >= 5 && learnedGen <= 4 && slices.Contains(gen4HMs, move.ID) {
					continue
				}
				if gen >= 5 && learnedGen <= 4 && (move.ID == "defog" || move.ID == "whirlpool") {
					blockedHM = true
				}
			}

			method := ls.Method
			eggAny := false
			if method == dex.MethodLevelUp && level < ls.Level && learnedGen < 7 {
				switch {
				case level >= 5 && learnedGen == 3 && len(p.EggGroups) > 0 && p.EggGroups[0] != "Undiscovered":
					// Pomeg glitch: a level-up move can be kept below its level.
				case (p.Gender == "" || p.Gender == "F") && learnedGen >= 2:
					method = dex.MethodEgg
					eggAny = true
					limitedEgg = eggFree
				default:
					continue
				}
			}

			switch method {
			case dex.MethodLevelUp, dex.MethodMachine, dex.MethodTutor:
				if learnedGen == gen {
					if babyOnly != "" {
						q.BabyOnly = babyOnly
					}
					return nil, nil
				}
				limit1 = false
				sourcesBefore = max(sourcesBefore, learnedGen)
				limitedEgg = eggFree

			case dex.MethodEgg:
				if learnedGen >= 6 || q.FastCheck {
					src := Source{Gen: learnedGen, Method: dex.MethodEgg}
					if p.Prevo != "" {
						src.Species = p.ID
					}
					sources = append(sources, src)
					limitedEgg = eggFree
					continue
				}
				fathers, err := c.fathers(p, move, learnedGen, eggAny, checked)
				if err != nil {
					return nil, err
				}
				for _, father := range fathers {
					if tradebackEligible && learnedGen == 2 && move.Gen <= 1 {
						sources = append(sources, Source{Gen: 1, Method: dex.MethodEgg, Tradeback: true, Species: father})
					}
					sources = append(sources, Source{Gen: learnedGen, Method: dex.MethodEgg, Species: father})
					if limitedEgg != eggFree {
						limitedEgg = eggLimited
					}
				}
				if len(fathers) == 0 {
					sources = append(sources, Source{Gen: learnedGen, Method: dex.MethodEgg, Species: p.ID})
					limitedEgg = eggSelf
				}

			case dex.MethodEvent:
				if tradebackEligible && learnedGen == 2 && move.Gen <= 1 {
					sources = append(sources, Source{Gen: 1, Method: dex.MethodEvent, Tradeback: true, Event: ls.EventIndex, Species: p.ID})
				}
				sources = append(sources, Source{Gen: learnedGen, Method: dex.MethodEvent, Event: ls.EventIndex, Species: p.ID})

			case dex.MethodDreamWorld:
				sources = append(sources, Source{Gen: learnedGen, Method: dex.MethodDreamWorld})

			case dex.MethodVirtualConsole:
				src := Source{Gen: learnedGen, Method: dex.MethodVirtualConsole}
				if len(sources) == 0 || sources[len(sources)-1] != src {
					sources = append(sources, src)
				}
			}
		}

		if table.Has("mimicglitch") && p.Gen < 5 {
			glitch := false
			for _, id := range glitchMoves {
				if _, ok := p.Learnset[id]; !ok {
					continue
				}
				if id == "mimic" && ability != nil && ability.Gen == 4 && p.Prevo == "" {
					continue
				}
				glitch = true
				break
			}
			if glitch {
				sourcesBefore = max(sourcesBefore, 4)
				if move.Gen < 5 {
					limit1 = false
				}
			}
		}

		switch {
		case p.Name == "Lycanroc-Dusk":
			next, ok := d.Species("Rockruff-Dusk")
			if !ok {
				break walk
			}
			p = next
		case p.Prevo != "":
			prevo, err := c.species(p.Prevo)
			if err != nil {
				return nil, err
			}
			if prevo.Gen > max(2, gen) {
				break walk
			}
			if prevo.Abilities.Hidden == "" {
				isHidden = false
			}
			p = prevo
		case p.IsForme() && p.BaseSpecies == "Rotom":
			base, err := c.species(p.BaseSpecies)
			if err != nil {
				return nil, err
			}
			p = base
		default:
			break walk
		}
	}

	if limit1 && sketch {
		if q.SketchMove != "" {
			return &Conflict{Kind: ConflictOversketched, MaxSketches: 1}, nil
		}
		q.SketchMove = move.ID
	}
	if blockedHM {
		if q.HM != "" {
			return &Conflict{Kind: ConflictIncompatibleTransfer}, nil
		}
		q.HM = move.ID
	}
	q.RestrictiveMoves = append(q.RestrictiveMoves, move.Name)

	if len(sources) == 0 && sourcesBefore == 0 {
		switch {
		case minPastGen > 1 && sometimesPossible:
			return &Conflict{Kind: ConflictPastGenerationOnly, Gen: minPastGen}, nil
		case incompatibleAbility:
			return &Conflict{Kind: ConflictIncompatibleAbility}, nil
		}
		return &Conflict{Kind: ConflictInvalid}, nil
	}

	if sourcesBefore > 0 || q.SourcesBefore > 0 {
		if sourcesBefore > q.SourcesBefore {
			// Older sources of the set still fit under this move's ceiling.
			for _, old := range q.Sources {
				if old.Gen <= sourcesBefore {
					sources = append(sources, old)
				}
			}
		} else if q.SourcesBefore > sourcesBefore {
			for _, src := range sources {
				if src.Gen <= q.SourcesBefore {
					q.Sources = append(q.Sources, src)
				}
			}
		}
		floor := min(sourcesBefore, q.SourcesBefore)
		q.SourcesBefore = floor
		sourcesBefore = floor
	}

	if len(q.Sources) > 0 {
		q.Sources = intersect(q.Sources, sources)
	}
	if len(q.Sources) == 0 && sourcesBefore == 0 {
		return &Conflict{Kind: ConflictIncompatible}, nil
	}

	switch limitedEgg {
	case eggLimited:
		q.LimitedEgg = append(q.LimitedEgg, move.ID)
	case eggSelf:
		q.LimitedEgg = append(q.LimitedEgg, "self")
	}
	if babyOnly != "" {
		q.BabyOnly = babyOnly
	}

	c.logger.Debug("learnset narrowed",
		"species", species.Name,
		"move", move.Name,
		"sources", len(q.Sources),
		"sourcesBefore", q.SourcesBefore,
	)
	return nil, nil
}

// fathers returns the ids of species that can pass move to p by breeding in
// learnedGen. With fromSelf the move is any egg move p itself could pass, so
// relatives qualify and the father need not know it.
func (c *Checker) fathers(p *dex.Species, move *dex.Move, learnedGen int, fromSelf bool, checked map[string]bool) ([]string, error) {
	d := c.dex
	eggGroups := p.EggGroups
	if len(eggGroups) == 0 {
		return nil, nil
	}
	if eggGroups[0] == "Undiscovered" && len(p.Evos) > 0 {
		evo, err := c.species(p.Evos[0])
		if err != nil {
			return nil, err
		}
		eggGroups = evo.EggGroups
	}

	var out []string
	for _, id := range d.Data().Pokedex.IDs() {
		father, ok := d.Species(id)
		if !ok {
			continue
		}
		if father.IsNonstandard != "" || father.Gen > learnedGen {
			continue
		}
		if father.Gender == "N" || father.Gender == "F" || !father.HasLearnset() {
			continue
		}
		if !fromSelf {
			if checked[father.ID] || data.ToID(father.Prevo) == p.ID || slices.ContainsFunc(father.Evos, func(evo string) bool { return data.ToID(evo) == p.ID }) {
				continue
			}
			_, knows := father.Learnset[move.ID]
			_, sketches := father.Learnset["sketch"]
			if !knows && !sketches {
				continue
			}
		}
		if !slices.ContainsFunc(father.EggGroups, func(g string) bool { return slices.Contains(eggGroups, g) }) {
			continue
		}
		out = append(out, father.ID)
	}
	return out, nil
}

func (c *Checker) species(name string) (*dex.Species, error) {
	s, ok := c.dex.Species(name)
	if !ok {
		return nil, &CheckError{Code: ErrCodeMissingSpecies, Message: fmt.Sprintf("no species %q in mod %q", name, c.dex.Mod())}
	}
	return s, nil
}

// intersect keeps the sources of have that also appear in want.
func intersect(have, want []Source) []Source {
	var out []Source
	for _, s := range have {
		if slices.Contains(want, s) {
			out = append(out, s)
		}
	}
	return out
}
