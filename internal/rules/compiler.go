package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/DatSpookTho/Lanette/internal/dex"
)

// DefaultMaxDepth bounds nested ruleset expansion.
const DefaultMaxDepth = 16

// Compiler compiles formats of one Dex into RuleTables and memoizes them by
// format key. Safe for concurrent use.
type Compiler struct {
	dex      *dex.Dex
	logger   *slog.Logger
	maxDepth int

	mu   sync.Mutex
	memo map[string]*RuleTable
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMaxDepth sets how deeply rulesets may nest.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		c.maxDepth = depth
	}
}

// WithLogger sets the compiler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// NewCompiler returns a compiler resolving rules against d.
func NewCompiler(d *dex.Dex, opts ...Option) *Compiler {
	c := &Compiler{
		dex:      d,
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
		memo:     make(map[string]*RuleTable),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dex returns the dex rules are resolved against.
func (c *Compiler) Dex() *dex.Dex { return c.dex }

// RuleTable compiles f. The result is shared; do not modify it.
func (c *Compiler) RuleTable(f *dex.Format) (*RuleTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compile(f, 0, map[string]bool{})
}

// Resolved is one validated rule: either a table key or a complex ban.
type Resolved struct {
	// Key is "-thing", "+thing", "!formatid" or "formatid". Empty for
	// complex bans.
	Key string

	// Complex is set for complex bans.
	Complex *Restriction

	// TeamWide is set for complex bans counted across a team.
	TeamWide bool
}

// ValidateRule parses raw and resolves its targets.
func (c *Compiler) ValidateRule(raw string) (Resolved, error) {
	return c.validate(raw, nil)
}

func (c *Compiler) validate(raw string, f *dex.Format) (Resolved, error) {
	tok, err := Parse(raw)
	if err != nil {
		return Resolved{}, err
	}

	switch tok.(type) {
	case Ban, Allow, ComplexBan:
		if f != nil && f.Team != "" {
			return Resolved{}, &RuleError{Code: ErrCodeTeamBans, Rule: raw, Message: "We don't currently support bans in generated teams"}
		}
	}

	switch t := tok.(type) {
	case Ban:
		thing, err := c.matchThing(t.Target)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Key: "-" + thing}, nil
	case Allow:
		thing, err := c.matchThing(t.Target)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Key: "+" + thing}, nil
	case ComplexBan:
		bans := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			thing, err := c.matchThing(m)
			if err != nil {
				return Resolved{}, err
			}
			bans = append(bans, thing)
		}
		return Resolved{
			Complex:  &Restriction{Rule: t.Rule, Limit: t.Limit, Bans: bans},
			TeamWide: t.TeamWide,
		}, nil
	case Remove:
		id, err := c.formatID(t.Rule, raw)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Key: "!" + id}, nil
	case Include:
		id, err := c.formatID(t.Rule, raw)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Key: id}, nil
	}
	return Resolved{}, fmt.Errorf("unhandled rule token %T", tok)
}

func (c *Compiler) formatID(name, raw string) (string, error) {
	id := ruleID(name)
	formats := c.dex.Data().Formats
	if formats == nil || id == "" {
		return "", &RuleError{Code: ErrCodeUnrecognizedRule, Rule: raw, Message: fmt.Sprintf("Unrecognized rule %q", raw)}
	}
	if _, ok := formats.Get(id); !ok {
		return "", &RuleError{Code: ErrCodeUnrecognizedRule, Rule: raw, Message: fmt.Sprintf("Unrecognized rule %q", raw)}
	}
	return id, nil
}

// tokens lists f's rules in evaluation order: ruleset, banlist, unbanlist,
// then custom rules with removals first.
func tokens(f *dex.Format) []string {
	var removals, out []string
	for _, r := range f.CustomRules {
		if strings.HasPrefix(strings.TrimSpace(r), "!") {
			removals = append([]string{r}, removals...)
		}
	}
	out = append(out, removals...)
	out = append(out, f.Ruleset...)
	for _, b := range f.Banlist {
		out = append(out, "-"+b)
	}
	for _, u := range f.Unbanlist {
		out = append(out, "+"+u)
	}
	for _, r := range f.CustomRules {
		if !strings.HasPrefix(strings.TrimSpace(r), "!") {
			out = append(out, r)
		}
	}
	return out
}

func (c *Compiler) compile(f *dex.Format, depth int, active map[string]bool) (*RuleTable, error) {
	key := f.Key()
	if t, ok := c.memo[key]; ok {
		return t, nil
	}
	active[key] = true
	defer delete(active, key)

	table := newRuleTable()
	if f.CheckLearnset != "" {
		table.Hook = &LearnsetHook{Name: f.CheckLearnset, Owner: f.Name}
	}

	for _, raw := range tokens(f) {
		r, err := c.validate(raw, f)
		if err != nil {
			return nil, withFormat(err, f)
		}

		if r.Complex != nil {
			if r.TeamWide {
				table.addComplexTeamBan(*r.Complex)
			} else {
				table.addComplexBan(*r.Complex)
			}
			continue
		}

		switch r.Key[0] {
		case '+':
			table.delete("-" + r.Key[1:])
			table.set(r.Key, "")
			continue
		case '-', '!':
			table.set(r.Key, "")
			continue
		}

		sub, ok := c.dex.Format(r.Key)
		if !ok {
			continue
		}
		if table.Has("!" + sub.ID) {
			continue
		}
		table.set(sub.ID, "")

		if active[sub.Key()] {
			return nil, excessiveRecursion(f, raw, r.Key)
		}
		// A memoized sub still needs its own nesting to fit below depth.
		subTable, hit := c.memo[sub.Key()]
		if hit {
			if depth+subTable.height > c.maxDepth {
				return nil, excessiveRecursion(f, raw, r.Key)
			}
		} else {
			if depth > c.maxDepth {
				return nil, excessiveRecursion(f, raw, r.Key)
			}
			subTable, err = c.compile(sub, depth+1, active)
			if err != nil {
				return nil, err
			}
		}
		table.height = max(table.height, subTable.height+1)
		if err := fold(table, subTable, sub, f); err != nil {
			return nil, err
		}
	}

	c.memo[key] = table
	c.logger.Debug("format compiled",
		"format", f.Name,
		"mod", c.dex.Mod(),
		"depth", depth,
		"height", table.height,
		"rules", table.Len(),
		"complexBans", len(table.ComplexBans)+len(table.ComplexTeamBans),
	)
	return table, nil
}

func excessiveRecursion(f *dex.Format, raw, key string) *RuleError {
	return &RuleError{
		Code:    ErrCodeExcessiveRecursion,
		Format:  f.Name,
		Rule:    raw,
		Message: fmt.Sprintf("Excessive ruleTable recursion in %s: %s of %s", f.Name, key, strings.Join(f.Ruleset, ",")),
	}
}

// fold copies sub's rules into table unless table removes them.
func fold(table, sub *RuleTable, subFormat, f *dex.Format) error {
	for _, k := range sub.keys {
		if table.Has("!" + k) {
			continue
		}
		src := sub.sources[k]
		if src == "" {
			src = subFormat.Name
		}
		table.set(k, src)
	}
	for _, r := range sub.ComplexBans {
		if r.Source == "" {
			r.Source = subFormat.Name
		}
		table.addComplexBan(r)
	}
	for _, r := range sub.ComplexTeamBans {
		if r.Source == "" {
			r.Source = subFormat.Name
		}
		table.addComplexTeamBan(r)
	}
	if sub.Hook != nil {
		if table.Hook != nil && table.Hook.Owner != sub.Hook.Owner {
			return &RuleError{
				Code:    ErrCodeHookConflict,
				Format:  f.Name,
				Message: fmt.Sprintf("%q has conflicting move validation rules from %q and %q", f.Name, table.Hook.Owner, sub.Hook.Owner),
			}
		}
		hook := *sub.Hook
		table.Hook = &hook
	}
	return nil
}

func withFormat(err error, f *dex.Format) error {
	var re *RuleError
	if errors.As(err, &re) && re.Format == "" {
		copied := *re
		copied.Format = f.Name
		return &copied
	}
	return err
}

// ValidateFormat checks "base@@@rule,rule" and returns its canonical form:
// the base format id followed by the custom rules that change anything.
func (c *Compiler) ValidateFormat(name string) (string, error) {
	base, custom, _ := strings.Cut(name, dex.CustomRulesSeparator)
	f, ok := c.dex.Format(base)
	if !ok {
		return "", &RuleError{Code: ErrCodeUnrecognizedFormat, Message: fmt.Sprintf("Unrecognized format %q", base)}
	}
	if custom == "" {
		return f.ID, nil
	}

	table, err := c.RuleTable(f)
	if err != nil {
		return "", err
	}

	var kept []string
	for _, raw := range strings.Split(custom, ",") {
		r, err := c.ValidateRule(raw)
		if err != nil {
			return "", withFormat(err, f)
		}
		if r.Key != "" && table.Has(r.Key) {
			continue
		}
		if cleaned := cleanRule(raw); cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	if len(kept) == 0 {
		return "", &RuleError{Code: ErrCodeRedundantCustomRules, Format: f.Name, Message: "The format already has your custom rules"}
	}

	id := f.ID + dex.CustomRulesSeparator + strings.Join(kept, ",")
	modded, ok := c.dex.TrustedFormat(id)
	if !ok {
		return "", &RuleError{Code: ErrCodeUnrecognizedFormat, Message: fmt.Sprintf("Unrecognized format %q", id)}
	}
	if _, err := c.RuleTable(modded); err != nil {
		return "", err
	}
	return id, nil
}

var ruleCleaner = strings.NewReplacer("\r", "", "\n", "", "|", "")

func cleanRule(rule string) string {
	return strings.TrimSpace(ruleCleaner.Replace(rule))
}
