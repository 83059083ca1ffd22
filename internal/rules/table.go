package rules

import (
	"encoding/json"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// Restriction is one compiled complex ban.
type Restriction struct {
	// Rule is the normalized rule text, e.g. "Pikachu ++ Raichu".
	Rule string

	// Source is the display name of the format that contributed the rule,
	// or empty when the compiled format declared it itself.
	Source string

	// Limit is how many members may appear together; Unlimited for
	// allow-overrides.
	Limit int

	// Bans are the matched things, e.g. "pokemon:pikachu".
	Bans []string
}

// LearnsetHook names the custom learnset check a format installs.
type LearnsetHook struct {
	// Name is the registered hook name.
	Name string `json:"name"`

	// Owner is the display name of the format that declared it.
	Owner string `json:"owner"`
}

// RuleTable is the flattened rule set of one compiled format.
//
// Keys are prefixed rule strings ("-pokemon:pikachu", "+item:leftovers",
// "!speciesclause") or bare format ids ("standard"); each maps to the
// display name of the sub-format it was inherited from. Key order is
// insertion order; re-adding a deleted key appends it.
//
// A RuleTable is immutable once returned by a Compiler.
type RuleTable struct {
	keys    []string
	sources map[string]string

	ComplexBans     []Restriction
	ComplexTeamBans []Restriction
	Hook            *LearnsetHook

	// height is the longest chain of included formats below this one.
	height int
}

func newRuleTable() *RuleTable {
	return &RuleTable{sources: make(map[string]string)}
}

// Has reports whether key is in the table.
func (t *RuleTable) Has(key string) bool {
	_, ok := t.sources[key]
	return ok
}

// Get returns the source of key.
func (t *RuleTable) Get(key string) (string, bool) {
	src, ok := t.sources[key]
	return src, ok
}

// Keys returns every key in insertion order.
func (t *RuleTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of keys.
func (t *RuleTable) Len() int {
	return len(t.keys)
}

// Check reports why thing (e.g. "pokemon:pikachu") is banned, or "" if it
// is not.
func (t *RuleTable) Check(thing string) string {
	return t.Reason("-" + thing)
}

// Reason describes key: "" if absent, "banned" if declared directly, or
// "banned by <source>".
func (t *RuleTable) Reason(key string) string {
	src, ok := t.sources[key]
	if !ok {
		return ""
	}
	if src == "" {
		return "banned"
	}
	return "banned by " + src
}

func (t *RuleTable) set(key, source string) {
	if _, ok := t.sources[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.sources[key] = source
}

func (t *RuleTable) delete(key string) {
	if _, ok := t.sources[key]; !ok {
		return
	}
	delete(t.sources, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

func (t *RuleTable) addComplexBan(r Restriction) {
	t.ComplexBans = addRestriction(t.ComplexBans, r)
}

func (t *RuleTable) addComplexTeamBan(r Restriction) {
	t.ComplexTeamBans = addRestriction(t.ComplexTeamBans, r)
}

// addRestriction replaces the entry with the same rule id unless that entry
// is an allow-override.
func addRestriction(list []Restriction, r Restriction) []Restriction {
	id := data.ToID(r.Rule)
	for i, existing := range list {
		if data.ToID(existing.Rule) != id {
			continue
		}
		if existing.Limit == Unlimited {
			return list
		}
		list[i] = r
		return list
	}
	return append(list, r)
}

type jsonRule struct {
	Key    string `json:"key"`
	Source string `json:"source,omitempty"`
}

type jsonRestriction struct {
	Rule      string   `json:"rule"`
	Source    string   `json:"source,omitempty"`
	Limit     int      `json:"limit"`
	Unlimited bool     `json:"unlimited,omitempty"`
	Bans      []string `json:"bans"`
}

type jsonRuleTable struct {
	Rules           []jsonRule        `json:"rules"`
	ComplexBans     []jsonRestriction `json:"complexBans"`
	ComplexTeamBans []jsonRestriction `json:"complexTeamBans"`
	Hook            *LearnsetHook     `json:"learnsetHook,omitempty"`
}

// MarshalJSON renders the table with keys in insertion order. An
// Unlimited limit renders as 0 with "unlimited" set.
func (t *RuleTable) MarshalJSON() ([]byte, error) {
	out := jsonRuleTable{
		Rules:           make([]jsonRule, 0, len(t.keys)),
		ComplexBans:     restrictionsJSON(t.ComplexBans),
		ComplexTeamBans: restrictionsJSON(t.ComplexTeamBans),
		Hook:            t.Hook,
	}
	for _, k := range t.keys {
		out.Rules = append(out.Rules, jsonRule{Key: k, Source: t.sources[k]})
	}
	return json.Marshal(out)
}

func restrictionsJSON(list []Restriction) []jsonRestriction {
	out := make([]jsonRestriction, 0, len(list))
	for _, r := range list {
		jr := jsonRestriction{Rule: r.Rule, Source: r.Source, Limit: r.Limit, Bans: r.Bans}
		if r.Limit == Unlimited {
			jr.Limit = 0
			jr.Unlimited = true
		}
		if jr.Bans == nil {
			jr.Bans = []string{}
		}
		out = append(out, jr)
	}
	return out
}
