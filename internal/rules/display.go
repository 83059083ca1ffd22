package rules

import (
	"strings"

	"github.com/DatSpookTho/Lanette/internal/dex"
)

// clauseNicknames are the short names rules take in custom format names.
var clauseNicknames = map[string]string{
	"Same Type Clause":         "Monotype",
	"STABmons Move Legality":   "STABmons",
	"Inverse Mod":              "Inverse",
	"Allow One Sketch":         "Sketchmons",
	"Allow CAP":                "CAP",
	"Allow Tradeback":          "Tradeback",
	"Ignore Illegal Abilities": "Almost Any Ability",
}

// SeparatedCustomRules groups custom rules by kind, by display name.
type SeparatedCustomRules struct {
	Bans         []string `json:"bans"`
	Unbans       []string `json:"unbans"`
	AddedRules   []string `json:"addedRules"`
	RemovedRules []string `json:"removedRules"`
}

// ValidatedRuleName returns the display name of a validated rule key such
// as "-pokemon:pikachu", "!speciesclause" or "unreleased".
func (c *Compiler) ValidatedRuleName(rule string) string {
	switch rule {
	case "unreleased":
		return "Unreleased"
	case "illegal":
		return "Illegal"
	}
	name := rule
	if name != "" && strings.ContainsRune("+-!", rune(name[0])) {
		name = name[1:]
	}
	tag := ""
	if i := strings.IndexByte(name, ':'); i >= 0 {
		tag, name = name[:i], name[i+1:]
	}

	d := c.dex
	switch tag {
	case CategoryAbility:
		if a, ok := d.Ability(name); ok {
			return a.Name
		}
	case CategoryItem:
		if it, ok := d.Item(name); ok {
			return it.Name
		}
	case CategoryMove:
		if m, ok := d.Move(name); ok {
			return m.Name
		}
	case CategoryPokemon, CategoryBasePokemon:
		if s, ok := d.Species(name); ok {
			return s.Name
		}
	case CategoryPokemonTag:
		if label, ok := d.Tags().Label(dex.TagTier, name); ok {
			return label
		}
	default:
		if f, ok := d.Format(name); ok {
			return f.Name
		}
	}
	return name
}

// SeparateCustomRules validates customRules and groups them by kind.
func (c *Compiler) SeparateCustomRules(customRules []string) (SeparatedCustomRules, error) {
	var out SeparatedCustomRules
	for _, raw := range customRules {
		r, err := c.ValidateRule(raw)
		if err != nil {
			return SeparatedCustomRules{}, err
		}
		if r.Complex != nil {
			names := make([]string, 0, len(r.Complex.Bans))
			for _, b := range r.Complex.Bans {
				names = append(names, c.ValidatedRuleName(b))
			}
			sep := " + "
			if r.TeamWide {
				sep = " ++ "
			}
			out.Bans = append(out.Bans, strings.Join(names, sep))
			continue
		}

		if r.Key == "" {
			continue
		}
		name := c.ValidatedRuleName(r.Key)
		switch r.Key[0] {
		case '+':
			out.Unbans = append(out.Unbans, name)
		case '-':
			out.Bans = append(out.Bans, name)
		case '!':
			out.RemovedRules = append(out.RemovedRules, name)
		default:
			out.AddedRules = append(out.AddedRules, name)
		}
	}
	return out, nil
}

// CombineCustomRules is the inverse of SeparateCustomRules.
func CombineCustomRules(s SeparatedCustomRules) []string {
	var out []string
	for _, b := range s.Bans {
		out = append(out, "-"+b)
	}
	for _, u := range s.Unbans {
		out = append(out, "+"+u)
	}
	out = append(out, s.AddedRules...)
	for _, r := range s.RemovedRules {
		out = append(out, "!"+r)
	}
	return out
}

// CustomFormatName names f after its custom rules, e.g.
// "(No Pikachu) Monotype [Gen 7] OU (Plus Leftovers)". Groups equal to
// defaults are left out. Unless showAll is set, a format with more than two
// rules of any kind keeps its plain name.
func (c *Compiler) CustomFormatName(f *dex.Format, defaults SeparatedCustomRules, showAll bool) (string, error) {
	if len(f.CustomRules) == 0 {
		return f.Name, nil
	}
	s, err := c.SeparateCustomRules(f.CustomRules)
	if err != nil {
		return "", err
	}
	if !showAll && (len(s.Bans) > 2 || len(s.Unbans) > 2 || len(s.AddedRules) > 2 || len(s.RemovedRules) > 2) {
		return f.Name, nil
	}

	var removed, added, suffixes []string
	if len(s.Bans) > 0 && !sameRules(s.Bans, defaults.Bans) {
		removed = append(removed, s.Bans...)
	}
	if len(s.Unbans) > 0 && !sameRules(s.Unbans, defaults.Unbans) {
		suffixes = append(suffixes, s.Unbans...)
	}
	if len(s.AddedRules) > 0 && !sameRules(s.AddedRules, defaults.AddedRules) {
		for _, rule := range s.AddedRules {
			name := rule
			if sub, ok := c.dex.Format(rule); ok && sub.EffectType == "Format" && strings.HasPrefix(sub.Name, "[Gen") {
				if i := strings.Index(sub.Name, "]"); i >= 0 && i+2 <= len(sub.Name) {
					name = sub.Name[i+2:]
				}
			} else if nick, ok := clauseNicknames[rule]; ok {
				name = nick
			}
			added = append(added, name)
		}
	}
	if len(s.RemovedRules) > 0 && !sameRules(s.RemovedRules, defaults.RemovedRules) {
		for _, rule := range s.RemovedRules {
			if nick, ok := clauseNicknames[rule]; ok {
				rule = nick
			}
			removed = append(removed, rule)
		}
	}

	var b strings.Builder
	if len(removed) > 0 {
		b.WriteString("(No " + joinList(removed, "or") + ") ")
	}
	if len(added) > 0 {
		b.WriteString(strings.Join(added, "-") + " ")
	}
	b.WriteString(f.Name)
	if len(suffixes) > 0 {
		b.WriteString(" (Plus " + joinList(suffixes, "and") + ")")
	}
	return b.String(), nil
}

// sameRules reports whether rules equals a non-empty default group.
func sameRules(rules, defaults []string) bool {
	return len(defaults) > 0 && strings.Join(rules, ",") == strings.Join(defaults, ",")
}

// joinList renders "a", "a or b", or "a, b, or c".
func joinList(list []string, conjunction string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	case 2:
		return list[0] + " " + conjunction + " " + list[1]
	}
	last := len(list) - 1
	return strings.Join(list[:last], ", ") + ", " + conjunction + " " + list[last]
}
