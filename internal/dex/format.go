package dex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// CustomRulesSeparator splits a format string into base and custom rules.
const CustomRulesSeparator = "@@@"

// customRuleFormats are formats defined as another format plus custom rules.
var customRuleFormats = map[string]string{
	"gen7nfe": "gen7nu@@@-NU,-PU,-PUBL,-ZU,-Vigoroth,-Drought,+Clefairy,+Ferroseed,+Haunter,+Roselia,+Tangela",
}

// Format is a format entry with its computed fields and an optional
// session overlay of custom rules.
type Format struct {
	data.FormatData

	ID                 string   `json:"id"`
	Ruleset            []string `json:"ruleset"`
	Banlist            []string `json:"banlist"`
	Unbanlist          []string `json:"unbanlist"`
	MaxLevel           int      `json:"maxLevel"`
	DefaultLevel       int      `json:"defaultLevel"`
	CustomRules        []string `json:"customRules,omitempty"`
	TournamentPlayable bool     `json:"tournamentPlayable"`
	Unranked           bool     `json:"unranked"`
}

// Key identifies the format together with its custom rules.
func (f *Format) Key() string {
	if len(f.CustomRules) == 0 {
		return f.ID
	}
	return f.ID + CustomRulesSeparator + strings.Join(f.CustomRules, ",")
}

// Format returns the format called name. Custom rules in an untrusted name
// ("base@@@rules") are dropped; validate them first and use TrustedFormat.
func (d *Dex) Format(name string) (*Format, bool) {
	return d.format(name, false)
}

// TrustedFormat is Format for names whose custom rules are already validated.
func (d *Dex) TrustedFormat(name string) (*Format, bool) {
	return d.format(name, true)
}

// MustFormat returns the format called name and panics if it does not exist.
func (d *Dex) MustFormat(name string) *Format {
	f, ok := d.Format(name)
	if !ok {
		panic(fmt.Sprintf("dex: no format %q in mod %q", name, d.Mod()))
	}
	return f
}

func (d *Dex) format(name string, trusted bool) (*Format, bool) {
	if data.ToID(name) == "" || d.table.Formats == nil {
		return nil, false
	}

	var custom []string
	base, rules, hasRules := strings.Cut(name, CustomRulesSeparator)
	if hasRules && trusted && rules != "" {
		custom = strings.Split(rules, ",")
	}
	id := data.ToID(base)

	if target, ok := d.table.Aliases[id]; ok {
		id = data.ToID(target)
	} else if rest, ok := strings.CutPrefix(id, "omotm"); ok {
		index := 1
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil {
				index = 0
			} else {
				index = n
			}
		}
		if index >= 1 && index <= len(d.table.Formats.OMotMs) {
			id = d.table.Formats.OMotMs[index-1]
		}
	}

	fd, ok := d.table.Formats.Get(id)
	if !ok {
		currentGenID := "gen" + strconv.Itoa(d.CurrentGen()) + id
		if _, ok := d.table.Formats.Get(currentGenID); ok {
			if custom != nil {
				return d.format(currentGenID+CustomRulesSeparator+strings.Join(custom, ","), true)
			}
			return d.format(currentGenID, false)
		}
		if def, ok := customRuleFormats[id]; ok {
			return d.format(def, true)
		}
		if def, ok := customRuleFormats[currentGenID]; ok {
			return d.format(def, true)
		}
		return nil, false
	}

	f := &Format{
		FormatData:   *fd,
		ID:           id,
		Ruleset:      nonNil(fd.Ruleset),
		Banlist:      nonNil(fd.Banlist),
		Unbanlist:    nonNil(fd.Unbanlist),
		MaxLevel:     fd.MaxLevel,
		DefaultLevel: fd.DefaultLevel,
		CustomRules:  custom,
	}
	if f.MaxLevel == 0 {
		f.MaxLevel = 100
	}
	if f.DefaultLevel == 0 {
		f.DefaultLevel = f.MaxLevel
	}
	if f.EffectType == "" {
		f.EffectType = "Format"
	}
	f.TournamentPlayable = isSet(fd.SearchShow) || isSet(fd.ChallengeShow) || isSet(fd.TournamentShow)
	f.Unranked = (fd.Rated != nil && !*fd.Rated) ||
		strings.Contains(id, "customgame") ||
		strings.Contains(id, "challengecup") ||
		strings.Contains(id, "hackmonscup") ||
		(fd.Team != "" && (strings.Contains(id, "1v1") || strings.Contains(id, "monotype"))) ||
		fd.Mod == "seasonal" || fd.Mod == "ssb"
	if custom != nil {
		hidden := false
		f.SearchShow = &hidden
	}
	return f, true
}

// Formats returns every format id in declaration order.
func (d *Dex) Formats() []string {
	if d.table.Formats == nil {
		return nil
	}
	return d.table.Formats.Order
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
