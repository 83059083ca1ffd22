// Package rules compiles a format's ruleset, banlist, unbanlist and custom
// rules into a flat RuleTable.
//
// Compilation runs in two stages. Parse classifies one raw rule string into
// a Token without looking anything up. The Compiler then resolves each
// token's targets against a Dex ("thing matching"), expands included
// formats recursively and folds their tables into the parent's.
package rules

import (
	"math"
	"strconv"
	"strings"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// Unlimited is the limit of a complex allow-override. A complex ban whose
// limit is Unlimited can never be replaced.
const Unlimited = math.MaxInt

// Token is one classified rule. It is one of Ban, Allow, Remove, Include
// or ComplexBan.
type Token interface {
	token()
}

// Ban is "-target".
type Ban struct {
	Target string
}

// Allow is "+target".
type Allow struct {
	Target string
}

// Remove is "!rule": the named rule is not inherited.
type Remove struct {
	Rule string
}

// Include is a bare rule naming another format whose rules are folded in.
type Include struct {
	Rule string
}

// ComplexBan is a ban (or, with Allow set, an override) on a combination of
// things: members joined by "+" on one Pokémon, or by "++" across a team.
type ComplexBan struct {
	// Rule is the normalized inner text, members joined by " + " or " ++ ".
	Rule string

	Members  []string
	Limit    int
	TeamWide bool
	Allow    bool
}

func (Ban) token()        {}
func (Allow) token()      {}
func (Remove) token()     {}
func (Include) token()    {}
func (ComplexBan) token() {}

// Parse classifies raw. It only fails on a one-member combination that
// carries no limit, which bans nothing.
func Parse(raw string) (Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Include{Rule: raw}, nil
	}

	switch raw[0] {
	case '-', '+':
		body := raw[1:]
		if !strings.ContainsAny(body, "+>") {
			target := strings.TrimSpace(body)
			if raw[0] == '+' {
				return Allow{Target: target}, nil
			}
			return Ban{Target: target}, nil
		}
		return parseComplex(raw, raw[0] == '+')
	case '!':
		return Remove{Rule: raw[1:]}, nil
	}
	return Include{Rule: raw}, nil
}

func parseComplex(raw string, allow bool) (Token, error) {
	buf := raw[1:]
	limit := 0
	if allow {
		limit = Unlimited
	}
	if gt := strings.LastIndexByte(buf, '>'); gt >= 0 {
		suffix := strings.TrimSpace(buf[gt+1:])
		if n, ok := parseCount(suffix); ok {
			if !allow {
				limit = n
			}
			buf = buf[:gt]
		}
	}

	teamWide := strings.Contains(buf, "++")
	sep := "+"
	if teamWide {
		sep = "++"
	}
	members := strings.Split(buf, sep)
	for i, m := range members {
		members[i] = strings.TrimSpace(m)
	}
	if len(members) == 1 && limit > 0 {
		teamWide = true
	}

	joiner := " + "
	if teamWide {
		joiner = " ++ "
	}
	cb := ComplexBan{
		Rule:     strings.Join(members, joiner),
		Members:  members,
		Limit:    limit,
		TeamWide: teamWide,
		Allow:    allow,
	}
	if !teamWide && len(members) == 1 && limit == 0 {
		return nil, &RuleError{Code: ErrCodeConfusingRule, Rule: raw, Message: "Confusing rule " + raw}
	}
	return cb, nil
}

// parseCount accepts a non-empty run of ASCII digits.
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ruleID is the format id a Remove or Include names.
func ruleID(name string) string {
	return data.ToID(name)
}
