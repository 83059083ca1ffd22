package data

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

const (
	// FormatsFile holds the ordered format list.
	FormatsFile = "formats.cue"

	// FormatLinksFile holds the informational links side table.
	FormatLinksFile = "format-links.cue"

	// OMotMSection is the section whose formats answer "omotm", "omotm2", ...
	OMotMSection = "OM of the Month"

	threadURL = "http://www.smogon.com/forums/threads/"
)

// FormatData is one declared format (or a display-only links entry).
type FormatData struct {
	ID              string   `json:"-"`
	Name            string   `json:"name"`
	Section         string   `json:"section,omitempty"`
	Column          int      `json:"column,omitempty"`
	Desc            string   `json:"desc,omitempty"`
	Mod             string   `json:"mod,omitempty"`
	EffectType      string   `json:"effectType,omitempty"`
	Ruleset         []string `json:"ruleset,omitempty"`
	Banlist         []string `json:"banlist,omitempty"`
	Unbanlist       []string `json:"unbanlist,omitempty"`
	MaxLevel        int      `json:"maxLevel,omitempty"`
	DefaultLevel    int      `json:"defaultLevel,omitempty"`
	Team            string   `json:"team,omitempty"`
	Rated           *bool    `json:"rated,omitempty"`
	SearchShow      *bool    `json:"searchShow,omitempty"`
	ChallengeShow   *bool    `json:"challengeShow,omitempty"`
	TournamentShow  *bool    `json:"tournamentShow,omitempty"`
	RequirePlus     bool     `json:"requirePlus,omitempty"`
	RequirePentagon bool     `json:"requirePentagon,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
	CheckLearnset   string   `json:"checkLearnset,omitempty"`
	Threads         []string `json:"threads,omitempty"`

	// Links are informational only.
	Links FormatLinks `json:"-"`

	// Declared is false for entries that only exist in the links table.
	Declared bool `json:"-"`
}

// FormatLinks are the display fields merged onto a format by id.
type FormatLinks struct {
	Name           string   `json:"name,omitempty"`
	Aliases        []string `json:"aliases,omitempty"`
	Desc           string   `json:"desc,omitempty"`
	Info           string   `json:"info,omitempty"`
	NP             string   `json:"np,omitempty"`
	Teams          string   `json:"teams,omitempty"`
	Viability      string   `json:"viability,omitempty"`
	RoleCompendium string   `json:"roleCompendium,omitempty"`
	Generator      string   `json:"generator,omitempty"`
	UserHosted     bool     `json:"userHosted,omitempty"`
}

// FormatList is the parsed format source.
type FormatList struct {
	Order   []string
	Formats map[string]*FormatData
	OMotMs  []string
}

// Get returns the format with id.
func (l *FormatList) Get(id string) (*FormatData, bool) {
	f, ok := l.Formats[id]
	return f, ok
}

// LoadFormats compiles formats.cue and format-links.cue from the data root.
// Both files are optional.
func (l *Loader) LoadFormats(currentGen int) (*FormatList, error) {
	list := &FormatList{Formats: make(map[string]*FormatData)}
	ctx := cuecontext.New()

	declared, err := l.loadFormatDecls(ctx, currentGen, list)
	if err != nil {
		return nil, err
	}

	links, err := l.loadFormatLinks(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range links.order {
		if _, ok := list.Formats[id]; ok {
			continue
		}
		lk := links.entries[id]
		list.Formats[id] = &FormatData{
			ID:      id,
			Name:    lk.Name,
			Desc:    lk.Desc,
			Aliases: lk.Aliases,
			Links:   *lk,
		}
		list.Order = append(list.Order, id)
	}

	for _, f := range declared {
		official := officialThreads(f)
		if lk, ok := links.entries[f.ID]; ok {
			f.Links = *lk
			if f.Desc == "" {
				f.Desc = lk.Desc
			}
			f.Links.Info = threadLink(lk.Info, official.Info)
			f.Links.NP = threadLink(lk.NP, official.NP)
			f.Links.Viability = threadLink(lk.Viability, official.Viability)
			f.Links.Teams = threadLink(lk.Teams, "")
			f.Links.RoleCompendium = threadLink(lk.RoleCompendium, "")
		} else {
			f.Links.Info = threadLink(official.Info, "")
			f.Links.NP = threadLink(official.NP, "")
			f.Links.Viability = threadLink(official.Viability, "")
		}
	}
	for _, id := range list.Order {
		f := list.Formats[id]
		if f.Declared {
			continue
		}
		f.Links.Info = threadLink(f.Links.Info, "")
		f.Links.NP = threadLink(f.Links.NP, "")
		f.Links.Viability = threadLink(f.Links.Viability, "")
		f.Links.Teams = threadLink(f.Links.Teams, "")
		f.Links.RoleCompendium = threadLink(f.Links.RoleCompendium, "")
	}

	l.logger.Debug("formats loaded", "declared", len(declared), "total", len(list.Order), "omotm", len(list.OMotMs))
	return list, nil
}

func (l *Loader) loadFormatDecls(ctx *cue.Context, currentGen int, list *FormatList) ([]*FormatData, error) {
	b, ok, err := l.readFile(FormatsFile)
	if err != nil || !ok {
		return nil, err
	}
	root := ctx.CompileBytes(b, cue.Filename(FormatsFile))
	if err := root.Err(); err != nil {
		return nil, cueLoadError(FormatsFile, err)
	}
	formatsVal := root.LookupPath(cue.ParsePath("formats"))
	if !formatsVal.Exists() {
		return nil, &LoadError{Code: ErrCodeInvalidFormatList, Path: FormatsFile, Message: "formats list is required", Pos: root.Pos()}
	}
	iter, err := formatsVal.List()
	if err != nil {
		return nil, cueLoadError(FormatsFile, err)
	}

	var (
		declared []*FormatData
		section  string
		column   = 1
		index    int
	)
	defaultMod := fmt.Sprintf("gen%d", currentGen)
	for iter.Next() {
		index++
		v := iter.Value()
		f := &FormatData{}
		if err := v.Decode(f); err != nil {
			return nil, cueLoadError(FormatsFile, err)
		}
		if f.Section != "" {
			section = f.Section
		}
		if f.Column != 0 {
			column = f.Column
		}
		if f.Name == "" && f.Section != "" {
			continue
		}
		f.ID = ToID(f.Name)
		if f.ID == "" {
			return nil, &LoadError{
				Code:    ErrCodeInvalidFormatList,
				Path:    FormatsFile,
				Message: fmt.Sprintf("format #%d must have a name with alphanumeric characters, not %q", index, f.Name),
				Pos:     v.Pos(),
			}
		}
		if _, dup := list.Formats[f.ID]; dup {
			return nil, &LoadError{
				Code:    ErrCodeInvalidFormatList,
				Path:    FormatsFile,
				Message: fmt.Sprintf("duplicate format %q", f.ID),
				Pos:     v.Pos(),
			}
		}
		if f.Section == "" {
			f.Section = section
		}
		if f.Column == 0 {
			f.Column = column
		}
		f.ChallengeShow = defaultTrue(f.ChallengeShow)
		f.SearchShow = defaultTrue(f.SearchShow)
		f.TournamentShow = defaultTrue(f.TournamentShow)
		if f.Mod == "" {
			f.Mod = defaultMod
		}
		if f.EffectType == "" {
			f.EffectType = "Format"
		}
		f.Declared = true
		if f.Section == OMotMSection {
			list.OMotMs = append(list.OMotMs, f.ID)
		}

		list.Formats[f.ID] = f
		list.Order = append(list.Order, f.ID)
		declared = append(declared, f)
	}
	return declared, nil
}

type formatLinkTable struct {
	order   []string
	entries map[string]*FormatLinks
}

func (l *Loader) loadFormatLinks(ctx *cue.Context) (formatLinkTable, error) {
	table := formatLinkTable{entries: make(map[string]*FormatLinks)}
	b, ok, err := l.readFile(FormatLinksFile)
	if err != nil || !ok {
		return table, err
	}
	root := ctx.CompileBytes(b, cue.Filename(FormatLinksFile))
	if err := root.Err(); err != nil {
		return table, cueLoadError(FormatLinksFile, err)
	}
	linksVal := root.LookupPath(cue.ParsePath("formatLinks"))
	if !linksVal.Exists() {
		return table, nil
	}
	iter, err := linksVal.Fields()
	if err != nil {
		return table, cueLoadError(FormatLinksFile, err)
	}
	for iter.Next() {
		lk := &FormatLinks{}
		if err := iter.Value().Decode(lk); err != nil {
			return table, cueLoadError(FormatLinksFile, err)
		}
		id := ToID(iter.Label())
		if id == "" {
			return table, &LoadError{
				Code:    ErrCodeInvalidFormatList,
				Path:    FormatLinksFile,
				Message: fmt.Sprintf("link key %q has no alphanumeric characters", iter.Label()),
				Pos:     iter.Value().Pos(),
			}
		}
		table.order = append(table.order, id)
		table.entries[id] = lk
	}
	return table, nil
}

// officialThreads extracts thread numbers from a format's "&bullet;" HTML lines.
func officialThreads(f *FormatData) FormatLinks {
	var out FormatLinks
	for _, raw := range f.Threads {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "&bullet;") {
			continue
		}
		anchor, _, _ := strings.Cut(line, "</a>")
		_, text, found := strings.Cut(anchor, `">`)
		if !found || text == "" {
			continue
		}
		num := threadNumber(line)
		if num == "" {
			continue
		}
		switch {
		case strings.Contains(text, "Viability Ranking"):
			out.Viability = num
		case strings.HasPrefix(text, "np:") || strings.Contains(text, f.Name+" Stage"):
			out.NP = num
		case ToID(text) == f.ID:
			out.Info = num
		}
	}
	return out
}

// threadNumber returns the last path segment of the href in line.
func threadNumber(line string) string {
	_, href, found := strings.Cut(line, `<a href="`)
	if !found {
		return ""
	}
	href, _, _ = strings.Cut(href, `/">`)
	return path.Base(href)
}

// threadLink rewrites a numeric link to a forum thread URL, preferring the
// larger of the link number and the official number. Non-numeric links are
// returned unchanged.
func threadLink(link, official string) string {
	if link == "" {
		return ""
	}
	head, _, _ := strings.Cut(link, "/")
	num, ok := leadingInt(head)
	if !ok {
		return link
	}
	if off, ok := leadingInt(official); ok && off > num {
		num = off
	}
	return threadURL + strconv.Itoa(num)
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

func defaultTrue(b *bool) *bool {
	if b != nil {
		return b
	}
	t := true
	return &t
}

// cueLoadError converts a CUE error into a LoadError carrying its position.
func cueLoadError(p string, err error) *LoadError {
	le := &LoadError{Code: ErrCodeInvalidFormatList, Path: p, Message: err.Error(), Err: err}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Message = errs[0].Error()
		if pos := errs[0].Position(); pos.IsValid() {
			le.Pos = pos
		}
	}
	return le
}

// Shown reports a show flag, treating unset as true.
func Shown(b *bool) bool {
	return b == nil || *b
}
