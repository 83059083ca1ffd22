// Package data reads the raw per-mod game data tables and the format list.
//
// The loader is deliberately dumb: it knows file names, shapes and the
// tombstone / partial-override markers, but no inheritance or derivation.
// Those live in package dex.
package data

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// BaseMod is the root of the mod tree. Its files live at the data root.
const BaseMod = "base"

// ModsDir is the directory (relative to the data root) holding one
// subdirectory per non-base mod.
const ModsDir = "mods"

// InheritKey marks a partial override: the entry is merged over the parent's.
const InheritKey = "inherit"

// Kind identifies one data table.
type Kind string

const (
	KindPokedex     Kind = "pokedex"
	KindFormatsData Kind = "formats-data"
	KindLearnsets   Kind = "learnsets"
	KindMoves       Kind = "moves"
	KindItems       Kind = "items"
	KindAbilities   Kind = "abilities"
	KindTypeChart   Kind = "typechart"
	KindAliases     Kind = "aliases"
	KindCategories  Kind = "categories"
)

// TableKinds lists every per-mod table in load order.
var TableKinds = []Kind{
	KindPokedex,
	KindFormatsData,
	KindLearnsets,
	KindMoves,
	KindItems,
	KindAbilities,
	KindTypeChart,
	KindAliases,
	KindCategories,
}

// scalarKinds hold plain string values instead of mappings.
var scalarKinds = map[Kind]bool{
	KindAliases:    true,
	KindCategories: true,
}

// FileName returns the YAML file name for a table kind.
func (k Kind) FileName() string {
	return string(k) + ".yaml"
}

// RawTable is one decoded data file: ids in file order and their nodes.
// A nil node is a tombstone ("do not inherit this id").
type RawTable struct {
	Order   []string
	Entries map[string]*yaml.Node

	// Keys maps each id to the key as written in the file.
	Keys map[string]string
}

// NewRawTable returns an empty table.
func NewRawTable() *RawTable {
	return &RawTable{
		Entries: make(map[string]*yaml.Node),
		Keys:    make(map[string]string),
	}
}

// Len returns the number of ids mentioned, tombstones included.
func (t *RawTable) Len() int {
	return len(t.Order)
}

// Has reports whether the table mentions id at all.
func (t *RawTable) Has(id string) bool {
	_, ok := t.Entries[id]
	return ok
}

// IsTombstone reports whether id is explicitly mapped to null.
func (t *RawTable) IsTombstone(id string) bool {
	n, ok := t.Entries[id]
	return ok && n == nil
}

// Scripts holds the per-mod script settings.
type Scripts struct {
	Inherit string `yaml:"inherit"`
	Gen     int    `yaml:"gen"`
}

// ModFiles is everything a mod declares on its own, before inheritance.
type ModFiles struct {
	Mod     string
	Dir     string
	Scripts Scripts
	Tables  map[Kind]*RawTable
}

// Table returns the raw table for kind, never nil.
func (m *ModFiles) Table(kind Kind) *RawTable {
	if t, ok := m.Tables[kind]; ok {
		return t
	}
	return NewRawTable()
}

// Loader reads data files from a filesystem rooted at the data directory.
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader over fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{fsys: fsys, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ModDir returns the directory holding a mod's files.
func ModDir(mod string) string {
	if mod == BaseMod {
		return "."
	}
	return path.Join(ModsDir, mod)
}

// Mods lists the non-base mods present under mods/, sorted.
// A missing mods directory means there are none.
func (l *Loader) Mods() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ModsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: ModsDir, Message: "listing mods", Err: err}
	}

	var mods []string
	for _, e := range entries {
		if e.IsDir() {
			mods = append(mods, e.Name())
		}
	}
	sort.Strings(mods)
	return mods, nil
}

// LoadMod reads every table of one mod. Missing files yield empty tables.
func (l *Loader) LoadMod(mod string) (*ModFiles, error) {
	dir := ModDir(mod)
	files := &ModFiles{
		Mod:    mod,
		Dir:    dir,
		Tables: make(map[Kind]*RawTable, len(TableKinds)),
	}

	if err := l.loadScripts(path.Join(dir, "scripts.yaml"), &files.Scripts); err != nil {
		return nil, err
	}

	for _, kind := range TableKinds {
		p := path.Join(dir, kind.FileName())
		table, err := l.loadTable(p, scalarKinds[kind])
		if err != nil {
			return nil, err
		}
		files.Tables[kind] = table
	}

	l.logger.Debug("mod files loaded",
		"mod", mod,
		"dir", dir,
		"pokedex", files.Table(KindPokedex).Len(),
		"moves", files.Table(KindMoves).Len(),
	)
	return files, nil
}

func (l *Loader) readFile(p string) ([]byte, bool, error) {
	b, err := fs.ReadFile(l.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &LoadError{Code: ErrCodeReadFailed, Path: p, Message: "reading file", Err: err}
	}
	return b, true, nil
}

func (l *Loader) loadScripts(p string, out *Scripts) error {
	b, ok, err := l.readFile(p)
	if err != nil || !ok {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return &LoadError{Code: ErrCodeMalformedFile, Path: p, Message: err.Error(), Err: err}
	}
	return nil
}

// loadTable decodes one id-keyed mapping file.
func (l *Loader) loadTable(p string, scalarValues bool) (*RawTable, error) {
	table := NewRawTable()
	b, ok, err := l.readFile(p)
	if err != nil || !ok {
		return table, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeMalformedFile, Path: p, Message: err.Error(), Err: err}
	}
	if doc.Kind == 0 {
		// Empty file.
		return table, nil
	}
	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return table, nil
		}
		root = resolveAlias(root.Content[0])
	}
	if isNull(root) {
		return table, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, malformed(p, "top level must be a mapping of id to entry")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], resolveAlias(root.Content[i+1])
		id := ToID(key.Value)
		if id == "" {
			return nil, malformed(p, "line %d: key %q has no alphanumeric characters", key.Line, key.Value)
		}
		if _, dup := table.Entries[id]; dup {
			return nil, malformed(p, "line %d: duplicate id %q", key.Line, id)
		}

		switch {
		case isNull(value):
			value = nil
		case scalarValues && value.Kind == yaml.ScalarNode:
		case !scalarValues && value.Kind == yaml.MappingNode:
		default:
			return nil, malformed(p, "line %d: entry %q has the wrong shape", value.Line, id)
		}

		table.Order = append(table.Order, id)
		table.Entries[id] = value
		table.Keys[id] = key.Value
	}
	return table, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// IsPartial reports whether an entry node carries `inherit: true`.
func IsPartial(n *yaml.Node) bool {
	if n == nil || n.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == InheritKey {
			var v bool
			if err := n.Content[i+1].Decode(&v); err == nil {
				return v
			}
		}
	}
	return false
}

// MergePartial returns a new mapping node holding the child's fields (minus
// the inherit marker) followed by every parent field the child did not set.
func MergePartial(parent, child *yaml.Node) (*yaml.Node, error) {
	if child == nil || child.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("partial override must be a mapping")
	}
	merged := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: child.Line, Column: child.Column}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(child.Content); i += 2 {
		key := child.Content[i].Value
		if key == InheritKey {
			continue
		}
		seen[key] = true
		merged.Content = append(merged.Content, child.Content[i], child.Content[i+1])
	}
	if parent != nil && parent.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(parent.Content); i += 2 {
			key := parent.Content[i].Value
			if seen[key] {
				continue
			}
			merged.Content = append(merged.Content, parent.Content[i], parent.Content[i+1])
		}
	}
	return merged, nil
}
