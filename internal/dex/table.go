package dex

import (
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// Table is one resolved id-keyed table of a mod. Entries are immutable once
// the table is built.
type Table[T any] struct {
	order   []string
	nodes   map[string]*yaml.Node
	entries map[string]*T
	keys    map[string]string
}

func newTable[T any]() *Table[T] {
	return &Table[T]{
		nodes:   make(map[string]*yaml.Node),
		entries: make(map[string]*T),
		keys:    make(map[string]string),
	}
}

// Get returns the entry for id.
func (t *Table[T]) Get(id string) (*T, bool) {
	v, ok := t.entries[id]
	return v, ok
}

// Has reports whether id is present.
func (t *Table[T]) Has(id string) bool {
	_, ok := t.entries[id]
	return ok
}

// IDs returns the ids in table order. The slice must not be modified.
func (t *Table[T]) IDs() []string {
	return t.order
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.order)
}

// Key returns the key id was declared under, e.g. "Fire" for "fire".
func (t *Table[T]) Key(id string) string {
	return t.keys[id]
}

func (t *Table[T]) add(id, key string, node *yaml.Node, v *T) {
	if _, ok := t.entries[id]; !ok {
		t.order = append(t.order, id)
	}
	t.nodes[id] = node
	t.entries[id] = v
	t.keys[id] = key
}

// resolveTable merges a mod's own raw entries over its parent's resolved
// table. Per id: a tombstone drops the parent entry, an unmentioned id is
// inherited (shared, or re-decoded into a fresh copy when clone is set), a
// partial override is merged field-wise over the parent node, and anything
// else replaces the parent entry outright.
func resolveTable[T any](file string, own *data.RawTable, parent *Table[T], clone bool) (*Table[T], error) {
	out := newTable[T]()

	decode := func(id string, node *yaml.Node) (*T, error) {
		v := new(T)
		if err := node.Decode(v); err != nil {
			return nil, &data.LoadError{
				Code:    data.ErrCodeMalformedFile,
				Path:    file,
				Message: fmt.Sprintf("line %d: entry %q: %v", node.Line, id, err),
				Err:     err,
			}
		}
		return v, nil
	}

	if parent != nil {
		for _, id := range parent.order {
			child, mentioned := own.Entries[id]
			switch {
			case mentioned && child == nil:
				continue
			case !mentioned:
				v := parent.entries[id]
				if clone {
					var err error
					if v, err = decode(id, parent.nodes[id]); err != nil {
						return nil, err
					}
				}
				out.add(id, parent.keys[id], parent.nodes[id], v)
			case data.IsPartial(child):
				merged, err := data.MergePartial(parent.nodes[id], child)
				if err != nil {
					return nil, err
				}
				v, err := decode(id, merged)
				if err != nil {
					return nil, err
				}
				out.add(id, own.Keys[id], merged, v)
			default:
				v, err := decode(id, child)
				if err != nil {
					return nil, err
				}
				out.add(id, own.Keys[id], child, v)
			}
		}
	}

	for _, id := range own.Order {
		node := own.Entries[id]
		if node == nil || out.Has(id) {
			continue
		}
		if data.IsPartial(node) {
			// Nothing to inherit from; keep the child's fields only.
			merged, err := data.MergePartial(nil, node)
			if err != nil {
				return nil, err
			}
			node = merged
		}
		v, err := decode(id, node)
		if err != nil {
			return nil, err
		}
		out.add(id, own.Keys[id], node, v)
	}
	return out, nil
}

func filePath(files *data.ModFiles, kind data.Kind) string {
	return path.Join(files.Dir, kind.FileName())
}
