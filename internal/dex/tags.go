package dex

import (
	"sync"

	"github.com/DatSpookTho/Lanette/internal/data"
)

// TagKind groups display labels discovered while loading species.
type TagKind string

const (
	TagTier     TagKind = "tier"
	TagColor    TagKind = "color"
	TagEggGroup TagKind = "egggroup"
)

// defaultTierNames seeds the tier labels before any species is seen.
var defaultTierNames = []string{
	"Mega", "Uber", "OU", "UUBL", "UU", "RUBL", "RU", "NUBL", "NU", "PUBL", "PU",
	"NFE", "LC Uber", "LC", "Cap", "Cap LC", "Cap NFE",
}

// TagRegistry is the process-wide, append-only table of tag labels keyed by
// id. It only grows while mods load and only shrinks on Reset.
// Safe for concurrent use.
type TagRegistry struct {
	mu     sync.RWMutex
	labels map[TagKind]map[string]string
	order  map[TagKind][]string
}

// NewTagRegistry returns a registry seeded with the built-in tier labels.
func NewTagRegistry() *TagRegistry {
	r := &TagRegistry{}
	r.Reset()
	return r
}

// Register records label under its id unless the id is already known, and
// returns the id.
func (r *TagRegistry) Register(kind TagKind, label string) string {
	id := data.ToID(label)
	if id == "" {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(kind, id, label)
	return id
}

func (r *TagRegistry) registerLocked(kind TagKind, id, label string) {
	m, ok := r.labels[kind]
	if !ok {
		m = make(map[string]string)
		r.labels[kind] = m
	}
	if _, exists := m[id]; exists {
		return
	}
	m[id] = label
	r.order[kind] = append(r.order[kind], id)
}

// Label returns the display label for id.
func (r *TagRegistry) Label(kind TagKind, id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	label, ok := r.labels[kind][id]
	return label, ok
}

// IDs returns the known ids of kind in registration order.
func (r *TagRegistry) IDs(kind TagKind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order[kind]...)
}

// Reset drops every discovered label and restores the seed.
func (r *TagRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = make(map[TagKind]map[string]string)
	r.order = make(map[TagKind][]string)
	for _, label := range defaultTierNames {
		r.registerLocked(TagTier, data.ToID(label), label)
	}
}
