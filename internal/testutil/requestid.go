package testutil

import "sync"

// FixedIDGenerator hands out request ids in order and then repeats the
// last one, so golden outputs do not depend on the clock.
//
// Implements paramsearch.IDGenerator. Safe for concurrent use.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator returns a generator for ids. With no ids it always
// returns "test-request".
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	if len(ids) == 0 {
		ids = []string{"test-request"}
	}
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next id.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.idx]
	if g.idx < len(g.ids)-1 {
		g.idx++
	}
	return id
}
