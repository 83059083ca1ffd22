package learnset

import "slices"

// Query is the running state of one set's legality check. It starts out
// allowing every source up to the dex generation; each accepted move
// narrows it. A Query is not safe for concurrent use.
type Query struct {
	// Sources are the explicit ways the set could have been obtained.
	Sources []Source `json:"sources"`

	// SourcesBefore means "any source at or before this generation".
	SourcesBefore int `json:"sourcesBefore"`

	// SketchMove is the one move Smeargle learned through Sketch in its
	// obtaining generation.
	SketchMove string `json:"sketchMove,omitempty"`

	// HM is the transfer-blocked move already using the transfer slot.
	HM string `json:"hm,omitempty"`

	// RestrictiveMoves are the names of the moves that narrowed the query.
	RestrictiveMoves []string `json:"restrictiveMoves,omitempty"`

	// LimitedEgg lists egg moves that may be incompatible with each other;
	// "self" marks a move only chain-breedable from the species itself.
	LimitedEgg []string `json:"limitedEgg,omitempty"`

	// BabyOnly is the prevo the set must have been obtained as.
	BabyOnly string `json:"babyOnly,omitempty"`

	// FastCheck treats every egg move as a generic source instead of
	// enumerating fathers.
	FastCheck bool `json:"-"`
}

// NewQuery returns an unconstrained query for a dex of generation gen.
func NewQuery(gen int) *Query {
	return &Query{SourcesBefore: gen}
}

// Clone returns a deep copy of q.
func (q *Query) Clone() *Query {
	c := *q
	c.Sources = slices.Clone(q.Sources)
	c.RestrictiveMoves = slices.Clone(q.RestrictiveMoves)
	c.LimitedEgg = slices.Clone(q.LimitedEgg)
	return &c
}

// SourceStrings renders Sources as source codes.
func (q *Query) SourceStrings() []string {
	out := make([]string, len(q.Sources))
	for i, s := range q.Sources {
		out[i] = s.String()
	}
	return out
}
