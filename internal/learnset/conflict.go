package learnset

import "fmt"

// ConflictKind classifies why a move cannot be on a set.
type ConflictKind string

const (
	// ConflictInvalid means the move is never learnable under the rules.
	ConflictInvalid ConflictKind = "invalid"

	// ConflictIncompatibleAbility means every source predates the species'
	// hidden ability.
	ConflictIncompatibleAbility ConflictKind = "incompatible-ability"

	// ConflictPastGenerationOnly means the move is only learnable before the
	// format's minimum generation.
	ConflictPastGenerationOnly ConflictKind = "past-generation-only"

	// ConflictOversketched means a second move needs the one Sketch slot.
	ConflictOversketched ConflictKind = "oversketched"

	// ConflictIncompatibleTransfer means a second transfer-blocked move
	// needs the one transfer slot.
	ConflictIncompatibleTransfer ConflictKind = "incompatible-transfer"

	// ConflictIncompatible means no source is shared with the set's other
	// moves.
	ConflictIncompatible ConflictKind = "incompatible"
)

// Conflict is a legality outcome, not an error.
type Conflict struct {
	Kind ConflictKind `json:"type"`

	// Gen is the format's minimum generation for past-generation-only.
	Gen int `json:"gen,omitempty"`

	// MaxSketches is set for oversketched.
	MaxSketches int `json:"maxSketches,omitempty"`
}

func (c *Conflict) String() string {
	switch c.Kind {
	case ConflictPastGenerationOnly:
		return fmt.Sprintf("%s (gen %d)", c.Kind, c.Gen)
	case ConflictOversketched:
		return fmt.Sprintf("%s (max %d)", c.Kind, c.MaxSketches)
	}
	return string(c.Kind)
}
