// Package learnset decides whether a species can know a move under a
// format's rules, and accumulates the ways it could have been obtained
// across every move of one set.
package learnset

import (
	"fmt"

	"github.com/DatSpookTho/Lanette/internal/dex"
)

// Source is one concrete way a Pokémon could have been obtained with a
// move: bred from a specific father, received from a specific event, and so
// on.
type Source struct {
	Gen    int
	Method dex.LearnMethod

	// Tradeback marks a gen 1 source reached by trading a gen 2 Pokémon back.
	Tradeback bool

	// Species is the father for egg sources, the recipient for event
	// sources, and the bred species for generic gen 6+ egg sources (empty
	// when it has no prevo).
	Species string

	// Event is the event index for event sources.
	Event int
}

// String renders the compact source code, e.g. "3Egrowlithe", "1ETsmeargle",
// "4S0 eevee", "5D" or "7V".
func (s Source) String() string {
	t := ""
	if s.Tradeback {
		t = "T"
	}
	switch s.Method {
	case dex.MethodEgg:
		return fmt.Sprintf("%d%s%s%s", s.Gen, s.Method, t, s.Species)
	case dex.MethodEvent:
		return fmt.Sprintf("%d%s%s%d %s", s.Gen, s.Method, t, s.Event, s.Species)
	}
	return fmt.Sprintf("%d%s", s.Gen, s.Method)
}

// MarshalText renders the source code.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
