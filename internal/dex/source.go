package dex

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MaxSourceGen is the newest generation a learn source may name.
const MaxSourceGen = 7

// LearnMethod is the acquisition-method letter of a learnset source code.
type LearnMethod byte

const (
	MethodLevelUp        LearnMethod = 'L'
	MethodMachine        LearnMethod = 'M'
	MethodTutor          LearnMethod = 'T'
	MethodEgg            LearnMethod = 'E'
	MethodEvent          LearnMethod = 'S'
	MethodDreamWorld     LearnMethod = 'D'
	MethodVirtualConsole LearnMethod = 'V'
)

// String returns the method letter.
func (m LearnMethod) String() string {
	return string(rune(m))
}

// Valid reports whether m is a known method.
func (m LearnMethod) Valid() bool {
	switch m {
	case MethodLevelUp, MethodMachine, MethodTutor, MethodEgg, MethodEvent, MethodDreamWorld, MethodVirtualConsole:
		return true
	}
	return false
}

// LearnSource is one parsed learnset source code such as "7L1" or "4S0".
type LearnSource struct {
	Gen        int
	Method     LearnMethod
	Level      int // level-up only
	EventIndex int // event only
}

// ParseLearnSource parses a source code. The first character is the
// generation digit and the second the method letter; level-up codes carry a
// level and event codes an event index.
func ParseLearnSource(code string) (LearnSource, error) {
	if len(code) < 2 {
		return LearnSource{}, fmt.Errorf("learn source %q is too short", code)
	}
	gen := int(code[0] - '0')
	if gen < 1 || gen > MaxSourceGen {
		return LearnSource{}, fmt.Errorf("learn source %q: bad generation", code)
	}
	src := LearnSource{Gen: gen, Method: LearnMethod(code[1])}
	if !src.Method.Valid() {
		return LearnSource{}, fmt.Errorf("learn source %q: unknown method %q", code, code[1])
	}
	rest := code[2:]
	switch src.Method {
	case MethodLevelUp:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return LearnSource{}, fmt.Errorf("learn source %q: bad level", code)
		}
		src.Level = n
	case MethodEvent:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return LearnSource{}, fmt.Errorf("learn source %q: bad event index", code)
		}
		src.EventIndex = n
	default:
		if rest != "" {
			return LearnSource{}, fmt.Errorf("learn source %q: unexpected suffix", code)
		}
	}
	return src, nil
}

// String reproduces the source code.
func (s LearnSource) String() string {
	switch s.Method {
	case MethodLevelUp:
		return fmt.Sprintf("%d%s%d", s.Gen, s.Method, s.Level)
	case MethodEvent:
		return fmt.Sprintf("%d%s%d", s.Gen, s.Method, s.EventIndex)
	default:
		return fmt.Sprintf("%d%s", s.Gen, s.Method)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *LearnSource) UnmarshalYAML(n *yaml.Node) error {
	var code string
	if err := n.Decode(&code); err != nil {
		return err
	}
	parsed, err := ParseLearnSource(code)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*s = parsed
	return nil
}

// LearnSources is the ordered source list for one move. A bare scalar
// decodes as a one-element list.
type LearnSources []LearnSource

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LearnSources) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var one LearnSource
		if err := n.Decode(&one); err != nil {
			return err
		}
		*l = LearnSources{one}
		return nil
	}
	var many []LearnSource
	if err := n.Decode(&many); err != nil {
		return err
	}
	*l = many
	return nil
}
